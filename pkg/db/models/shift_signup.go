package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShiftSignup records a volunteer profile joining a shift and, once the farm
// logs it, how much that volunteer picked and donated.
type ShiftSignup struct {
	ID               uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	ShiftID          uuid.UUID       `gorm:"column:shift_id;type:uuid;not null"`
	ProfileID        uuid.UUID       `gorm:"column:profile_id;type:uuid;not null"`
	VolunteerName    string          `gorm:"column:volunteer_name;not null"`
	AmountPickedLbs  decimal.Decimal `gorm:"column:amount_picked_lbs;type:numeric(12,2);not null;default:0"`
	AmountDonatedLbs decimal.Decimal `gorm:"column:amount_donated_lbs;type:numeric(12,2);not null;default:0"`
	LoggedDonation   bool            `gorm:"column:logged_donation;not null;default:false"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime"`

	Shift *Shift `gorm:"foreignKey:ShiftID"`
}
