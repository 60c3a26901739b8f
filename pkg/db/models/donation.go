package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fruitnut/fruitnut-backend/pkg/enums"
)

// Donation is a farm's record of fruit picked and handed to a center.
type Donation struct {
	ID                  uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	FarmID              uuid.UUID            `gorm:"column:farm_id;type:uuid;not null"`
	CenterID            *uuid.UUID           `gorm:"column:center_id;type:uuid"`
	ShiftID             *uuid.UUID           `gorm:"column:shift_id;type:uuid"`
	Date                time.Time            `gorm:"column:date;type:date;not null"`
	Fruit               string               `gorm:"column:fruit;not null"`
	AmountPickedLbs     decimal.Decimal      `gorm:"column:amount_picked_lbs;type:numeric(12,2);not null;default:0"`
	AmountDonatedLbs    decimal.Decimal      `gorm:"column:amount_donated_lbs;type:numeric(12,2);not null;default:0"`
	VolunteerCount      int                  `gorm:"column:volunteer_count;not null;default:0"`
	Status              enums.DonationStatus `gorm:"column:status;type:text;not null;default:pending"`
	NullificationReason *string              `gorm:"column:nullification_reason"`
	CreatedAt           time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time            `gorm:"column:updated_at;autoUpdateTime"`

	Farm   *Farm           `gorm:"foreignKey:FarmID"`
	Center *DonationCenter `gorm:"foreignKey:CenterID"`
}
