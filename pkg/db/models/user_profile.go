package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/fruitnut/fruitnut-backend/pkg/enums"
)

// UserProfile assigns a role to a user. Role-specific linkage lives in the
// nullable columns: FarmID for farmers, CenterID for centers, VolunteerName
// and the waiver fields for volunteers.
type UserProfile struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	UserID         uuid.UUID  `gorm:"column:user_id;type:uuid;not null"`
	Role           enums.Role `gorm:"column:role;type:text;not null"`
	FarmID         *uuid.UUID `gorm:"column:farm_id;type:uuid"`
	CenterID       *uuid.UUID `gorm:"column:center_id;type:uuid"`
	VolunteerName  *string    `gorm:"column:volunteer_name"`
	Phone          *string    `gorm:"column:phone"`
	WaiverAgreed   bool       `gorm:"column:waiver_agreed;not null;default:false"`
	WaiverAgreedAt *time.Time `gorm:"column:waiver_agreed_at"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime"`

	Farm   *Farm           `gorm:"foreignKey:FarmID"`
	Center *DonationCenter `gorm:"foreignKey:CenterID"`
}

func (UserProfile) TableName() string { return "user_profiles" }
