package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/fruitnut/fruitnut-backend/pkg/enums"
)

// Shift is a scheduled harvest window at a farm.
type Shift struct {
	ID             uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	FarmID         uuid.UUID         `gorm:"column:farm_id;type:uuid;not null"`
	CenterID       *uuid.UUID        `gorm:"column:center_id;type:uuid"`
	Date           time.Time         `gorm:"column:date;type:date;not null"`
	StartTime      string            `gorm:"column:start_time;not null"`
	EndTime        string            `gorm:"column:end_time;not null"`
	Fruit          string            `gorm:"column:fruit;not null"`
	VolunteerLimit int               `gorm:"column:volunteer_limit;not null;default:10"`
	Status         enums.ShiftStatus `gorm:"column:status;type:text;not null;default:active"`
	Notes          *string           `gorm:"column:notes"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time         `gorm:"column:updated_at;autoUpdateTime"`

	Farm   *Farm           `gorm:"foreignKey:FarmID"`
	Center *DonationCenter `gorm:"foreignKey:CenterID"`
}
