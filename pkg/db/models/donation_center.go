package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DonationCenter struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	Name        string              `gorm:"column:name;not null"`
	Address     *string             `gorm:"column:address"`
	Phone       *string             `gorm:"column:phone"`
	Email       *string             `gorm:"column:email"`
	CapacityLbs decimal.NullDecimal `gorm:"column:capacity_lbs;type:numeric(12,2)"`
	Hours       *string             `gorm:"column:hours"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (DonationCenter) TableName() string { return "donation_centers" }
