package donations

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fruitnut/fruitnut-backend/pkg/enums"
	"github.com/fruitnut/fruitnut-backend/pkg/pagination"
)

const dateLayout = "2006-01-02"

// DonationDTO is the transport shape of a donation with farm and center names.
type DonationDTO struct {
	ID                  uuid.UUID            `json:"id"`
	FarmID              uuid.UUID            `json:"farm_id"`
	FarmName            string               `json:"farm_name"`
	CenterID            *uuid.UUID           `json:"center_id,omitempty"`
	CenterName          *string              `json:"center_name,omitempty"`
	ShiftID             *uuid.UUID           `json:"shift_id,omitempty"`
	Date                string               `json:"date"`
	Fruit               string               `json:"fruit"`
	AmountPickedLbs     decimal.Decimal      `json:"amount_picked_lbs"`
	AmountDonatedLbs    decimal.Decimal      `json:"amount_donated_lbs"`
	VolunteerCount      int                  `json:"volunteer_count"`
	Status              enums.DonationStatus `json:"status"`
	NullificationReason *string              `json:"nullification_reason,omitempty"`
	CreatedAt           time.Time            `json:"created_at"`
}

// CreateDonationDTO is the farmer's new-donation payload.
type CreateDonationDTO struct {
	CenterID         *uuid.UUID      `json:"center_id,omitempty"`
	ShiftID          *uuid.UUID      `json:"shift_id,omitempty"`
	Date             string          `json:"date" validate:"required"`
	Fruit            string          `json:"fruit" validate:"required"`
	AmountPickedLbs  decimal.Decimal `json:"amount_picked_lbs"`
	AmountDonatedLbs decimal.Decimal `json:"amount_donated_lbs"`
	VolunteerCount   int             `json:"volunteer_count" validate:"min=0"`
}

// UpdateDonationDTO edits a donation. Nil fields are left unchanged.
type UpdateDonationDTO struct {
	CenterID         *uuid.UUID       `json:"center_id,omitempty"`
	Date             *string          `json:"date,omitempty"`
	Fruit            *string          `json:"fruit,omitempty" validate:"omitempty,min=1"`
	AmountPickedLbs  *decimal.Decimal `json:"amount_picked_lbs,omitempty"`
	AmountDonatedLbs *decimal.Decimal `json:"amount_donated_lbs,omitempty"`
	VolunteerCount   *int             `json:"volunteer_count,omitempty" validate:"omitempty,min=0"`
}

// NullifyDTO voids a donation.
type NullifyDTO struct {
	Reason string `json:"reason" validate:"required"`
}

// ListResult is one page of donations.
type ListResult struct {
	Items  []DonationDTO `json:"items"`
	Cursor string        `json:"cursor"`
}

type donationRow struct {
	ID                  uuid.UUID            `gorm:"column:id"`
	FarmID              uuid.UUID            `gorm:"column:farm_id"`
	FarmName            string               `gorm:"column:farm_name"`
	CenterID            *uuid.UUID           `gorm:"column:center_id"`
	CenterName          *string              `gorm:"column:center_name"`
	ShiftID             *uuid.UUID           `gorm:"column:shift_id"`
	Date                time.Time            `gorm:"column:date"`
	Fruit               string               `gorm:"column:fruit"`
	AmountPickedLbs     decimal.Decimal      `gorm:"column:amount_picked_lbs"`
	AmountDonatedLbs    decimal.Decimal      `gorm:"column:amount_donated_lbs"`
	VolunteerCount      int                  `gorm:"column:volunteer_count"`
	Status              enums.DonationStatus `gorm:"column:status"`
	NullificationReason *string              `gorm:"column:nullification_reason"`
	CreatedAt           time.Time            `gorm:"column:created_at"`
}

func (r donationRow) toDTO() DonationDTO {
	return DonationDTO{
		ID:                  r.ID,
		FarmID:              r.FarmID,
		FarmName:            r.FarmName,
		CenterID:            r.CenterID,
		CenterName:          r.CenterName,
		ShiftID:             r.ShiftID,
		Date:                r.Date.Format(dateLayout),
		Fruit:               r.Fruit,
		AmountPickedLbs:     r.AmountPickedLbs,
		AmountDonatedLbs:    r.AmountDonatedLbs,
		VolunteerCount:      r.VolunteerCount,
		Status:              r.Status,
		NullificationReason: r.NullificationReason,
		CreatedAt:           r.CreatedAt,
	}
}

func rowCursor(r donationRow) pagination.Cursor {
	return pagination.Cursor{CreatedAt: r.CreatedAt, ID: r.ID}
}
