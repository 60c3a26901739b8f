package shifts

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fruitnut/fruitnut-backend/pkg/db/models"
	"github.com/fruitnut/fruitnut-backend/pkg/enums"
	"github.com/fruitnut/fruitnut-backend/pkg/pagination"
)

// DateLayout is the wire format of shift and donation dates.
const DateLayout = "2006-01-02"

const clockLayout = "15:04"

// DefaultVolunteerLimit applies when a shift is created without a limit.
const DefaultVolunteerLimit = 10

// ShiftDTO is the transport shape of a shift with its signup count.
type ShiftDTO struct {
	ID             uuid.UUID         `json:"id"`
	FarmID         uuid.UUID         `json:"farm_id"`
	FarmName       string            `json:"farm_name,omitempty"`
	CenterID       *uuid.UUID        `json:"center_id,omitempty"`
	CenterName     *string           `json:"center_name,omitempty"`
	Date           string            `json:"date"`
	StartTime      string            `json:"start_time"`
	EndTime        string            `json:"end_time"`
	Fruit          string            `json:"fruit"`
	VolunteerLimit int               `json:"volunteer_limit"`
	SignedUp       int64             `json:"signed_up"`
	Status         enums.ShiftStatus `json:"status"`
	Notes          *string           `json:"notes,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
}

// CreateShiftDTO is the farmer's new-shift payload.
type CreateShiftDTO struct {
	CenterID       *uuid.UUID `json:"center_id,omitempty"`
	Date           string     `json:"date" validate:"required"`
	StartTime      string     `json:"start_time" validate:"required"`
	EndTime        string     `json:"end_time" validate:"required"`
	Fruit          string     `json:"fruit" validate:"required"`
	VolunteerLimit int        `json:"volunteer_limit" validate:"omitempty,min=1"`
	Notes          *string    `json:"notes,omitempty"`
}

// UpdateShiftDTO edits a shift. Nil fields are left unchanged.
type UpdateShiftDTO struct {
	CenterID       *uuid.UUID         `json:"center_id,omitempty"`
	Date           *string            `json:"date,omitempty"`
	StartTime      *string            `json:"start_time,omitempty"`
	EndTime        *string            `json:"end_time,omitempty"`
	Fruit          *string            `json:"fruit,omitempty" validate:"omitempty,min=1"`
	VolunteerLimit *int               `json:"volunteer_limit,omitempty" validate:"omitempty,min=1"`
	Status         *enums.ShiftStatus `json:"status,omitempty"`
	Notes          *string            `json:"notes,omitempty"`
}

// ListResult is one page of shifts.
type ListResult struct {
	Items  []ShiftDTO `json:"items"`
	Cursor string     `json:"cursor"`
}

// SignupDTO is the transport shape of a volunteer signup.
type SignupDTO struct {
	ID               uuid.UUID       `json:"id"`
	ShiftID          uuid.UUID       `json:"shift_id"`
	ProfileID        uuid.UUID       `json:"profile_id"`
	VolunteerName    string          `json:"volunteer_name"`
	AmountPickedLbs  decimal.Decimal `json:"amount_picked_lbs"`
	AmountDonatedLbs decimal.Decimal `json:"amount_donated_lbs"`
	LoggedDonation   bool            `json:"logged_donation"`
	CreatedAt        time.Time       `json:"created_at"`
}

// LogSignupDTO records what a volunteer picked and donated on a shift.
type LogSignupDTO struct {
	AmountPickedLbs  decimal.Decimal `json:"amount_picked_lbs"`
	AmountDonatedLbs decimal.Decimal `json:"amount_donated_lbs"`
}

// ContributionDTO is one logged signup of a volunteer.
type ContributionDTO struct {
	SignupID         uuid.UUID       `json:"signup_id"`
	ShiftID          uuid.UUID       `json:"shift_id"`
	FarmName         string          `json:"farm_name"`
	Date             string          `json:"date"`
	Fruit            string          `json:"fruit"`
	AmountPickedLbs  decimal.Decimal `json:"amount_picked_lbs"`
	AmountDonatedLbs decimal.Decimal `json:"amount_donated_lbs"`
}

// Contributions lists a volunteer's logged signups with totals.
type Contributions struct {
	Items           []ContributionDTO `json:"items"`
	TotalPickedLbs  decimal.Decimal   `json:"total_picked_lbs"`
	TotalDonatedLbs decimal.Decimal   `json:"total_donated_lbs"`
	ShiftCount      int               `json:"shift_count"`
}

type shiftRow struct {
	ID             uuid.UUID         `gorm:"column:id"`
	FarmID         uuid.UUID         `gorm:"column:farm_id"`
	FarmName       string            `gorm:"column:farm_name"`
	CenterID       *uuid.UUID        `gorm:"column:center_id"`
	CenterName     *string           `gorm:"column:center_name"`
	Date           time.Time         `gorm:"column:date"`
	StartTime      string            `gorm:"column:start_time"`
	EndTime        string            `gorm:"column:end_time"`
	Fruit          string            `gorm:"column:fruit"`
	VolunteerLimit int               `gorm:"column:volunteer_limit"`
	SignupCount    int64             `gorm:"column:signup_count"`
	Status         enums.ShiftStatus `gorm:"column:status"`
	Notes          *string           `gorm:"column:notes"`
	CreatedAt      time.Time         `gorm:"column:created_at"`
}

type contributionRow struct {
	SignupID         uuid.UUID       `gorm:"column:signup_id"`
	ShiftID          uuid.UUID       `gorm:"column:shift_id"`
	FarmName         string          `gorm:"column:farm_name"`
	Date             time.Time       `gorm:"column:date"`
	Fruit            string          `gorm:"column:fruit"`
	AmountPickedLbs  decimal.Decimal `gorm:"column:amount_picked_lbs"`
	AmountDonatedLbs decimal.Decimal `gorm:"column:amount_donated_lbs"`
}

func (r shiftRow) toDTO() ShiftDTO {
	return ShiftDTO{
		ID:             r.ID,
		FarmID:         r.FarmID,
		FarmName:       r.FarmName,
		CenterID:       r.CenterID,
		CenterName:     r.CenterName,
		Date:           r.Date.Format(DateLayout),
		StartTime:      r.StartTime,
		EndTime:        r.EndTime,
		Fruit:          r.Fruit,
		VolunteerLimit: r.VolunteerLimit,
		SignedUp:       r.SignupCount,
		Status:         r.Status,
		Notes:          r.Notes,
		CreatedAt:      r.CreatedAt,
	}
}

func rowCursor(r shiftRow) pagination.Cursor {
	return pagination.Cursor{CreatedAt: r.CreatedAt, ID: r.ID}
}

func signupFromModel(m *models.ShiftSignup) SignupDTO {
	return SignupDTO{
		ID:               m.ID,
		ShiftID:          m.ShiftID,
		ProfileID:        m.ProfileID,
		VolunteerName:    m.VolunteerName,
		AmountPickedLbs:  m.AmountPickedLbs,
		AmountDonatedLbs: m.AmountDonatedLbs,
		LoggedDonation:   m.LoggedDonation,
		CreatedAt:        m.CreatedAt,
	}
}
