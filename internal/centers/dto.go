package centers

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fruitnut/fruitnut-backend/pkg/db/models"
	"github.com/fruitnut/fruitnut-backend/pkg/pagination"
)

// CenterDTO is the transport shape of a donation center.
type CenterDTO struct {
	ID          uuid.UUID        `json:"id"`
	Name        string           `json:"name"`
	Address     *string          `json:"address,omitempty"`
	Phone       *string          `json:"phone,omitempty"`
	Email       *string          `json:"email,omitempty"`
	CapacityLbs *decimal.Decimal `json:"capacity_lbs,omitempty"`
	Hours       *string          `json:"hours,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// CreateCenterDTO carries the role-setup fields for a new center.
type CreateCenterDTO struct {
	Name    string  `json:"name"`
	Address *string `json:"address,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
}

// UpdateCenterDTO is the center settings payload. Nil fields are left unchanged.
type UpdateCenterDTO struct {
	Name        *string          `json:"name,omitempty" validate:"omitempty,min=1"`
	Address     *string          `json:"address,omitempty"`
	Phone       *string          `json:"phone,omitempty"`
	Email       *string          `json:"email,omitempty" validate:"omitempty,email"`
	CapacityLbs *decimal.Decimal `json:"capacity_lbs,omitempty"`
	Hours       *string          `json:"hours,omitempty"`
}

// ListResult is one page of centers.
type ListResult struct {
	Items  []CenterDTO `json:"items"`
	Cursor string      `json:"cursor"`
}

func FromModel(c *models.DonationCenter) *CenterDTO {
	if c == nil {
		return nil
	}
	dto := &CenterDTO{
		ID:        c.ID,
		Name:      c.Name,
		Address:   c.Address,
		Phone:     c.Phone,
		Email:     c.Email,
		Hours:     c.Hours,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if c.CapacityLbs.Valid {
		capacity := c.CapacityLbs.Decimal
		dto.CapacityLbs = &capacity
	}
	return dto
}

func (c CreateCenterDTO) ToModel() *models.DonationCenter {
	return &models.DonationCenter{
		ID:      uuid.New(),
		Name:    c.Name,
		Address: c.Address,
		Phone:   c.Phone,
		Email:   c.Email,
	}
}

func (u UpdateCenterDTO) columns() map[string]any {
	cols := map[string]any{}
	if u.Name != nil {
		cols["name"] = *u.Name
	}
	if u.Address != nil {
		cols["address"] = *u.Address
	}
	if u.Phone != nil {
		cols["phone"] = *u.Phone
	}
	if u.Email != nil {
		cols["email"] = *u.Email
	}
	if u.CapacityLbs != nil {
		cols["capacity_lbs"] = decimal.NewNullDecimal(*u.CapacityLbs)
	}
	if u.Hours != nil {
		cols["hours"] = *u.Hours
	}
	return cols
}

func cursorOf(c models.DonationCenter) pagination.Cursor {
	return pagination.Cursor{CreatedAt: c.CreatedAt, ID: c.ID}
}
