package farms

import (
	"time"

	"github.com/google/uuid"

	"github.com/fruitnut/fruitnut-backend/pkg/db/models"
)

// FarmDTO is the transport shape of a farm.
type FarmDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	OwnerName string    `json:"owner_name"`
	Email     *string   `json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Address   *string   `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateFarmDTO carries the role-setup fields for a new farm.
type CreateFarmDTO struct {
	Name      string  `json:"name"`
	OwnerName string  `json:"owner_name"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone     *string `json:"phone,omitempty"`
	Address   *string `json:"address,omitempty"`
}

// UpdateFarmDTO is the farm settings payload. Nil fields are left unchanged.
type UpdateFarmDTO struct {
	Name      *string `json:"name,omitempty" validate:"omitempty,min=1"`
	OwnerName *string `json:"owner_name,omitempty" validate:"omitempty,min=1"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone     *string `json:"phone,omitempty"`
	Address   *string `json:"address,omitempty"`
}

func FromModel(f *models.Farm) *FarmDTO {
	if f == nil {
		return nil
	}
	return &FarmDTO{
		ID:        f.ID,
		Name:      f.Name,
		OwnerName: f.OwnerName,
		Email:     f.Email,
		Phone:     f.Phone,
		Address:   f.Address,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

func (c CreateFarmDTO) ToModel(userID uuid.UUID) *models.Farm {
	return &models.Farm{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      c.Name,
		OwnerName: c.OwnerName,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
	}
}

func (u UpdateFarmDTO) columns() map[string]any {
	cols := map[string]any{}
	if u.Name != nil {
		cols["name"] = *u.Name
	}
	if u.OwnerName != nil {
		cols["owner_name"] = *u.OwnerName
	}
	if u.Email != nil {
		cols["email"] = *u.Email
	}
	if u.Phone != nil {
		cols["phone"] = *u.Phone
	}
	if u.Address != nil {
		cols["address"] = *u.Address
	}
	return cols
}
