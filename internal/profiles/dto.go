package profiles

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fruitnut/fruitnut-backend/internal/centers"
	"github.com/fruitnut/fruitnut-backend/internal/farms"
	"github.com/fruitnut/fruitnut-backend/pkg/db/models"
	"github.com/fruitnut/fruitnut-backend/pkg/enums"
)

// ProfileDTO is the transport shape of a role profile.
type ProfileDTO struct {
	ID             uuid.UUID  `json:"id"`
	UserID         uuid.UUID  `json:"user_id"`
	Role           enums.Role `json:"role"`
	FarmID         *uuid.UUID `json:"farm_id,omitempty"`
	FarmName       *string    `json:"farm_name,omitempty"`
	CenterID       *uuid.UUID `json:"center_id,omitempty"`
	CenterName     *string    `json:"center_name,omitempty"`
	VolunteerName  *string    `json:"volunteer_name,omitempty"`
	Phone          *string    `json:"phone,omitempty"`
	WaiverAgreed   bool       `json:"waiver_agreed"`
	WaiverAgreedAt *time.Time `json:"waiver_agreed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// SetupRequest is the role-setup payload. Each selected role needs its block.
type SetupRequest struct {
	Roles     []enums.Role         `json:"roles" validate:"required,min=1,dive,oneof=farmer volunteer center"`
	Farm      *farms.CreateFarmDTO `json:"farm,omitempty"`
	Volunteer *VolunteerSetup      `json:"volunteer,omitempty"`
	Center    *CenterSetup         `json:"center,omitempty"`
}

// VolunteerSetup carries the volunteer role fields.
type VolunteerSetup struct {
	VolunteerName string  `json:"volunteer_name"`
	Phone         *string `json:"phone,omitempty"`
}

// CenterSetup either joins an existing center or creates a new one.
type CenterSetup struct {
	Mode     enums.CenterSetupMode `json:"mode"`
	CenterID *uuid.UUID            `json:"center_id,omitempty"`
	centers.CreateCenterDTO
}

// UpdateVolunteerDTO edits the volunteer profile. Nil fields are left unchanged.
type UpdateVolunteerDTO struct {
	VolunteerName *string `json:"volunteer_name,omitempty" validate:"omitempty,min=1"`
	Phone         *string `json:"phone,omitempty"`
}

// WaiverRequest records the volunteer waiver.
type WaiverRequest struct {
	Agreed bool `json:"agreed"`
}

func FromModel(p *models.UserProfile) *ProfileDTO {
	if p == nil {
		return nil
	}
	dto := &ProfileDTO{
		ID:             p.ID,
		UserID:         p.UserID,
		Role:           p.Role,
		FarmID:         p.FarmID,
		CenterID:       p.CenterID,
		VolunteerName:  p.VolunteerName,
		Phone:          p.Phone,
		WaiverAgreed:   p.WaiverAgreed,
		WaiverAgreedAt: p.WaiverAgreedAt,
		CreatedAt:      p.CreatedAt,
	}
	if p.Farm != nil {
		name := p.Farm.Name
		dto.FarmName = &name
	}
	if p.Center != nil {
		name := p.Center.Name
		dto.CenterName = &name
	}
	return dto
}

func fromModels(rows []models.UserProfile) []ProfileDTO {
	out := make([]ProfileDTO, len(rows))
	for i := range rows {
		out[i] = *FromModel(&rows[i])
	}
	return out
}

func trimmedOrNil(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
