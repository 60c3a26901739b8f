package profiles

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fruitnut/fruitnut-backend/pkg/db/models"
	"github.com/fruitnut/fruitnut-backend/pkg/enums"
)

// Repository exposes profile persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListByUser returns every profile of the user with farm and center names,
// oldest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.UserProfile, error) {
	var rows []models.UserProfile
	err := r.db.WithContext(ctx).
		Preload("Farm").
		Preload("Center").
		Where("user_id = ?", userID).
		Order("created_at").
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FindForUser loads one of the user's profiles.
func (r *Repository) FindForUser(ctx context.Context, userID, profileID uuid.UUID) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := r.db.WithContext(ctx).
		Preload("Farm").
		Preload("Center").
		Where("id = ? AND user_id = ?", profileID, userID).
		First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindByID loads a profile.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := r.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// RolesOf returns the roles the user already holds.
func (r *Repository) RolesOf(ctx context.Context, userID uuid.UUID) ([]enums.Role, error) {
	var roles []enums.Role
	err := r.db.WithContext(ctx).
		Model(&models.UserProfile{}).
		Where("user_id = ?", userID).
		Pluck("role", &roles).Error
	if err != nil {
		return nil, err
	}
	return roles, nil
}

// Create inserts a profile.
func (r *Repository) Create(ctx context.Context, profile *models.UserProfile) error {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Omit("Farm", "Center").Create(profile).Error
}

// UpdateVolunteer edits the volunteer fields of a profile.
func (r *Repository) UpdateVolunteer(ctx context.Context, id uuid.UUID, dto UpdateVolunteerDTO) error {
	cols := map[string]any{"updated_at": time.Now().UTC()}
	if dto.VolunteerName != nil {
		cols["volunteer_name"] = *dto.VolunteerName
	}
	if dto.Phone != nil {
		cols["phone"] = trimmedOrNil(dto.Phone)
	}
	return r.updateColumns(ctx, id, cols)
}

// SignWaiver marks the waiver as agreed at the given time.
func (r *Repository) SignWaiver(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.updateColumns(ctx, id, map[string]any{
		"waiver_agreed":    true,
		"waiver_agreed_at": at,
		"updated_at":       at,
	})
}

func (r *Repository) updateColumns(ctx context.Context, id uuid.UUID, cols map[string]any) error {
	res := r.db.WithContext(ctx).Model(&models.UserProfile{}).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
