package centers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fruitnut/fruitnut-backend/pkg/db"
	"github.com/fruitnut/fruitnut-backend/pkg/db/models"
	"github.com/fruitnut/fruitnut-backend/pkg/pagination"
)

// Repository exposes donation center persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new center.
func (r *Repository) Create(ctx context.Context, dto CreateCenterDTO) (*models.DonationCenter, error) {
	center := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(center).Error; err != nil {
		return nil, err
	}
	return center, nil
}

// FindByID loads a center.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.DonationCenter, error) {
	var center models.DonationCenter
	if err := r.db.WithContext(ctx).First(&center, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &center, nil
}

// List returns one keyset page of centers, newest first.
func (r *Repository) List(ctx context.Context, q pagination.Query) ([]models.DonationCenter, error) {
	var rows []models.DonationCenter
	err := r.db.WithContext(ctx).
		Model(&models.DonationCenter{}).
		Scopes(db.Paginate("donation_centers", q)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Update applies the non-nil settings fields and returns the fresh row.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, dto UpdateCenterDTO) (*models.DonationCenter, error) {
	cols := dto.columns()
	if len(cols) > 0 {
		cols["updated_at"] = time.Now().UTC()
		res := r.db.WithContext(ctx).Model(&models.DonationCenter{}).Where("id = ?", id).Updates(cols)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}
	return r.FindByID(ctx, id)
}
