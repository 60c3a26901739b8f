package farms

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fruitnut/fruitnut-backend/pkg/db/models"
)

// Repository exposes farm persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a farm owned by userID.
func (r *Repository) Create(ctx context.Context, userID uuid.UUID, dto CreateFarmDTO) (*models.Farm, error) {
	farm := dto.ToModel(userID)
	if err := r.db.WithContext(ctx).Create(farm).Error; err != nil {
		return nil, err
	}
	return farm, nil
}

// FindByID loads a farm.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Farm, error) {
	var farm models.Farm
	if err := r.db.WithContext(ctx).First(&farm, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &farm, nil
}

// Update applies the non-nil settings fields and returns the fresh row.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, dto UpdateFarmDTO) (*models.Farm, error) {
	cols := dto.columns()
	if len(cols) > 0 {
		cols["updated_at"] = time.Now().UTC()
		res := r.db.WithContext(ctx).Model(&models.Farm{}).Where("id = ?", id).Updates(cols)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}
	return r.FindByID(ctx, id)
}
