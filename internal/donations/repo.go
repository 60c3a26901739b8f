package donations

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fruitnut/fruitnut-backend/pkg/db"
	"github.com/fruitnut/fruitnut-backend/pkg/db/models"
	"github.com/fruitnut/fruitnut-backend/pkg/enums"
	"github.com/fruitnut/fruitnut-backend/pkg/pagination"
)

const donationRowColumns = `donations.id, donations.farm_id, farms.name AS farm_name, donations.center_id,
donation_centers.name AS center_name, donations.shift_id, donations.date, donations.fruit,
donations.amount_picked_lbs, donations.amount_donated_lbs, donations.volunteer_count,
donations.status, donations.nullification_reason, donations.created_at`

// Repository exposes donation persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) rows(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("donations").
		Select(donationRowColumns).
		Joins("JOIN farms ON farms.id = donations.farm_id").
		Joins("LEFT JOIN donation_centers ON donation_centers.id = donations.center_id")
}

// Create inserts a donation.
func (r *Repository) Create(ctx context.Context, donation *models.Donation) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(donation).Error
}

// FindForFarm loads a donation owned by the farm.
func (r *Repository) FindForFarm(ctx context.Context, farmID, id uuid.UUID) (*models.Donation, error) {
	var donation models.Donation
	err := r.db.WithContext(ctx).
		Where("id = ? AND farm_id = ?", id, farmID).
		First(&donation).Error
	if err != nil {
		return nil, err
	}
	return &donation, nil
}

// FindForCenter loads a donation assigned to the center.
func (r *Repository) FindForCenter(ctx context.Context, centerID, id uuid.UUID) (*models.Donation, error) {
	var donation models.Donation
	err := r.db.WithContext(ctx).
		Where("id = ? AND center_id = ?", id, centerID).
		First(&donation).Error
	if err != nil {
		return nil, err
	}
	return &donation, nil
}

// Row loads one donation with farm and center names.
func (r *Repository) Row(ctx context.Context, id uuid.UUID) (*donationRow, error) {
	var rows []donationRow
	if err := r.rows(ctx).Where("donations.id = ?", id).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rows[0], nil
}

// ListForFarm returns one page of the farm's donations.
func (r *Repository) ListForFarm(ctx context.Context, farmID uuid.UUID, q pagination.Query) ([]donationRow, error) {
	var rows []donationRow
	err := r.rows(ctx).
		Where("donations.farm_id = ?", farmID).
		Scopes(db.Paginate("donations", q)).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListForCenter returns one page of the center's donations in the status.
func (r *Repository) ListForCenter(ctx context.Context, centerID uuid.UUID, status enums.DonationStatus, q pagination.Query) ([]donationRow, error) {
	var rows []donationRow
	err := r.rows(ctx).
		Where("donations.center_id = ? AND donations.status = ?", centerID, status).
		Scopes(db.Paginate("donations", q)).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Update writes the given columns of a donation.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, cols map[string]any) error {
	res := r.db.WithContext(ctx).Model(&models.Donation{}).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// TransitionFrom moves a donation from one status to another and reports
// whether the row was still in the expected status.
func (r *Repository) TransitionFrom(ctx context.Context, id uuid.UUID, from enums.DonationStatus, cols map[string]any) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Donation{}).
		Where("id = ? AND status = ?", id, from).
		Updates(cols)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// CenterExists reports whether the donation center exists.
func (r *Repository) CenterExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.DonationCenter{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// ShiftOwnedBy reports whether the shift belongs to the farm.
func (r *Repository) ShiftOwnedBy(ctx context.Context, farmID, shiftID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Shift{}).
		Where("id = ? AND farm_id = ?", shiftID, farmID).
		Count(&count).Error
	return count > 0, err
}
