package reports

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fruitnut/fruitnut-backend/pkg/db/models"
	"github.com/fruitnut/fruitnut-backend/pkg/enums"
)

// Repository reads the donation and shift rows that reports aggregate.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FarmDonations returns the farm's donations that are not nullified.
func (r *Repository) FarmDonations(ctx context.Context, farmID uuid.UUID) ([]farmDonationRow, error) {
	var rows []farmDonationRow
	err := r.db.WithContext(ctx).
		Table("donations").
		Select(`donations.fruit, donations.amount_picked_lbs, donations.amount_donated_lbs,
donations.volunteer_count, donation_centers.name AS center_name`).
		Joins("LEFT JOIN donation_centers ON donation_centers.id = donations.center_id").
		Where("donations.farm_id = ? AND donations.status <> ?", farmID, enums.DonationStatusNullified).
		Order("donations.date DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CenterDonations returns the donations assigned to the center that are not
// nullified.
func (r *Repository) CenterDonations(ctx context.Context, centerID uuid.UUID) ([]centerDonationRow, error) {
	var rows []centerDonationRow
	err := r.db.WithContext(ctx).
		Table("donations").
		Select("donations.fruit, donations.amount_donated_lbs, farms.name AS farm_name").
		Joins("JOIN farms ON farms.id = donations.farm_id").
		Where("donations.center_id = ? AND donations.status <> ?", centerID, enums.DonationStatusNullified).
		Order("donations.date DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CountActiveShifts counts the farm's shifts still accepting volunteers.
func (r *Repository) CountActiveShifts(ctx context.Context, farmID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Shift{}).
		Where("farm_id = ? AND status = ?", farmID, enums.ShiftStatusActive).
		Count(&count).Error
	return count, err
}
