package shifts

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fruitnut/fruitnut-backend/pkg/db"
	"github.com/fruitnut/fruitnut-backend/pkg/db/models"
	"github.com/fruitnut/fruitnut-backend/pkg/enums"
	"github.com/fruitnut/fruitnut-backend/pkg/pagination"
)

const shiftRowColumns = `shifts.id, shifts.farm_id, farms.name AS farm_name, shifts.center_id,
donation_centers.name AS center_name, shifts.date, shifts.start_time, shifts.end_time, shifts.fruit,
shifts.volunteer_limit, shifts.status, shifts.notes, shifts.created_at,
(SELECT COUNT(*) FROM shift_signups WHERE shift_signups.shift_id = shifts.id) AS signup_count`

// Repository exposes shift and signup persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) rows(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("shifts").
		Select(shiftRowColumns).
		Joins("JOIN farms ON farms.id = shifts.farm_id").
		Joins("LEFT JOIN donation_centers ON donation_centers.id = shifts.center_id")
}

// Create inserts a shift.
func (r *Repository) Create(ctx context.Context, shift *models.Shift) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(shift).Error
}

// FindByID loads a shift. With lock set the row is locked for update where
// the dialect supports it.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID, lock bool) (*models.Shift, error) {
	query := r.db.WithContext(ctx)
	if lock {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var shift models.Shift
	if err := query.First(&shift, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &shift, nil
}

// FindForFarm loads a shift owned by the farm.
func (r *Repository) FindForFarm(ctx context.Context, farmID, id uuid.UUID) (*models.Shift, error) {
	var shift models.Shift
	err := r.db.WithContext(ctx).
		Where("id = ? AND farm_id = ?", id, farmID).
		First(&shift).Error
	if err != nil {
		return nil, err
	}
	return &shift, nil
}

// Row loads one shift with names and signup count.
func (r *Repository) Row(ctx context.Context, id uuid.UUID) (*shiftRow, error) {
	var rows []shiftRow
	if err := r.rows(ctx).Where("shifts.id = ?", id).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rows[0], nil
}

// ListForFarm returns one page of the farm's shifts.
func (r *Repository) ListForFarm(ctx context.Context, farmID uuid.UUID, q pagination.Query) ([]shiftRow, error) {
	var rows []shiftRow
	err := r.rows(ctx).
		Where("shifts.farm_id = ?", farmID).
		Scopes(db.Paginate("shifts", q)).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByStatus returns one page of shifts in any of the statuses.
func (r *Repository) ListByStatus(ctx context.Context, statuses []enums.ShiftStatus, q pagination.Query) ([]shiftRow, error) {
	var rows []shiftRow
	err := r.rows(ctx).
		Where("shifts.status IN ?", statuses).
		Scopes(db.Paginate("shifts", q)).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Update writes the given columns of a shift.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, cols map[string]any) error {
	res := r.db.WithContext(ctx).Model(&models.Shift{}).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a farm's shift. Signups go with it.
func (r *Repository) Delete(ctx context.Context, farmID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ? AND farm_id = ?", id, farmID).Delete(&models.Shift{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CenterExists reports whether the donation center exists.
func (r *Repository) CenterExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.DonationCenter{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// CountSignups returns how many volunteers joined the shift.
func (r *Repository) CountSignups(ctx context.Context, shiftID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ShiftSignup{}).Where("shift_id = ?", shiftID).Count(&count).Error
	return count, err
}

// CreateSignup inserts a signup.
func (r *Repository) CreateSignup(ctx context.Context, signup *models.ShiftSignup) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(signup).Error
}

// ListSignups returns the signups of a shift, first come first.
func (r *Repository) ListSignups(ctx context.Context, shiftID uuid.UUID) ([]models.ShiftSignup, error) {
	var rows []models.ShiftSignup
	err := r.db.WithContext(ctx).
		Where("shift_id = ?", shiftID).
		Order("created_at").
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FindSignup loads a signup of the shift.
func (r *Repository) FindSignup(ctx context.Context, shiftID, signupID uuid.UUID) (*models.ShiftSignup, error) {
	var signup models.ShiftSignup
	err := r.db.WithContext(ctx).
		Where("id = ? AND shift_id = ?", signupID, shiftID).
		First(&signup).Error
	if err != nil {
		return nil, err
	}
	return &signup, nil
}

// LogSignup stores the picked and donated amounts and marks the signup logged.
func (r *Repository) LogSignup(ctx context.Context, signupID uuid.UUID, picked, donated decimal.Decimal) error {
	res := r.db.WithContext(ctx).
		Model(&models.ShiftSignup{}).
		Where("id = ?", signupID).
		Updates(map[string]any{
			"amount_picked_lbs":  picked,
			"amount_donated_lbs": donated,
			"logged_donation":    true,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListContributions returns the logged signups of a volunteer profile,
// newest shift first.
func (r *Repository) ListContributions(ctx context.Context, profileID uuid.UUID) ([]contributionRow, error) {
	var rows []contributionRow
	err := r.db.WithContext(ctx).
		Table("shift_signups").
		Select(`shift_signups.id AS signup_id, shift_signups.shift_id, farms.name AS farm_name,
shifts.date, shifts.fruit, shift_signups.amount_picked_lbs, shift_signups.amount_donated_lbs`).
		Joins("JOIN shifts ON shifts.id = shift_signups.shift_id").
		Joins("JOIN farms ON farms.id = shifts.farm_id").
		Where("shift_signups.profile_id = ? AND shift_signups.logged_donation = ?", profileID, true).
		Order("shifts.date DESC").
		Order("shift_signups.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
