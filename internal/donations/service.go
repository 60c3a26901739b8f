package donations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/fruitnut/fruitnut-backend/pkg/db"
	"github.com/fruitnut/fruitnut-backend/pkg/db/models"
	"github.com/fruitnut/fruitnut-backend/pkg/enums"
	pkgerrors "github.com/fruitnut/fruitnut-backend/pkg/errors"
	"github.com/fruitnut/fruitnut-backend/pkg/pagination"
)

// Service covers the farmer's donation log and the center's assignment queue.
type Service interface {
	ListForFarm(ctx context.Context, farmID uuid.UUID, params pagination.Params) (*ListResult, error)
	Create(ctx context.Context, farmID uuid.UUID, input CreateDonationDTO) (*DonationDTO, error)
	Update(ctx context.Context, farmID, donationID uuid.UUID, input UpdateDonationDTO) (*DonationDTO, error)
	Nullify(ctx context.Context, farmID, donationID uuid.UUID, input NullifyDTO) (*DonationDTO, error)

	ListAssignments(ctx context.Context, centerID uuid.UUID, params pagination.Params) (*ListResult, error)
	Complete(ctx context.Context, centerID, donationID uuid.UUID) (*DonationDTO, error)
}

type donationRecorder interface {
	Donated(fruit string, lbs decimal.Decimal)
	Transition(status string)
}

type service struct {
	repo    *Repository
	metrics donationRecorder
	now     func() time.Time
}

// ServiceParams bundles the dependencies of the donation service.
type ServiceParams struct {
	Repo    *Repository
	Metrics donationRecorder
	Now     func() time.Time
}

// NewService builds a donation service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("donation repository is required")
	}
	metrics := params.Metrics
	if metrics == nil {
		metrics = noopMetrics{}
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{repo: params.Repo, metrics: metrics, now: now}, nil
}

type noopMetrics struct{}

func (noopMetrics) Donated(string, decimal.Decimal) {}
func (noopMetrics) Transition(string)              {}

func (s *service) ListForFarm(ctx context.Context, farmID uuid.UUID, params pagination.Params) (*ListResult, error) {
	q, err := params.Query()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	rows, err := s.repo.ListForFarm(ctx, farmID, q)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list donations")
	}
	return toList(rows, params.Limit), nil
}

func (s *service) ListAssignments(ctx context.Context, centerID uuid.UUID, params pagination.Params) (*ListResult, error) {
	q, err := params.Query()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	rows, err := s.repo.ListForCenter(ctx, centerID, enums.DonationStatusPending, q)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list assignments")
	}
	return toList(rows, params.Limit), nil
}

func toList(rows []donationRow, limit int) *ListResult {
	rows, next := pagination.Page(rows, limit, rowCursor)
	items := make([]DonationDTO, len(rows))
	for i, row := range rows {
		items[i] = row.toDTO()
	}
	return &ListResult{Items: items, Cursor: next}
}

func (s *service) Create(ctx context.Context, farmID uuid.UUID, input CreateDonationDTO) (*DonationDTO, error) {
	date, err := parseDate(input.Date)
	if err != nil {
		return nil, err
	}
	fruit := strings.TrimSpace(input.Fruit)
	if fruit == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "fruit is required")
	}
	if err := validateAmounts(input.AmountPickedLbs, input.AmountDonatedLbs); err != nil {
		return nil, err
	}
	if input.VolunteerCount < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "volunteer_count must not be negative")
	}
	if err := s.checkCenter(ctx, input.CenterID); err != nil {
		return nil, err
	}
	if input.ShiftID != nil {
		ok, err := s.repo.ShiftOwnedBy(ctx, farmID, *input.ShiftID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check shift")
		}
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shift not found")
		}
	}

	donation := &models.Donation{
		ID:               uuid.New(),
		FarmID:           farmID,
		CenterID:         input.CenterID,
		ShiftID:          input.ShiftID,
		Date:             date,
		Fruit:            fruit,
		AmountPickedLbs:  input.AmountPickedLbs.Round(2),
		AmountDonatedLbs: input.AmountDonatedLbs.Round(2),
		VolunteerCount:   input.VolunteerCount,
		Status:           enums.DonationStatusPending,
	}
	if err := s.repo.Create(ctx, donation); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create donation")
	}
	s.metrics.Donated(fruit, donation.AmountDonatedLbs)
	return s.row(ctx, donation.ID)
}

func (s *service) Update(ctx context.Context, farmID, donationID uuid.UUID, input UpdateDonationDTO) (*DonationDTO, error) {
	current, err := s.repo.FindForFarm(ctx, farmID, donationID)
	if err != nil {
		return nil, db.MapError(err, "donation not found")
	}
	if !current.Status.IsEditable() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "nullified donations cannot be edited")
	}

	cols := map[string]any{}
	if input.CenterID != nil {
		if err := s.checkCenter(ctx, input.CenterID); err != nil {
			return nil, err
		}
		cols["center_id"] = *input.CenterID
	}
	if input.Date != nil {
		date, err := parseDate(*input.Date)
		if err != nil {
			return nil, err
		}
		cols["date"] = date
	}
	if input.Fruit != nil {
		fruit := strings.TrimSpace(*input.Fruit)
		if fruit == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "fruit must not be empty")
		}
		cols["fruit"] = fruit
	}
	picked, donated := current.AmountPickedLbs, current.AmountDonatedLbs
	if input.AmountPickedLbs != nil {
		picked = input.AmountPickedLbs.Round(2)
		cols["amount_picked_lbs"] = picked
	}
	if input.AmountDonatedLbs != nil {
		donated = input.AmountDonatedLbs.Round(2)
		cols["amount_donated_lbs"] = donated
	}
	if err := validateAmounts(picked, donated); err != nil {
		return nil, err
	}
	if input.VolunteerCount != nil {
		if *input.VolunteerCount < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "volunteer_count must not be negative")
		}
		cols["volunteer_count"] = *input.VolunteerCount
	}

	if len(cols) > 0 {
		cols["updated_at"] = s.now().UTC()
		if err := s.repo.Update(ctx, donationID, cols); err != nil {
			return nil, db.MapError(err, "donation not found")
		}
	}
	return s.row(ctx, donationID)
}

func (s *service) Nullify(ctx context.Context, farmID, donationID uuid.UUID, input NullifyDTO) (*DonationDTO, error) {
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reason is required")
	}
	current, err := s.repo.FindForFarm(ctx, farmID, donationID)
	if err != nil {
		return nil, db.MapError(err, "donation not found")
	}
	if current.Status == enums.DonationStatusNullified {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "donation is already nullified")
	}
	err = s.repo.Update(ctx, donationID, map[string]any{
		"status":               enums.DonationStatusNullified,
		"nullification_reason": reason,
		"updated_at":           s.now().UTC(),
	})
	if err != nil {
		return nil, db.MapError(err, "donation not found")
	}
	s.metrics.Transition(enums.DonationStatusNullified.String())
	return s.row(ctx, donationID)
}

// Complete marks a pending donation assigned to the center as received.
func (s *service) Complete(ctx context.Context, centerID, donationID uuid.UUID) (*DonationDTO, error) {
	current, err := s.repo.FindForCenter(ctx, centerID, donationID)
	if err != nil {
		return nil, db.MapError(err, "donation not found")
	}
	if current.Status != enums.DonationStatusPending {
		return nil, pkgerrors.Newf(pkgerrors.CodeStateConflict, "donation is %s", current.Status)
	}
	ok, err := s.repo.TransitionFrom(ctx, donationID, enums.DonationStatusPending, map[string]any{
		"status":     enums.DonationStatusCompleted,
		"updated_at": s.now().UTC(),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "complete donation")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "donation is no longer pending")
	}
	s.metrics.Transition(enums.DonationStatusCompleted.String())
	return s.row(ctx, donationID)
}

func (s *service) checkCenter(ctx context.Context, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	ok, err := s.repo.CenterExists(ctx, *id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check center")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "center not found")
	}
	return nil
}

func (s *service) row(ctx context.Context, id uuid.UUID) (*DonationDTO, error) {
	row, err := s.repo.Row(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "donation not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load donation")
	}
	dto := row.toDTO()
	return &dto, nil
}

func validateAmounts(picked, donated decimal.Decimal) error {
	if picked.IsNegative() || donated.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "amounts must not be negative")
	}
	if donated.GreaterThan(picked) {
		return pkgerrors.New(pkgerrors.CodeValidation, "donated amount cannot exceed picked amount")
	}
	return nil
}

func parseDate(raw string) (time.Time, error) {
	date, err := time.Parse(dateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "date must be YYYY-MM-DD")
	}
	return date, nil
}
