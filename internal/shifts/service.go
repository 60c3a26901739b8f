package shifts

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

// Service covers the farmer's shift management and the volunteer's shift
// board, signups and contribution history.
type Service interface {
	ListForFarm(ctx context.Context, farmID uuid.UUID, params pagination.Params) (*ListResult, error)
	Create(ctx context.Context, farmID uuid.UUID, input CreateShiftDTO) (*ShiftDTO, error)
	Update(ctx context.Context, farmID, shiftID uuid.UUID, input UpdateShiftDTO) (*ShiftDTO, error)
	Delete(ctx context.Context, farmID, shiftID uuid.UUID) error
	ListSignups(ctx context.Context, farmID, shiftID uuid.UUID) ([]SignupDTO, error)
	LogSignup(ctx context.Context, farmID, shiftID, signupID uuid.UUID, input LogSignupDTO) (*SignupDTO, error)

	ListOpen(ctx context.Context, params pagination.Params) (*ListResult, error)
	SignUp(ctx context.Context, profileID, shiftID uuid.UUID) (*SignupDTO, error)
	Contributions(ctx context.Context, profileID uuid.UUID) (*Contributions, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type signupRecorder interface {
	Signup(outcome string)
}

// ServiceParams bundles the dependencies of the shift service.
type ServiceParams struct {
	DB      txRunner
	Repo    *Repository
	Metrics signupRecorder
}

type service struct {
	db      txRunner
	repo    *Repository
	metrics signupRecorder
}

// NewService builds a shift service.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client is required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("shift repository is required")
	}
	metrics := params.Metrics
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &service{db: params.DB, repo: params.Repo, metrics: metrics}, nil
}

type noopMetrics struct{}

func (noopMetrics) Signup(string) {}

func (s *service) ListForFarm(ctx context.Context, farmID uuid.UUID, params pagination.Params) (*ListResult, error) {
	q, err := params.Query()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	rows, err := s.repo.ListForFarm(ctx, farmID, q)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list shifts")
	}
	return toList(rows, params.Limit), nil
}

func (s *service) ListOpen(ctx context.Context, params pagination.Params) (*ListResult, error) {
	q, err := params.Query()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	statuses := []enums.ShiftStatus{enums.ShiftStatusActive, enums.ShiftStatusFull}
	rows, err := s.repo.ListByStatus(ctx, statuses, q)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list shifts")
	}
	return toList(rows, params.Limit), nil
}

func toList(rows []shiftRow, limit int) *ListResult {
	rows, next := pagination.Page(rows, limit, rowCursor)
	items := make([]ShiftDTO, len(rows))
	for i, row := range rows {
		items[i] = row.toDTO()
	}
	return &ListResult{Items: items, Cursor: next}
}

func (s *service) Create(ctx context.Context, farmID uuid.UUID, input CreateShiftDTO) (*ShiftDTO, error) {
	date, err := parseDate(input.Date)
	if err != nil {
		return nil, err
	}
	if err := validateWindow(input.StartTime, input.EndTime); err != nil {
		return nil, err
	}
	fruit := strings.TrimSpace(input.Fruit)
	if fruit == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "fruit is required")
	}
	limit := input.VolunteerLimit
	if limit == 0 {
		limit = DefaultVolunteerLimit
	}
	if limit < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "volunteer_limit must be positive")
	}

	if err := s.checkCenter(ctx, input.CenterID); err != nil {
		return nil, err
	}

	shift := &models.Shift{
		ID:             uuid.New(),
		FarmID:         farmID,
		CenterID:       input.CenterID,
		Date:           date,
		StartTime:      input.StartTime,
		EndTime:        input.EndTime,
		Fruit:          fruit,
		VolunteerLimit: limit,
		Status:         enums.ShiftStatusActive,
		Notes:          input.Notes,
	}
	if err := s.repo.Create(ctx, shift); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create shift")
	}
	return s.row(ctx, shift.ID)
}

func (s *service) Update(ctx context.Context, farmID, shiftID uuid.UUID, input UpdateShiftDTO) (*ShiftDTO, error) {
	current, err := s.repo.FindForFarm(ctx, farmID, shiftID)
	if err != nil {
		return nil, db.MapError(err, "shift not found")
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
	start, end := current.StartTime, current.EndTime
	if input.StartTime != nil {
		start = *input.StartTime
		cols["start_time"] = start
	}
	if input.EndTime != nil {
		end = *input.EndTime
		cols["end_time"] = end
	}
	if err := validateWindow(start, end); err != nil {
		return nil, err
	}
	if input.Fruit != nil {
		fruit := strings.TrimSpace(*input.Fruit)
		if fruit == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "fruit must not be empty")
		}
		cols["fruit"] = fruit
	}
	if input.VolunteerLimit != nil {
		if *input.VolunteerLimit <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "volunteer_limit must be positive")
		}
		cols["volunteer_limit"] = *input.VolunteerLimit
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid status %q", *input.Status)
		}
		cols["status"] = *input.Status
	} else if input.VolunteerLimit != nil && current.Status != enums.ShiftStatusCancelled {
		count, err := s.repo.CountSignups(ctx, shiftID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count signups")
		}
		cols["status"] = statusForCount(count, *input.VolunteerLimit)
	}
	if input.Notes != nil {
		cols["notes"] = *input.Notes
	}

	if len(cols) > 0 {
		cols["updated_at"] = time.Now().UTC()
		if err := s.repo.Update(ctx, shiftID, cols); err != nil {
			return nil, db.MapError(err, "shift not found")
		}
	}
	return s.row(ctx, shiftID)
}

func (s *service) Delete(ctx context.Context, farmID, shiftID uuid.UUID) error {
	if err := s.repo.Delete(ctx, farmID, shiftID); err != nil {
		return db.MapError(err, "shift not found")
	}
	return nil
}

func (s *service) ListSignups(ctx context.Context, farmID, shiftID uuid.UUID) ([]SignupDTO, error) {
	if _, err := s.repo.FindForFarm(ctx, farmID, shiftID); err != nil {
		return nil, db.MapError(err, "shift not found")
	}
	rows, err := s.repo.ListSignups(ctx, shiftID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list signups")
	}
	out := make([]SignupDTO, len(rows))
	for i := range rows {
		out[i] = signupFromModel(&rows[i])
	}
	return out, nil
}

func (s *service) LogSignup(ctx context.Context, farmID, shiftID, signupID uuid.UUID, input LogSignupDTO) (*SignupDTO, error) {
	if input.AmountPickedLbs.IsNegative() || input.AmountDonatedLbs.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amounts must not be negative")
	}
	if input.AmountDonatedLbs.GreaterThan(input.AmountPickedLbs) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "donated amount cannot exceed picked amount")
	}
	if _, err := s.repo.FindForFarm(ctx, farmID, shiftID); err != nil {
		return nil, db.MapError(err, "shift not found")
	}
	if _, err := s.repo.FindSignup(ctx, shiftID, signupID); err != nil {
		return nil, db.MapError(err, "signup not found")
	}
	picked := input.AmountPickedLbs.Round(2)
	donated := input.AmountDonatedLbs.Round(2)
	if err := s.repo.LogSignup(ctx, signupID, picked, donated); err != nil {
		return nil, db.MapError(err, "signup not found")
	}
	signup, err := s.repo.FindSignup(ctx, shiftID, signupID)
	if err != nil {
		return nil, db.MapError(err, "signup not found")
	}
	dto := signupFromModel(signup)
	return &dto, nil
}

// SignUp adds the volunteer profile to an active shift and marks the shift
// full once it reaches its limit.
func (s *service) SignUp(ctx context.Context, profileID, shiftID uuid.UUID) (*SignupDTO, error) {
	var (
		created models.ShiftSignup
		filled  bool
	)
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)

		var profile models.UserProfile
		if err := tx.WithContext(ctx).First(&profile, "id = ?", profileID).Error; err != nil {
			return db.MapError(err, "profile not found")
		}
		if profile.Role != enums.RoleVolunteer {
			return pkgerrors.New(pkgerrors.CodeForbidden, "volunteer profile required")
		}
		if !profile.WaiverAgreed {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "sign the volunteer waiver before joining a shift")
		}

		shift, err := repo.FindByID(ctx, shiftID, true)
		if err != nil {
			return db.MapError(err, "shift not found")
		}
		if !shift.Status.AcceptsSignups() {
			return pkgerrors.Newf(pkgerrors.CodeConflict, "shift is %s", shift.Status).
				WithDetails(map[string]any{"status": shift.Status})
		}

		count, err := repo.CountSignups(ctx, shiftID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count signups")
		}
		if count >= int64(shift.VolunteerLimit) {
			return errShiftFull
		}

		name := ""
		if profile.VolunteerName != nil {
			name = *profile.VolunteerName
		}
		created = models.ShiftSignup{
			ID:               uuid.New(),
			ShiftID:          shiftID,
			ProfileID:        profileID,
			VolunteerName:    name,
			AmountPickedLbs:  decimal.Zero,
			AmountDonatedLbs: decimal.Zero,
		}
		if err := repo.CreateSignup(ctx, &created); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "already signed up for this shift")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create signup")
		}

		if count+1 >= int64(shift.VolunteerLimit) {
			err := repo.Update(ctx, shiftID, map[string]any{
				"status":     enums.ShiftStatusFull,
				"updated_at": time.Now().UTC(),
			})
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark shift full")
			}
			filled = true
		}
		return nil
	})
	if err != nil {
		s.metrics.Signup(signupOutcome(err))
		return nil, err
	}
	if filled {
		s.metrics.Signup("full")
	} else {
		s.metrics.Signup("accepted")
	}
	dto := signupFromModel(&created)
	return &dto, nil
}

// statusForCount is the open status of a shift holding count signups.
func statusForCount(count int64, limit int) enums.ShiftStatus {
	if count >= int64(limit) {
		return enums.ShiftStatusFull
	}
	return enums.ShiftStatusActive
}

var errShiftFull = pkgerrors.New(pkgerrors.CodeConflict, "shift is full")

func signupOutcome(err error) string {
	switch pkgerrors.CodeOf(err) {
	case pkgerrors.CodeConflict, pkgerrors.CodeStateConflict, pkgerrors.CodeForbidden:
		return "rejected"
	default:
		return "error"
	}
}

func (s *service) Contributions(ctx context.Context, profileID uuid.UUID) (*Contributions, error) {
	rows, err := s.repo.ListContributions(ctx, profileID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list contributions")
	}
	out := &Contributions{
		Items:           make([]ContributionDTO, len(rows)),
		TotalPickedLbs:  decimal.Zero,
		TotalDonatedLbs: decimal.Zero,
	}
	shifts := map[uuid.UUID]struct{}{}
	for i, row := range rows {
		out.Items[i] = ContributionDTO{
			SignupID:         row.SignupID,
			ShiftID:          row.ShiftID,
			FarmName:         row.FarmName,
			Date:             row.Date.Format(DateLayout),
			Fruit:            row.Fruit,
			AmountPickedLbs:  row.AmountPickedLbs,
			AmountDonatedLbs: row.AmountDonatedLbs,
		}
		out.TotalPickedLbs = out.TotalPickedLbs.Add(row.AmountPickedLbs)
		out.TotalDonatedLbs = out.TotalDonatedLbs.Add(row.AmountDonatedLbs)
		shifts[row.ShiftID] = struct{}{}
	}
	out.ShiftCount = len(shifts)
	return out, nil
}

func (s *service) row(ctx context.Context, id uuid.UUID) (*ShiftDTO, error) {
	row, err := s.repo.Row(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shift not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load shift")
	}
	dto := row.toDTO()
	return &dto, nil
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

func parseDate(raw string) (time.Time, error) {
	date, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "date must be YYYY-MM-DD")
	}
	return date, nil
}

func validateWindow(start, end string) error {
	from, err := time.Parse(clockLayout, start)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "start_time must be HH:MM")
	}
	to, err := time.Parse(clockLayout, end)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "end_time must be HH:MM")
	}
	if !to.After(from) {
		return pkgerrors.New(pkgerrors.CodeValidation, "end_time must be after start_time")
	}
	return nil
}
