package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fruitnut/fruitnut-backend/internal/centers"
	"github.com/fruitnut/fruitnut-backend/internal/farms"
	"github.com/fruitnut/fruitnut-backend/pkg/db"
	"github.com/fruitnut/fruitnut-backend/pkg/db/models"
	"github.com/fruitnut/fruitnut-backend/pkg/enums"
	pkgerrors "github.com/fruitnut/fruitnut-backend/pkg/errors"
)

// Service exposes profile listing, role setup and the volunteer profile flows.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]ProfileDTO, error)
	Get(ctx context.Context, userID, profileID uuid.UUID) (*ProfileDTO, error)
	Setup(ctx context.Context, userID uuid.UUID, req SetupRequest) ([]ProfileDTO, error)
	UpdateVolunteer(ctx context.Context, userID, profileID uuid.UUID, input UpdateVolunteerDTO) (*ProfileDTO, error)
	SignWaiver(ctx context.Context, userID, profileID uuid.UUID, req WaiverRequest) (*ProfileDTO, error)
}

type profileRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.UserProfile, error)
	FindForUser(ctx context.Context, userID, profileID uuid.UUID) (*models.UserProfile, error)
	UpdateVolunteer(ctx context.Context, id uuid.UUID, dto UpdateVolunteerDTO) error
	SignWaiver(ctx context.Context, id uuid.UUID, at time.Time) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams bundles the dependencies of the profile service.
type ServiceParams struct {
	DB   txRunner
	Repo profileRepository
	Now  func() time.Time
}

type service struct {
	db   txRunner
	repo profileRepository
	now  func() time.Time
}

// NewService builds a profile service.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client is required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("profile repository is required")
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{db: params.DB, repo: params.Repo, now: now}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]ProfileDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list profiles")
	}
	return fromModels(rows), nil
}

func (s *service) Get(ctx context.Context, userID, profileID uuid.UUID) (*ProfileDTO, error) {
	profile, err := s.repo.FindForUser(ctx, userID, profileID)
	if err != nil {
		return nil, db.MapError(err, "profile not found")
	}
	return FromModel(profile), nil
}

func (s *service) Setup(ctx context.Context, userID uuid.UUID, req SetupRequest) ([]ProfileDTO, error) {
	roles, err := normalizeRoles(req.Roles)
	if err != nil {
		return nil, err
	}
	if err := validateSetup(roles, &req); err != nil {
		return nil, err
	}

	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		profileRepo := NewRepository(tx)
		farmRepo := farms.NewRepository(tx)
		centerRepo := centers.NewRepository(tx)

		held, err := profileRepo.RolesOf(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load existing roles")
		}
		for _, role := range roles {
			for _, existing := range held {
				if role == existing {
					return pkgerrors.Newf(pkgerrors.CodeConflict, "%s profile already exists", role).
						WithDetails(map[string]any{"role": role})
				}
			}
		}

		for _, role := range roles {
			profile := &models.UserProfile{ID: uuid.New(), UserID: userID, Role: role}
			switch role {
			case enums.RoleFarmer:
				farm, err := farmRepo.Create(ctx, userID, *req.Farm)
				if err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create farm")
				}
				profile.FarmID = &farm.ID
			case enums.RoleVolunteer:
				name := strings.TrimSpace(req.Volunteer.VolunteerName)
				profile.VolunteerName = &name
				profile.Phone = trimmedOrNil(req.Volunteer.Phone)
			case enums.RoleCenter:
				centerID, err := resolveCenter(ctx, centerRepo, req.Center)
				if err != nil {
					return err
				}
				profile.CenterID = &centerID
			}
			if err := profileRepo.Create(ctx, profile); err != nil {
				if db.IsUniqueViolation(err, "") {
					return pkgerrors.Newf(pkgerrors.CodeConflict, "%s profile already exists", role)
				}
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create profile")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.List(ctx, userID)
}

func (s *service) UpdateVolunteer(ctx context.Context, userID, profileID uuid.UUID, input UpdateVolunteerDTO) (*ProfileDTO, error) {
	if input.VolunteerName != nil {
		name := strings.TrimSpace(*input.VolunteerName)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "volunteer_name must not be empty")
		}
		input.VolunteerName = &name
	}
	if _, err := s.volunteerProfile(ctx, userID, profileID); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateVolunteer(ctx, profileID, input); err != nil {
		return nil, db.MapError(err, "profile not found")
	}
	return s.Get(ctx, userID, profileID)
}

func (s *service) SignWaiver(ctx context.Context, userID, profileID uuid.UUID, req WaiverRequest) (*ProfileDTO, error) {
	if !req.Agreed {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "waiver must be agreed")
	}
	profile, err := s.volunteerProfile(ctx, userID, profileID)
	if err != nil {
		return nil, err
	}
	if profile.WaiverAgreed {
		return FromModel(profile), nil
	}
	if err := s.repo.SignWaiver(ctx, profileID, s.now()); err != nil {
		return nil, db.MapError(err, "profile not found")
	}
	return s.Get(ctx, userID, profileID)
}

func (s *service) volunteerProfile(ctx context.Context, userID, profileID uuid.UUID) (*models.UserProfile, error) {
	profile, err := s.repo.FindForUser(ctx, userID, profileID)
	if err != nil {
		return nil, db.MapError(err, "profile not found")
	}
	if profile.Role != enums.RoleVolunteer {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "volunteer profile required")
	}
	return profile, nil
}

func normalizeRoles(in []enums.Role) ([]enums.Role, error) {
	if len(in) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "select at least one role")
	}
	seen := make(map[enums.Role]bool, len(in))
	out := make([]enums.Role, 0, len(in))
	for _, role := range in {
		if !role.IsValid() {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid role %q", role)
		}
		if seen[role] {
			continue
		}
		seen[role] = true
		out = append(out, role)
	}
	return out, nil
}

func validateSetup(roles []enums.Role, req *SetupRequest) error {
	for _, role := range roles {
		switch role {
		case enums.RoleFarmer:
			if req.Farm == nil || strings.TrimSpace(req.Farm.Name) == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "farm name is required")
			}
			req.Farm.Name = strings.TrimSpace(req.Farm.Name)
			req.Farm.OwnerName = strings.TrimSpace(req.Farm.OwnerName)
		case enums.RoleVolunteer:
			if req.Volunteer == nil || strings.TrimSpace(req.Volunteer.VolunteerName) == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "volunteer name is required")
			}
		case enums.RoleCenter:
			if req.Center == nil || !req.Center.Mode.IsValid() {
				return pkgerrors.New(pkgerrors.CodeValidation, "center mode must be join or create")
			}
			switch req.Center.Mode {
			case enums.CenterSetupJoin:
				if req.Center.CenterID == nil || *req.Center.CenterID == uuid.Nil {
					return pkgerrors.New(pkgerrors.CodeValidation, "select a donation center")
				}
			case enums.CenterSetupCreate:
				if strings.TrimSpace(req.Center.Name) == "" {
					return pkgerrors.New(pkgerrors.CodeValidation, "center name is required")
				}
				req.Center.Name = strings.TrimSpace(req.Center.Name)
				req.Center.Address = trimmedOrNil(req.Center.Address)
				req.Center.Phone = trimmedOrNil(req.Center.Phone)
				req.Center.Email = trimmedOrNil(req.Center.Email)
			}
		}
	}
	return nil
}

func resolveCenter(ctx context.Context, repo *centers.Repository, setup *CenterSetup) (uuid.UUID, error) {
	if setup.Mode == enums.CenterSetupJoin {
		center, err := repo.FindByID(ctx, *setup.CenterID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return uuid.Nil, pkgerrors.New(pkgerrors.CodeNotFound, "donation center not found")
			}
			return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load donation center")
		}
		return center.ID, nil
	}
	center, err := repo.Create(ctx, setup.CreateCenterDTO)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create donation center")
	}
	return center.ID, nil
}
