package centers

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/fruitnut/fruitnut-backend/pkg/db"
	"github.com/fruitnut/fruitnut-backend/pkg/db/models"
	pkgerrors "github.com/fruitnut/fruitnut-backend/pkg/errors"
	"github.com/fruitnut/fruitnut-backend/pkg/pagination"
)

// Service exposes the center directory and the center settings flow.
type Service interface {
	List(ctx context.Context, params pagination.Params) (*ListResult, error)
	Get(ctx context.Context, centerID uuid.UUID) (*CenterDTO, error)
	Update(ctx context.Context, centerID uuid.UUID, input UpdateCenterDTO) (*CenterDTO, error)
}

type centerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.DonationCenter, error)
	List(ctx context.Context, q pagination.Query) ([]models.DonationCenter, error)
	Update(ctx context.Context, id uuid.UUID, dto UpdateCenterDTO) (*models.DonationCenter, error)
}

type service struct {
	repo centerRepository
}

// NewService builds a center service.
func NewService(repo centerRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("center repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (*ListResult, error) {
	q, err := params.Query()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	rows, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list centers")
	}
	rows, next := pagination.Page(rows, params.Limit, cursorOf)

	items := make([]CenterDTO, len(rows))
	for i := range rows {
		items[i] = *FromModel(&rows[i])
	}
	return &ListResult{Items: items, Cursor: next}, nil
}

func (s *service) Get(ctx context.Context, centerID uuid.UUID) (*CenterDTO, error) {
	center, err := s.repo.FindByID(ctx, centerID)
	if err != nil {
		return nil, db.MapError(err, "center not found")
	}
	return FromModel(center), nil
}

func (s *service) Update(ctx context.Context, centerID uuid.UUID, input UpdateCenterDTO) (*CenterDTO, error) {
	if input.CapacityLbs != nil && input.CapacityLbs.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "capacity_lbs must not be negative")
	}
	center, err := s.repo.Update(ctx, centerID, input)
	if err != nil {
		return nil, db.MapError(err, "center not found")
	}
	return FromModel(center), nil
}
