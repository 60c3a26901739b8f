package farms

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/fruitnut/fruitnut-backend/pkg/db"
	"github.com/fruitnut/fruitnut-backend/pkg/db/models"
)

// Service exposes the farm settings flow for the active farmer profile.
type Service interface {
	Get(ctx context.Context, farmID uuid.UUID) (*FarmDTO, error)
	Update(ctx context.Context, farmID uuid.UUID, input UpdateFarmDTO) (*FarmDTO, error)
}

type farmRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Farm, error)
	Update(ctx context.Context, id uuid.UUID, dto UpdateFarmDTO) (*models.Farm, error)
}

type service struct {
	repo farmRepository
}

// NewService builds a farm service.
func NewService(repo farmRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("farm repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Get(ctx context.Context, farmID uuid.UUID) (*FarmDTO, error) {
	farm, err := s.repo.FindByID(ctx, farmID)
	if err != nil {
		return nil, db.MapError(err, "farm not found")
	}
	return FromModel(farm), nil
}

func (s *service) Update(ctx context.Context, farmID uuid.UUID, input UpdateFarmDTO) (*FarmDTO, error) {
	farm, err := s.repo.Update(ctx, farmID, input)
	if err != nil {
		return nil, db.MapError(err, "farm not found")
	}
	return FromModel(farm), nil
}
