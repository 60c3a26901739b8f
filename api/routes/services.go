package routes

import (
	"fmt"

	"github.com/fruitnut/fruitnut-backend/internal/auth"
	"github.com/fruitnut/fruitnut-backend/internal/centers"
	"github.com/fruitnut/fruitnut-backend/internal/donations"
	"github.com/fruitnut/fruitnut-backend/internal/farms"
	"github.com/fruitnut/fruitnut-backend/internal/profiles"
	"github.com/fruitnut/fruitnut-backend/internal/reports"
	"github.com/fruitnut/fruitnut-backend/internal/shifts"
	"github.com/fruitnut/fruitnut-backend/internal/users"
	"github.com/fruitnut/fruitnut-backend/pkg/auth/session"
	"github.com/fruitnut/fruitnut-backend/pkg/config"
	"github.com/fruitnut/fruitnut-backend/pkg/db"
	"github.com/fruitnut/fruitnut-backend/pkg/metrics"
)

// ServiceDeps is what BuildServices needs to assemble the domain services.
type ServiceDeps struct {
	DB       *db.Client
	Sessions *session.Manager
	Config   *config.Config
	Auth     *metrics.AuthMetrics
	Harvest  *metrics.HarvestMetrics
}

// BuildServices wires repositories into services over one database client.
func BuildServices(deps ServiceDeps) (Services, error) {
	if deps.DB == nil || deps.Sessions == nil || deps.Config == nil {
		return Services{}, fmt.Errorf("database, session manager and config are required")
	}
	conn := deps.DB.DB()

	profileService, err := profiles.NewService(profiles.ServiceParams{
		DB:   deps.DB,
		Repo: profiles.NewRepository(conn),
	})
	if err != nil {
		return Services{}, fmt.Errorf("profile service: %w", err)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(conn),
		Profiles:       profileService,
		SessionManager: deps.Sessions,
		JWTConfig:      deps.Config.JWT,
		Metrics:        deps.Auth,
	})
	if err != nil {
		return Services{}, fmt.Errorf("auth service: %w", err)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		TxRunner:       deps.DB,
		SessionManager: deps.Sessions,
		PasswordConfig: deps.Config.Password,
		JWTConfig:      deps.Config.JWT,
		Metrics:        deps.Auth,
	})
	if err != nil {
		return Services{}, fmt.Errorf("register service: %w", err)
	}

	selectRoleService, err := auth.NewSelectRoleService(auth.SelectRoleServiceParams{
		Profiles:  profileService,
		JWTConfig: deps.Config.JWT,
	})
	if err != nil {
		return Services{}, fmt.Errorf("select role service: %w", err)
	}

	farmService, err := farms.NewService(farms.NewRepository(conn))
	if err != nil {
		return Services{}, fmt.Errorf("farm service: %w", err)
	}

	centerService, err := centers.NewService(centers.NewRepository(conn))
	if err != nil {
		return Services{}, fmt.Errorf("center service: %w", err)
	}

	shiftService, err := shifts.NewService(shifts.ServiceParams{
		DB:      deps.DB,
		Repo:    shifts.NewRepository(conn),
		Metrics: deps.Harvest,
	})
	if err != nil {
		return Services{}, fmt.Errorf("shift service: %w", err)
	}

	donationService, err := donations.NewService(donations.ServiceParams{
		Repo:    donations.NewRepository(conn),
		Metrics: deps.Harvest,
	})
	if err != nil {
		return Services{}, fmt.Errorf("donation service: %w", err)
	}

	reportService, err := reports.NewService(reports.NewRepository(conn))
	if err != nil {
		return Services{}, fmt.Errorf("report service: %w", err)
	}

	return Services{
		Auth:       authService,
		Register:   registerService,
		SelectRole: selectRoleService,
		Profiles:   profileService,
		Farms:      farmService,
		Centers:    centerService,
		Shifts:     shiftService,
		Donations:  donationService,
		Reports:    reportService,
	}, nil
}
