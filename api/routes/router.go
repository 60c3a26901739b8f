package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fruitnut/fruitnut-backend/api/controllers"
	centercontrollers "github.com/fruitnut/fruitnut-backend/api/controllers/center"
	farmercontrollers "github.com/fruitnut/fruitnut-backend/api/controllers/farmer"
	volunteercontrollers "github.com/fruitnut/fruitnut-backend/api/controllers/volunteer"
	"github.com/fruitnut/fruitnut-backend/api/middleware"
	"github.com/fruitnut/fruitnut-backend/internal/auth"
	"github.com/fruitnut/fruitnut-backend/internal/centers"
	"github.com/fruitnut/fruitnut-backend/internal/donations"
	"github.com/fruitnut/fruitnut-backend/internal/farms"
	"github.com/fruitnut/fruitnut-backend/internal/profiles"
	"github.com/fruitnut/fruitnut-backend/internal/reports"
	"github.com/fruitnut/fruitnut-backend/internal/shifts"
	"github.com/fruitnut/fruitnut-backend/pkg/auth/session"
	"github.com/fruitnut/fruitnut-backend/pkg/config"
	"github.com/fruitnut/fruitnut-backend/pkg/enums"
	"github.com/fruitnut/fruitnut-backend/pkg/logger"
	"github.com/fruitnut/fruitnut-backend/pkg/redis"
)

// Services bundles the domain services exposed over HTTP.
type Services struct {
	Auth       auth.Service
	Register   auth.RegisterService
	SelectRole auth.SelectRoleService
	Profiles   profiles.Service
	Farms      farms.Service
	Centers    centers.Service
	Shifts     shifts.Service
	Donations  donations.Service
	Reports    reports.Service
}

// Infra bundles the clients the router needs beyond the services. Redis may
// be nil, which disables the auth rate limit and idempotency middleware.
type Infra struct {
	DB            controllers.Pinger
	Redis         *redis.Client
	Sessions      session.SessionChecker
	ProfileFinder middleware.ProfileFinder
	HTTPMetrics   middleware.RequestObserver
	Gatherer      prometheus.Gatherer
}

func NewRouter(cfg *config.Config, logg *logger.Logger, infra Infra, svc Services) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, infra.HTTPMetrics),
		middleware.CORS(),
		middleware.RateLimit(middleware.NewClientRateLimiter(cfg.RateLimit), logg),
	)

	signInPolicy := middleware.NewAuthRateLimitPolicy(
		"sign_in",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	signUpPolicy := middleware.NewAuthRateLimitPolicy(
		"sign_up",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	authRateLimit := func(policy middleware.AuthRateLimitPolicy) func(http.Handler) http.Handler {
		if infra.Redis == nil {
			return passthrough
		}
		return middleware.AuthRateLimit(policy, infra.Redis, logg)
	}
	idempotency := passthrough
	if infra.Redis != nil {
		idempotency = middleware.Idempotency(infra.Redis, logg)
	}

	deps := map[string]controllers.Pinger{}
	if infra.DB != nil {
		deps["db"] = infra.DB
	}
	if infra.Redis != nil {
		deps["redis"] = infra.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps))
	})
	if infra.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(infra.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(authRateLimit(signUpPolicy), idempotency).Post("/sign-up", controllers.AuthSignUp(svc.Register, logg))
		r.With(authRateLimit(signInPolicy)).Post("/sign-in", controllers.AuthSignIn(svc.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(svc.Auth, cfg.JWT, logg))
		r.Post("/sign-out", controllers.AuthSignOut(svc.Auth, cfg.JWT, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, infra.Sessions, logg))
			r.Use(idempotency)
			r.Get("/session", controllers.AuthSession(svc.Auth, logg))
			r.Post("/select-role", controllers.AuthSelectRole(svc.SelectRole, logg))
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, infra.Sessions, logg))
		r.Use(idempotency)

		r.Get("/profiles", controllers.ProfilesList(svc.Profiles, logg))
		r.Post("/profiles/setup", controllers.ProfilesSetup(svc.Profiles, logg))
		r.Get("/centers", controllers.CentersList(svc.Centers, logg))
		r.Get("/navigation", controllers.NavigationDecide(svc.Profiles, logg))

		r.Route("/volunteer", func(r chi.Router) {
			r.Use(middleware.RequireActiveRole(infra.ProfileFinder, logg, enums.RoleVolunteer))
			r.Get("/profile", volunteercontrollers.Profile(svc.Profiles, logg))
			r.Put("/profile", volunteercontrollers.UpdateProfile(svc.Profiles, logg))
			r.Post("/waiver", volunteercontrollers.SignWaiver(svc.Profiles, logg))
			r.Get("/shifts", volunteercontrollers.Shifts(svc.Shifts, logg))
			r.Post("/shifts/{shiftID}/signup", volunteercontrollers.SignUp(svc.Shifts, logg))
			r.Get("/contributions", volunteercontrollers.Contributions(svc.Shifts, logg))
		})

		r.Route("/farmer", func(r chi.Router) {
			r.Use(middleware.RequireActiveRole(infra.ProfileFinder, logg, enums.RoleFarmer))
			r.Get("/farm", farmercontrollers.Farm(svc.Farms, logg))
			r.Put("/farm", farmercontrollers.UpdateFarm(svc.Farms, logg))
			r.Route("/shifts", func(r chi.Router) {
				r.Get("/", farmercontrollers.ListShifts(svc.Shifts, logg))
				r.Post("/", farmercontrollers.CreateShift(svc.Shifts, logg))
				r.Put("/{shiftID}", farmercontrollers.UpdateShift(svc.Shifts, logg))
				r.Delete("/{shiftID}", farmercontrollers.DeleteShift(svc.Shifts, logg))
				r.Get("/{shiftID}/signups", farmercontrollers.ListSignups(svc.Shifts, logg))
				r.Put("/{shiftID}/signups/{signupID}", farmercontrollers.LogSignup(svc.Shifts, logg))
			})
			r.Route("/donations", func(r chi.Router) {
				r.Get("/", farmercontrollers.ListDonations(svc.Donations, logg))
				r.Post("/", farmercontrollers.CreateDonation(svc.Donations, logg))
				r.Put("/{donationID}", farmercontrollers.UpdateDonation(svc.Donations, logg))
				r.Post("/{donationID}/nullify", farmercontrollers.NullifyDonation(svc.Donations, logg))
			})
			r.Get("/reports", farmercontrollers.Report(svc.Reports, logg))
		})

		r.Route("/center", func(r chi.Router) {
			r.Use(middleware.RequireActiveRole(infra.ProfileFinder, logg, enums.RoleCenter))
			r.Get("/", centercontrollers.Settings(svc.Centers, logg))
			r.Put("/", centercontrollers.UpdateSettings(svc.Centers, logg))
			r.Get("/assignments", centercontrollers.Assignments(svc.Donations, logg))
			r.Post("/assignments/{donationID}/complete", centercontrollers.CompleteAssignment(svc.Donations, logg))
			r.Get("/reports", centercontrollers.Report(svc.Reports, logg))
		})
	})

	return r
}

func passthrough(next http.Handler) http.Handler {
	return next
}
