package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fruitnut/fruitnut-backend/internal/profiles"
	"github.com/fruitnut/fruitnut-backend/internal/users"
	pkgAuth "github.com/fruitnut/fruitnut-backend/pkg/auth"
	"github.com/fruitnut/fruitnut-backend/pkg/auth/session"
	"github.com/fruitnut/fruitnut-backend/pkg/config"
	"github.com/fruitnut/fruitnut-backend/pkg/db/models"
	pkgerrors "github.com/fruitnut/fruitnut-backend/pkg/errors"
	"github.com/fruitnut/fruitnut-backend/pkg/navigation"
	"github.com/fruitnut/fruitnut-backend/pkg/security"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the auth and session controllers.
type Service interface {
	SignIn(ctx context.Context, req SignInRequest) (*SignInResponse, error)
	Session(ctx context.Context, claims *pkgAuth.AccessTokenClaims) (*SessionResponse, error)
	Refresh(ctx context.Context, claims *pkgAuth.AccessTokenClaims, refreshToken string) (*Tokens, error)
	SignOut(ctx context.Context, sessionID string) error
}

type service struct {
	users    userRepository
	profiles profileLister
	session  sessionManager
	jwtCfg   config.JWTConfig
	metrics  eventRecorder
	now      func() time.Time
}

type userRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type profileLister interface {
	List(ctx context.Context, userID uuid.UUID) ([]profiles.ProfileDTO, error)
}

type sessionManager interface {
	Generate(ctx context.Context) (string, string, error)
	Rotate(ctx context.Context, oldSessionID, provided string) (string, string, error)
	Revoke(ctx context.Context, sessionID string) error
}

type eventRecorder interface {
	Record(event string, err error)
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo       userRepository
	Profiles       profileLister
	SessionManager sessionManager
	JWTConfig      config.JWTConfig
	Metrics        eventRecorder
	Now            func() time.Time
}

// NewService constructs a sign-in service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.Profiles == nil {
		return nil, fmt.Errorf("profile lister is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	return &service{
		users:    params.UserRepo,
		profiles: params.Profiles,
		session:  params.SessionManager,
		jwtCfg:   params.JWTConfig,
		metrics:  recorderOrNoop(params.Metrics),
		now:      nowOrDefault(params.Now),
	}, nil
}

func (s *service) SignIn(ctx context.Context, req SignInRequest) (resp *SignInResponse, err error) {
	defer func() { s.metrics.Record("sign_in", err) }()

	user, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update last login")
	}
	user.LastLoginAt = &now

	list, err := s.profiles.List(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	tokens, err := openSession(ctx, s.session, s.jwtCfg, now, user.ID)
	if err != nil {
		return nil, err
	}
	return &SignInResponse{
		Tokens:    *tokens,
		User:      users.FromModel(user),
		Profiles:  list,
		NextRoute: NextRoute(len(list)),
	}, nil
}

func (s *service) Session(ctx context.Context, claims *pkgAuth.AccessTokenClaims) (*SessionResponse, error) {
	if claims == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session")
	}
	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user no longer exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user is inactive")
	}
	list, err := s.profiles.List(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &SessionResponse{
		User:            users.FromModel(user),
		Profiles:        list,
		ActiveProfileID: claims.ActiveProfileID,
		ActiveRole:      claims.ActiveRole,
	}, nil
}

// Refresh rotates the session behind an expired access token. The new access
// token keeps the profile scope of the old one.
func (s *service) Refresh(ctx context.Context, claims *pkgAuth.AccessTokenClaims, refreshToken string) (tokens *Tokens, err error) {
	defer func() { s.metrics.Record("refresh", err) }()

	if claims == nil || strings.TrimSpace(claims.SessionID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid access token")
	}
	sessionID, newRefresh, err := s.session.Rotate(ctx, claims.SessionID, refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session")
	}
	access, err := pkgAuth.MintAccessToken(s.jwtCfg, s.now().UTC(), pkgAuth.AccessTokenPayload{
		UserID:          claims.UserID,
		SessionID:       sessionID,
		ActiveProfileID: claims.ActiveProfileID,
		ActiveRole:      claims.ActiveRole,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	return &Tokens{AccessToken: access, RefreshToken: newRefresh}, nil
}

func (s *service) SignOut(ctx context.Context, sessionID string) (err error) {
	defer func() { s.metrics.Record("sign_out", err) }()

	if err := s.session.Revoke(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

func (s *service) authenticate(ctx context.Context, email, password string) (*models.User, error) {
	input := strings.TrimSpace(email)
	if input == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	user, err := s.users.FindByEmail(ctx, strings.ToLower(input))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	valid, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid || !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return user, nil
}

// NextRoute is where a freshly signed-in identity lands.
func NextRoute(profileCount int) string {
	if profileCount == 0 {
		return navigation.RoleSetupRoute
	}
	return navigation.RolePickerRoute
}

// openSession starts a refresh session and mints its first, unscoped access
// token.
func openSession(ctx context.Context, sessions sessionManager, cfg config.JWTConfig, now time.Time, userID uuid.UUID) (*Tokens, error) {
	sessionID, refreshToken, err := sessions.Generate(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store refresh token")
	}
	access, err := pkgAuth.MintAccessToken(cfg, now, pkgAuth.AccessTokenPayload{
		UserID:    userID,
		SessionID: sessionID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	return &Tokens{AccessToken: access, RefreshToken: refreshToken}, nil
}

type noopRecorder struct{}

func (noopRecorder) Record(string, error) {}

func recorderOrNoop(r eventRecorder) eventRecorder {
	if r == nil {
		return noopRecorder{}
	}
	return r
}

func nowOrDefault(now func() time.Time) func() time.Time {
	if now == nil {
		return time.Now
	}
	return now
}
