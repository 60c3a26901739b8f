package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/fruitnut/fruitnut-backend/internal/profiles"
	pkgAuth "github.com/fruitnut/fruitnut-backend/pkg/auth"
	"github.com/fruitnut/fruitnut-backend/pkg/config"
	pkgerrors "github.com/fruitnut/fruitnut-backend/pkg/errors"
)

// SelectRoleService re-scopes an access token to one of the caller's profiles.
type SelectRoleService interface {
	Select(ctx context.Context, claims *pkgAuth.AccessTokenClaims, req SelectRoleRequest) (*SelectRoleResponse, error)
}

type profileFinder interface {
	Get(ctx context.Context, userID, profileID uuid.UUID) (*profiles.ProfileDTO, error)
}

// SelectRoleServiceParams bundles dependencies for the select-role flow.
type SelectRoleServiceParams struct {
	Profiles  profileFinder
	JWTConfig config.JWTConfig
	Now       func() time.Time
}

type selectRoleService struct {
	profiles profileFinder
	jwtCfg   config.JWTConfig
	now      func() time.Time
}

// NewSelectRoleService constructs the service.
func NewSelectRoleService(params SelectRoleServiceParams) (SelectRoleService, error) {
	if params.Profiles == nil {
		return nil, errors.New("profile finder required")
	}
	return &selectRoleService{
		profiles: params.Profiles,
		jwtCfg:   params.JWTConfig,
		now:      nowOrDefault(params.Now),
	}, nil
}

// Select mints a token under the same session id. The refresh token is
// unchanged.
func (s *selectRoleService) Select(ctx context.Context, claims *pkgAuth.AccessTokenClaims, req SelectRoleRequest) (*SelectRoleResponse, error) {
	if claims == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session")
	}

	payload := pkgAuth.AccessTokenPayload{
		UserID:    claims.UserID,
		SessionID: claims.SessionID,
	}
	var active *profiles.ProfileDTO
	if req.ProfileID != nil {
		profile, err := s.profiles.Get(ctx, claims.UserID, *req.ProfileID)
		if err != nil {
			return nil, err
		}
		role := profile.Role
		payload.ActiveProfileID = &profile.ID
		payload.ActiveRole = &role
		active = profile
	}

	token, err := pkgAuth.MintAccessToken(s.jwtCfg, s.now().UTC(), payload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	return &SelectRoleResponse{AccessToken: token, ActiveProfile: active}, nil
}
