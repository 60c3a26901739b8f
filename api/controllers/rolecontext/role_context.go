// Package rolecontext resolves the active profile's scope for role handlers.
package rolecontext

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/fruitnut/fruitnut-backend/api/middleware"
	"github.com/fruitnut/fruitnut-backend/pkg/db/models"
	"github.com/fruitnut/fruitnut-backend/pkg/enums"
	pkgerrors "github.com/fruitnut/fruitnut-backend/pkg/errors"
)

// ResolveProfile returns the active profile and enforces its role.
func ResolveProfile(r *http.Request, role enums.Role) (*models.UserProfile, error) {
	profile := middleware.ProfileFromContext(r.Context())
	if profile == nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "active profile required")
	}
	if profile.Role != role {
		return nil, pkgerrors.Newf(pkgerrors.CodeForbidden, "%s access required", role)
	}
	return profile, nil
}

// ResolveFarmID returns the farm managed by the active farmer profile.
func ResolveFarmID(r *http.Request) (uuid.UUID, error) {
	profile, err := ResolveProfile(r, enums.RoleFarmer)
	if err != nil {
		return uuid.Nil, err
	}
	if profile.FarmID == nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeStateConflict, "farmer profile has no farm")
	}
	return *profile.FarmID, nil
}

// ResolveCenterID returns the center staffed by the active center profile.
func ResolveCenterID(r *http.Request) (uuid.UUID, error) {
	profile, err := ResolveProfile(r, enums.RoleCenter)
	if err != nil {
		return uuid.Nil, err
	}
	if profile.CenterID == nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeStateConflict, "center profile has no center")
	}
	return *profile.CenterID, nil
}

// ResolveVolunteer returns the active volunteer profile.
func ResolveVolunteer(r *http.Request) (*models.UserProfile, error) {
	return ResolveProfile(r, enums.RoleVolunteer)
}
