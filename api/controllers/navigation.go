package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/fruitnut/fruitnut-backend/api/middleware"
	"github.com/fruitnut/fruitnut-backend/api/responses"
	"github.com/fruitnut/fruitnut-backend/api/validators"
	"github.com/fruitnut/fruitnut-backend/internal/profiles"
	"github.com/fruitnut/fruitnut-backend/pkg/enums"
	pkgerrors "github.com/fruitnut/fruitnut-backend/pkg/errors"
	"github.com/fruitnut/fruitnut-backend/pkg/logger"
	"github.com/fruitnut/fruitnut-backend/pkg/navigation"
)

const maxRouteLen = 512

type navigationResponse struct {
	Route           string              `json:"route"`
	Decision        navigation.Decision `json:"decision"`
	ProfileCount    int                 `json:"profile_count"`
	ActiveProfileID *uuid.UUID          `json:"active_profile_id,omitempty"`
}

// NavigationDecide evaluates the navigation guard for the caller. A token
// scoped to a profile that no longer exists is treated as unscoped.
func NavigationDecide(svc profiles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "profile service unavailable"))
			return
		}

		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		route := validators.SanitizeString(r.URL.Query().Get("route"), maxRouteLen)
		if route != "" && !strings.HasPrefix(route, "/") {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "route must be an absolute path").
				WithDetails(map[string]any{"field": "route"}))
			return
		}
		route = navigation.Normalize(route)

		list, err := svc.List(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp := navigationResponse{Route: route, ProfileCount: len(list)}
		var activeRole *enums.Role
		if profileID, ok := middleware.ActiveProfileFromContext(r.Context()); ok {
			for i := range list {
				if list[i].ID == profileID {
					role := list[i].Role
					activeRole = &role
					resp.ActiveProfileID = &list[i].ID
					break
				}
			}
		}

		resp.Decision = navigation.Decide(navigation.Input{
			HasIdentity:  true,
			Profiles:     navigation.ProfilesLoaded,
			ProfileCount: len(list),
			ActiveRole:   activeRole,
			Route:        route,
		})
		responses.WriteSuccess(w, resp)
	}
}
