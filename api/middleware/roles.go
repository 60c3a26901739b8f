package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fruitnut/fruitnut-backend/api/responses"
	"github.com/fruitnut/fruitnut-backend/pkg/db/models"
	"github.com/fruitnut/fruitnut-backend/pkg/enums"
	pkgerrors "github.com/fruitnut/fruitnut-backend/pkg/errors"
	"github.com/fruitnut/fruitnut-backend/pkg/logger"
)

// ProfileFinder loads one of the caller's profiles.
type ProfileFinder interface {
	FindForUser(ctx context.Context, userID, profileID uuid.UUID) (*models.UserProfile, error)
}

const ctxProfile contextKey = "active_profile"

// RequireActiveRole admits requests whose token is scoped to a profile of the
// given role that still exists. The loaded profile is placed on the context.
func RequireActiveRole(finder ProfileFinder, logg *logger.Logger, role enums.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if finder == nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "profile finder unavailable"))
				return
			}

			userID, ok := UserIDFromContext(ctx)
			if !ok {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
				return
			}

			profileID, ok := ActiveProfileFromContext(ctx)
			if !ok {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "no active role selected"))
				return
			}
			if active, _ := RoleFromContext(ctx); active != role {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "active role does not grant access").
					WithDetails(map[string]any{"required_role": role, "active_role": active}))
				return
			}

			profile, err := finder.FindForUser(ctx, userID, profileID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "active profile no longer exists"))
					return
				}
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load active profile"))
				return
			}
			if profile.Role != role {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "active role does not grant access"))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithProfile(ctx, profile)))
		})
	}
}

// ProfileFromContext returns the profile loaded by RequireActiveRole.
func ProfileFromContext(ctx context.Context) *models.UserProfile {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxProfile).(*models.UserProfile); ok {
		return v
	}
	return nil
}

func WithProfile(ctx context.Context, profile *models.UserProfile) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxProfile, profile)
}
