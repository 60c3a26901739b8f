package middleware

import (
	"context"

	"github.com/google/uuid"

	pkgAuth "github.com/fruitnut/fruitnut-backend/pkg/auth"
	"github.com/fruitnut/fruitnut-backend/pkg/enums"
)

type contextKey string

const (
	ctxClaims contextKey = "claims"
)

// ClaimsFromContext returns the access token claims seeded by Auth.
func ClaimsFromContext(ctx context.Context) *pkgAuth.AccessTokenClaims {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxClaims).(*pkgAuth.AccessTokenClaims); ok {
		return v
	}
	return nil
}

func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	claims := ClaimsFromContext(ctx)
	if claims == nil || claims.UserID == uuid.Nil {
		return uuid.Nil, false
	}
	return claims.UserID, true
}

// ActiveProfileFromContext returns the profile the token was scoped to.
func ActiveProfileFromContext(ctx context.Context) (uuid.UUID, bool) {
	claims := ClaimsFromContext(ctx)
	if !claims.HasActiveProfile() {
		return uuid.Nil, false
	}
	return *claims.ActiveProfileID, true
}

func RoleFromContext(ctx context.Context) (enums.Role, bool) {
	claims := ClaimsFromContext(ctx)
	if !claims.HasActiveProfile() {
		return "", false
	}
	return *claims.ActiveRole, true
}

// WithClaims injects token claims into the context for downstream handlers.
func WithClaims(ctx context.Context, claims *pkgAuth.AccessTokenClaims) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxClaims, claims)
}
