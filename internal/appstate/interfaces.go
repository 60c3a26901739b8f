package appstate

import (
	"context"

	"github.com/google/uuid"
)

// AuthListener receives auth events the provider raises on its own, such as
// a background token refresh or an expired session. Results of explicit
// SignInWithPassword, SignUp and SignOut calls are returned to the caller
// instead.
type AuthListener func(ctx context.Context, event AuthEvent, identity *Identity)

// AuthProvider is the session backend the store consumes.
type AuthProvider interface {
	// GetSession returns the persisted identity, or nil when signed out.
	GetSession(ctx context.Context) (*Identity, error)
	SignInWithPassword(ctx context.Context, email, password string) (*Identity, error)
	SignUp(ctx context.Context, email, password, confirm string) (*Identity, error)
	SignOut(ctx context.Context) error
	OnAuthStateChange(fn AuthListener) (unsubscribe func())
}

// ProfileScoper is implemented by providers whose credentials are scoped to
// the active profile. The store calls it before committing a selection; a
// nil profileID drops the scope.
type ProfileScoper interface {
	ScopeToProfile(ctx context.Context, profileID *uuid.UUID) error
}

// ProfileLoader reads every profile owned by an identity.
type ProfileLoader interface {
	ListProfiles(ctx context.Context, identityID uuid.UUID) ([]Profile, error)
}

// Router is the presentation layer's navigation primitive.
type Router interface {
	Replace(path string) error
	Push(path string) error
	CurrentRoute() string
}
