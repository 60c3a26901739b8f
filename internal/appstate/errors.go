package appstate

import "errors"

var (
	// ErrNoActiveProfile is returned by role accessors when nothing is selected.
	ErrNoActiveProfile = errors.New("no active profile")
	// ErrRoleMismatch is returned when the active profile has a different role
	// than the accessor requires.
	ErrRoleMismatch = errors.New("active profile has a different role")
	// ErrProfileNotFound is returned when selecting a profile the registry
	// does not hold.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrNoIdentity is returned by operations that need a signed-in identity.
	ErrNoIdentity = errors.New("not signed in")
)
