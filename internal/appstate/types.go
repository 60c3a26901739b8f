// Package appstate is the client-side session and profile state container.
// A Store owns the signed-in identity, the identity's role profiles and the
// single active profile, and notifies observers after every settled change.
package appstate

import (
	"time"

	"github.com/google/uuid"

	"github.com/fruitnut/fruitnut-backend/pkg/enums"
)

// AuthEvent is delivered by the auth provider on session changes.
type AuthEvent string

const (
	EventSignedIn       AuthEvent = "SIGNED_IN"
	EventSignedOut      AuthEvent = "SIGNED_OUT"
	EventTokenRefreshed AuthEvent = "TOKEN_REFRESHED"
	EventUserUpdated    AuthEvent = "USER_UPDATED"
)

// Identity is the authenticated user handle.
type Identity struct {
	ID    uuid.UUID
	Email string
}

// Profile is one role assignment of an identity.
type Profile struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Role           enums.Role
	FarmID         *uuid.UUID
	CenterID       *uuid.UUID
	VolunteerName  string
	Phone          string
	WaiverAgreed   bool
	WaiverAgreedAt *time.Time
}

func cloneIdentity(in *Identity) *Identity {
	if in == nil {
		return nil
	}
	out := *in
	return &out
}

func cloneProfiles(in []Profile) []Profile {
	if in == nil {
		return nil
	}
	out := make([]Profile, len(in))
	copy(out, in)
	return out
}
