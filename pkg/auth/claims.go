package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/fruitnut/fruitnut-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT. The
// active profile is optional: a token without one is only good for the
// role-agnostic endpoints (session, profiles, role setup, navigation).
type AccessTokenPayload struct {
	UserID          uuid.UUID
	SessionID       string
	JTI             string
	ActiveProfileID *uuid.UUID
	ActiveRole      *enums.Role
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID          uuid.UUID   `json:"user_id"`
	SessionID       string      `json:"sid"`
	ActiveProfileID *uuid.UUID  `json:"active_profile_id,omitempty"`
	ActiveRole      *enums.Role `json:"active_role,omitempty"`
	jwt.RegisteredClaims
}

// HasActiveProfile reports whether the token was scoped to a profile.
func (c *AccessTokenClaims) HasActiveProfile() bool {
	return c != nil && c.ActiveProfileID != nil && c.ActiveRole != nil
}
