package auth

import (
	"github.com/google/uuid"

	"github.com/fruitnut/fruitnut-backend/internal/profiles"
	"github.com/fruitnut/fruitnut-backend/internal/users"
	"github.com/fruitnut/fruitnut-backend/pkg/enums"
)

// SignInRequest captures the user credentials sent to the sign-in endpoint.
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignUpRequest is the account creation payload.
type SignUpRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// RefreshRequest carries the refresh token presented with an expired access token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// SelectRoleRequest scopes the session to a profile. A nil ProfileID clears
// the scope.
type SelectRoleRequest struct {
	ProfileID *uuid.UUID `json:"profile_id"`
}

// Tokens is the credential pair handed to clients.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// SignInResponse contains the tokens, user and profiles produced by a
// successful sign-in or sign-up, plus the route the client should open.
type SignInResponse struct {
	Tokens    Tokens                `json:"tokens"`
	User      *users.UserDTO        `json:"user"`
	Profiles  []profiles.ProfileDTO `json:"profiles"`
	NextRoute string                `json:"next_route"`
}

// SessionResponse describes the identity behind an access token.
type SessionResponse struct {
	User            *users.UserDTO        `json:"user"`
	Profiles        []profiles.ProfileDTO `json:"profiles"`
	ActiveProfileID *uuid.UUID            `json:"active_profile_id,omitempty"`
	ActiveRole      *enums.Role           `json:"active_role,omitempty"`
}

// SelectRoleResponse returns the re-scoped access token.
type SelectRoleResponse struct {
	AccessToken   string               `json:"access_token"`
	ActiveProfile *profiles.ProfileDTO `json:"active_profile,omitempty"`
}
