package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/fruitnut/fruitnut-backend/internal/appstate"
	"github.com/fruitnut/fruitnut-backend/internal/auth"
	"github.com/fruitnut/fruitnut-backend/internal/centers"
	"github.com/fruitnut/fruitnut-backend/internal/profiles"
	"github.com/fruitnut/fruitnut-backend/pkg/navigation"
)

// ListProfiles loads the profiles of the signed-in identity. identityID must
// match the stored session.
func (c *Client) ListProfiles(ctx context.Context, identityID uuid.UUID) ([]appstate.Profile, error) {
	session, err := c.currentSession()
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, appstate.ErrNoIdentity
	}
	if session.UserID != identityID {
		return nil, fmt.Errorf("session belongs to %s, not %s", session.UserID, identityID)
	}

	var list []profiles.ProfileDTO
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/v1/profiles", auth: true}, &list); err != nil {
		return nil, err
	}
	return toProfiles(list), nil
}

// ScopeToProfile swaps the access token for one scoped to profileID, or an
// unscoped one when profileID is nil. The scoped token is held in memory
// only, so a new process always starts without an active profile.
func (c *Client) ScopeToProfile(ctx context.Context, profileID *uuid.UUID) error {
	var resp auth.SelectRoleResponse
	err := c.do(ctx, request{
		method:    http.MethodPost,
		path:      "/api/v1/auth/select-role",
		auth:      true,
		ephemeral: true,
		body:      auth.SelectRoleRequest{ProfileID: profileID},
	}, &resp)
	if err != nil {
		return err
	}
	return c.applyAccessToken(resp.AccessToken, false)
}

// SetupRoles creates the requested role profiles and returns every profile
// of the identity.
func (c *Client) SetupRoles(ctx context.Context, req profiles.SetupRequest) ([]appstate.Profile, error) {
	var list []profiles.ProfileDTO
	err := c.do(ctx, request{
		method:     http.MethodPost,
		path:       "/api/v1/profiles/setup",
		auth:       true,
		idempotent: true,
		body:       req,
	}, &list)
	if err != nil {
		return nil, err
	}
	return toProfiles(list), nil
}

// Centers lists donation centers for the role-setup join step.
func (c *Client) Centers(ctx context.Context, page Page) (*centers.ListResult, error) {
	var out centers.ListResult
	err := c.do(ctx, request{method: http.MethodGet, path: "/api/v1/centers", auth: true, query: page.values()}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// NavigationReport is the server-side guard evaluation.
type NavigationReport struct {
	Route           string              `json:"route"`
	Decision        navigation.Decision `json:"decision"`
	ProfileCount    int                 `json:"profile_count"`
	ActiveProfileID *uuid.UUID          `json:"active_profile_id,omitempty"`
}

// Navigate asks the API how the guard treats route for the current token.
func (c *Client) Navigate(ctx context.Context, route string) (*NavigationReport, error) {
	var out NavigationReport
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/api/v1/navigation",
		auth:   true,
		query:  url.Values{"route": []string{route}},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func toProfiles(list []profiles.ProfileDTO) []appstate.Profile {
	out := make([]appstate.Profile, 0, len(list))
	for _, dto := range list {
		p := appstate.Profile{
			ID:             dto.ID,
			UserID:         dto.UserID,
			Role:           dto.Role,
			FarmID:         dto.FarmID,
			CenterID:       dto.CenterID,
			WaiverAgreed:   dto.WaiverAgreed,
			WaiverAgreedAt: dto.WaiverAgreedAt,
		}
		if dto.VolunteerName != nil {
			p.VolunteerName = *dto.VolunteerName
		}
		if dto.Phone != nil {
			p.Phone = *dto.Phone
		}
		out = append(out, p)
	}
	return out
}
