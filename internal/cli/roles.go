package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/fruitnut/fruitnut-backend/internal/appstate"
	"github.com/fruitnut/fruitnut-backend/pkg/enums"
)

// profileForRole finds the identity's profile for role. Roles are unique per
// identity, so there is at most one.
func profileForRole(snap appstate.Snapshot, role enums.Role) (appstate.Profile, error) {
	for _, p := range snap.Profiles {
		if p.Role == role {
			return p, nil
		}
	}
	return appstate.Profile{}, fmt.Errorf("no %s profile, run `fruitnut setup --%s`", role, role)
}

// pickRole resolves --as against the roles a command supports. Without --as
// the single held role among allowed is used.
func pickRole(snap appstate.Snapshot, as string, allowed ...enums.Role) (enums.Role, error) {
	if snap.Identity == nil {
		return "", appstate.ErrNoIdentity
	}
	if as != "" {
		role, err := enums.ParseRole(strings.ToLower(strings.TrimSpace(as)))
		if err != nil {
			return "", err
		}
		for _, candidate := range allowed {
			if candidate == role {
				return role, nil
			}
		}
		return "", fmt.Errorf("this command is not available to the %s role", role)
	}

	var held []enums.Role
	for _, candidate := range allowed {
		if _, err := profileForRole(snap, candidate); err == nil {
			held = append(held, candidate)
		}
	}
	switch len(held) {
	case 0:
		return "", fmt.Errorf("requires one of the roles %s", joinRoles(allowed))
	case 1:
		return held[0], nil
	default:
		return "", fmt.Errorf("several roles apply, choose one with --as (%s)", joinRoles(held))
	}
}

// activate selects the profile for role on the store.
func (s *Session) activate(ctx context.Context, role enums.Role) (appstate.Profile, error) {
	profile, err := profileForRole(s.Store.Snapshot(), role)
	if err != nil {
		return appstate.Profile{}, err
	}
	if err := s.Store.Select(ctx, &profile.ID); err != nil {
		return appstate.Profile{}, err
	}
	return profile, nil
}

func joinRoles(roles []enums.Role) string {
	parts := make([]string, len(roles))
	for i, r := range roles {
		parts[i] = string(r)
	}
	return strings.Join(parts, ", ")
}
