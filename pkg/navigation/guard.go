// Package navigation decides where a user belongs given their session,
// profiles and active role. Decide is pure; callers own the routing.
package navigation

import "github.com/fruitnut/fruitnut-backend/pkg/enums"

// State is the derived position of a user in the auth/role flow.
type State string

const (
	StateBooting             State = "booting"
	StateUnauthenticated     State = "unauthenticated"
	StateProfilesLoading     State = "profiles_loading"
	StateProfilesUnavailable State = "profiles_unavailable"
	StateNoProfiles          State = "authenticated_no_profiles"
	StatePickingRole         State = "authenticated_picking_role"
	StateInRole              State = "authenticated_in_role"
)

// ProfilesStatus reports the outcome of the latest profile load. The zero
// value means the list is loaded and ProfileCount is authoritative.
type ProfilesStatus uint8

const (
	ProfilesLoaded ProfilesStatus = iota
	ProfilesLoading
	ProfilesFailed
)

func (s ProfilesStatus) String() string {
	switch s {
	case ProfilesLoaded:
		return "loaded"
	case ProfilesLoading:
		return "loading"
	case ProfilesFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Input is everything the guard looks at.
type Input struct {
	Loading      bool
	HasIdentity  bool
	Profiles     ProfilesStatus
	ProfileCount int
	ActiveRole   *enums.Role
	Route        string
}

// Decision is the guard's verdict. Target is set only when Redirect is true.
type Decision struct {
	State    State      `json:"state"`
	Role     enums.Role `json:"role,omitempty"`
	Redirect bool       `json:"redirect"`
	Target   string     `json:"target,omitempty"`
}

// Decide maps the current session state and route to a redirect, if any.
func Decide(in Input) Decision {
	if in.Loading {
		return Decision{State: StateBooting}
	}

	inAuth := InAuthArea(in.Route)

	if !in.HasIdentity {
		d := Decision{State: StateUnauthenticated}
		if !inAuth {
			d = d.redirectTo(SignInRoute)
		}
		return d
	}

	if in.ActiveRole != nil {
		role := *in.ActiveRole
		d := Decision{State: StateInRole, Role: role}
		if target := RouteForRole(role); TopSegment(in.Route) != string(role) {
			d = d.redirectTo(target)
		}
		return d
	}

	switch in.Profiles {
	case ProfilesLoading:
		return Decision{State: StateProfilesLoading}
	case ProfilesFailed:
		// A failed load does not mean zero profiles.
		return Decision{State: StateProfilesUnavailable}
	}

	if in.ProfileCount == 0 {
		d := Decision{State: StateNoProfiles}
		if !inAuth {
			d = d.redirectTo(RoleSetupRoute)
		}
		return d
	}

	d := Decision{State: StatePickingRole}
	if !inAuth && Normalize(in.Route) != RolePickerRoute {
		d = d.redirectTo(RolePickerRoute)
	}
	return d
}

func (d Decision) redirectTo(target string) Decision {
	d.Redirect = true
	d.Target = target
	return d
}
