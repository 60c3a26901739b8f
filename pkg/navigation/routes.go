package navigation

import (
	"fmt"
	"strings"

	"github.com/fruitnut/fruitnut-backend/pkg/enums"
)

const (
	SignInRoute    = "/auth/sign-in"
	SignUpRoute    = "/auth/sign-up"
	RoleSetupRoute = "/auth/role-setup"
	// RolePickerRoute is where an identity with profiles but no active
	// selection chooses a role.
	RolePickerRoute = "/home"

	authSegment = "auth"
)

// RouteForRole returns the root route of a role's screens. It panics for a
// role outside the closed enum: that is a programming error, not a state the
// guard can recover from.
func RouteForRole(role enums.Role) string {
	if !role.IsValid() {
		panic(fmt.Sprintf("navigation: no route for role %q", role))
	}
	return "/" + string(role)
}

// Normalize strips query, fragment and trailing slashes; the empty route is "/".
func Normalize(route string) string {
	if i := strings.IndexAny(route, "?#"); i >= 0 {
		route = route[:i]
	}
	route = strings.TrimSpace(route)
	route = strings.TrimRight(route, "/")
	if route == "" {
		return "/"
	}
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	return route
}

// TopSegment returns the first path segment of route ("" for "/").
func TopSegment(route string) string {
	trimmed := strings.TrimPrefix(Normalize(route), "/")
	if i := strings.IndexByte(trimmed, '/'); i >= 0 {
		return trimmed[:i]
	}
	return trimmed
}

// InAuthArea reports whether route lives under /auth.
func InAuthArea(route string) bool {
	return TopSegment(route) == authSegment
}
