package enums

import "fmt"

// Role is the closed set of profile roles an identity can hold.
type Role string

const (
	RoleFarmer    Role = "farmer"
	RoleVolunteer Role = "volunteer"
	RoleCenter    Role = "center"
)

var validRoles = []Role{
	RoleFarmer,
	RoleVolunteer,
	RoleCenter,
}

// Roles returns every known role in display order.
func Roles() []Role {
	out := make([]Role, len(validRoles))
	copy(out, validRoles)
	return out
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Role.
func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRole converts raw input into a Role.
func ParseRole(value string) (Role, error) {
	for _, candidate := range validRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", value)
}
