package enums

import "fmt"

// CenterSetupMode selects how a center profile obtains its donation center.
type CenterSetupMode string

const (
	CenterSetupJoin   CenterSetupMode = "join"
	CenterSetupCreate CenterSetupMode = "create"
)

// IsValid reports whether the value is a known CenterSetupMode.
func (m CenterSetupMode) IsValid() bool {
	return m == CenterSetupJoin || m == CenterSetupCreate
}

// ParseCenterSetupMode converts raw input into a CenterSetupMode.
func ParseCenterSetupMode(value string) (CenterSetupMode, error) {
	mode := CenterSetupMode(value)
	if !mode.IsValid() {
		return "", fmt.Errorf("invalid center setup mode %q", value)
	}
	return mode, nil
}
