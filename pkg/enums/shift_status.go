package enums

import "fmt"

// ShiftStatus tracks whether a harvest shift still accepts volunteers.
type ShiftStatus string

const (
	ShiftStatusActive    ShiftStatus = "active"
	ShiftStatusFull      ShiftStatus = "full"
	ShiftStatusCancelled ShiftStatus = "cancelled"
)

var validShiftStatuses = []ShiftStatus{
	ShiftStatusActive,
	ShiftStatusFull,
	ShiftStatusCancelled,
}

// String implements fmt.Stringer.
func (s ShiftStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ShiftStatus.
func (s ShiftStatus) IsValid() bool {
	for _, candidate := range validShiftStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// AcceptsSignups reports whether volunteers may still sign up.
func (s ShiftStatus) AcceptsSignups() bool {
	return s == ShiftStatusActive
}

// ParseShiftStatus converts raw input into a ShiftStatus.
func ParseShiftStatus(value string) (ShiftStatus, error) {
	for _, candidate := range validShiftStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid shift status %q", value)
}
