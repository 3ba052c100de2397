package domain

import "errors"

// Input unavailable.
var (
	// ErrLocationUnavailable is returned when no location fix could be
	// obtained, e.g. permission was denied.
	ErrLocationUnavailable = errors.New("location unavailable")
)

// Policy violations. Commands failing these checks never reach the store.
var (
	ErrOutsideGeofence  = errors.New("not within an approved work location")
	ErrOutsideWorkHours = errors.New("outside of work hours")
	ErrBreakTooEarly    = errors.New("break not allowed until 2 hours after clock-in")
)

// Conflicting session state.
var (
	ErrAlreadyClockedIn = errors.New("already clocked in")
	ErrNotClockedIn     = errors.New("not clocked in")
	ErrBreakInProgress  = errors.New("break already in progress")
	ErrNoOpenBreak      = errors.New("no break in progress")
)

// Invalid input.
var (
	ErrEmployeeRequired = errors.New("employee id required")
	ErrInvalidSettings  = errors.New("invalid settings")
)

// ErrSnapshot wraps failures to persist the state after a mutation. The
// in-memory mutation has already been applied when it is returned.
var ErrSnapshot = errors.New("snapshot not saved")

// IsPolicyViolation reports whether err is one of the policy errors.
func IsPolicyViolation(err error) bool {
	return errors.Is(err, ErrOutsideGeofence) ||
		errors.Is(err, ErrOutsideWorkHours) ||
		errors.Is(err, ErrBreakTooEarly)
}
