package planner

import "errors"

// Error kinds raised by the weekly plan aggregate. Callers classify with
// errors.Is rather than matching message text.
var (
	// ErrInvalidDate marks a malformed starting date at creation.
	ErrInvalidDate = errors.New("invalid date")

	// ErrMisalignedWeekStart marks a starting date whose weekday does not
	// match the tenant's configured week start day.
	ErrMisalignedWeekStart = errors.New("starting date does not fall on the week start day")

	// ErrDayNotFound marks a date outside the plan's 7-day range.
	ErrDayNotFound = errors.New("day not found in plan")

	// ErrSnapshotPrecondition marks a snapshot request before the plan has
	// been assigned a persistent id. This is a contract violation by the
	// caller, not a recoverable business failure.
	ErrSnapshotPrecondition = errors.New("snapshot requires a persisted plan id")
)
