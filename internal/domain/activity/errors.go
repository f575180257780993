package activity

import "errors"

// Activity domain errors
var (
	// Write-time errors
	ErrTimeSlotConflict  = errors.New("an identical activity is already logged for this time slot")
	ErrNotLoggable       = errors.New("activities can only be logged for today during work hours")
	ErrOutsideWorkWindow = errors.New("time interval is outside the work window")

	// General errors
	ErrActivityNotFound     = errors.New("activity not found")
	ErrActivityLocked       = errors.New("activity is completed and can no longer be changed")
	ErrUnauthorized         = errors.New("unauthorized to modify this activity")
	ErrOutsideReportingLine = errors.New("employee is not in your reporting line")
)

// ConflictError names the interval that already holds the duplicate activity.
type ConflictError struct {
	Date         string
	TimeInterval string
}

func (e *ConflictError) Error() string {
	return "time slot " + e.TimeInterval + " on " + e.Date + " already has an identical activity"
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrTimeSlotConflict
}
