package activity

import (
	"time"
)

// Status is the lifecycle state of a logged activity.
type Status string

const (
	StatusPending   Status = "pending"
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
)

var validStatuses = []string{string(StatusPending), string(StatusOngoing), string(StatusCompleted)}

// Activity is a single logged record for one half-hour slot of an employee's day.
type Activity struct {
	ID           string
	EmployeeID   string
	CompanyID    string
	Date         string // civil date in the configured timezone, YYYY-MM-DD
	TimeInterval string // "HH:MM - HH:MM"
	Description  string
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// DTO / Join
	EmployeeName *string
	IDCard       *string
	Department   *string
	Region       *string
	Branch       *string
	Location     *string
}

// IsLocked reports whether the activity can no longer be changed.
// Completed work on a day that has passed is final.
func (a Activity) IsLocked(today string) bool {
	return a.Status == StatusCompleted && a.Date < today
}

// SlotStatus is the reconciled state of one slot of the grid.
type SlotStatus string

const (
	SlotEmpty   SlotStatus = "empty"
	SlotPresent SlotStatus = "present"
	SlotAbsent  SlotStatus = "absent"
	// SlotPending is reserved for slots flagged by an external process; the reconciler never derives it.
	SlotPending SlotStatus = "pending"
)
