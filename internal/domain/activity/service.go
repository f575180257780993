package activity

import (
	"context"
	"io"
)

// ActivityService defines business logic for activity logging and slot reconciliation
type ActivityService interface {
	// GetClock returns the now-derived slot values for the configured work window
	GetClock(ctx context.Context) (ClockResponse, error)

	// GetMySlotTable reconciles the caller's activities against the slot grid for date (default today)
	GetMySlotTable(ctx context.Context, date string) (SlotTable, error)

	// GetEmployeeSlotTable reconciles another employee's activities (line manager or super admin)
	GetEmployeeSlotTable(ctx context.Context, employeeID string, date string) (SlotTable, error)

	// GetMyStats counts the caller's activities by status across all dates
	GetMyStats(ctx context.Context) (StatsResponse, error)

	// CreateActivity logs an activity for the caller
	CreateActivity(ctx context.Context, req CreateActivityRequest) (ActivityResponse, error)

	// UpdateActivity changes one of the caller's activities
	UpdateActivity(ctx context.Context, req UpdateActivityRequest) (ActivityResponse, error)

	// DeleteActivity removes one of the caller's activities
	DeleteActivity(ctx context.Context, id string) error

	// ListMyActivities lists the caller's activities
	ListMyActivities(ctx context.Context, filter ActivityFilter) (ListActivityResponse, error)

	// ListActivities lists activities of the caller's reporting line (manager) or company (super admin)
	ListActivities(ctx context.Context, filter ActivityFilter) (ListActivityResponse, error)

	// ExportCSV writes activities matching filter as CSV
	ExportCSV(ctx context.Context, filter ActivityFilter, w io.Writer) error
}
