package activity

import (
	"context"
)

// ActivityRepository defines data access methods for logged activities.
// All methods include companyID parameter to prevent cross-company data access.
type ActivityRepository interface {
	// Create inserts a new activity; ID, CreatedAt and UpdatedAt are set by the caller
	Create(ctx context.Context, activity Activity) (Activity, error)

	// GetByID retrieves an activity with company isolation
	GetByID(ctx context.Context, id string, companyID string) (Activity, error)

	// Update persists interval, description and status changes
	Update(ctx context.Context, activity Activity) (Activity, error)

	// Delete removes an activity
	Delete(ctx context.Context, id string, companyID string) error

	// ListByEmployeeAndDate returns every activity of one employee on one civil date, oldest first
	ListByEmployeeAndDate(ctx context.Context, employeeID string, date string, companyID string) ([]Activity, error)

	// ListByEmployee returns every activity of one employee, used for personal stats
	ListByEmployee(ctx context.Context, employeeID string, companyID string) ([]Activity, error)

	// List retrieves activities with filters and pagination
	List(ctx context.Context, filter ActivityFilter, companyID string) ([]Activity, int64, error)

	// ListAll retrieves every activity matching filter without pagination, used for export
	ListAll(ctx context.Context, filter ActivityFilter, companyID string) ([]Activity, error)
}
