package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string, companyID string) (Employee, error)

	// IsDirectReport reports whether employeeID's line manager is managerID
	IsDirectReport(ctx context.Context, managerID string, employeeID string, companyID string) (bool, error)
}
