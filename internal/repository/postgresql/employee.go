package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-activity-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-activity-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT id, company_id, user_id, manager_id, full_name,
			COALESCE(id_card, ''), COALESCE(department, ''), COALESCE(region, ''),
			COALESCE(branch, ''), COALESCE(location, '')
		FROM employees
		WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL
	`

	var emp employee.Employee
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&emp.ID, &emp.CompanyID, &emp.UserID, &emp.ManagerID, &emp.FullName,
		&emp.IDCard, &emp.Department, &emp.Region, &emp.Branch, &emp.Location,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee with id %s: %w", id, err)
	}

	return emp, nil
}

// IsDirectReport implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) IsDirectReport(ctx context.Context, managerID string, employeeID string, companyID string) (bool, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM employees
			WHERE id = $1 AND manager_id = $2 AND company_id = $3 AND deleted_at IS NULL
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, managerID, companyID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check reporting line for employee %s: %w", employeeID, err)
	}

	return exists, nil
}
