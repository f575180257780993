package mocks

import (
	"context"

	"github.com/cmlabs-hris/hris-activity-go/internal/domain/activity"
	"github.com/cmlabs-hris/hris-activity-go/internal/domain/employee"
	"github.com/stretchr/testify/mock"
)

// ActivityRepository is a mock for activity.ActivityRepository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Create(ctx context.Context, a activity.Activity) (activity.Activity, error) {
	args := m.Called(ctx, a)
	if fn, ok := args.Get(0).(func(context.Context, activity.Activity) activity.Activity); ok {
		return fn(ctx, a), args.Error(1)
	}
	if created, ok := args.Get(0).(activity.Activity); ok {
		return created, args.Error(1)
	}
	return activity.Activity{}, args.Error(1)
}

func (m *ActivityRepository) GetByID(ctx context.Context, id string, companyID string) (activity.Activity, error) {
	args := m.Called(ctx, id, companyID)
	if a, ok := args.Get(0).(activity.Activity); ok {
		return a, args.Error(1)
	}
	return activity.Activity{}, args.Error(1)
}

func (m *ActivityRepository) Update(ctx context.Context, a activity.Activity) (activity.Activity, error) {
	args := m.Called(ctx, a)
	if fn, ok := args.Get(0).(func(context.Context, activity.Activity) activity.Activity); ok {
		return fn(ctx, a), args.Error(1)
	}
	if updated, ok := args.Get(0).(activity.Activity); ok {
		return updated, args.Error(1)
	}
	return activity.Activity{}, args.Error(1)
}

func (m *ActivityRepository) Delete(ctx context.Context, id string, companyID string) error {
	args := m.Called(ctx, id, companyID)
	return args.Error(0)
}

func (m *ActivityRepository) ListByEmployeeAndDate(ctx context.Context, employeeID string, date string, companyID string) ([]activity.Activity, error) {
	args := m.Called(ctx, employeeID, date, companyID)
	if list, ok := args.Get(0).([]activity.Activity); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ActivityRepository) ListByEmployee(ctx context.Context, employeeID string, companyID string) ([]activity.Activity, error) {
	args := m.Called(ctx, employeeID, companyID)
	if list, ok := args.Get(0).([]activity.Activity); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ActivityRepository) List(ctx context.Context, filter activity.ActivityFilter, companyID string) ([]activity.Activity, int64, error) {
	args := m.Called(ctx, filter, companyID)
	if list, ok := args.Get(0).([]activity.Activity); ok {
		return list, args.Get(1).(int64), args.Error(2)
	}
	return nil, 0, args.Error(2)
}

func (m *ActivityRepository) ListAll(ctx context.Context, filter activity.ActivityFilter, companyID string) ([]activity.Activity, error) {
	args := m.Called(ctx, filter, companyID)
	if list, ok := args.Get(0).([]activity.Activity); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// EmployeeRepository is a mock for employee.EmployeeRepository.
type EmployeeRepository struct {
	mock.Mock
}

func (m *EmployeeRepository) GetByID(ctx context.Context, id string, companyID string) (employee.Employee, error) {
	args := m.Called(ctx, id, companyID)
	if emp, ok := args.Get(0).(employee.Employee); ok {
		return emp, args.Error(1)
	}
	return employee.Employee{}, args.Error(1)
}

func (m *EmployeeRepository) IsDirectReport(ctx context.Context, managerID string, employeeID string, companyID string) (bool, error) {
	args := m.Called(ctx, managerID, employeeID, companyID)
	return args.Bool(0), args.Error(1)
}

// TxManager runs fn directly with the caller's context.
type TxManager struct{}

func (TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
