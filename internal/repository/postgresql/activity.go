package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hris-activity-go/internal/domain/activity"
	"github.com/cmlabs-hris/hris-activity-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type activityRepository struct {
	db *database.DB
}

func NewActivityRepository(db *database.DB) activity.ActivityRepository {
	return &activityRepository{db: db}
}

const activityColumns = `
	a.id, a.employee_id, a.company_id, to_char(a.date, 'YYYY-MM-DD'), a.time_interval,
	a.description, a.status, a.created_at, a.updated_at,
	e.full_name, e.id_card, e.department, e.region, e.branch, e.location`

const activityFrom = `
	FROM activities a
	LEFT JOIN employees e ON e.id = a.employee_id`

func scanActivity(row pgx.Row) (activity.Activity, error) {
	var act activity.Activity
	err := row.Scan(
		&act.ID, &act.EmployeeID, &act.CompanyID, &act.Date, &act.TimeInterval,
		&act.Description, &act.Status, &act.CreatedAt, &act.UpdatedAt,
		&act.EmployeeName, &act.IDCard, &act.Department, &act.Region, &act.Branch, &act.Location,
	)
	return act, err
}

func collectActivities(rows pgx.Rows) ([]activity.Activity, error) {
	defer rows.Close()

	activities := make([]activity.Activity, 0)
	for rows.Next() {
		act, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		activities = append(activities, act)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate activities: %w", err)
	}
	return activities, nil
}

// Create implements activity.ActivityRepository.
func (r *activityRepository) Create(ctx context.Context, newActivity activity.Activity) (activity.Activity, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO activities (
			id, employee_id, company_id, date, time_interval, description, status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		newActivity.ID,
		newActivity.EmployeeID,
		newActivity.CompanyID,
		newActivity.Date,
		newActivity.TimeInterval,
		newActivity.Description,
		newActivity.Status,
		newActivity.CreatedAt,
		newActivity.UpdatedAt,
	).Scan(&newActivity.CreatedAt, &newActivity.UpdatedAt)
	if err != nil {
		return activity.Activity{}, fmt.Errorf("failed to create activity: %w", err)
	}

	return newActivity, nil
}

// GetByID implements activity.ActivityRepository.
func (r *activityRepository) GetByID(ctx context.Context, id string, companyID string) (activity.Activity, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + activityColumns + activityFrom + `
		WHERE a.id = $1 AND a.company_id = $2
	`

	act, err := scanActivity(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return activity.Activity{}, activity.ErrActivityNotFound
		}
		return activity.Activity{}, fmt.Errorf("failed to get activity by ID: %w", err)
	}

	return act, nil
}

// Update implements activity.ActivityRepository.
func (r *activityRepository) Update(ctx context.Context, act activity.Activity) (activity.Activity, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE activities
		SET time_interval = $1, description = $2, status = $3, updated_at = $4
		WHERE id = $5 AND company_id = $6
		RETURNING updated_at
	`

	err := q.QueryRow(ctx, query,
		act.TimeInterval,
		act.Description,
		act.Status,
		act.UpdatedAt,
		act.ID,
		act.CompanyID,
	).Scan(&act.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return activity.Activity{}, activity.ErrActivityNotFound
		}
		return activity.Activity{}, fmt.Errorf("failed to update activity: %w", err)
	}

	return act, nil
}

// Delete implements activity.ActivityRepository.
func (r *activityRepository) Delete(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM activities WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return activity.ErrActivityNotFound
	}

	return nil
}

// ListByEmployeeAndDate implements activity.ActivityRepository.
func (r *activityRepository) ListByEmployeeAndDate(ctx context.Context, employeeID string, date string, companyID string) ([]activity.Activity, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + activityColumns + activityFrom + `
		WHERE a.employee_id = $1 AND a.date = $2 AND a.company_id = $3
		ORDER BY a.created_at ASC
	`

	rows, err := q.Query(ctx, query, employeeID, date, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query activities: %w", err)
	}

	return collectActivities(rows)
}

// ListByEmployee implements activity.ActivityRepository.
func (r *activityRepository) ListByEmployee(ctx context.Context, employeeID string, companyID string) ([]activity.Activity, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + activityColumns + activityFrom + `
		WHERE a.employee_id = $1 AND a.company_id = $2
		ORDER BY a.date DESC, a.created_at ASC
	`

	rows, err := q.Query(ctx, query, employeeID, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query activities: %w", err)
	}

	return collectActivities(rows)
}

// buildActivityWhere turns a filter into a WHERE clause and its positional args.
func buildActivityWhere(filter activity.ActivityFilter, companyID string) (string, []interface{}) {
	where := "a.company_id = $1"
	args := []interface{}{companyID}
	argIdx := 2

	if filter.ManagerID != nil && *filter.ManagerID != "" {
		where += fmt.Sprintf(" AND e.manager_id = $%d", argIdx)
		args = append(args, *filter.ManagerID)
		argIdx++
	}

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		where += fmt.Sprintf(" AND a.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}

	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		where += fmt.Sprintf(" AND (a.description ILIKE $%d OR e.full_name ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+strings.TrimSpace(*filter.Search)+"%")
		argIdx++
	}

	if filter.Date != nil && *filter.Date != "" {
		where += fmt.Sprintf(" AND a.date = $%d", argIdx)
		args = append(args, *filter.Date)
		argIdx++
	}

	if filter.StartDate != nil && *filter.StartDate != "" {
		where += fmt.Sprintf(" AND a.date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		where += fmt.Sprintf(" AND a.date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	if filter.Status != nil && *filter.Status != "" {
		where += fmt.Sprintf(" AND a.status = $%d", argIdx)
		args = append(args, strings.ToLower(*filter.Status))
	}

	return where, args
}

func buildActivityOrder(filter activity.ActivityFilter) string {
	orderByField := "a.date"
	switch filter.SortBy {
	case "time_interval":
		orderByField = "a.time_interval"
	case "employee_name":
		orderByField = "e.full_name"
	case "status":
		orderByField = "a.status"
	case "created_at":
		orderByField = "a.created_at"
	}
	sortOrder := "DESC"
	if strings.ToLower(filter.SortOrder) == "asc" {
		sortOrder = "ASC"
	}
	return fmt.Sprintf("%s %s, a.time_interval ASC, a.created_at ASC", orderByField, sortOrder)
}

// List implements activity.ActivityRepository.
func (r *activityRepository) List(ctx context.Context, filter activity.ActivityFilter, companyID string) ([]activity.Activity, int64, error) {
	q := GetQuerier(ctx, r.db)

	where, args := buildActivityWhere(filter, companyID)

	var total int64
	countQuery := "SELECT COUNT(*)" + activityFrom + " WHERE " + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count activities: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	selectQuery := fmt.Sprintf("SELECT %s %s WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d",
		activityColumns, activityFrom, where, buildActivityOrder(filter), len(args)+1, len(args)+2)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list activities: %w", err)
	}

	activities, err := collectActivities(rows)
	if err != nil {
		return nil, 0, err
	}

	return activities, total, nil
}

// ListAll implements activity.ActivityRepository.
func (r *activityRepository) ListAll(ctx context.Context, filter activity.ActivityFilter, companyID string) ([]activity.Activity, error) {
	q := GetQuerier(ctx, r.db)

	where, args := buildActivityWhere(filter, companyID)
	selectQuery := fmt.Sprintf("SELECT %s %s WHERE %s ORDER BY %s",
		activityColumns, activityFrom, where, buildActivityOrder(filter))

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities for export: %w", err)
	}

	return collectActivities(rows)
}
