package activity

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"

	"github.com/cmlabs-hris/hris-activity-go/internal/domain/activity"
	"github.com/cmlabs-hris/hris-activity-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-activity-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-activity-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-activity-go/internal/pkg/slot"
	"github.com/cmlabs-hris/hris-activity-go/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-activity-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-activity-go/internal/repository/postgresql"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
)

// EventPublisher pushes change notifications to a user's open streams.
type EventPublisher interface {
	Publish(userID string, event sse.Event)
}

type ActivityServiceImpl struct {
	tx postgresql.TxManager
	activity.ActivityRepository
	employee.EmployeeRepository
	clock     *clock.Clock
	window    slot.Window
	publisher EventPublisher
}

func NewActivityService(
	tx postgresql.TxManager,
	activityRepo activity.ActivityRepository,
	employeeRepo employee.EmployeeRepository,
	clk *clock.Clock,
	window slot.Window,
	publisher EventPublisher,
) activity.ActivityService {
	return &ActivityServiceImpl{
		tx:                 tx,
		ActivityRepository: activityRepo,
		EmployeeRepository: employeeRepo,
		clock:              clk,
		window:             window,
		publisher:          publisher,
	}
}

type principal struct {
	userID     string
	employeeID string
	companyID  string
	role       user.Role
}

func principalFromContext(ctx context.Context) (principal, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return principal{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return principal{}, user.ErrCompanyIDRequired
	}

	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return principal{}, user.ErrEmployeeIDRequired
	}

	userID, _ := claims["user_id"].(string)
	role, _ := claims["role"].(string)

	return principal{
		userID:     userID,
		employeeID: employeeID,
		companyID:  companyID,
		role:       user.Role(role),
	}, nil
}

// GetClock implements activity.ActivityService.
func (s *ActivityServiceImpl) GetClock(ctx context.Context) (activity.ClockResponse, error) {
	return s.clock.Snapshot(s.clock.Now(), s.window), nil
}

// GetMySlotTable implements activity.ActivityService.
func (s *ActivityServiceImpl) GetMySlotTable(ctx context.Context, date string) (activity.SlotTable, error) {
	p, err := principalFromContext(ctx)
	if err != nil {
		return activity.SlotTable{}, err
	}

	return s.slotTable(ctx, p.employeeID, p.companyID, date)
}

// GetEmployeeSlotTable implements activity.ActivityService.
func (s *ActivityServiceImpl) GetEmployeeSlotTable(ctx context.Context, employeeID string, date string) (activity.SlotTable, error) {
	p, err := principalFromContext(ctx)
	if err != nil {
		return activity.SlotTable{}, err
	}

	if err := s.authorizeEmployee(ctx, p, employeeID); err != nil {
		return activity.SlotTable{}, err
	}

	return s.slotTable(ctx, employeeID, p.companyID, date)
}

func (s *ActivityServiceImpl) slotTable(ctx context.Context, employeeID, companyID, date string) (activity.SlotTable, error) {
	now := s.clock.Now()
	if date == "" {
		date = s.clock.Today(now)
	} else if _, valid := validator.IsValidDate(date); !valid {
		return activity.SlotTable{}, validator.ValidationErrors{{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		}}
	}

	records, err := s.ActivityRepository.ListByEmployeeAndDate(ctx, employeeID, date, companyID)
	if err != nil {
		return activity.SlotTable{}, fmt.Errorf("failed to list activities for %s: %w", date, err)
	}

	return BuildSlotTable(ReconcileInput{
		Date:    date,
		Window:  s.window,
		Clock:   s.clock,
		Now:     now,
		Records: records,
	}), nil
}

// authorizeEmployee allows an employee's own records, a line manager's direct
// reports and anyone in the company for super admins.
func (s *ActivityServiceImpl) authorizeEmployee(ctx context.Context, p principal, employeeID string) error {
	if employeeID == p.employeeID {
		return nil
	}

	switch p.role {
	case user.RoleSuperAdmin:
		if _, err := s.EmployeeRepository.GetByID(ctx, employeeID, p.companyID); err != nil {
			if errors.Is(err, employee.ErrEmployeeNotFound) {
				return err
			}
			return fmt.Errorf("failed to get employee: %w", err)
		}
		return nil
	case user.RoleLineManager:
		ok, err := s.EmployeeRepository.IsDirectReport(ctx, p.employeeID, employeeID, p.companyID)
		if err != nil {
			return fmt.Errorf("failed to check reporting line: %w", err)
		}
		if !ok {
			return activity.ErrOutsideReportingLine
		}
		return nil
	default:
		return activity.ErrOutsideReportingLine
	}
}

// GetMyStats implements activity.ActivityService.
func (s *ActivityServiceImpl) GetMyStats(ctx context.Context) (activity.StatsResponse, error) {
	p, err := principalFromContext(ctx)
	if err != nil {
		return activity.StatsResponse{}, err
	}

	records, err := s.ActivityRepository.ListByEmployee(ctx, p.employeeID, p.companyID)
	if err != nil {
		return activity.StatsResponse{}, fmt.Errorf("failed to list activities: %w", err)
	}

	return ComputeStats(records), nil
}

// CreateActivity implements activity.ActivityService.
func (s *ActivityServiceImpl) CreateActivity(ctx context.Context, req activity.CreateActivityRequest) (activity.ActivityResponse, error) {
	if err := req.Validate(); err != nil {
		return activity.ActivityResponse{}, err
	}

	p, err := principalFromContext(ctx)
	if err != nil {
		return activity.ActivityResponse{}, err
	}

	now := s.clock.Now()
	if req.Date == "" {
		req.Date = s.clock.Today(now)
	}

	interval, err := slot.ParseInterval(req.TimeInterval)
	if err != nil {
		return activity.ActivityResponse{}, err
	}
	if !s.window.Contains(interval.Slot()) {
		return activity.ActivityResponse{}, activity.ErrOutsideWorkWindow
	}
	if !s.clock.IsLoggableNow(req.Date, now, s.window) {
		return activity.ActivityResponse{}, activity.ErrNotLoggable
	}

	id, err := uuid.NewV7()
	if err != nil {
		return activity.ActivityResponse{}, fmt.Errorf("failed to generate activity id: %w", err)
	}

	record := activity.Activity{
		ID:           id.String(),
		EmployeeID:   p.employeeID,
		CompanyID:    p.companyID,
		Date:         req.Date,
		TimeInterval: interval.String(),
		Description:  strings.TrimSpace(req.Description),
		Status:       activity.Status(req.Status),
		CreatedAt:    now.UTC(),
		UpdatedAt:    now.UTC(),
	}

	var created activity.Activity
	err = s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		sameDay, err := s.ActivityRepository.ListByEmployeeAndDate(txCtx, p.employeeID, record.Date, p.companyID)
		if err != nil {
			return fmt.Errorf("failed to list activities for conflict check: %w", err)
		}
		if err := checkConflict(sameDay, record); err != nil {
			return err
		}

		created, err = s.ActivityRepository.Create(txCtx, record)
		if err != nil {
			return fmt.Errorf("failed to create activity: %w", err)
		}
		return nil
	})
	if err != nil {
		return activity.ActivityResponse{}, err
	}

	resp := activity.NewActivityResponse(created)
	s.publish(p.userID, "activity.created", resp)
	slog.Info("Activity logged", "activity_id", created.ID, "employee_id", created.EmployeeID,
		"date", created.Date, "time_interval", created.TimeInterval)

	return resp, nil
}

// UpdateActivity implements activity.ActivityService.
func (s *ActivityServiceImpl) UpdateActivity(ctx context.Context, req activity.UpdateActivityRequest) (activity.ActivityResponse, error) {
	if err := req.Validate(); err != nil {
		return activity.ActivityResponse{}, err
	}

	p, err := principalFromContext(ctx)
	if err != nil {
		return activity.ActivityResponse{}, err
	}

	now := s.clock.Now()
	today := s.clock.Today(now)

	var updated activity.Activity
	err = s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		existing, err := s.ownedActivity(txCtx, p, req.ID, today)
		if err != nil {
			return err
		}

		needsConflictCheck := false
		if req.TimeInterval != nil {
			interval, err := slot.ParseInterval(*req.TimeInterval)
			if err != nil {
				return err
			}
			if !s.window.Contains(interval.Slot()) {
				return activity.ErrOutsideWorkWindow
			}
			if interval.String() != existing.TimeInterval {
				existing.TimeInterval = interval.String()
				needsConflictCheck = true
			}
		}
		if req.Description != nil {
			description := strings.TrimSpace(*req.Description)
			if description != existing.Description {
				existing.Description = description
				needsConflictCheck = true
			}
		}
		if req.Status != nil {
			existing.Status = activity.Status(strings.ToLower(*req.Status))
		}

		if needsConflictCheck {
			sameDay, err := s.ActivityRepository.ListByEmployeeAndDate(txCtx, existing.EmployeeID, existing.Date, p.companyID)
			if err != nil {
				return fmt.Errorf("failed to list activities for conflict check: %w", err)
			}
			if err := checkConflict(sameDay, existing); err != nil {
				return err
			}
		}

		existing.UpdatedAt = now.UTC()
		updated, err = s.ActivityRepository.Update(txCtx, existing)
		if err != nil {
			if errors.Is(err, activity.ErrActivityNotFound) {
				return err
			}
			return fmt.Errorf("failed to update activity: %w", err)
		}
		return nil
	})
	if err != nil {
		return activity.ActivityResponse{}, err
	}

	resp := activity.NewActivityResponse(updated)
	s.publish(p.userID, "activity.updated", resp)

	return resp, nil
}

// DeleteActivity implements activity.ActivityService.
func (s *ActivityServiceImpl) DeleteActivity(ctx context.Context, id string) error {
	if validator.IsEmpty(id) {
		return validator.ValidationErrors{{Field: "id", Message: "id is required"}}
	}

	p, err := principalFromContext(ctx)
	if err != nil {
		return err
	}

	today := s.clock.Today(s.clock.Now())

	err = s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		if _, err := s.ownedActivity(txCtx, p, id, today); err != nil {
			return err
		}
		if err := s.ActivityRepository.Delete(txCtx, id, p.companyID); err != nil {
			if errors.Is(err, activity.ErrActivityNotFound) {
				return err
			}
			return fmt.Errorf("failed to delete activity: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.publish(p.userID, "activity.deleted", map[string]string{"id": id})
	return nil
}

// ownedActivity loads an activity the caller may change.
func (s *ActivityServiceImpl) ownedActivity(ctx context.Context, p principal, id string, today string) (activity.Activity, error) {
	existing, err := s.ActivityRepository.GetByID(ctx, id, p.companyID)
	if err != nil {
		if errors.Is(err, activity.ErrActivityNotFound) {
			return activity.Activity{}, err
		}
		return activity.Activity{}, fmt.Errorf("failed to get activity: %w", err)
	}
	if existing.EmployeeID != p.employeeID {
		return activity.Activity{}, activity.ErrUnauthorized
	}
	if existing.IsLocked(today) {
		return activity.Activity{}, activity.ErrActivityLocked
	}
	return existing, nil
}

// checkConflict rejects a second activity with the same description in the same slot.
// Distinct activities may share a slot.
func checkConflict(sameDay []activity.Activity, candidate activity.Activity) error {
	candidateSlot, err := slot.FromLabel(candidate.TimeInterval)
	if err != nil {
		return err
	}
	for _, other := range sameDay {
		if other.ID == candidate.ID || other.Date != candidate.Date {
			continue
		}
		otherSlot, err := slot.FromLabel(other.TimeInterval)
		if err != nil || otherSlot != candidateSlot {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(other.Description), strings.TrimSpace(candidate.Description)) {
			return &activity.ConflictError{Date: candidate.Date, TimeInterval: other.TimeInterval}
		}
	}
	return nil
}

// ListMyActivities implements activity.ActivityService.
func (s *ActivityServiceImpl) ListMyActivities(ctx context.Context, filter activity.ActivityFilter) (activity.ListActivityResponse, error) {
	if err := filter.Validate(); err != nil {
		return activity.ListActivityResponse{}, err
	}

	p, err := principalFromContext(ctx)
	if err != nil {
		return activity.ListActivityResponse{}, err
	}

	filter.EmployeeID = &p.employeeID
	filter.ManagerID = nil

	return s.list(ctx, filter, p.companyID)
}

// ListActivities implements activity.ActivityService.
func (s *ActivityServiceImpl) ListActivities(ctx context.Context, filter activity.ActivityFilter) (activity.ListActivityResponse, error) {
	if err := filter.Validate(); err != nil {
		return activity.ListActivityResponse{}, err
	}

	p, err := principalFromContext(ctx)
	if err != nil {
		return activity.ListActivityResponse{}, err
	}

	if err := s.scopeFilter(p, &filter); err != nil {
		return activity.ListActivityResponse{}, err
	}

	return s.list(ctx, filter, p.companyID)
}

// scopeFilter restricts line managers to their direct reports.
func (s *ActivityServiceImpl) scopeFilter(p principal, filter *activity.ActivityFilter) error {
	switch p.role {
	case user.RoleSuperAdmin:
		filter.ManagerID = nil
	case user.RoleLineManager:
		filter.ManagerID = &p.employeeID
	default:
		return activity.ErrOutsideReportingLine
	}
	return nil
}

func (s *ActivityServiceImpl) list(ctx context.Context, filter activity.ActivityFilter, companyID string) (activity.ListActivityResponse, error) {
	records, total, err := s.ActivityRepository.List(ctx, filter, companyID)
	if err != nil {
		return activity.ListActivityResponse{}, fmt.Errorf("failed to list activities: %w", err)
	}

	responses := make([]activity.ActivityResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, activity.NewActivityResponse(r))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	showing := fmt.Sprintf("%d-%d of %d", (filter.Page-1)*filter.Limit+1, min(filter.Page*filter.Limit, int(total)), total)
	if total == 0 {
		showing = "0 of 0"
	}

	return activity.ListActivityResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Showing:    showing,
		Activities: responses,
	}, nil
}

// ExportCSV implements activity.ActivityService.
func (s *ActivityServiceImpl) ExportCSV(ctx context.Context, filter activity.ActivityFilter, w io.Writer) error {
	if err := filter.Validate(); err != nil {
		return err
	}

	p, err := principalFromContext(ctx)
	if err != nil {
		return err
	}

	if err := s.scopeFilter(p, &filter); err != nil {
		return err
	}

	records, err := s.ActivityRepository.ListAll(ctx, filter, p.companyID)
	if err != nil {
		return fmt.Errorf("failed to list activities for export: %w", err)
	}

	return WriteCSV(w, records, s.clock.Location())
}

func (s *ActivityServiceImpl) publish(userID string, event string, data interface{}) {
	if s.publisher == nil || userID == "" {
		return
	}
	s.publisher.Publish(userID, sse.Event{UserID: userID, Event: event, Data: data})
}
