package activity

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-activity-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-activity-go/internal/pkg/slot"
	"github.com/cmlabs-hris/hris-activity-go/internal/pkg/validator"
)

// ========================================
// ACTIVITY DTOs
// ========================================

type CreateActivityRequest struct {
	Date         string `json:"date"` // YYYY-MM-DD, defaults to today
	TimeInterval string `json:"time_interval"`
	Description  string `json:"description"`
	Status       string `json:"status"`
}

func (r *CreateActivityRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Date != "" {
		if _, valid := validator.IsValidDate(r.Date); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}

	errs = append(errs, validateTimeInterval(r.TimeInterval)...)

	if validator.IsEmpty(r.Description) {
		errs = append(errs, validator.ValidationError{
			Field:   "description",
			Message: "description is required",
		})
	}

	r.Status = strings.ToLower(strings.TrimSpace(r.Status))
	if r.Status == "" {
		r.Status = string(StatusOngoing)
	} else if !validator.IsInSlice(strings.ToLower(r.Status), validStatuses) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: pending, ongoing, completed",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateActivityRequest struct {
	ID           string  `json:"-"`
	TimeInterval *string `json:"time_interval,omitempty"`
	Description  *string `json:"description,omitempty"`
	Status       *string `json:"status,omitempty"`
}

func (r *UpdateActivityRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if r.TimeInterval != nil {
		errs = append(errs, validateTimeInterval(*r.TimeInterval)...)
	}

	if r.Description != nil && validator.IsEmpty(*r.Description) {
		errs = append(errs, validator.ValidationError{
			Field:   "description",
			Message: "description must not be empty",
		})
	}

	if r.Status != nil && !validator.IsInSlice(strings.ToLower(*r.Status), validStatuses) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: pending, ongoing, completed",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func validateTimeInterval(s string) validator.ValidationErrors {
	if validator.IsEmpty(s) {
		return validator.ValidationErrors{{
			Field:   "time_interval",
			Message: "time_interval is required",
		}}
	}
	if _, err := slot.ParseInterval(s); err != nil {
		return validator.ValidationErrors{{
			Field:   "time_interval",
			Message: err.Error(),
		}}
	}
	return nil
}

type ActivityResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName *string `json:"employee_name,omitempty"`
	Date         string  `json:"date"`
	TimeInterval string  `json:"time_interval"`
	SlotIndex    *int    `json:"slot_index,omitempty"`
	Description  string  `json:"description"`
	Status       string  `json:"status"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

type ActivityFilter struct {
	// Search & Filter
	EmployeeID *string `json:"employee_id,omitempty"`
	Search     *string `json:"search,omitempty"`     // description or employee name
	Date       *string `json:"date,omitempty"`       // YYYY-MM-DD
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status     *string `json:"status,omitempty"`

	// Scope, set by the service from the caller's role
	ManagerID *string `json:"-"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortBy    string `json:"sort_by"`    // date, time_interval, employee_name, status, created_at
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *ActivityFilter) Validate() error {
	var errs validator.ValidationErrors

	// Page validation
	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1
	}

	// Limit validation
	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.Status != nil && !validator.IsInSlice(strings.ToLower(*f.Status), validStatuses) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: pending, ongoing, completed",
		})
	}

	dates := []struct {
		field string
		value *string
	}{{"date", f.Date}, {"start_date", f.StartDate}, {"end_date", f.EndDate}}
	for _, d := range dates {
		if d.value != nil && *d.value != "" {
			if _, valid := validator.IsValidDate(*d.value); !valid {
				errs = append(errs, validator.ValidationError{
					Field:   d.field,
					Message: d.field + " must be in YYYY-MM-DD format",
				})
			}
		}
	}

	if f.StartDate != nil && f.EndDate != nil && *f.StartDate != "" && *f.EndDate != "" && *f.StartDate > *f.EndDate {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if f.SortBy != "" {
		validSortFields := []string{"date", "time_interval", "employee_name", "status", "created_at"}
		if !validator.IsInSlice(f.SortBy, validSortFields) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_by",
				Message: "sort_by must be one of: date, time_interval, employee_name, status, created_at",
			})
		}
	} else {
		f.SortBy = "date"
	}

	if f.SortOrder != "" {
		if !validator.IsInSlice(strings.ToLower(f.SortOrder), []string{"asc", "desc"}) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_order",
				Message: "sort_order must be one of: asc, desc",
			})
		}
	} else {
		f.SortOrder = "desc"
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ListActivityResponse struct {
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
	Showing    string             `json:"showing"`
	Activities []ActivityResponse `json:"activities"`
}

// ========================================
// SLOT TABLE DTOs
// ========================================

// SlotState is the reconciled view of one slot. It is rebuilt on every reconciliation.
type SlotState struct {
	SlotIndex  slot.Index         `json:"slot_index"`
	TimeLabel  string             `json:"time_label"`
	Status     SlotStatus         `json:"status"`
	Activities []ActivityResponse `json:"activities"`
}

type StatusCounts struct {
	Pending   int `json:"pending"`
	Ongoing   int `json:"ongoing"`
	Completed int `json:"completed"`
}

// Add counts one activity of the given status. Unknown statuses are ignored.
func (c *StatusCounts) Add(status Status) {
	switch status {
	case StatusPending:
		c.Pending++
	case StatusOngoing:
		c.Ongoing++
	case StatusCompleted:
		c.Completed++
	}
}

type SlotTable struct {
	Date            string       `json:"date"`
	Timezone        string       `json:"timezone"`
	IsToday         bool         `json:"is_today"`
	CurrentSlot     slot.Index   `json:"current_slot"`
	WorkWindow      slot.Window  `json:"work_window"`
	Slots           []SlotState  `json:"slots"`
	MissedSlotCount int          `json:"missed_slot_count"`
	TotalActivities int          `json:"total_activities"`
	StatusCounts    StatusCounts `json:"status_counts"`
	Excluded        int          `json:"excluded"`
}

type StatsResponse struct {
	TotalActivities int          `json:"total_activities"`
	StatusCounts    StatusCounts `json:"status_counts"`
}

type ClockResponse = clock.Snapshot

// NewActivityResponse maps an entity to its wire form.
func NewActivityResponse(a Activity) ActivityResponse {
	resp := ActivityResponse{
		ID:           a.ID,
		EmployeeID:   a.EmployeeID,
		EmployeeName: a.EmployeeName,
		Date:         a.Date,
		TimeInterval: a.TimeInterval,
		Description:  a.Description,
		Status:       string(a.Status),
		CreatedAt:    a.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:    a.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	if idx, err := slot.FromLabel(a.TimeInterval); err == nil {
		i := int(idx)
		resp.SlotIndex = &i
	}
	return resp
}

// Entity converts a wire record back into an entity. Unparsable timestamps are left zero.
func (r ActivityResponse) Entity() Activity {
	a := Activity{
		ID:           r.ID,
		EmployeeID:   r.EmployeeID,
		EmployeeName: r.EmployeeName,
		Date:         r.Date,
		TimeInterval: r.TimeInterval,
		Description:  r.Description,
		Status:       Status(r.Status),
	}
	if t, ok := validator.IsValidDateTime(r.CreatedAt); ok {
		a.CreatedAt = t
	}
	if t, ok := validator.IsValidDateTime(r.UpdatedAt); ok {
		a.UpdatedAt = t
	}
	return a
}
