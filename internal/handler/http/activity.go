package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hris-activity-go/internal/domain/activity"
	"github.com/cmlabs-hris/hris-activity-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ActivityHandler interface {
	Clock(w http.ResponseWriter, r *http.Request)
	MySlots(w http.ResponseWriter, r *http.Request)
	EmployeeSlots(w http.ResponseWriter, r *http.Request)
	MyStats(w http.ResponseWriter, r *http.Request)
	MyList(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type activityHandlerImpl struct {
	activityService activity.ActivityService
}

func NewActivityHandler(activityService activity.ActivityService) ActivityHandler {
	return &activityHandlerImpl{
		activityService: activityService,
	}
}

// Clock implements ActivityHandler.
func (h *activityHandlerImpl) Clock(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.activityService.GetClock(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, snapshot)
}

// MySlots implements ActivityHandler.
func (h *activityHandlerImpl) MySlots(w http.ResponseWriter, r *http.Request) {
	table, err := h.activityService.GetMySlotTable(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, table)
}

// EmployeeSlots implements ActivityHandler.
func (h *activityHandlerImpl) EmployeeSlots(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	if employeeID == "" {
		response.BadRequest(w, "employee ID is required", nil)
		return
	}

	table, err := h.activityService.GetEmployeeSlotTable(r.Context(), employeeID, r.URL.Query().Get("date"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, table)
}

// MyStats implements ActivityHandler.
func (h *activityHandlerImpl) MyStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.activityService.GetMyStats(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, stats)
}

// parseActivityFilter reads list query parameters. Unparsable page and limit
// values fall back to their defaults.
func parseActivityFilter(r *http.Request) activity.ActivityFilter {
	q := r.URL.Query()
	filter := activity.ActivityFilter{}

	optional := func(key string) *string {
		if v := q.Get(key); v != "" {
			return &v
		}
		return nil
	}

	filter.EmployeeID = optional("employee_id")
	filter.Search = optional("search")
	filter.Date = optional("date")
	filter.StartDate = optional("start_date")
	filter.EndDate = optional("end_date")
	filter.Status = optional("status")

	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 0 {
		filter.Page = p
	}
	if l, err := strconv.Atoi(q.Get("limit")); err == nil && l > 0 {
		filter.Limit = l
	}

	filter.SortBy = q.Get("sort_by")
	filter.SortOrder = q.Get("sort_order")

	return filter
}

// MyList implements ActivityHandler.
func (h *activityHandlerImpl) MyList(w http.ResponseWriter, r *http.Request) {
	result, err := h.activityService.ListMyActivities(r.Context(), parseActivityFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// List implements ActivityHandler.
func (h *activityHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.activityService.ListActivities(r.Context(), parseActivityFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Export implements ActivityHandler. The CSV is buffered so a failure midway
// still produces a JSON error instead of a truncated file.
func (h *activityHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	filter := parseActivityFilter(r)

	var buf bytes.Buffer
	if err := h.activityService.ExportCSV(r.Context(), filter, &buf); err != nil {
		response.HandleError(w, err)
		return
	}

	filename := "activities.csv"
	if filter.Date != nil {
		filename = fmt.Sprintf("activities-%s.csv", *filter.Date)
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write csv export", "error", err)
	}
}

// Create implements ActivityHandler.
func (h *activityHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req activity.CreateActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.activityService.CreateActivity(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Activity logged", result)
}

// Update implements ActivityHandler.
func (h *activityHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req activity.UpdateActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.activityService.UpdateActivity(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Activity updated", result)
}

// Delete implements ActivityHandler.
func (h *activityHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.activityService.DeleteActivity(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Activity deleted", nil)
}
