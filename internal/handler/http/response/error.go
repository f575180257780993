package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-activity-go/internal/domain/activity"
	"github.com/cmlabs-hris/hris-activity-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-activity-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-activity-go/internal/pkg/slot"
	"github.com/cmlabs-hris/hris-activity-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var conflict *activity.ConflictError
	if errors.As(err, &conflict) {
		Conflict(w, conflict.Error())
		return
	}

	switch {
	// Slot grid errors
	case errors.Is(err, slot.ErrInvalidInterval), errors.Is(err, slot.ErrIntervalOrder):
		ValidationError(w, map[string]string{"time_interval": err.Error()})

	// Activity domain errors
	case errors.Is(err, activity.ErrTimeSlotConflict):
		Conflict(w, err.Error())
	case errors.Is(err, activity.ErrNotLoggable):
		NotLoggable(w, err.Error())
	case errors.Is(err, activity.ErrOutsideWorkWindow):
		BadRequest(w, err.Error(), map[string]string{"time_interval": err.Error()})
	case errors.Is(err, activity.ErrActivityNotFound):
		NotFound(w, "Activity not found")
	case errors.Is(err, activity.ErrActivityLocked):
		Locked(w, err.Error())
	case errors.Is(err, activity.ErrUnauthorized), errors.Is(err, activity.ErrOutsideReportingLine):
		Forbidden(w, err.Error())

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Auth errors
	case errors.Is(err, user.ErrInvalidToken):
		Unauthorized(w, err.Error())
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, err.Error())
	case errors.Is(err, user.ErrCompanyIDRequired), errors.Is(err, user.ErrEmployeeIDRequired):
		Forbidden(w, err.Error())

	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
