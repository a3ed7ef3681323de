package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/khoa-hris/chamcong-backend-go/internal/domain/attendance"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/backup"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/correction"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/employee"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/notification"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/settings"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/symbol"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/user"
	"github.com/khoa-hris/chamcong-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var partial *correction.PartialApprovalError
	if errors.As(err, &partial) {
		ConflictWithDetails(w, "PARTIAL_APPROVAL", partial.Error(), map[string]string{
			"request_id": partial.RequestID,
			"key":        partial.Key,
		})
		return
	}

	switch {
	// Lock policy
	case errors.Is(err, settings.ErrLockedPeriod):
		Locked(w, "Attendance period is locked")
	case errors.Is(err, settings.ErrFuturePeriod):
		BadRequest(w, "Cannot record attendance for a future day", nil)

	// Attendance
	case errors.Is(err, attendance.ErrInvalidKey):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrRequestRequired):
		Conflict(w, "Day is outside the direct edit window, submit a correction request")

	// Correction requests
	case errors.Is(err, correction.ErrRequestNotFound):
		NotFound(w, "Pending correction request not found")
	case errors.Is(err, correction.ErrDuplicatePending):
		Conflict(w, "A pending correction request already exists for this day")
	case errors.Is(err, correction.ErrNotApproved):
		Conflict(w, "Correction request is not approved")

	// Employees and scope
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeIDExists):
		Conflict(w, "Employee ID already exists")
	case errors.Is(err, employee.ErrDepartmentForbidden), errors.Is(err, user.ErrDepartmentScopeViolation):
		Forbidden(w, "Department outside your scope")

	// Symbol catalog
	case errors.Is(err, symbol.ErrSymbolNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, symbol.ErrUnknownCode),
		errors.Is(err, symbol.ErrIndexOutOfRange),
		errors.Is(err, symbol.ErrInvalidDirection),
		errors.Is(err, symbol.ErrInvalidOperation):
		BadRequest(w, err.Error(), nil)

	case errors.Is(err, notification.ErrDepartmentRequired):
		BadRequest(w, "Department is required", nil)

	// Backup
	case errors.Is(err, backup.ErrBackupNotFound):
		NotFound(w, "Backup not found")
	case errors.Is(err, backup.ErrInvalidName):
		BadRequest(w, "Invalid backup name", nil)

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
