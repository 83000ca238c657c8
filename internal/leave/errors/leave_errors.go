package leaveerrors

import (
	"net/http"

	"github.com/undiescoverd/leave-tracker-app-sub003/internal/shared/apperror"
)

var (
	ErrInvalidRequestID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave request id",
		http.StatusBadRequest,
	)
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid user id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start date must not be after end date",
		http.StatusBadRequest,
	)
	ErrRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrAlreadyProcessed = apperror.New(
		apperror.CodeInvalidState,
		"leave request already processed",
		http.StatusConflict,
	)
	ErrNotRequestOwner = apperror.New(
		apperror.CodeForbidden,
		"only the requester may cancel a leave request",
		http.StatusForbidden,
	)
	ErrCoverageConflict = apperror.New(
		apperror.CodeConflict,
		"another coverage user already has leave booked in this period",
		http.StatusConflict,
	)
	ErrToilDisabled = apperror.New(
		apperror.CodeFeatureDisabled,
		"TOIL leave is not enabled",
		http.StatusForbidden,
	)
	ErrSickDisabled = apperror.New(
		apperror.CodeFeatureDisabled,
		"sick leave is not enabled",
		http.StatusForbidden,
	)
	ErrToilHoursUnknown = apperror.New(
		apperror.CodeInvalidInput,
		"cannot determine TOIL hours for this request",
		http.StatusBadRequest,
	)
	// ErrPendingSetChanged aborts a bulk reject whose pending snapshot went
	// stale between read and write.
	ErrPendingSetChanged = apperror.New(
		apperror.CodeConflict,
		"pending requests changed while rejecting, retry the operation",
		http.StatusConflict,
	)
)

// InsufficientBalance builds the rejection message with the live numbers so
// the requester sees exactly how far short they are.
func InsufficientBalance(kind string, remaining, requested float64, unit string) *apperror.AppError {
	return apperror.Newf(
		apperror.CodeInsufficientBalance,
		http.StatusUnprocessableEntity,
		"insufficient %s balance: %.1f %s remaining, %.1f requested",
		kind, remaining, unit, requested,
	)
}

// BulkReasonTooShort carries the configured minimum so operators know the
// threshold without reading config.
func BulkReasonTooShort(min int) *apperror.AppError {
	return apperror.Newf(
		apperror.CodeInvalidInput,
		http.StatusBadRequest,
		"bulk rejection reason must be at least %d characters",
		min,
	)
}
