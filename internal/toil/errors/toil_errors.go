package toilerrors

import (
	"net/http"

	"github.com/undiescoverd/leave-tracker-app-sub003/internal/shared/apperror"
)

var (
	ErrScenarioIncomplete = apperror.New(
		apperror.CodeInvalidInput,
		"cannot calculate TOIL hours: scenario, travel date or return time missing",
		http.StatusBadRequest,
	)
	ErrUnknownScenario = apperror.New(
		apperror.CodeInvalidInput,
		"unknown TOIL scenario",
		http.StatusBadRequest,
	)
	ErrInvalidReturnTime = apperror.New(
		apperror.CodeInvalidInput,
		"invalid return time, expected HH:MM",
		http.StatusBadRequest,
	)
	ErrToilDisabled = apperror.New(
		apperror.CodeFeatureDisabled,
		"TOIL is not enabled",
		http.StatusForbidden,
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
	ErrEntryNotFound = apperror.New(
		apperror.CodeNotFound,
		"toil entry not found",
		http.StatusNotFound,
	)
	ErrAlreadyProcessed = apperror.New(
		apperror.CodeInvalidState,
		"toil entry already processed",
		http.StatusConflict,
	)
)
