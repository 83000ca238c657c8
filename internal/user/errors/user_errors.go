package usererrors

import (
	"net/http"

	"github.com/undiescoverd/leave-tracker-app-sub003/internal/shared/apperror"
)

var (
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid user id",
		http.StatusBadRequest,
	)
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"user not found",
		http.StatusNotFound,
	)
	ErrEmailTaken = apperror.New(
		apperror.CodeConflict,
		"a user with this email already exists",
		http.StatusConflict,
	)
	ErrNegativeToilBalance = apperror.New(
		apperror.CodeInvalidInput,
		"toil balance cannot be set below zero",
		http.StatusBadRequest,
	)
)
