package leavetypeerrors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrLeaveTypeNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave type not found",
		http.StatusNotFound,
	)
	ErrInvalidLeaveTypeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave type id",
		http.StatusBadRequest,
	)
	ErrLeaveTypeExists = apperror.New(
		apperror.CodeConflict,
		"leave type with the same name already exists",
		http.StatusConflict,
	)
	ErrInvalidAccrualRate = apperror.New(
		apperror.CodeInvalidInput,
		"accrual_rate must be a non-negative number",
		http.StatusBadRequest,
	)
)
