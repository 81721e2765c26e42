package usererrors

import (
	"net/http"

	"go-accounts/internal/shared/apperror"
)

var (
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"User not found",
		http.StatusNotFound,
	)

	ErrUserAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"User with the same email already exists",
		http.StatusConflict,
	)

	// ErrInvalidCredentials covers both unknown email and wrong password so
	// a caller cannot probe which accounts exist.
	ErrInvalidCredentials = apperror.New(
		apperror.CodeUnauthorized,
		"Invalid email or password",
		http.StatusUnauthorized,
	)

	ErrCompanyDetailsRequired = apperror.New(
		apperror.CodeInvalidInput,
		"Company name, country and currency are required for the first signup",
		http.StatusBadRequest,
	)

	ErrAdminOnly = apperror.New(
		apperror.CodeForbidden,
		"Only admins can create new users",
		http.StatusForbidden,
	)

	ErrInvalidRole = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid role",
		http.StatusBadRequest,
	)

	ErrRoleNotAssignable = apperror.New(
		apperror.CodeInvalidInput,
		"Role must be 'Manager' or 'Employee'",
		http.StatusBadRequest,
	)

	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid user ID",
		http.StatusBadRequest,
	)

	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid company ID",
		http.StatusBadRequest,
	)
)
