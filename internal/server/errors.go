package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/health-tracker/internal/nutrition"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrUserNotFound indicates user was not found
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: %s", e.UserID)
}

// ErrPasswordMismatch indicates current password is incorrect
type ErrPasswordMismatch struct{}

func (e *ErrPasswordMismatch) Error() string {
	return "current password is incorrect"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation error: %s", e.Message)
	}
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrNotFound means the resource does not exist or belongs to someone else.
type ErrNotFound struct {
	Resource string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

// ErrProfileMissing means a recommendation was requested before the user
// saved biometrics.
type ErrProfileMissing struct{}

func (e *ErrProfileMissing) Error() string {
	return "profile not set"
}

// Hint tells the client how to resolve the error.
func (e *ErrProfileMissing) Hint() string {
	return "save your biometrics with PUT /me/profile first"
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		emailExists   *ErrEmailAlreadyExists
		invalidCreds  *ErrInvalidCredentials
		mismatch      *ErrPasswordMismatch
		userNotFound  *ErrUserNotFound
		notFound      *ErrNotFound
		validation    *ErrValidation
		invalidInput  *nutrition.InvalidInputError
		fieldErrors   validator.ValidationErrors
		profileAbsent *ErrProfileMissing
	)
	switch {
	case errors.As(err, &emailExists), errors.As(err, &profileAbsent):
		return http.StatusConflict
	case errors.As(err, &invalidCreds), errors.As(err, &mismatch):
		return http.StatusUnauthorized
	case errors.As(err, &userNotFound), errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &validation), errors.As(err, &invalidInput), errors.As(err, &fieldErrors):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// validationError converts validator errors to an ErrValidation naming the
// first failing field.
func validationError(err error) *ErrValidation {
	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
		fe := fieldErrors[0]
		return &ErrValidation{Field: fe.Field(), Message: fe.Tag()}
	}
	return &ErrValidation{Message: err.Error()}
}
