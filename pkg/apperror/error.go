package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies an AppError independently of its HTTP code.
type Kind string

const (
	KindValidation           Kind = "validation"
	KindAuthFailure          Kind = "auth_failure"
	KindMissingCredential    Kind = "missing_credential"
	KindInvalidCredential    Kind = "invalid_credential"
	KindForbidden            Kind = "forbidden"
	KindNotFound             Kind = "not_found"
	KindDuplicateEmail       Kind = "duplicate_email"
	KindConflict             Kind = "conflict"
	KindIncompleteOnboarding Kind = "incomplete_onboarding"
	KindRateLimited          Kind = "rate_limited"
	KindStore                Kind = "store_error"
	KindConfiguration        Kind = "configuration"
	KindInternal             Kind = "internal"
)

type AppError struct {
	Code    int    `json:"code"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code int, kind Kind, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// KindOf returns the kind of err, or KindInternal for anything that is not an AppError.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func BadRequest(message string) *AppError {
	return New(http.StatusBadRequest, KindValidation, message, nil)
}

func Unauthorized(message string) *AppError {
	return New(http.StatusUnauthorized, KindInvalidCredential, message, nil)
}

// AuthFailure is deliberately message-identical for unknown email and wrong password.
func AuthFailure() *AppError {
	return New(http.StatusUnauthorized, KindAuthFailure, "Invalid email or password", nil)
}

func MissingCredential() *AppError {
	return New(http.StatusUnauthorized, KindMissingCredential, "Missing authorization header", nil)
}

func InvalidCredential() *AppError {
	return New(http.StatusUnauthorized, KindInvalidCredential, "Invalid authorization token", nil)
}

func Forbidden(message string) *AppError {
	return New(http.StatusForbidden, KindForbidden, message, nil)
}

func NotFound(message string) *AppError {
	return New(http.StatusNotFound, KindNotFound, message, nil)
}

func DuplicateEmail() *AppError {
	return New(http.StatusConflict, KindDuplicateEmail, "An account with this email already exists", nil)
}

func Conflict(message string) *AppError {
	return New(http.StatusConflict, KindConflict, message, nil)
}

func IncompleteOnboarding() *AppError {
	return New(http.StatusBadRequest, KindIncompleteOnboarding, "All employer agreements must be completed before posting", nil)
}

func TooManyRequests(message string) *AppError {
	return New(http.StatusTooManyRequests, KindRateLimited, message, nil)
}

func Configuration(err error) *AppError {
	return New(http.StatusInternalServerError, KindConfiguration, "Internal Server Error", err)
}

func Internal(err error) *AppError {
	return New(http.StatusInternalServerError, KindInternal, "Internal Server Error", err)
}
