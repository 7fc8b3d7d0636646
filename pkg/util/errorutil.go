package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

// Stable error codes produced by the credential, token, account and
// authorization flows. Each maps to a fixed HTTP status class so the
// response shape never depends on internal causes.
const (
	CodeInvalidCredentials   = "INVALID_CREDENTIALS"
	CodeAccountDisabled      = "ACCOUNT_DISABLED"
	CodeTokenExpired         = "TOKEN_EXPIRED"
	CodeTokenInvalid         = "TOKEN_INVALID"
	CodeEmailExists          = "EMAIL_ALREADY_EXISTS"
	CodePhoneExists          = "PHONE_ALREADY_EXISTS"
	CodePasswordMismatch     = "PASSWORD_MISMATCH"
	CodeUserNotFound         = "USER_NOT_FOUND"
	CodeInvalidCurrentPass   = "INVALID_CURRENT_PASSWORD"
	CodeAlreadyDeactivated   = "ACCOUNT_ALREADY_DEACTIVATED"
	CodeAlreadyReactivated   = "ACCOUNT_ALREADY_REACTIVATED"
	CodeAuthorizationDenied  = "AUTHORIZATION_DENIED"
	CodeTooManyLoginAttempts = "TOO_MANY_LOGIN_ATTEMPTS"
)

// NewInvalidCredentials covers both unknown identifier and password mismatch.
// The two causes must stay indistinguishable to callers.
func NewInvalidCredentials() error {
	return NewDomainError(CodeInvalidCredentials, "invalid email or password", http.StatusUnauthorized, nil)
}

func NewAccountDisabled() error {
	return NewDomainError(CodeAccountDisabled, "account is deactivated", http.StatusUnauthorized, nil)
}

func NewTokenExpired() error {
	return NewDomainError(CodeTokenExpired, "token has expired", http.StatusUnauthorized, nil)
}

func NewTokenInvalid() error {
	return NewDomainError(CodeTokenInvalid, "token is invalid", http.StatusUnauthorized, nil)
}

func NewEmailExists() error {
	return NewDomainError(CodeEmailExists, "email is already registered", http.StatusConflict, nil)
}

func NewPhoneExists() error {
	return NewDomainError(CodePhoneExists, "phone number is already registered", http.StatusConflict, nil)
}

func NewPasswordMismatch() error {
	return NewDomainError(CodePasswordMismatch, "password and confirmation do not match", http.StatusBadRequest, nil)
}

func NewUserNotFound() error {
	return NewDomainError(CodeUserNotFound, "user not found", http.StatusNotFound, nil)
}

func NewInvalidCurrentPassword() error {
	return NewDomainError(CodeInvalidCurrentPass, "the current password is incorrect", http.StatusBadRequest, nil)
}

func NewAlreadyDeactivated() error {
	return NewDomainError(CodeAlreadyDeactivated, "account has already been deactivated", http.StatusBadRequest, nil)
}

func NewAlreadyReactivated() error {
	return NewDomainError(CodeAlreadyReactivated, "account has already been reactivated", http.StatusBadRequest, nil)
}

// NewAuthorizationDenied covers both missing resources and resources owned
// by another subject. The shape is identical on purpose.
func NewAuthorizationDenied() error {
	return NewDomainError(CodeAuthorizationDenied, "access to this resource is denied", http.StatusForbidden, nil)
}

func NewTooManyLoginAttempts() error {
	return NewDomainError(CodeTooManyLoginAttempts, "too many login attempts, try again later", http.StatusTooManyRequests, nil)
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError("CONFLICT", message, http.StatusConflict, details)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError. Storage errors are
// wrapped into opaque kinds so internals never leak to the boundary.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		if de, ok := NewNotFound("resource", nil).(*DomainError); ok {
			return de
		}
	}
	if de, ok := NewInternalError(err).(*DomainError); ok {
		return de
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// MapError converts generic errors to DomainError.
func MapError(err error) error {
	return ToDomainError(err)
}

// IsCode reports whether err carries the given domain error code.
func IsCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}
