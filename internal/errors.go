package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeRoute        ErrorType = "ROUTE_ERROR"
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeRateLimited  ErrorType = "RATE_LIMITED"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeRequiredField    ErrorCode = "REQUIRED_FIELD"
	ErrCodeInvalidEmail     ErrorCode = "INVALID_EMAIL"
	ErrCodeEmailDomain      ErrorCode = "EMAIL_DOMAIN_NOT_ALLOWED"
	ErrCodeNoChanges        ErrorCode = "NO_CHANGES"

	ErrCodeInvalidRoute      ErrorCode = "INVALID_ROUTE"
	ErrCodeInsufficientParts ErrorCode = "INSUFFICIENT_URL_PARTS"
	ErrCodeInvalidController ErrorCode = "INVALID_CONTROLLER"
	ErrCodeRouteNotFound     ErrorCode = "ROUTE_NOT_FOUND"

	ErrCodeDuplicateName     ErrorCode = "DUPLICATE_NAME"
	ErrCodeDuplicateUser     ErrorCode = "DUPLICATE_USER"
	ErrCodeAlreadyAdmin      ErrorCode = "ALREADY_ADMIN"
	ErrCodeUserNotFound      ErrorCode = "USER_NOT_FOUND"
	ErrCodeAppNotFound       ErrorCode = "APP_NOT_FOUND"
	ErrCodeDepartmentMissing ErrorCode = "DEPARTMENT_NOT_FOUND"
	ErrCodePositionMissing   ErrorCode = "COMPANY_POSITION_NOT_FOUND"
	ErrCodeSessionNotFound   ErrorCode = "SESSION_NOT_FOUND"

	ErrCodeTokenRequired      ErrorCode = "TOKEN_REQUIRED"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeSessionExpired     ErrorCode = "SESSION_EXPIRED"
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeNotAdmin           ErrorCode = "NOT_ADMIN"
	ErrCodeSelfDelete         ErrorCode = "SELF_DELETE"
	ErrCodeAdminDelete        ErrorCode = "ADMIN_DELETE"
	ErrCodeLastAdmin          ErrorCode = "LAST_ADMIN"

	ErrCodeTooManyRequests ErrorCode = "TOO_MANY_REQUESTS"
)

// StatusUnprocessable is the code carried by validation and conflict errors.
const StatusUnprocessable = http.StatusUnprocessableEntity

// AppError is a domain failure with the numeric code reported in the
// response envelope.
type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			messages := make([]string, len(validationErrors.Errors))
			for i, err := range validationErrors.Errors {
				messages[i] = err.Message
			}
			return strings.Join(messages, "; ")
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches another AppError with the same code and message, so copies
// made by WithCause still match their sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message && e.StatusCode == t.StatusCode
}

// WithCause returns a copy of e carrying cause. Package-level errors stay
// untouched.
func (e *AppError) WithCause(cause error) *AppError {
	c := *e
	c.Cause = cause
	return &c
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	c := *e
	c.Details = details
	return &c
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewRouteError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeRoute,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: StatusUnprocessable,
	}
}

// NewRequiredFieldError reports a missing input field using the wording
// clients already match on.
func NewRequiredFieldError(field string) *AppError {
	return NewValidationError(fmt.Sprintf("The field '%s' is required", field), ErrCodeRequiredField).
		WithDetails(ValidationErrors{Errors: []ValidationError{
			{Field: field, Message: fmt.Sprintf("The field '%s' is required", field), Code: string(ErrCodeRequiredField)},
		}})
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: StatusUnprocessable,
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// NewErrorWithCode builds an error from a bare message and numeric code, as
// produced by actions that report failures through their result value.
func NewErrorWithCode(message string, statusCode int) *AppError {
	if statusCode == 0 {
		statusCode = http.StatusBadRequest
	}
	errType := ErrorTypeValidation
	switch statusCode {
	case http.StatusBadRequest:
		errType = ErrorTypeRoute
	case http.StatusUnauthorized:
		errType = ErrorTypeUnauthorized
	case http.StatusForbidden:
		errType = ErrorTypeForbidden
	case http.StatusNotFound:
		errType = ErrorTypeNotFound
	case http.StatusTooManyRequests:
		errType = ErrorTypeRateLimited
	case http.StatusInternalServerError:
		errType = ErrorTypeInternal
	}
	return &AppError{
		Type:       errType,
		Message:    message,
		StatusCode: statusCode,
	}
}

var (
	ErrTokenRequired      = NewUnauthorizedError("Authentication token is required", ErrCodeTokenRequired)
	ErrInvalidToken       = NewUnauthorizedError("Invalid token", ErrCodeInvalidToken)
	ErrSessionExpired     = NewUnauthorizedError("Your session has expired", ErrCodeSessionExpired)
	ErrInvalidCredentials = NewForbiddenError("Invalid credentials", ErrCodeInvalidCredentials)
	ErrUserNotFound       = NewNotFoundError("User not found", ErrCodeUserNotFound)
	ErrSessionNotFound    = NewNotFoundError("Session not found", ErrCodeSessionNotFound)
	ErrRouteNotFound      = NewNotFoundError("Method or class not found!", ErrCodeRouteNotFound)
	ErrTooManyRequests    = &AppError{
		Type:       ErrorTypeRateLimited,
		Code:       ErrCodeTooManyRequests,
		Message:    "Too many requests",
		StatusCode: http.StatusTooManyRequests,
	}
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsType reports whether err is an AppError of the given type.
func IsType(err error, t ErrorType) bool {
	appErr, ok := IsAppError(err)
	return ok && appErr.Type == t
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
