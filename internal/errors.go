package internal

import (
	"encoding/json"
	"errors"
	"net/http"
)

type ErrorType string

const (
	ErrorTypeNetwork        ErrorType = "network"
	ErrorTypeValidation     ErrorType = "validation"
	ErrorTypeAuthentication ErrorType = "authentication"
	ErrorTypeAuthorization  ErrorType = "authorization"
	ErrorTypeNotFound       ErrorType = "not_found"
	ErrorTypeServer         ErrorType = "server"
	ErrorTypeUnknown        ErrorType = "unknown"
)

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeRequiredField    ErrorCode = "REQUIRED_FIELD"

	ErrCodeCannotConnect   ErrorCode = "CANNOT_CONNECT"
	ErrCodeHTTPStatus      ErrorCode = "HTTP_STATUS"
	ErrCodeGraphQL         ErrorCode = "GRAPHQL_ERROR"
	ErrCodeDatabase        ErrorCode = "DATABASE_ERROR"
	ErrCodeInvalidResponse ErrorCode = "INVALID_RESPONSE"

	ErrCodeNotAuthenticated ErrorCode = "NOT_AUTHENTICATED"
	ErrCodeNoRefreshToken   ErrorCode = "NO_REFRESH_TOKEN"

	ErrCodeConceptNotFound ErrorCode = "CONCEPT_NOT_FOUND"
	ErrCodeParentNotFound  ErrorCode = "PARENT_NOT_FOUND"
	ErrCodeConceptCycle    ErrorCode = "CONCEPT_CYCLE"
	ErrCodeInvalidPath     ErrorCode = "INVALID_PATH"
	ErrCodeInvalidDepth    ErrorCode = "INVALID_DEPTH"
)

// AppError is the failure shape handed to presentation code. Message is already
// safe to show; Cause is kept for logs only.
type AppError struct {
	Type       ErrorType   `json:"type"`
	Severity   Severity    `json:"severity"`
	Code       ErrorCode   `json:"code,omitempty"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

// UserMessage is a generic wording per error type, for surfaces that should not
// echo backend text at all.
func (e *AppError) UserMessage() string {
	switch e.Type {
	case ErrorTypeNetwork:
		return "Network connection error. Please check your internet connection and try again."
	case ErrorTypeAuthentication:
		return "Authentication required. Please log in and try again."
	case ErrorTypeAuthorization:
		return "You do not have permission to perform this action."
	case ErrorTypeNotFound:
		return "The requested resource was not found."
	case ErrorTypeValidation:
		if e.Message != "" {
			return e.Message
		}
		return "Invalid input. Please check your data and try again."
	case ErrorTypeServer:
		return "A server error occurred. Please try again later."
	default:
		if e.Message != "" {
			return e.Message
		}
		return "An unexpected error occurred."
	}
}

func newAppError(t ErrorType, sev Severity, code ErrorCode, message string) *AppError {
	return &AppError{
		Type:     t,
		Severity: sev,
		Code:     code,
		Message:  message,
	}
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeValidation, SeverityWarning, code, message)
}

func NewNetworkError(message string, cause error) *AppError {
	return newAppError(ErrorTypeNetwork, SeverityError, ErrCodeCannotConnect, message).WithCause(cause)
}

func NewAuthenticationError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeAuthentication, SeverityError, code, message)
}

func NewAuthorizationError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeAuthorization, SeverityError, code, message)
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeNotFound, SeverityWarning, code, message)
}

func NewServerError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeServer, SeverityError, code, message)
}

func NewUnknownError(message string, cause error) *AppError {
	return newAppError(ErrorTypeUnknown, SeverityError, "", message).WithCause(cause)
}

// NewHTTPStatusError classifies a failed HTTP status. 5xx responses are critical.
func NewHTTPStatusError(statusCode int, message string) *AppError {
	e := newAppError(ErrorTypeServer, SeverityError, ErrCodeHTTPStatus, message)
	e.StatusCode = statusCode

	switch {
	case statusCode == http.StatusUnauthorized:
		e.Type = ErrorTypeAuthentication
	case statusCode == http.StatusForbidden:
		e.Type = ErrorTypeAuthorization
	case statusCode == http.StatusNotFound:
		e.Type = ErrorTypeNotFound
	case statusCode >= 400 && statusCode < 500:
		e.Type = ErrorTypeValidation
	case statusCode >= 500:
		e.Severity = SeverityCritical
	}
	return e
}

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     ErrorType   `json:"type"`
		Severity Severity    `json:"severity"`
		Code     ErrorCode   `json:"code,omitempty"`
		Message  string      `json:"message"`
		Details  interface{} `json:"details,omitempty"`
	}{
		Type:     e.Type,
		Severity: e.Severity,
		Code:     e.Code,
		Message:  e.Message,
		Details:  e.Details,
	})
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return NewValidationError(message, code).WithDetails(ValidationErrors{
		Errors: []ValidationError{{Field: field, Message: message, Code: string(code)}},
	})
}
