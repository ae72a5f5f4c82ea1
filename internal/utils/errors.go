package utils

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/eventure/eventure-api/internal/constants"
)

// Custom error types for the application
var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized access")
	ErrForbidden          = errors.New("forbidden access")
	ErrBadRequest         = errors.New("invalid request")
	ErrInternalServer     = errors.New("internal server error")
	ErrValidation         = errors.New("validation error")
	ErrDuplicate          = errors.New("duplicate resource")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidResetCode   = errors.New("invalid reset code")
	ErrUnavailable        = errors.New("service unavailable")
)

// AppError represents an application error with additional context
type AppError struct {
	Err        error  // The underlying error
	StatusCode int    // HTTP status code
	Message    string // User-friendly error message
	DevInfo    string // Additional information for developers
	Field      string // Field related to the error (for validation errors)
	Details    map[string]any
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Code returns the machine-readable code for the error body
func (e *AppError) Code() string {
	switch {
	case errors.Is(e.Err, ErrNotFound):
		return constants.CodeNotFound
	case errors.Is(e.Err, ErrBadRequest):
		return constants.CodeBadRequest
	case errors.Is(e.Err, ErrUnauthorized):
		return constants.CodeUnauthorized
	case errors.Is(e.Err, ErrForbidden):
		return constants.CodeForbidden
	case errors.Is(e.Err, ErrValidation):
		return constants.CodeValidationError
	case errors.Is(e.Err, ErrDuplicate):
		return constants.CodeConflict
	case errors.Is(e.Err, ErrInvalidCredentials):
		return constants.CodeInvalidCredentials
	case errors.Is(e.Err, ErrInvalidToken):
		return constants.CodeTokenInvalid
	case errors.Is(e.Err, ErrInvalidResetCode):
		return constants.CodeInvalidResetCode
	case errors.Is(e.Err, ErrUnavailable):
		return constants.CodeServiceUnavailable
	}
	return constants.CodeInternalError
}

// New creates a new AppError with the given error and status code
func New(err error, statusCode int, message string) *AppError {
	return &AppError{
		Err:        err,
		StatusCode: statusCode,
		Message:    message,
	}
}

// NewValidationError creates a new validation error for a specific field
func NewValidationError(field, message string) *AppError {
	return &AppError{
		Err:        ErrValidation,
		StatusCode: http.StatusBadRequest,
		Message:    message,
		Field:      field,
	}
}

// NewBadRequestError creates a new bad request error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Err:        ErrBadRequest,
		StatusCode: http.StatusBadRequest,
		Message:    message,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resourceType string, identifier interface{}) *AppError {
	return &AppError{
		Err:        ErrNotFound,
		StatusCode: http.StatusNotFound,
		Message:    fmt.Sprintf("%s not found", resourceType),
		DevInfo:    fmt.Sprintf("%s with identifier '%v' not found", resourceType, identifier),
	}
}

// NewNotFoundMessage creates a not found error carrying an exact client message
func NewNotFoundMessage(message string) *AppError {
	return &AppError{
		Err:        ErrNotFound,
		StatusCode: http.StatusNotFound,
		Message:    message,
	}
}

// NewUnauthorizedError creates a new unauthorized error
func NewUnauthorizedError(message string) *AppError {
	if message == "" {
		message = constants.MsgAuthRequired
	}
	return &AppError{
		Err:        ErrUnauthorized,
		StatusCode: http.StatusUnauthorized,
		Message:    message,
	}
}

// NewForbiddenError creates a new forbidden error
func NewForbiddenError(message string) *AppError {
	if message == "" {
		message = constants.MsgInsufficientRole
	}
	return &AppError{
		Err:        ErrForbidden,
		StatusCode: http.StatusForbidden,
		Message:    message,
	}
}

// NewInternalServerError creates a new internal server error
func NewInternalServerError(err error) *AppError {
	devInfo := ""
	if err != nil {
		devInfo = err.Error()
	}
	return &AppError{
		Err:        ErrInternalServer,
		StatusCode: http.StatusInternalServerError,
		Message:    constants.MsgInternalServerError,
		DevInfo:    devInfo,
	}
}

// NewServiceUnavailableError reports an unhealthy dependency
func NewServiceUnavailableError(err error) *AppError {
	appErr := NewInternalServerError(err)
	appErr.Err = ErrUnavailable
	appErr.StatusCode = http.StatusServiceUnavailable
	appErr.Message = constants.MsgServiceUnhealthy
	return appErr
}

// NewDuplicateError creates a new duplicate resource error
func NewDuplicateError(message, field string) *AppError {
	return &AppError{
		Err:        ErrDuplicate,
		StatusCode: http.StatusConflict,
		Message:    message,
		Field:      field,
	}
}

// NewInvalidCredentialsError creates the single login failure.
// Unknown email and wrong password must be indistinguishable.
func NewInvalidCredentialsError() *AppError {
	return &AppError{
		Err:        ErrInvalidCredentials,
		StatusCode: http.StatusUnauthorized,
		Message:    constants.MsgInvalidCredentials,
	}
}

// NewInvalidTokenError creates a new invalid token error
func NewInvalidTokenError() *AppError {
	return &AppError{
		Err:        ErrInvalidToken,
		StatusCode: http.StatusUnauthorized,
		Message:    constants.MsgInvalidToken,
	}
}

// NewInvalidResetCodeError is returned for every reset code failure
func NewInvalidResetCodeError() *AppError {
	return &AppError{
		Err:        ErrInvalidResetCode,
		StatusCode: http.StatusBadRequest,
		Message:    constants.MsgInvalidResetCode,
	}
}

// ParseError attempts to parse various types of errors into an AppError
func ParseError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, sql.ErrNoRows), errors.Is(err, ErrNotFound):
		return NewNotFoundMessage(constants.MsgResourceNotFound)
	case errors.Is(err, ErrUnauthorized):
		return NewUnauthorizedError("")
	case errors.Is(err, ErrForbidden):
		return NewForbiddenError("")
	case errors.Is(err, ErrBadRequest):
		return NewBadRequestError(err.Error())
	case errors.Is(err, ErrValidation):
		return NewValidationError("", err.Error())
	case errors.Is(err, ErrDuplicate):
		return NewDuplicateError("Resource already exists", "")
	case errors.Is(err, ErrInvalidCredentials):
		return NewInvalidCredentialsError()
	case errors.Is(err, ErrInvalidToken):
		return NewInvalidTokenError()
	case errors.Is(err, ErrInvalidResetCode):
		return NewInvalidResetCodeError()
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case constants.MySQLErrDuplicateEntry:
			return &AppError{
				Err:        ErrDuplicate,
				StatusCode: http.StatusConflict,
				Message:    "A resource with the same unique identifier already exists",
				DevInfo:    mysqlErr.Error(),
				Field:      duplicateKeyName(mysqlErr.Message),
			}
		case constants.MySQLErrForeignKey:
			return &AppError{
				Err:        ErrBadRequest,
				StatusCode: http.StatusBadRequest,
				Message:    "This operation violates a foreign key constraint",
				DevInfo:    mysqlErr.Error(),
			}
		}
	}

	return NewInternalServerError(err)
}

// duplicateKeyName extracts the key name from "Duplicate entry 'x' for key 'users.email'"
func duplicateKeyName(message string) string {
	idx := strings.LastIndex(message, "for key '")
	if idx < 0 {
		return ""
	}
	key := strings.TrimSuffix(message[idx+len("for key '"):], "'")
	if dot := strings.LastIndex(key, "."); dot >= 0 {
		key = key[dot+1:]
	}
	return key
}

// IsNotFoundError checks if an error is a not found error
func IsNotFoundError(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode == http.StatusNotFound
	}
	return errors.Is(err, ErrNotFound) || errors.Is(err, sql.ErrNoRows)
}

// IsDuplicateError checks if an error is a duplicate resource error
func IsDuplicateError(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode == http.StatusConflict
	}
	return errors.Is(err, ErrDuplicate) || IsDuplicateKeyError(err)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return errors.Is(appErr.Err, ErrValidation)
	}
	return errors.Is(err, ErrValidation)
}

// StatusCode returns the HTTP status code for an error
func StatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}
