package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of error
type ErrorType string

const (
	ErrorTypeNotFound         ErrorType = "not_found"
	ErrorTypeValidation       ErrorType = "validation"
	ErrorTypeConflict         ErrorType = "conflict"
	ErrorTypeUnauthorized     ErrorType = "unauthorized"
	ErrorTypeForbidden        ErrorType = "forbidden"
	ErrorTypeInternal         ErrorType = "internal"
	ErrorTypeMethodNotAllowed ErrorType = "method_not_allowed"
	// ErrorTypeExternal covers failures of OAuth providers and other services
	// we do not control
	ErrorTypeExternal ErrorType = "external"
)

// AppError is the base error type for application errors
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func newf(t ErrorType, format string, args ...interface{}) error {
	return &AppError{Type: t, Message: fmt.Sprintf(format, args...)}
}

func wrap(t ErrorType, message string, err error) error {
	return &AppError{Type: t, Message: message, Err: err}
}

func NotFoundf(format string, args ...interface{}) error {
	return newf(ErrorTypeNotFound, format, args...)
}

func Validation(message string) error {
	return &AppError{Type: ErrorTypeValidation, Message: message}
}

func Validationf(format string, args ...interface{}) error {
	return newf(ErrorTypeValidation, format, args...)
}

// WrapValidation wraps a decoding or parsing error as a validation error
func WrapValidation(message string, err error) error {
	return wrap(ErrorTypeValidation, message, err)
}

func Conflictf(format string, args ...interface{}) error {
	return newf(ErrorTypeConflict, format, args...)
}

func Forbidden(message string) error {
	return &AppError{Type: ErrorTypeForbidden, Message: message}
}

func Unauthorized(message string) error {
	return &AppError{Type: ErrorTypeUnauthorized, Message: message}
}

func WrapInternal(message string, err error) error {
	return wrap(ErrorTypeInternal, message, err)
}

func MethodNotAllowed(method string) error {
	return newf(ErrorTypeMethodNotAllowed, "method %s not allowed", method)
}

func External(message string) error {
	return &AppError{Type: ErrorTypeExternal, Message: message}
}

func WrapExternal(message string, err error) error {
	return wrap(ErrorTypeExternal, message, err)
}

// GetType returns the error type of an error. Errors that are not an
// AppError count as internal.
func GetType(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeInternal
}

// Is reports whether err carries the given type.
func Is(err error, t ErrorType) bool {
	return err != nil && GetType(err) == t
}
