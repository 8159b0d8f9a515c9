package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for the failure kinds a bundling run can hit.
// The process exit status does not distinguish them; they exist for
// diagnostics and tests.
const (
	// General errors
	ErrUnknown  ErrorCode = "UNKNOWN"
	ErrInternal ErrorCode = "INTERNAL"

	// Wrong argument count, missing or unusable input path
	ErrUsage ErrorCode = "USAGE"

	// Bundle root already exists, directory or file creation failed
	ErrLayout ErrorCode = "LAYOUT"

	// Dependency query could not be launched, failed, or produced unparseable output
	ErrResolution ErrorCode = "RESOLUTION"

	// Two different libraries would land on the same destination name
	ErrCollision ErrorCode = "COLLISION"

	// A file copy or comparison read failed
	ErrCopy ErrorCode = "COPY"

	// Configuration could not be loaded or is invalid
	ErrConfig ErrorCode = "CONFIG"
)

// ExepackError represents a structured error with code and details
type ExepackError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *ExepackError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *ExepackError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *ExepackError) Is(target error) bool {
	var targetErr *ExepackError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new ExepackError with the given code and message
func New(code ErrorCode, message string) *ExepackError {
	return &ExepackError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new ExepackError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *ExepackError {
	return &ExepackError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with an ExepackError.
// A nil err yields a nil error interface, not a typed nil.
func Wrap(err error, code ErrorCode, message string) error {
	if err == nil {
		return nil
	}
	return &ExepackError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &ExepackError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *ExepackError) WithDetail(key string, value interface{}) *ExepackError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *ExepackError) WithDetails(details map[string]interface{}) *ExepackError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var exErr *ExepackError
	if errors.As(err, &exErr) {
		return exErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not an ExepackError
func GetErrorCode(err error) ErrorCode {
	var exErr *ExepackError
	if errors.As(err, &exErr) {
		return exErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not an ExepackError
func GetErrorDetails(err error) map[string]interface{} {
	var exErr *ExepackError
	if errors.As(err, &exErr) {
		return exErr.Details
	}
	return nil
}
