package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a specific error type for schedule operations.
type ErrorCode string

const (
	// ErrCodeInvalidArgument indicates invalid input parameters.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeInvalidToken indicates an unrecognized date/time token tag or weekday label.
	ErrCodeInvalidToken ErrorCode = "INVALID_TOKEN"
	// ErrCodeInvalidTimeFormat indicates a malformed HH:MM or date string.
	ErrCodeInvalidTimeFormat ErrorCode = "INVALID_TIME_FORMAT"
	// ErrCodeOutOfRange indicates a numeric field outside its valid range.
	ErrCodeOutOfRange ErrorCode = "OUT_OF_RANGE"
	// ErrCodeDuplicateRequest indicates a save request suppressed by the dedup window.
	// It is a recognized outcome, not a hard failure.
	ErrCodeDuplicateRequest ErrorCode = "DUPLICATE_REQUEST"
	// ErrCodeStoreUnavailable indicates the durable persistence layer failed.
	ErrCodeStoreUnavailable ErrorCode = "STORE_UNAVAILABLE"
)

// ScheduleError represents a structured error for schedule operations.
type ScheduleError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ScheduleError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *ScheduleError) Unwrap() error {
	return e.Cause
}

// GetCode returns the error code.
func (e *ScheduleError) GetCode() ErrorCode {
	return e.Code
}

// Convenience constructors for common error types.

// InvalidArgument creates an invalid argument error.
func InvalidArgument(msg string) *ScheduleError {
	return &ScheduleError{Code: ErrCodeInvalidArgument, Message: msg}
}

// InvalidToken creates an invalid token error.
func InvalidToken(msg string) *ScheduleError {
	return &ScheduleError{Code: ErrCodeInvalidToken, Message: msg}
}

// InvalidTokenf creates an invalid token error with a formatted message.
func InvalidTokenf(format string, args ...any) *ScheduleError {
	return &ScheduleError{Code: ErrCodeInvalidToken, Message: fmt.Sprintf(format, args...)}
}

// InvalidTimeFormat creates an invalid time format error.
func InvalidTimeFormat(msg string) *ScheduleError {
	return &ScheduleError{Code: ErrCodeInvalidTimeFormat, Message: msg}
}

// OutOfRange creates an out of range error.
func OutOfRange(msg string) *ScheduleError {
	return &ScheduleError{Code: ErrCodeOutOfRange, Message: msg}
}

// OutOfRangef creates an out of range error with a formatted message.
func OutOfRangef(format string, args ...any) *ScheduleError {
	return &ScheduleError{Code: ErrCodeOutOfRange, Message: fmt.Sprintf(format, args...)}
}

// StoreUnavailable creates a store unavailable error wrapping the cause.
func StoreUnavailable(msg string, cause error) *ScheduleError {
	return &ScheduleError{Code: ErrCodeStoreUnavailable, Message: msg, Cause: cause}
}

// Wrap wraps an existing error with a code and message.
func Wrap(cause error, code ErrorCode, msg string) *ScheduleError {
	return &ScheduleError{Code: code, Message: msg, Cause: cause}
}

// IsCode checks if an error carries a specific code anywhere in its chain.
func IsCode(err error, code ErrorCode) bool {
	var schedErr *ScheduleError
	if errors.As(err, &schedErr) {
		return schedErr.Code == code
	}
	return false
}

// GetCodeFromError extracts the error code from any error.
// Returns the provided default code if the error is not a ScheduleError.
func GetCodeFromError(err error, defaultCode ErrorCode) ErrorCode {
	var schedErr *ScheduleError
	if errors.As(err, &schedErr) {
		return schedErr.Code
	}
	return defaultCode
}
