package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCancelled    ErrorCode = "CANCELLED"

	// Configuration errors
	ErrConfigLoad    ErrorCode = "CONFIG_LOAD"
	ErrConfigInvalid ErrorCode = "CONFIG_INVALID"
	ErrSettings      ErrorCode = "SETTINGS"

	// Safety errors
	ErrSafetyViolation ErrorCode = "SAFETY_VIOLATION"
	ErrSafetyDeclined  ErrorCode = "SAFETY_DECLINED"

	// Entry errors
	ErrSourceMissing ErrorCode = "SOURCE_MISSING"
	ErrTypeMismatch  ErrorCode = "TYPE_MISMATCH"
	ErrTargetInRepo  ErrorCode = "TARGET_IN_REPO"

	// Backup errors
	ErrBackupFailed ErrorCode = "BACKUP_FAILED"

	// FileSystem errors
	ErrFileAccess    ErrorCode = "FILE_ACCESS"
	ErrFileRemove    ErrorCode = "FILE_REMOVE"
	ErrSymlinkCreate ErrorCode = "SYMLINK_CREATE"
	ErrDirCreate     ErrorCode = "DIR_CREATE"
	ErrRepoRoot      ErrorCode = "REPO_ROOT"
)

// DotlinkError represents a structured error with code and details
type DotlinkError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *DotlinkError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *DotlinkError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *DotlinkError) Is(target error) bool {
	var targetErr *DotlinkError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new DotlinkError with the given code and message
func New(code ErrorCode, message string) *DotlinkError {
	return &DotlinkError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new DotlinkError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *DotlinkError {
	return &DotlinkError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a DotlinkError
func Wrap(err error, code ErrorCode, message string) *DotlinkError {
	if err == nil {
		return nil
	}
	return &DotlinkError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *DotlinkError {
	if err == nil {
		return nil
	}
	return &DotlinkError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *DotlinkError) WithDetail(key string, value interface{}) *DotlinkError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *DotlinkError) WithDetails(details map[string]interface{}) *DotlinkError {
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
	var dlErr *DotlinkError
	if errors.As(err, &dlErr) {
		return dlErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a DotlinkError
func GetErrorCode(err error) ErrorCode {
	var dlErr *DotlinkError
	if errors.As(err, &dlErr) {
		return dlErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a DotlinkError
func GetErrorDetails(err error) map[string]interface{} {
	var dlErr *DotlinkError
	if errors.As(err, &dlErr) {
		return dlErr.Details
	}
	return nil
}

// GetDetail returns a single detail value from the first DotlinkError in the chain
func GetDetail(err error, key string) (interface{}, bool) {
	details := GetErrorDetails(err)
	if details == nil {
		return nil, false
	}
	v, ok := details[key]
	return v, ok
}
