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
	ErrInterrupted  ErrorCode = "INTERRUPTED"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// Subprocess errors
	ErrCommandStart  ErrorCode = "COMMAND_START"
	ErrCommandFailed ErrorCode = "COMMAND_FAILED"
	ErrEncoding      ErrorCode = "ENCODING"

	// Setup step errors
	ErrToolMissing             ErrorCode = "TOOL_MISSING"
	ErrCleanupDenied           ErrorCode = "CLEANUP_DENIED"
	ErrCleanupFailed           ErrorCode = "CLEANUP_FAILED"
	ErrDependencyInstallFailed ErrorCode = "DEPENDENCY_INSTALL_FAILED"
	ErrToolchainMissing        ErrorCode = "TOOLCHAIN_MISSING"
	ErrConfigurationFailed     ErrorCode = "CONFIGURATION_FAILED"
	ErrBuildFailed             ErrorCode = "BUILD_FAILED"
	ErrCompDBMissing           ErrorCode = "COMPDB_MISSING"
	ErrCompilerNotFound        ErrorCode = "COMPILER_NOT_FOUND"
)

// DevsetupError represents a structured error with code and details
type DevsetupError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *DevsetupError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *DevsetupError) Unwrap() error {
	return e.Wrapped
}

// Is matches any DevsetupError carrying the same code
func (e *DevsetupError) Is(target error) bool {
	var targetErr *DevsetupError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new DevsetupError with the given code and message
func New(code ErrorCode, message string) *DevsetupError {
	return &DevsetupError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new DevsetupError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *DevsetupError {
	return &DevsetupError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a DevsetupError. A nil err yields nil.
func Wrap(err error, code ErrorCode, message string) *DevsetupError {
	if err == nil {
		return nil
	}
	return &DevsetupError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *DevsetupError {
	if err == nil {
		return nil
	}
	return &DevsetupError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *DevsetupError) WithDetail(key string, value interface{}) *DevsetupError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var devErr *DevsetupError
	if errors.As(err, &devErr) {
		return devErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a DevsetupError
func GetErrorCode(err error) ErrorCode {
	var devErr *DevsetupError
	if errors.As(err, &devErr) {
		return devErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a DevsetupError
func GetErrorDetails(err error) map[string]interface{} {
	var devErr *DevsetupError
	if errors.As(err, &devErr) {
		return devErr.Details
	}
	return nil
}
