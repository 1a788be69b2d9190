package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	// Backend errors
	ErrCodeBackendUnavailable ErrorCode = "BACKEND_UNAVAILABLE"
	ErrCodeBackendCallFailed  ErrorCode = "BACKEND_CALL_FAILED"
	ErrCodeBackendMalformed   ErrorCode = "BACKEND_MALFORMED"
	ErrCodeBackendRejected    ErrorCode = "BACKEND_REJECTED"
	ErrCodeNoData             ErrorCode = "NO_DATA"

	// Logical no-op conditions
	ErrCodeNoForegroundApp      ErrorCode = "NO_FOREGROUND_APP"
	ErrCodeNotesNotAcknowledged ErrorCode = "NOTES_NOT_ACKNOWLEDGED"
	ErrCodeAppPinned            ErrorCode = "APP_PINNED"
	ErrCodeHrirNotFound         ErrorCode = "HRIR_NOT_FOUND"

	// Configuration errors
	ErrCodeConfigNotFound ErrorCode = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  ErrorCode = "CONFIG_INVALID"

	// General errors
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// SurroundError represents a structured error with context
type SurroundError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *SurroundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *SurroundError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *SurroundError) WithDetail(key string, value interface{}) *SurroundError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ToJSON converts the error to JSON
func (e *SurroundError) ToJSON() string {
	data, _ := json.MarshalIndent(e, "", "  ")
	return string(data)
}

// New creates a new SurroundError
func New(code ErrorCode, message string) *SurroundError {
	return &SurroundError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a SurroundError
func Wrap(err error, code ErrorCode, message string) *SurroundError {
	return &SurroundError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Is checks if an error, or any error it wraps, is a SurroundError with the given code
func Is(err error, code ErrorCode) bool {
	return GetCode(err) == code && code != ""
}

// GetCode extracts the error code from the first SurroundError in the chain
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}

	var surroundErr *SurroundError
	if !stderrors.As(err, &surroundErr) {
		return ""
	}

	return surroundErr.Code
}

// As exposes the first SurroundError in the chain, if any.
func As(err error) (*SurroundError, bool) {
	var surroundErr *SurroundError
	if stderrors.As(err, &surroundErr) {
		return surroundErr, true
	}
	return nil, false
}
