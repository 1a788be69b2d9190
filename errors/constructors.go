package errors

import (
	"fmt"
)

// CallFailed creates a transport-level backend failure for the given method
func CallFailed(method string, err error) *SurroundError {
	return Wrap(err, ErrCodeBackendCallFailed, fmt.Sprintf("backend call %s failed", method)).
		WithDetail("method", method)
}

// Malformed creates an error for a backend payload that could not be decoded
func Malformed(method string, err error) *SurroundError {
	return Wrap(err, ErrCodeBackendMalformed, fmt.Sprintf("malformed payload from %s", method)).
		WithDetail("method", method)
}

// Rejected creates an error for a backend call that returned an explicit error or false
func Rejected(method, reason string) *SurroundError {
	return New(ErrCodeBackendRejected, fmt.Sprintf("backend rejected %s: %s", method, reason)).
		WithDetail("method", method)
}

// NoData creates an error for a backend list call that returned nothing at all
func NoData(method string) *SurroundError {
	return New(ErrCodeNoData, fmt.Sprintf("backend returned no data for %s", method)).
		WithDetail("method", method)
}

// Unavailable creates an error for a backend that cannot be reached
func Unavailable(endpoint string, err error) *SurroundError {
	return Wrap(err, ErrCodeBackendUnavailable, fmt.Sprintf("backend not reachable at %s", endpoint)).
		WithDetail("endpoint", endpoint)
}

// NoForegroundApp creates an error for operations that need a running application
func NoForegroundApp() *SurroundError {
	return New(ErrCodeNoForegroundApp, "no application is currently running")
}

// NotesNotAcknowledged creates the error returned before the usage notes were accepted
func NotesNotAcknowledged() *SurroundError {
	return New(ErrCodeNotesNotAcknowledged, "usage notes must be acknowledged first (run 'surroundctl ack')")
}

// AppPinned creates an error for an application that pins its own output target
func AppPinned(app, target string) *SurroundError {
	return New(ErrCodeAppPinned, fmt.Sprintf("app '%s' pins its output to '%s'", app, target)).
		WithDetail("app", app).
		WithDetail("target", target)
}

// HrirNotFound creates an error for an unknown HRIR label
func HrirNotFound(label string) *SurroundError {
	return New(ErrCodeHrirNotFound, fmt.Sprintf("HRIR file not found for name: %s", label)).
		WithDetail("label", label)
}

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *SurroundError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *SurroundError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// InvalidInput creates an error for bad user input
func InvalidInput(reason string) *SurroundError {
	return New(ErrCodeInvalidInput, reason)
}
