package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/grovetools/surround/errors"
	"github.com/grovetools/surround/tui/theme"
)

// ErrorHandler provides user-friendly error messages
type ErrorHandler struct {
	Verbose bool
	Out     io.Writer
}

// NewErrorHandler creates a new error handler writing to stderr
func NewErrorHandler(verbose bool) *ErrorHandler {
	return &ErrorHandler{
		Verbose: verbose,
		Out:     os.Stderr,
	}
}

// Handle prints a message for err based on its code and returns err unchanged
func (h *ErrorHandler) Handle(err error) error {
	if err == nil {
		return nil
	}
	icon := theme.IconError
	details := map[string]interface{}{}
	if se, ok := errors.As(err); ok && se.Details != nil {
		details = se.Details
	}

	switch errors.GetCode(err) {
	case errors.ErrCodeNotesNotAcknowledged:
		fmt.Fprintf(h.Out, "%s Read the usage notes first, then run 'surroundctl ack'.\n", icon)
		fmt.Fprintln(h.Out, "  Filters stay disabled until the notes are acknowledged.")

	case errors.ErrCodeAppPinned:
		fmt.Fprintf(h.Out, "%s '%v' pins its output to '%v'.\n", icon, details["app"], details["target"])
		fmt.Fprintln(h.Out, "  Change the output device inside the application instead.")

	case errors.ErrCodeBackendUnavailable:
		fmt.Fprintf(h.Out, "%s The surround backend is not reachable at %v.\n", icon, details["endpoint"])
		fmt.Fprintln(h.Out, "  Check that the backend service is running and that 'transport' matches it.")

	case errors.ErrCodeNoForegroundApp:
		fmt.Fprintf(h.Out, "%s No application is running. Pass one with --app.\n", icon)

	case errors.ErrCodeHrirNotFound:
		fmt.Fprintf(h.Out, "%s No HRIR file is labelled '%v'.\n", icon, details["label"])
		fmt.Fprintln(h.Out, "  Run 'surroundctl hrir list' to see the available files.")

	case errors.ErrCodeConfigNotFound:
		fmt.Fprintf(h.Out, "%s Settings file not found: %v\n", icon, details["path"])

	case errors.ErrCodeConfigInvalid:
		fmt.Fprintf(h.Out, "%s %v\n", icon, err)
		fmt.Fprintln(h.Out, "  Run 'surroundctl config schema' for the accepted settings.")

	default:
		fmt.Fprintf(h.Out, "%s Error: %v\n", icon, err)
	}

	if h.Verbose {
		if se, ok := errors.As(err); ok {
			fmt.Fprintf(h.Out, "\nError details:\n%s\n", se.ToJSON())
		}
	}
	return err
}
