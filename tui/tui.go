// Package tui holds the terminal setup shared by surround's interactive views.
package tui

import (
	"context"
	"errors"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/surround/logging"
	"github.com/muesli/termenv"
)

// InitializeTUI forces true color when CLICOLOR_FORCE=1 or
// COLORTERM=truecolor, so styling survives non-interactive runs such as the
// e2e harness. Without those variables it has no effect.
func InitializeTUI() {
	if os.Getenv("CLICOLOR_FORCE") == "1" || os.Getenv("COLORTERM") == "truecolor" {
		lipgloss.SetColorProfile(termenv.TrueColor)
	}
}

// Run shows model full screen until it quits or ctx is done. Structured log
// output to stderr is muted while the program owns the terminal.
func Run(ctx context.Context, model tea.Model, opts ...tea.ProgramOption) error {
	InitializeTUI()

	logging.SetGlobalOutput(io.Discard)
	defer logging.SetGlobalOutput(os.Stderr)

	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	_, err := tea.NewProgram(model, opts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
