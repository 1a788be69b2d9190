package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/grovetools/surround/cli"
	"github.com/grovetools/surround/internal/controls"
	"github.com/grovetools/surround/pkg/models"
	"github.com/grovetools/surround/pkg/route"
	"github.com/grovetools/surround/tui/components/table"
	"github.com/grovetools/surround/tui/theme"
	"github.com/spf13/cobra"
)

// AppRow is one application as printed by `apps --json`.
type AppRow struct {
	models.ConsolidatedApp
	Pinned       bool              `json:"pinned"`
	DefaultRoute bool              `json:"defaultRoute"`
	Toggle       route.ToggleState `json:"toggle"`
	Status       string            `json:"status"`
}

// AppsOutput is the JSON document printed by `apps --json`.
type AppsOutput struct {
	SinkDefault bool     `json:"sinkDefault"`
	Apps        []AppRow `json:"apps"`
	Error       string   `json:"error,omitempty"`
}

// NewAppsCmd creates the `apps` command.
func NewAppsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apps",
		Short: "List applications playing audio and their surround routing",
		Long: `Lists every application with an open audio stream, one row per application.

Streams reported separately by the backend are merged by application name.
The STATUS column shows where the application's audio currently goes.

Examples:
  # Show the sources table
  surroundctl apps

  # Machine-readable output
  surroundctl apps --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd, runtimeOptions{})
			if err != nil {
				return err
			}
			defer rt.Close()

			refreshErr := rt.session.Refresh(commandContext(cmd))
			view := rt.session.Snapshot()

			if cli.GetOptions(cmd).JSONOutput {
				out := buildAppsOutput(view)
				if refreshErr != nil {
					out.Error = refreshErr.Error()
				}
				return writeJSON(cmd.OutOrStdout(), out)
			}
			printApps(cmd.OutOrStdout(), view)
			return refreshErr
		},
	}
}

func buildAppsOutput(view controls.View) AppsOutput {
	out := AppsOutput{SinkDefault: view.SinkDefault, Apps: []AppRow{}}
	for _, app := range view.Apps {
		out.Apps = append(out.Apps, AppRow{
			ConsolidatedApp: app,
			Pinned:          app.Pinned(),
			DefaultRoute:    route.IsDefaultVirtualRoute(app, view.SinkDefault),
			Toggle:          route.EnableToggleState(app, view.SinkDefault),
			Status:          route.StatusLabel(app, view.SinkDefault, view.Sinks),
		})
	}
	return out
}

func printApps(w io.Writer, view controls.View) {
	t := theme.DefaultTheme
	if len(view.Apps) == 0 {
		fmt.Fprintln(w, t.Muted.Render("No applications are playing audio."))
		return
	}

	rows := make([][]string, 0, len(view.Apps))
	for _, app := range view.Apps {
		rows = append(rows, []string{
			toggleMark(route.EnableToggleState(app, view.SinkDefault), app.Pinned()),
			app.Name,
			formatList(app.Formats),
			app.Volume,
			route.StatusLabel(app, view.SinkDefault, view.Sinks),
		})
	}
	fmt.Fprintln(w, table.SimpleTable([]string{"", "APPLICATION", "FORMAT", "VOLUME", "STATUS"}, rows))
	if view.SinkDefault {
		fmt.Fprintf(w, "%s %s\n", theme.IconHeadphones, t.Muted.Render("Virtual surround is the default output sink."))
	}
}

func toggleMark(state route.ToggleState, pinned bool) string {
	mark := theme.IconOff
	if state.Checked {
		mark = theme.IconOn
	}
	if pinned {
		mark += " " + theme.IconPinned
	}
	if state.Disabled {
		return theme.DefaultTheme.Muted.Render(mark)
	}
	return mark
}

// formatList renders one line per distinct stream format.
func formatList(formats []models.StreamFormat) string {
	parts := make([]string, 0, len(formats))
	for _, f := range formats {
		fields := []string{f.Format}
		if f.SampleFormat != "" {
			fields = append(fields, f.SampleFormat)
		}
		if f.Rate != "" {
			fields = append(fields, f.Rate)
		}
		if f.Channels != "" {
			fields = append(fields, f.Channels+"ch")
		}
		parts = append(parts, strings.Join(fields, " "))
	}
	return strings.Join(parts, "\n")
}

func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output to JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func writeJSONLine(w io.Writer, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal output to JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
