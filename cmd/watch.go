package cmd

import (
	"fmt"

	"github.com/grovetools/surround/cli"
	"github.com/grovetools/surround/internal/controls"
	"github.com/grovetools/surround/tui/theme"
	"github.com/spf13/cobra"
)

// NewWatchCmd creates the `watch` command.
func NewWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Refresh the sources table periodically and print every change",
		Long: `Runs the sources refresh on its schedule and reprints the table whenever it
changes. With --json each update is printed as one JSON object per line.

Examples:
  # Follow routing changes until interrupted
  surroundctl watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd, runtimeOptions{watch: true})
			if err != nil {
				return err
			}
			defer rt.Close()

			ctx := commandContext(cmd)
			updates := rt.session.Store().Subscribe()
			defer rt.session.Store().Unsubscribe(updates)

			if err := rt.session.Start(ctx); err != nil {
				return err
			}

			jsonOutput := cli.GetOptions(cmd).JSONOutput
			w := cmd.OutOrStdout()
			for {
				select {
				case <-ctx.Done():
					return nil
				case u, ok := <-updates:
					if !ok {
						return nil
					}
					if u.Type != controls.UpdateSources || u.View.Loading || !u.View.Loaded {
						continue
					}
					if jsonOutput {
						data := buildAppsOutput(u.View)
						data.Error = u.View.LastError
						if err := writeJSONLine(w, data); err != nil {
							return err
						}
						continue
					}
					fmt.Fprintln(w, theme.DefaultTheme.Header.Render("Sources"))
					printApps(w, u.View)
					if u.View.LastError != "" {
						fmt.Fprintf(w, "%s %s\n", theme.IconWarning, theme.DefaultTheme.Warning.Render(u.View.LastError))
					}
				}
			}
		},
	}
}
