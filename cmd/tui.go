package cmd

import (
	"github.com/grovetools/surround/tui"
	"github.com/grovetools/surround/tui/controls"
	"github.com/grovetools/surround/tui/keymap"
	"github.com/spf13/cobra"
)

// NewTUICmd creates the `tui` command.
func NewTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive audio controls",
		Long: `Opens the audio controls full screen: the sources table with per-application
toggles, the default sink switch and the mixer sliders. Slider edits are
written to the backend once the slider has been still for a moment.

Examples:
  surroundctl tui --app "Game A"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd, runtimeOptions{watch: true})
			if err != nil {
				return err
			}
			defer rt.Close()

			ctx := commandContext(cmd)
			keys := controls.NewKeyMap(keymap.LoadConfig(rt.settings))
			model := controls.New(ctx, rt.session, keys)
			if err := rt.session.Start(ctx); err != nil {
				return err
			}
			return tui.Run(ctx, model)
		},
	}
}
