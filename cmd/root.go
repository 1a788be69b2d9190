package cmd

import (
	"github.com/grovetools/surround/cli"
	"github.com/spf13/cobra"
)

// NewRootCmd builds the surroundctl command tree.
func NewRootCmd() *cobra.Command {
	root := cli.NewStandardCommand(
		"surroundctl",
		"Control headphone virtual surround for running applications",
	)
	root.Long = `surroundctl lists the applications playing audio, routes them through the
virtual surround sink and edits the per-channel mixer of that sink.

Settings are read from surround.toml or surround.yml (see 'surroundctl config
show'); the mixer profiles and toggles are stored in plugin.yml.

Examples:
  # Show where every application's audio goes
  surroundctl apps

  # Route a game through virtual surround
  surroundctl enable "Game A"

  # Open the interactive controls
  surroundctl tui`
	root.PersistentFlags().String("app", "", "Foreground application used to pick the mixer profile")

	root.AddCommand(
		NewAppsCmd(),
		NewWatchCmd(),
		NewEnableCmd(),
		NewDisableCmd(),
		NewMixerCmd(),
		NewDefaultSinkCmd(),
		NewHrirCmd(),
		NewSoundTestCmd(),
		NewAckCmd(),
		NewTUICmd(),
		NewLogsCmd(),
		NewConfigCmd(),
		NewPathsCmd(),
		cli.NewVersionCommand("surroundctl"),
	)
	cli.ApplyStyledHelpRecursive(root)
	return root
}
