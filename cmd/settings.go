package cmd

import (
	"fmt"
	"io"

	"github.com/grovetools/surround/cli"
	"github.com/grovetools/surround/errors"
	"github.com/grovetools/surround/logging"
	"github.com/grovetools/surround/pkg/models"
	"github.com/grovetools/surround/tui/theme"
	"github.com/spf13/cobra"
)

// NewDefaultSinkCmd creates the `default-sink` command.
func NewDefaultSinkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "default-sink on|off|status",
		Short: "Make virtual surround the system default output sink",
		Long: `With the virtual surround sink as the system default, every application
that does not pin its own output is routed through the filter.

Examples:
  surroundctl default-sink status
  surroundctl default-sink on`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"on", "off", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd, runtimeOptions{})
			if err != nil {
				return err
			}
			defer rt.Close()

			ctx := commandContext(cmd)
			var value bool
			if args[0] == "status" {
				value, err = rt.session.ReadSinkDefault(ctx)
			} else {
				enabled, perr := parseOnOff(args[0])
				if perr != nil {
					return perr
				}
				value, err = rt.session.SetSurroundSinkDefault(ctx, enabled)
			}
			if err != nil {
				return err
			}

			if cli.GetOptions(cmd).JSONOutput {
				return writeJSON(cmd.OutOrStdout(), map[string]bool{"sinkDefault": value})
			}
			state := "is not"
			if value {
				state = "is"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Virtual surround %s the default output sink.\n", theme.IconHeadphones, state)
			return nil
		},
	}
}

// NewHrirCmd creates the `hrir` command group.
func NewHrirCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hrir",
		Short: "List and select the HRIR impulse response used by the filter",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the HRIR files known to the backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd, runtimeOptions{})
			if err != nil {
				return err
			}
			defer rt.Close()

			files, err := rt.session.HrirFiles(commandContext(cmd))
			if err != nil {
				return err
			}
			current := rt.session.Snapshot().HrirName
			if cli.GetOptions(cmd).JSONOutput {
				return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
					"current": current,
					"files":   files,
				})
			}
			printHrirFiles(cmd.OutOrStdout(), files, current)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set <label>",
		Short: "Select an HRIR file by its label",
		Long: `Selects the HRIR file with the given label. The choice is remembered only
when the backend accepts the file.

Examples:
  surroundctl hrir set "Dolby Headphone"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd, runtimeOptions{})
			if err != nil {
				return err
			}
			defer rt.Close()

			if err := rt.session.SelectHrir(commandContext(cmd), args[0]); err != nil {
				return err
			}
			logging.NewPrettyLogger().WithWriter(cmd.OutOrStdout()).
				Success(fmt.Sprintf("Selected HRIR file '%s'", args[0]))
			return nil
		},
	})
	return cmd
}

func printHrirFiles(w io.Writer, files []models.HrirFile, current string) {
	t := theme.DefaultTheme
	if len(files) == 0 {
		fmt.Fprintln(w, t.Muted.Render("The backend reports no HRIR files."))
		return
	}
	for _, f := range files {
		label := f.Label
		if f.ChannelCount != nil {
			label = fmt.Sprintf("%s (%d ch)", f.Label, *f.ChannelCount)
		}
		if f.Label == current {
			fmt.Fprintf(w, "%s %s\n", t.Success.Render(theme.IconSuccess), t.Bold.Render(label))
			continue
		}
		fmt.Fprintf(w, "  %s\n", label)
	}
}

// NewSoundTestCmd creates the `sound-test` command.
func NewSoundTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sound-test [sink]",
		Short: "Play the speaker test through a sink",
		Long: `Plays the backend's speaker test through the named sink. Without a sink,
lists the sinks that can be tested.

Examples:
  surroundctl sound-test
  surroundctl sound-test virtual-surround-sink`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd, runtimeOptions{})
			if err != nil {
				return err
			}
			defer rt.Close()

			ctx := commandContext(cmd)
			if len(args) == 0 {
				sinks, err := rt.session.SoundTestSinks(ctx)
				if err != nil {
					return err
				}
				if cli.GetOptions(cmd).JSONOutput {
					return writeJSON(cmd.OutOrStdout(), sinks)
				}
				for _, s := range sinks {
					desc := ""
					if s.Description != "" {
						desc = theme.DefaultTheme.Muted.Render("  " + s.Description)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", s.Name, desc)
				}
				return nil
			}

			if err := rt.session.RunSoundTest(ctx, args[0]); err != nil {
				return err
			}
			logging.NewPrettyLogger().WithWriter(cmd.OutOrStdout()).
				Success(fmt.Sprintf("Sound test sent to %s", args[0]))
			return nil
		},
	}
}

// NewAckCmd creates the `ack` command.
func NewAckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ack",
		Short: "Acknowledge the usage notes and unlock the filter toggles",
		Long: `Virtual surround changes how applications are routed. Once the notes are
read, acknowledge them to allow enabling the filter per application and as
the default sink.

Notes:
  - Applications that pin their output device keep it; change it in the app.
  - With virtual surround as the default sink every unpinned app is filtered.
  - Mixer volumes above 100 percent can clip.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd, runtimeOptions{offline: true})
			if err != nil {
				return err
			}
			defer rt.Close()

			if err := rt.session.AcknowledgeNotes(); err != nil {
				return errors.Wrap(err, errors.ErrCodeInternal, "failed to save acknowledgement")
			}
			logging.NewPrettyLogger().WithWriter(cmd.OutOrStdout()).Success("Usage notes acknowledged")
			return nil
		},
	}
}
