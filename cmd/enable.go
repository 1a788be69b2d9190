package cmd

import (
	"fmt"

	"github.com/grovetools/surround/logging"
	"github.com/spf13/cobra"
)

// NewEnableCmd creates the `enable` command.
func NewEnableCmd() *cobra.Command {
	return newAppToggleCmd(true)
}

// NewDisableCmd creates the `disable` command.
func NewDisableCmd() *cobra.Command {
	return newAppToggleCmd(false)
}

func newAppToggleCmd(enabled bool) *cobra.Command {
	use, short, verb := "disable <app>", "Stop routing an application through virtual surround", "Disabled"
	if enabled {
		use, short, verb = "enable <app>", "Route an application through virtual surround", "Enabled"
	}
	name := use[:len(use)-len(" <app>")]

	return &cobra.Command{
		Use:   use,
		Short: short,
		Long: fmt.Sprintf(`%s

The application name is the name shown by 'surroundctl apps'. Applications
that pin their own output device cannot be changed here.

Examples:
  surroundctl %s "Game A"`, short, name),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd, runtimeOptions{})
			if err != nil {
				return err
			}
			defer rt.Close()

			ctx := commandContext(cmd)
			// Load the table first so pinned applications are refused.
			_ = rt.session.Refresh(ctx)
			if err := rt.session.SetAppEnabled(ctx, args[0], enabled); err != nil {
				return err
			}

			logging.NewPrettyLogger().WithWriter(cmd.OutOrStdout()).
				Success(fmt.Sprintf("%s virtual surround for %s", verb, args[0]))
			return nil
		},
	}
}
