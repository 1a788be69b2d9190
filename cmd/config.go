package cmd

import (
	"fmt"

	"github.com/grovetools/surround/cli"
	"github.com/grovetools/surround/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewConfigCmd creates the `config` command group.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the client settings",
	}
	cmd.AddCommand(newConfigShowCmd(), newConfigSchemaCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings and the files they came from",
		Long: `Shows the settings after merging the global surround.toml or surround.yml
with the nearest project file and applying defaults.

Examples:
  surroundctl config show
  surroundctl config show -c ./surround.toml --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := cli.LoadSettings(cli.GetOptions(cmd))
			if err != nil {
				return err
			}

			if cli.GetOptions(cmd).JSONOutput {
				return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
					"sources":  settings.Sources,
					"settings": settings,
				})
			}

			w := cmd.OutOrStdout()
			for _, src := range settings.Sources {
				fmt.Fprintf(w, "# Source: %s\n", src)
			}
			data, err := yaml.Marshal(settings)
			if err != nil {
				return fmt.Errorf("failed to marshal settings: %w", err)
			}
			fmt.Fprint(w, string(data))
			return nil
		},
	}
}

func newConfigSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of the settings file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := config.GenerateSchema()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}
