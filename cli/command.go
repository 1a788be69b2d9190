package cli

import (
	"os"

	"github.com/grovetools/surround/config"
	"github.com/grovetools/surround/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CommandOptions holds common options for surround commands
type CommandOptions struct {
	ConfigFile string
	Verbose    bool
	JSONOutput bool
}

// NewStandardCommand creates a new command with the standard surround flags
func NewStandardCommand(use, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           use,
		Short:         short,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose && os.Getenv("SURROUND_LOG_LEVEL") == "" {
				// Component loggers are built after flag parsing and pick this up.
				os.Setenv("SURROUND_LOG_LEVEL", "debug")
			}
		},
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().StringP("config", "c", "", "Path to a surround.toml or surround.yml settings file")

	SetStyledHelp(cmd)

	return cmd
}

// GetLogger returns the CLI logger, at debug level when --verbose is set
func GetLogger(cmd *cobra.Command) *logrus.Entry {
	entry := logging.NewLogger("surroundctl")
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		entry.Logger.SetLevel(logrus.DebugLevel)
	}
	return entry
}

// GetOptions extracts common options from a command
func GetOptions(cmd *cobra.Command) CommandOptions {
	configFile, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	return CommandOptions{
		ConfigFile: configFile,
		Verbose:    verbose,
		JSONOutput: jsonOutput,
	}
}

// LoadSettings loads the client settings named by --config, or the layered
// settings for the current directory.
func LoadSettings(opts CommandOptions) (*config.Settings, error) {
	if opts.ConfigFile != "" {
		return config.Load(opts.ConfigFile)
	}
	return config.LoadDefault()
}
