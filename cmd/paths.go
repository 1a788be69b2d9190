package cmd

import (
	"github.com/grovetools/surround/pkg/paths"
	"github.com/spf13/cobra"
)

// PathsOutput represents the XDG-compliant paths used by surround.
type PathsOutput struct {
	ConfigDir    string `json:"config_dir"`
	StateDir     string `json:"state_dir"`
	LogDir       string `json:"log_dir"`
	RuntimeDir   string `json:"runtime_dir"`
	Socket       string `json:"socket"`
	PluginConfig string `json:"plugin_config"`
}

// NewPathsCmd creates the `paths` command.
func NewPathsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print the XDG-compliant paths used by surround",
		Long: `Print the XDG-compliant paths used by surround as JSON.

- config_dir: surround.toml and plugin.yml
- state_dir: persistent state
- log_dir: per-component log files
- runtime_dir: the default backend socket directory
- socket: the default backend socket
- plugin_config: the default persisted plugin config`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeJSON(cmd.OutOrStdout(), PathsOutput{
				ConfigDir:    paths.ConfigDir(),
				StateDir:     paths.StateDir(),
				LogDir:       paths.LogDir(),
				RuntimeDir:   paths.RuntimeDir(),
				Socket:       paths.SocketPath(),
				PluginConfig: paths.PluginConfigPath(),
			})
		},
	}
}
