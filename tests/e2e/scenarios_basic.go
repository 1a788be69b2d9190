package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/grovetools/tend/pkg/assert"
	"github.com/grovetools/tend/pkg/harness"
)

// VersionScenario tests the 'version' command.
func VersionScenario() *harness.Scenario {
	return &harness.Scenario{
		Name:        "surroundctl-version",
		Description: "Verifies that 'surroundctl version' prints the build information.",
		Tags:        []string{"basic"},
		Steps: []harness.Step{
			harness.NewStep("Run 'surroundctl version'", func(ctx *harness.Context) error {
				bin, err := findSurroundctlBinary()
				if err != nil {
					return err
				}

				cmd := ctx.Command(bin, "version")
				result := cmd.Run()
				ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)

				if err := assert.Equal(0, result.ExitCode, "surroundctl version should exit successfully"); err != nil {
					return err
				}
				if err := assert.Contains(result.Stdout, "surroundctl", "Output should name the binary"); err != nil {
					return err
				}
				return assert.Contains(result.Stdout, "Version:", "Output should contain Version")
			}),
		},
	}
}

// PathsScenario verifies that 'surroundctl paths' resolves inside the sandbox.
func PathsScenario() *harness.Scenario {
	return &harness.Scenario{
		Name:        "surroundctl-paths",
		Description: "Verifies that the XDG paths follow the sandboxed config home.",
		Tags:        []string{"basic", "paths"},
		Steps: []harness.Step{
			harness.NewStep("Run 'surroundctl paths'", func(ctx *harness.Context) error {
				bin, err := findSurroundctlBinary()
				if err != nil {
					return err
				}

				cmd := ctx.Command(bin, "paths")
				result := cmd.Run()
				ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)
				if result.Error != nil {
					return fmt.Errorf("`surroundctl paths` failed: %w", result.Error)
				}

				var out map[string]string
				if err := json.Unmarshal([]byte(result.Stdout), &out); err != nil {
					return fmt.Errorf("failed to parse paths output: %w", err)
				}
				if !strings.HasSuffix(out["plugin_config"], "plugin.yml") {
					return fmt.Errorf("plugin_config should point at plugin.yml, got %q", out["plugin_config"])
				}
				return assert.Contains(out["config_dir"], ctx.ConfigDir(), "config_dir should be inside the sandboxed config home")
			}),
		},
	}
}
