package main

import (
	"fmt"
	"path/filepath"

	"github.com/grovetools/tend/pkg/assert"
	"github.com/grovetools/tend/pkg/fs"
	"github.com/grovetools/tend/pkg/harness"
)

// ConfigShowScenario verifies that a project surround.toml is picked up.
func ConfigShowScenario() *harness.Scenario {
	return &harness.Scenario{
		Name:        "surroundctl-config-show",
		Description: "Verifies that 'config show' prints the project settings and their source.",
		Tags:        []string{"config"},
		Steps: []harness.Step{
			harness.NewStep("Show project settings", func(ctx *harness.Context) error {
				projectDir := ctx.NewDir("project")
				settings := `transport = "websocket"
url = "ws://127.0.0.1:4242/ws"
ignore_apps = ["steamwebhelper"]
`
				if err := fs.WriteString(filepath.Join(projectDir, "surround.toml"), settings); err != nil {
					return err
				}

				bin, err := findSurroundctlBinary()
				if err != nil {
					return err
				}
				cmd := ctx.Command(bin, "config", "show").Dir(projectDir)
				result := cmd.Run()
				ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)
				if result.Error != nil {
					return fmt.Errorf("`surroundctl config show` failed: %w", result.Error)
				}

				if err := assert.Contains(result.Stdout, "# Source: ", "sources should be listed"); err != nil {
					return err
				}
				if err := assert.Contains(result.Stdout, "transport: websocket", "transport should come from the project file"); err != nil {
					return err
				}
				if err := assert.Contains(result.Stdout, "ws://127.0.0.1:4242/ws", "url should come from the project file"); err != nil {
					return err
				}
				return assert.Contains(result.Stdout, "steamwebhelper", "ignore_apps should be listed")
			}),
		},
	}
}

// ConfigLayeringScenario verifies that project settings override the global file.
func ConfigLayeringScenario() *harness.Scenario {
	return &harness.Scenario{
		Name:        "surroundctl-config-layering",
		Description: "Verifies that global and project settings are merged with the project winning.",
		Tags:        []string{"config"},
		Steps: []harness.Step{
			harness.NewStep("Merge global and project settings", func(ctx *harness.Context) error {
				globalDir := filepath.Join(ctx.ConfigDir(), "surround")
				if err := fs.CreateDir(globalDir); err != nil {
					return fmt.Errorf("failed to create global config dir: %w", err)
				}
				globalYAML := `refresh_interval: 10s
call_timeout: 3s
`
				if err := fs.WriteString(filepath.Join(globalDir, "surround.yml"), globalYAML); err != nil {
					return err
				}

				projectDir := ctx.NewDir("layered")
				if err := fs.WriteString(filepath.Join(projectDir, "surround.toml"), `refresh_interval = "1s"`+"\n"); err != nil {
					return err
				}

				bin, err := findSurroundctlBinary()
				if err != nil {
					return err
				}
				cmd := ctx.Command(bin, "config", "show").Dir(projectDir)
				result := cmd.Run()
				ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)
				if result.Error != nil {
					return fmt.Errorf("`surroundctl config show` failed: %w", result.Error)
				}

				if err := assert.Contains(result.Stdout, "refresh_interval: 1s", "project refresh_interval should win"); err != nil {
					return err
				}
				return assert.Contains(result.Stdout, "call_timeout: 3s", "global call_timeout should be kept")
			}),
		},
	}
}

// ConfigInvalidScenario verifies that invalid settings fail with a config error.
func ConfigInvalidScenario() *harness.Scenario {
	return &harness.Scenario{
		Name:        "surroundctl-config-invalid",
		Description: "Verifies that an unknown transport is rejected.",
		Tags:        []string{"config"},
		Steps: []harness.Step{
			harness.NewStep("Reject an unknown transport", func(ctx *harness.Context) error {
				projectDir := ctx.NewDir("invalid")
				if err := fs.WriteString(filepath.Join(projectDir, "surround.toml"), `transport = "carrier-pigeon"`+"\n"); err != nil {
					return err
				}

				bin, err := findSurroundctlBinary()
				if err != nil {
					return err
				}
				cmd := ctx.Command(bin, "config", "show").Dir(projectDir)
				result := cmd.Run()
				ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)

				if result.ExitCode == 0 {
					return fmt.Errorf("expected a non-zero exit code for invalid settings")
				}
				return assert.Contains(result.Stderr, "transport", "the error should name the field")
			}),
		},
	}
}

// ConfigSchemaScenario verifies that the settings schema is printed.
func ConfigSchemaScenario() *harness.Scenario {
	return &harness.Scenario{
		Name:        "surroundctl-config-schema",
		Description: "Verifies that 'config schema' prints the JSON schema.",
		Tags:        []string{"config"},
		Steps: []harness.Step{
			harness.NewStep("Print the schema", func(ctx *harness.Context) error {
				bin, err := findSurroundctlBinary()
				if err != nil {
					return err
				}
				cmd := ctx.Command(bin, "config", "schema")
				result := cmd.Run()
				ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)
				if result.Error != nil {
					return fmt.Errorf("`surroundctl config schema` failed: %w", result.Error)
				}
				if err := assert.Contains(result.Stdout, `"volume_quiet_period"`, "schema should describe the quiet period"); err != nil {
					return err
				}
				return assert.Contains(result.Stdout, `"websocket"`, "schema should list the transports")
			}),
		},
	}
}
