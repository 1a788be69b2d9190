package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/grovetools/tend/pkg/assert"
	"github.com/grovetools/tend/pkg/fs"
	"github.com/grovetools/tend/pkg/harness"
)

// writeMissingSocketConfig points the http transport at a socket nobody serves.
func writeMissingSocketConfig(ctx *harness.Context, name string) (string, error) {
	projectDir := ctx.NewDir(name)
	socket := filepath.Join(projectDir, "missing.sock")
	settings := fmt.Sprintf("socket_path = %q\ncall_timeout = \"1s\"\n", socket)
	if err := fs.WriteString(filepath.Join(projectDir, "surround.toml"), settings); err != nil {
		return "", err
	}
	return projectDir, nil
}

// BackendUnavailableScenario verifies the error path when no backend is running.
func BackendUnavailableScenario() *harness.Scenario {
	return &harness.Scenario{
		Name:        "surroundctl-backend-unavailable",
		Description: "Verifies that 'apps' fails with a backend error when the socket is missing.",
		Tags:        []string{"backend"},
		Steps: []harness.Step{
			harness.NewStep("List apps without a backend", func(ctx *harness.Context) error {
				projectDir, err := writeMissingSocketConfig(ctx, "no-backend")
				if err != nil {
					return err
				}
				bin, err := findSurroundctlBinary()
				if err != nil {
					return err
				}

				cmd := ctx.Command(bin, "apps").Dir(projectDir)
				result := cmd.Run()
				ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)

				if result.ExitCode == 0 {
					return fmt.Errorf("expected a non-zero exit code without a backend")
				}
				return assert.Contains(result.Stderr, "backend", "the error should mention the backend")
			}),
		},
	}
}

// MixerOfflineScenario verifies that the mixer can be read without a backend.
func MixerOfflineScenario() *harness.Scenario {
	return &harness.Scenario{
		Name:        "surroundctl-mixer-offline",
		Description: "Verifies that 'mixer show' reads plugin.yml without contacting the backend.",
		Tags:        []string{"backend", "mixer"},
		Steps: []harness.Step{
			harness.NewStep("Show the default mixer profile", func(ctx *harness.Context) error {
				projectDir, err := writeMissingSocketConfig(ctx, "offline")
				if err != nil {
					return err
				}
				bin, err := findSurroundctlBinary()
				if err != nil {
					return err
				}

				cmd := ctx.Command(bin, "mixer", "show", "--json").Dir(projectDir)
				result := cmd.Run()
				ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)
				if result.Error != nil {
					return fmt.Errorf("`surroundctl mixer show` failed: %w", result.Error)
				}

				var out struct {
					Profile  string `json:"profile"`
					Channels []struct {
						Code   string `json:"code"`
						Volume int    `json:"volume"`
					} `json:"channels"`
				}
				if err := json.Unmarshal([]byte(result.Stdout), &out); err != nil {
					return fmt.Errorf("failed to parse mixer output: %w", err)
				}
				if err := assert.Equal("default", out.Profile, "the default profile should be active"); err != nil {
					return err
				}
				return assert.Equal(8, len(out.Channels), "all eight channels should be listed")
			}),
		},
	}
}
