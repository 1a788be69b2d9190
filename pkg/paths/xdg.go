// Package paths provides XDG-compliant path resolution for surround.
//
// Resolution order:
// 1. SURROUND_HOME (portable root) → $SURROUND_HOME/{config,state,run}
// 2. XDG env vars → $XDG_*_HOME/surround
// 3. Platform defaults → ~/.config/surround, ~/.local/state/surround
package paths

import (
	"os"
	"path/filepath"
)

const appName = "surround"

// getConfigHome returns the base config home directory.
func getConfigHome() string {
	if home := os.Getenv("SURROUND_HOME"); home != "" {
		return filepath.Join(home, "config")
	}
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return xdgConfigHome
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".config")
	}
	return ""
}

// getStateHome returns the base state home directory.
func getStateHome() string {
	if home := os.Getenv("SURROUND_HOME"); home != "" {
		return filepath.Join(home, "state")
	}
	if xdgStateHome := os.Getenv("XDG_STATE_HOME"); xdgStateHome != "" {
		return xdgStateHome
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".local", "state")
	}
	return ""
}

// ConfigDir returns the surround configuration directory.
// Used for surround.toml and plugin.yml.
func ConfigDir() string {
	base := getConfigHome()
	if base == "" {
		return ""
	}
	return filepath.Join(base, appName)
}

// StateDir returns the surround state directory.
// Used for logs.
func StateDir() string {
	base := getStateHome()
	if base == "" {
		return ""
	}
	return filepath.Join(base, appName)
}

// LogDir returns the directory holding per-component log files.
func LogDir() string {
	state := StateDir()
	if state == "" {
		return ""
	}
	return filepath.Join(state, "logs")
}

// RuntimeDir returns the directory for the backend socket.
// Uses XDG_RUNTIME_DIR when available (Linux), falls back to StateDir.
func RuntimeDir() string {
	if home := os.Getenv("SURROUND_HOME"); home != "" {
		return filepath.Join(home, "run")
	}
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, appName)
	}
	return StateDir()
}

// SocketPath returns the default path of the backend unix socket.
func SocketPath() string {
	return filepath.Join(RuntimeDir(), "backend.sock")
}

// PluginConfigPath returns the default location of the persisted plugin config.
func PluginConfigPath() string {
	return filepath.Join(ConfigDir(), "plugin.yml")
}

// EnsureDirs creates the surround directories if they don't exist.
func EnsureDirs() error {
	for _, dir := range []string{ConfigDir(), StateDir(), LogDir(), RuntimeDir()} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
