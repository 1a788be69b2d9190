package paths

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSurroundHomeWins(t *testing.T) {
	root := t.TempDir()
	t.Setenv("SURROUND_HOME", root)
	t.Setenv("XDG_CONFIG_HOME", "/elsewhere")

	assert.Equal(t, filepath.Join(root, "config", "surround"), ConfigDir())
	assert.Equal(t, filepath.Join(root, "state", "surround"), StateDir())
	assert.Equal(t, filepath.Join(root, "state", "surround", "logs"), LogDir())
	assert.Equal(t, filepath.Join(root, "run", "backend.sock"), SocketPath())
	assert.Equal(t, filepath.Join(root, "config", "surround", "plugin.yml"), PluginConfigPath())
}

func TestXDGFallbacks(t *testing.T) {
	t.Setenv("SURROUND_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	t.Setenv("XDG_STATE_HOME", "/xdg/state")
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")

	assert.Equal(t, "/xdg/config/surround", ConfigDir())
	assert.Equal(t, "/xdg/state/surround", StateDir())
	assert.Equal(t, "/run/user/1000/surround", RuntimeDir())
}

func TestRuntimeDirFallsBackToState(t *testing.T) {
	t.Setenv("SURROUND_HOME", "")
	t.Setenv("XDG_STATE_HOME", "/xdg/state")
	t.Setenv("XDG_RUNTIME_DIR", "")

	assert.Equal(t, StateDir(), RuntimeDir())
}

func TestEnsureDirs(t *testing.T) {
	root := t.TempDir()
	t.Setenv("SURROUND_HOME", root)

	require.NoError(t, EnsureDirs())
	assert.DirExists(t, LogDir())
	assert.DirExists(t, ConfigDir())
	assert.DirExists(t, RuntimeDir())
}
