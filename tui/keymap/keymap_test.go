package keymap

import (
	"testing"

	"github.com/grovetools/surround/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPresets(t *testing.T) {
	assert.Equal(t, []string{"k", "up"}, Load(Config{}).Up.Keys())
	assert.Equal(t, []string{"up"}, Load(Config{Preset: "arrows"}).Up.Keys())
	assert.Equal(t, []string{"q", "ctrl+c"}, Load(Config{Preset: "arrows"}).Quit.Keys())
}

func TestLoadAppliesOverrides(t *testing.T) {
	base := Load(Config{Keybindings: map[string][]string{"quit": {"x"}}})
	assert.Equal(t, []string{"x"}, base.Quit.Keys())
	assert.Equal(t, "quit", base.Quit.Help().Desc)
}

func TestLoadConfigFromSettings(t *testing.T) {
	settings, err := config.LoadFromBytes([]byte(`
[tui]
preset = "arrows"

[tui.keybindings]
select = ["enter"]
`), "toml")
	require.NoError(t, err)

	cfg := LoadConfig(settings)
	assert.Equal(t, "arrows", cfg.Preset)
	assert.Equal(t, []string{"enter"}, Load(cfg).Select.Keys())

	assert.Equal(t, Config{}, LoadConfig(nil))
}

func TestFullHelpSkipsDisabledBindings(t *testing.T) {
	base := NewBase()
	base.Refresh.SetEnabled(false)

	columns := base.FullHelp()
	require.Len(t, columns, 3)
	assert.Equal(t, SectionNavigation, columns[0][0].Help().Desc)
	// header + select only
	assert.Len(t, columns[1], 2)
	assert.Equal(t, "toggle", columns[1][1].Help().Desc)
}

func TestSectionWith(t *testing.T) {
	base := NewBase()
	s := ActionsSection(base.Select).With(base.Refresh)
	assert.Len(t, s.Bindings, 2)
	assert.False(t, s.IsEmpty())
	assert.True(t, NewSection("Empty").IsEmpty())
}
