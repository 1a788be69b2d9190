package keymap

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"
)

func TestCamelToSnake(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"ToggleDefaultSink", "toggle_default_sink"},
		{"Up", "up"},
		{"VolumeUp", "volume_up"},
		{"HTTPServer", "h_t_t_p_server"},
		{"A", "a"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, camelToSnake(tt.input))
		})
	}
}

type testKeyMap struct {
	Base
	ToggleDefaultSink key.Binding
	SoundTest         key.Binding
	unexported        key.Binding
	NotABinding       string
}

func newTestKeyMap() testKeyMap {
	return testKeyMap{
		Base:              NewBase(),
		ToggleDefaultSink: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "default sink")),
		SoundTest:         key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "sound test")),
		NotABinding:       "not a binding",
	}
}

func TestApplyOverrides(t *testing.T) {
	km := newTestKeyMap()

	ApplyOverrides(&km, map[string][]string{
		"toggle_default_sink": {"D", "ctrl+d"},
		"up":                  {"w"},
		"not_a_binding":       {"x"},
	})

	assert.Equal(t, []string{"D", "ctrl+d"}, km.ToggleDefaultSink.Keys())
	assert.Equal(t, "default sink", km.ToggleDefaultSink.Help().Desc)
	assert.Equal(t, "D", km.ToggleDefaultSink.Help().Key)
	assert.Equal(t, []string{"w"}, km.Up.Keys())
	assert.Equal(t, "up", km.Up.Help().Desc)
	assert.Equal(t, []string{"t"}, km.SoundTest.Keys())
	assert.Equal(t, NewBase().Down.Keys(), km.Down.Keys())
	assert.Equal(t, "not a binding", km.NotABinding)
}

func TestApplyOverridesIgnoresNilAndValues(t *testing.T) {
	km := newTestKeyMap()
	ApplyOverrides(&km, nil)
	assert.Equal(t, []string{"d"}, km.ToggleDefaultSink.Keys())

	ApplyOverrides(km, map[string][]string{"toggle_default_sink": {"D"}})
	assert.Equal(t, []string{"d"}, km.ToggleDefaultSink.Keys())
}
