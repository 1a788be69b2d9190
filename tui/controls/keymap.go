package controls

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/grovetools/surround/tui/keymap"
)

// KeyMap is the audio controls keymap.
type KeyMap struct {
	keymap.Base
	DefaultSink key.Binding
}

// NewKeyMap builds the keymap from the tui settings section.
func NewKeyMap(cfg keymap.Config) KeyMap {
	km := KeyMap{
		Base:        keymap.Load(keymap.Config{Preset: cfg.Preset}),
		DefaultSink: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "default sink")),
	}
	km.Left.SetHelp(km.Left.Help().Key, "volume -5")
	km.Right.SetHelp(km.Right.Help().Key, "volume +5")
	keymap.ApplyOverrides(&km, cfg.Keybindings)
	return km
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Select, k.DefaultSink, k.Help, k.Quit}
}

// Sections implements keymap.SectionedKeyMap.
func (k KeyMap) Sections() []keymap.Section {
	return []keymap.Section{
		k.NavigationSection(),
		keymap.ActionsSection(k.Select, k.DefaultSink, k.Refresh),
		k.SystemSection(),
	}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return keymap.FullHelp(k)
}
