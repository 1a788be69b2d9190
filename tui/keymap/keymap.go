package keymap

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/grovetools/surround/config"
)

// Base contains the keybindings shared by surround's terminal views.
type Base struct {
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding

	Select  key.Binding
	Refresh key.Binding

	Help key.Binding
	Quit key.Binding
}

// Config is the `tui` settings section as far as keys are concerned.
type Config struct {
	// Preset is "vim" (default) or "arrows".
	Preset string `yaml:"preset"`
	// Keybindings maps snake_case binding names to replacement keys.
	Keybindings map[string][]string `yaml:"keybindings"`
}

// NewBase creates a Base keymap with the default vim-style bindings.
func NewBase() Base {
	return DefaultVim()
}

// DefaultVim returns the default vim-style keymap
func DefaultVim() Base {
	return Base{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/left", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/right", "right"),
		),
		Select: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("C-r", "refresh"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// DefaultArrows returns a keymap using only the arrow keys for navigation
func DefaultArrows() Base {
	b := DefaultVim()
	b.Up = key.NewBinding(key.WithKeys("up"), key.WithHelp("up", "up"))
	b.Down = key.NewBinding(key.WithKeys("down"), key.WithHelp("down", "down"))
	b.Left = key.NewBinding(key.WithKeys("left"), key.WithHelp("left", "left"))
	b.Right = key.NewBinding(key.WithKeys("right"), key.WithHelp("right", "right"))
	return b
}

// LoadConfig reads the `tui` section of the settings. Missing or malformed
// sections yield the zero Config.
func LoadConfig(settings *config.Settings) Config {
	var cfg Config
	if settings != nil {
		_ = settings.UnmarshalExtension("tui", &cfg)
	}
	return cfg
}

// Load returns the preset selected in cfg with its overrides applied to
// the Base bindings.
func Load(cfg Config) Base {
	var base Base
	switch cfg.Preset {
	case "arrows":
		base = DefaultArrows()
	default:
		base = DefaultVim()
	}
	ApplyOverrides(&base, cfg.Keybindings)
	return base
}

// ShortHelp returns a slice of key bindings for the short help view
func (k Base) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// NavigationSection returns the navigation keybindings section.
func (k Base) NavigationSection() Section {
	return NavigationSection(k.Up, k.Down, k.Left, k.Right)
}

// SystemSection returns the help and quit bindings.
func (k Base) SystemSection() Section {
	return SystemSection(k.Help, k.Quit)
}

// Sections implements SectionedKeyMap.
func (k Base) Sections() []Section {
	return []Section{
		k.NavigationSection(),
		ActionsSection(k.Select, k.Refresh),
		k.SystemSection(),
	}
}

// FullHelp returns the sections as columns, each headed by its name.
func (k Base) FullHelp() [][]key.Binding {
	return FullHelp(k)
}

// FullHelp lays out any sectioned keymap for bubbles/help.
func FullHelp(km SectionedKeyMap) [][]key.Binding {
	sections := km.Sections()
	result := make([][]key.Binding, 0, len(sections))
	for _, s := range sections {
		if s.IsEmpty() {
			continue
		}
		header := key.NewBinding(key.WithKeys(""), key.WithHelp("", s.Name))
		result = append(result, append([]key.Binding{header}, s.Enabled()...))
	}
	return result
}
