package keymap

import "github.com/charmbracelet/bubbles/key"

// Help column titles.
const (
	SectionNavigation = "Navigation"
	SectionActions    = "Actions"
	SectionSystem     = "System"
)

// Section is one titled column of the full help view.
type Section struct {
	Name     string
	Bindings []key.Binding
}

// SectionedKeyMap is implemented by keymaps whose full help is split into
// titled columns.
type SectionedKeyMap interface {
	Sections() []Section
}

// NewSection groups bindings under name.
func NewSection(name string, bindings ...key.Binding) Section {
	return Section{Name: name, Bindings: bindings}
}

func NavigationSection(bindings ...key.Binding) Section {
	return NewSection(SectionNavigation, bindings...)
}

func ActionsSection(bindings ...key.Binding) Section {
	return NewSection(SectionActions, bindings...)
}

func SystemSection(bindings ...key.Binding) Section {
	return NewSection(SectionSystem, bindings...)
}

// Enabled returns the bindings that are currently active, in order.
func (s Section) Enabled() []key.Binding {
	out := make([]key.Binding, 0, len(s.Bindings))
	for _, b := range s.Bindings {
		if b.Enabled() {
			out = append(out, b)
		}
	}
	return out
}

// IsEmpty reports whether no binding in s is active.
func (s Section) IsEmpty() bool {
	return len(s.Enabled()) == 0
}

// With returns a copy of s with bindings appended.
func (s Section) With(bindings ...key.Binding) Section {
	return NewSection(s.Name, append(append([]key.Binding(nil), s.Bindings...), bindings...)...)
}
