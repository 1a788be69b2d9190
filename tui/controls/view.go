package controls

import (
	"fmt"
	"strings"

	"github.com/grovetools/surround/pkg/mixer"
	"github.com/grovetools/surround/pkg/models"
	"github.com/grovetools/surround/pkg/route"
	"github.com/grovetools/surround/tui/components/table"
	"github.com/grovetools/surround/tui/theme"
)

// View implements tea.Model.
func (m Model) View() string {
	t := theme.DefaultTheme
	var b strings.Builder

	b.WriteString(t.Header.Render(theme.IconHeadphones+" Virtual Surround Sound") + "\n\n")
	if !m.view.NotesAcknowledged {
		b.WriteString(t.Warning.Render(theme.IconWarning+" Read the usage notes and run 'surroundctl ack' to enable the filter toggles.") + "\n\n")
	}

	b.WriteString(t.Title.Render("Sources") + "\n")
	b.WriteString(m.renderSources() + "\n\n")

	b.WriteString(m.renderDefaultSink() + "\n\n")

	b.WriteString(t.Title.Render("Mixer") + "\n")
	b.WriteString(m.renderMixer() + "\n")

	switch {
	case m.err != nil:
		b.WriteString("\n" + t.Error.Render(theme.IconError+" "+m.err.Error()) + "\n")
	case m.status != "":
		b.WriteString("\n" + t.Success.Render(m.status) + "\n")
	}

	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}

func (m Model) renderSources() string {
	t := theme.DefaultTheme
	switch {
	case !m.view.Loaded:
		return t.Muted.Render("Loading...")
	case len(m.view.Apps) == 0:
		msg := "No applications are playing audio."
		if m.view.LastError != "" {
			msg = "Sources unavailable: " + m.view.LastError
		}
		return t.Muted.Render(msg)
	}

	rows := make([][]string, 0, len(m.view.Apps))
	for _, app := range m.view.Apps {
		state := route.EnableToggleState(app, m.view.SinkDefault)
		mark := theme.IconOff
		if state.Checked {
			mark = theme.IconOn
		}
		name := app.Name
		if app.Pinned() {
			name += " " + theme.IconPinned
		}
		rows = append(rows, []string{mark, name, formatSummary(app.Formats), route.StatusLabel(app, m.view.SinkDefault, m.view.Sinks)})
	}

	selected := -1
	if sel, ok := m.selected(); ok && sel.kind == rowApp {
		selected = sel.index
	}
	out := table.SelectableTable([]string{"", "APPLICATION", "FORMAT", "STATUS"}, rows, selected)
	if selected >= 0 {
		state := route.EnableToggleState(m.view.Apps[selected], m.view.SinkDefault)
		out += "\n" + t.Muted.Render(state.Description)
	}
	return out
}

func (m Model) renderDefaultSink() string {
	t := theme.DefaultTheme
	mark := theme.IconOff
	if m.view.SinkDefault {
		mark = theme.IconOn
	}
	return fmt.Sprintf("%s Use as default output sink %s", mark, t.Muted.Render("(d)"))
}

func (m Model) renderMixer() string {
	t := theme.DefaultTheme
	sel, _ := m.selected()
	var b strings.Builder

	marker := func(match bool) string {
		if match {
			return t.Highlight.Render(theme.IconSelect) + " "
		}
		return "  "
	}

	fg := "no application in the foreground"
	if m.view.Foreground != nil {
		fg = m.view.Foreground.DisplayName
	}
	toggle := theme.IconOff
	if m.view.Profile.UsePerAppProfile {
		toggle = theme.IconOn
	}
	b.WriteString(fmt.Sprintf("%s%s Use per-app profile %s\n", marker(sel.kind == rowPerApp), toggle, t.Muted.Render("("+fg+")")))
	b.WriteString(fmt.Sprintf("  %s %s\n", t.Muted.Render("Profile:"), t.Bold.Render(m.view.Profile.Name)))

	for _, ch := range m.view.Channels {
		v := m.volume(ch.Code)
		line := fmt.Sprintf("%-4s %-14s %s %3d%%", ch.Code, ch.Label, m.bar.ViewAs(float64(v)/float64(mixer.MaxVolume)), v)
		active := sel.kind == rowChannel && sel.channel.Code == ch.Code
		if active {
			line = t.SelectedRow.Render(line)
		}
		b.WriteString(marker(active) + line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatSummary renders the distinct formats of an application on one line.
func formatSummary(formats []models.StreamFormat) string {
	parts := make([]string, 0, len(formats))
	for _, f := range formats {
		s := f.Format
		if f.Rate != "" {
			s += " " + f.Rate
		}
		if f.Channels != "" {
			s += " " + f.Channels + "ch"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ", ")
}
