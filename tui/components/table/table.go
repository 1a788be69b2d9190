// Package table renders themed lipgloss tables for command output and the
// audio controls view.
package table

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	"github.com/grovetools/surround/tui/theme"
)

// New returns a bordered table with the theme's header style.
func New(headers ...string) *ltable.Table {
	t := theme.DefaultTheme
	return ltable.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(t.Colors.Border)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == ltable.HeaderRow {
				return t.TableHeader.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}

// SimpleTable renders headers and rows.
func SimpleTable(headers []string, rows [][]string) string {
	tbl := New(headers...)
	for _, row := range rows {
		tbl = tbl.Row(row...)
	}
	return tbl.String()
}

// SelectableTable renders a table with an indicator left of the selected
// data row. A negative index selects nothing.
func SelectableTable(headers []string, rows [][]string, selected int) string {
	lines := strings.Split(SimpleTable(headers, rows), "\n")

	// top border, header, separator, then one line per data row
	selectedLine := -1
	if selected >= 0 && selected < len(rows) {
		selectedLine = selected + 1
		if len(headers) > 0 {
			selectedLine = selected + 3
		}
	}

	arrow := theme.DefaultTheme.Highlight.Render(theme.IconSelect)
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		if i == selectedLine {
			b.WriteString(arrow + " ")
		} else {
			b.WriteString("  ")
		}
		b.WriteString(line)
	}
	return b.String()
}
