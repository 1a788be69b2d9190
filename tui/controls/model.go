// Package controls is the terminal rendition of the audio controls: the
// sources table, the default sink switch and the mixer sliders.
package controls

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	session "github.com/grovetools/surround/internal/controls"
	"github.com/grovetools/surround/pkg/mixer"
	"github.com/grovetools/surround/pkg/route"
)

// Controller is the part of a controls session the view drives.
type Controller interface {
	Store() *session.Store
	Snapshot() session.View
	Refresh(ctx context.Context) error
	SetAppEnabled(ctx context.Context, name string, enabled bool) error
	SetSurroundSinkDefault(ctx context.Context, enabled bool) (bool, error)
	SetPerAppProfile(enabled bool) (bool, error)
	SetVolume(channel string, value int) error
}

// updateMsg carries a store update into the program.
type updateMsg session.Update

// actionMsg reports the outcome of a backend action.
type actionMsg struct {
	status string
	err    error
}

type rowKind int

const (
	rowApp rowKind = iota
	rowPerApp
	rowChannel
)

type row struct {
	kind    rowKind
	index   int
	channel mixer.Channel
}

// Model is the bubbletea model of the audio controls.
type Model struct {
	ctx     context.Context
	ctl     Controller
	updates chan session.Update

	keys KeyMap
	help help.Model
	bar  progress.Model

	view   session.View
	cursor int
	status string
	err    error
	width  int
}

// New creates the view for ctl. It subscribes to the session store at once;
// the subscription ends when the program quits.
func New(ctx context.Context, ctl Controller, keys KeyMap) Model {
	return Model{
		ctx:     ctx,
		ctl:     ctl,
		updates: ctl.Store().Subscribe(),
		keys:    keys,
		help:    help.New(),
		bar:     progress.New(progress.WithWidth(24), progress.WithoutPercentage(), progress.WithDefaultGradient()),
		view:    ctl.Snapshot(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return waitForUpdate(m.updates)
}

func waitForUpdate(ch chan session.Update) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-ch
		if !ok {
			return nil
		}
		return updateMsg(u)
	}
}

// rows lists the selectable lines: apps, the per-app toggle, then channels.
func (m Model) rows() []row {
	rows := make([]row, 0, len(m.view.Apps)+1+len(m.view.Channels))
	for i := range m.view.Apps {
		rows = append(rows, row{kind: rowApp, index: i})
	}
	rows = append(rows, row{kind: rowPerApp})
	for _, ch := range m.view.Channels {
		rows = append(rows, row{kind: rowChannel, channel: ch})
	}
	return rows
}

func (m Model) selected() (row, bool) {
	rows := m.rows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return row{}, false
	}
	return rows[m.cursor], true
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case updateMsg:
		m.view = msg.View
		m.clampCursor()
		return m, waitForUpdate(m.updates)

	case actionMsg:
		m.status, m.err = msg.status, msg.err
		m.view = m.ctl.Snapshot()
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.ctl.Store().Unsubscribe(m.updates)
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows())-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Left):
		m.nudge(-mixer.VolumeStep)

	case key.Matches(msg, m.keys.Right):
		m.nudge(mixer.VolumeStep)

	case key.Matches(msg, m.keys.Select):
		return m.toggleSelected()

	case key.Matches(msg, m.keys.DefaultSink):
		return m, m.toggleDefaultSink(!m.view.SinkDefault)

	case key.Matches(msg, m.keys.Refresh):
		ctx, ctl := m.ctx, m.ctl
		return m, func() tea.Msg {
			return actionMsg{err: ctl.Refresh(ctx)}
		}
	}
	return m, nil
}

// nudge moves the selected channel slider by delta.
func (m *Model) nudge(delta int) {
	sel, ok := m.selected()
	if !ok || sel.kind != rowChannel {
		return
	}
	value := mixer.ClampVolume(m.volume(sel.channel.Code) + delta)
	if err := m.ctl.SetVolume(sel.channel.Code, value); err != nil {
		m.err = err
		return
	}
	m.view = m.ctl.Snapshot()
}

func (m Model) toggleSelected() (tea.Model, tea.Cmd) {
	sel, ok := m.selected()
	if !ok {
		return m, nil
	}
	switch sel.kind {
	case rowApp:
		app := m.view.Apps[sel.index]
		state := route.EnableToggleState(app, m.view.SinkDefault)
		if state.Disabled {
			m.status, m.err = state.Description, nil
			return m, nil
		}
		ctx, ctl, enabled := m.ctx, m.ctl, !state.Checked
		return m, func() tea.Msg {
			if err := ctl.SetAppEnabled(ctx, app.Name, enabled); err != nil {
				return actionMsg{err: err}
			}
			verb := "Disabled"
			if enabled {
				verb = "Enabled"
			}
			return actionMsg{status: fmt.Sprintf("%s virtual surround for %s", verb, app.Name)}
		}

	case rowPerApp:
		value, err := m.ctl.SetPerAppProfile(!m.view.Profile.UsePerAppProfile)
		m.err = err
		if err == nil {
			m.status = "Per-app profile off"
			if value {
				m.status = "Per-app profile on"
			}
		}
		m.view = m.ctl.Snapshot()
	}
	return m, nil
}

func (m Model) toggleDefaultSink(enabled bool) tea.Cmd {
	ctx, ctl := m.ctx, m.ctl
	return func() tea.Msg {
		value, err := ctl.SetSurroundSinkDefault(ctx, enabled)
		if err != nil {
			return actionMsg{err: err}
		}
		status := "Virtual surround is no longer the default sink"
		if value {
			status = "Virtual surround is the default sink"
		}
		return actionMsg{status: status}
	}
}

func (m Model) volume(code string) int {
	if v, ok := m.view.Volumes[code]; ok {
		return v
	}
	return m.view.Profile.Volume(code)
}

func (m *Model) clampCursor() {
	if n := len(m.rows()); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
