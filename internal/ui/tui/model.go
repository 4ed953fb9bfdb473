// Package tui is the terminal host: a bubbletea program driving the same
// session runner as the tray.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pomodo/internal/core/model"
	"pomodo/internal/core/session"
)

// Controls is the part of the session runner the terminal drives.
type Controls interface {
	Toggle()
	Reset()
	Skip()
	Snapshot() session.Snapshot
}

type eventMsg session.Event

type closedMsg struct{}

// Option customizes a Model.
type Option func(*Model)

// WithNowPlaying shows the text returned by source, refreshed on every
// engine event. An empty text hides the line.
func WithNowPlaying(source func() string) Option {
	return func(m *Model) {
		m.nowPlayingSource = source
	}
}

// Model is the bubbletea model of the terminal host.
type Model struct {
	controls Controls
	events   <-chan session.Event
	theme    model.Theme
	keys     keyMap
	help     help.Model
	progress progress.Model
	snapshot session.Snapshot
	width    int
	quitting bool

	nowPlayingSource func() string
	nowPlaying       string
}

// New creates a model. events is typically a runner subscription; the
// program quits when it is closed.
func New(controls Controls, events <-chan session.Event, theme model.Theme, options ...Option) Model {
	m := Model{
		controls: controls,
		events:   events,
		theme:    theme,
		keys:     defaultKeys(),
		help:     help.New(),
		progress: progress.New(progress.WithoutPercentage(), progress.WithWidth(40)),
		snapshot: controls.Snapshot(),
	}
	for _, option := range options {
		option(&m)
	}
	m.refreshNowPlaying()
	return m
}

func (m *Model) refreshNowPlaying() {
	if m.nowPlayingSource != nil {
		m.nowPlaying = m.nowPlayingSource()
	}
}

// Init starts listening for engine events.
func (m Model) Init() tea.Cmd {
	return waitForEvent(m.events)
}

func waitForEvent(events <-chan session.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return closedMsg{}
		}
		return eventMsg(event)
	}
}

// Update handles keys and engine events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Toggle):
			m.controls.Toggle()
		case key.Matches(msg, m.keys.Reset):
			m.controls.Reset()
		case key.Matches(msg, m.keys.Skip):
			m.controls.Skip()
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
		m.snapshot = m.controls.Snapshot()
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.progress.Width = min(max(msg.Width-10, 10), 60)
		return m, nil

	case eventMsg:
		m.snapshot = m.controls.Snapshot()
		m.refreshNowPlaying()
		return m, waitForEvent(m.events)

	case closedMsg:
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// View renders the timer.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	snapshot := m.snapshot
	styles := StylesFor(PaletteFor(m.theme), snapshot.Phase.IsBreak())

	bar := m.progress
	bar.FullColor = string(styles.Accent)
	bar.EmptyColor = "#444444"

	state := "running"
	if !snapshot.Running {
		state = "paused"
	}

	lines := []string{
		styles.Phase.Render(snapshot.Phase.Label()) + "  " + styles.Muted.Render(state),
		"",
		styles.Clock.Render(FormatClock(snapshot.Remaining)),
		bar.ViewAs(snapshot.Progress()),
		"",
		CycleDots(snapshot) + "  " + styles.Muted.Render(TodayLine(snapshot.CompletedWork)),
	}
	if m.nowPlaying != "" {
		lines = append(lines, styles.Muted.Render("♪ "+m.nowPlaying))
	}
	lines = append(lines, "", m.help.View(m.keys))
	return styles.App.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// FormatClock renders the countdown as mm:ss.
func FormatClock(remaining time.Duration) string {
	if remaining < 0 {
		remaining = 0
	}
	seconds := int(remaining / time.Second)
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// CycleDots shows the work sessions finished in the current set as filled
// dots out of the set length.
func CycleDots(snapshot session.Snapshot) string {
	length := max(snapshot.CycleLength, 0)
	done := snapshot.Cycle - 1
	if snapshot.Phase == session.PhaseLongBreak {
		done = snapshot.Cycle
	}
	done = min(max(done, 0), length)
	return strings.Repeat("●", done) + strings.Repeat("○", length-done)
}

// TodayLine describes the completed pomodoro count.
func TodayLine(count int) string {
	if count == 1 {
		return "1 pomodoro today"
	}
	return fmt.Sprintf("%d pomodoros today", count)
}

// Run starts the program and blocks until the user quits or events closes.
func Run(controls Controls, events <-chan session.Event, theme model.Theme, options []Option, programOptions ...tea.ProgramOption) error {
	_, err := tea.NewProgram(New(controls, events, theme, options...), programOptions...).Run()
	return err
}
