// Package tui is a terminal front end for a shuffle session.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tejashwikalptaru/trueshuffle/internal/domain"
	"github.com/tejashwikalptaru/trueshuffle/internal/ports"
)

const (
	refreshInterval = 250 * time.Millisecond
	activityLines   = 8
)

// Model is the bubbletea model for the session view.
type Model struct {
	session ports.SessionControl
	title   string
	help    help.Model

	status   domain.SessionStatus
	activity []string
	lastErr  string
	width    int
	quitting bool
}

// NewModel creates a model over session. title names the player backend.
func NewModel(session ports.SessionControl, title string) Model {
	return Model{
		session: session,
		title:   title,
		help:    help.New(),
		status:  session.Status(),
	}
}

// Messages
type tickMsg time.Time

// EventMsg carries a bus event into the program.
type EventMsg struct {
	Event domain.Event
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init starts the refresh loop.
func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles keys, refresh ticks and forwarded events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, keys.Toggle):
			if m.session.Toggle() {
				m.note("true shuffle on")
			} else {
				m.note("true shuffle off")
			}
		case key.Matches(msg, keys.Next):
			m.session.RequestSkip()
		case key.Matches(msg, keys.Prev):
			m.session.RequestBack()
		case key.Matches(msg, keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		m.status = m.session.Status()
		return m, tick()

	case EventMsg:
		m.observe(msg.Event)
		return m, nil
	}
	return m, nil
}

func (m *Model) observe(e domain.Event) {
	switch ev := e.(type) {
	case domain.TrackPickedEvent:
		m.note(fmt.Sprintf("%-8s %s", ev.Source, ev.Track))
	case domain.ContextChangedEvent:
		m.note("context " + ev.Current.URI)
	case domain.SkipDroppedEvent:
		m.note("busy, request dropped")
	case domain.PlayerErrorEvent:
		m.lastErr = fmt.Sprintf("%s: %v", ev.Operation, ev.Error)
	}
}

func (m *Model) note(line string) {
	m.activity = append(m.activity, time.Now().Format("15:04:05")+"  "+line)
	if len(m.activity) > activityLines {
		m.activity = m.activity[len(m.activity)-activityLines:]
	}
}

// View renders the session panel.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	s := m.status

	mode := bypassStyle.Render("BYPASSED")
	switch {
	case s.Active && s.ShuffleDriven:
		mode = activeStyle.Render("TRUE SHUFFLE")
	case s.Active:
		mode = mutedStyle.Render("ARMED (waiting for a shuffled playlist)")
	}

	current := "nothing playing"
	if s.Current.URI != "" {
		current = s.Current.String()
	}
	contextURI := s.Context.URI
	if contextURI == "" {
		contextURI = "none"
	}

	row := func(label, value string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), valueStyle.Render(value))
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("trueshuffle · " + m.title))
	b.WriteString("\n")
	b.WriteString(row("mode", mode) + "\n")
	b.WriteString(row("context", contextURI) + "\n")
	b.WriteString(row("playing", titleStyle.Render(current)) + "\n")
	b.WriteString(row("history", fmt.Sprintf("%d plays, nav %d/%d, skips %d",
		s.HistoryLen, s.NavCursor+1, s.NavLen, s.SkipCount)))

	panel := panelStyle.Render(b.String())

	var log strings.Builder
	for _, line := range m.activity {
		log.WriteString(mutedStyle.Render(line) + "\n")
	}
	if m.lastErr != "" {
		log.WriteString(errorStyle.Render("error: "+m.lastErr) + "\n")
	}

	return lipgloss.JoinVertical(lipgloss.Left, panel, log.String(), m.help.View(keys))
}
