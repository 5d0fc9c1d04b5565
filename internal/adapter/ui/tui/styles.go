package tui

import "github.com/charmbracelet/lipgloss"

var (
	primary   = lipgloss.Color("#7C3AED")
	green     = lipgloss.Color("#1DB954")
	amber     = lipgloss.Color("#F59E0B")
	red       = lipgloss.Color("#EF4444")
	border    = lipgloss.Color("#4B5563")
	text      = lipgloss.Color("#F9FAFB")
	textMuted = lipgloss.Color("#9CA3AF")
	textDim   = lipgloss.Color("#6B7280")
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(text)
	labelStyle  = lipgloss.NewStyle().Foreground(textDim).Width(10)
	valueStyle  = lipgloss.NewStyle().Foreground(text)
	mutedStyle  = lipgloss.NewStyle().Foreground(textMuted)
	activeStyle = lipgloss.NewStyle().Bold(true).Foreground(green)
	bypassStyle = lipgloss.NewStyle().Bold(true).Foreground(amber)
	errorStyle  = lipgloss.NewStyle().Foreground(red)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primary).
			MarginBottom(1)
)
