package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent  = lipgloss.Color("#8BC34A")
	muted   = lipgloss.Color("#6B7280")
	danger  = lipgloss.Color("#E53935")
	warning = lipgloss.Color("#FFC107")
	info    = lipgloss.Color("#2196F3")
)

// Styles groups the lipgloss styles used by the dashboard
type Styles struct {
	Title    lipgloss.Style
	Label    lipgloss.Style
	Active   lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
	Notice   lipgloss.Style
	Progress lipgloss.Style
	Panel    lipgloss.Style
	Help     lipgloss.Style
}

// DefaultStyles returns the dashboard styles
func DefaultStyles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(accent).MarginBottom(1),
		Label:    lipgloss.NewStyle().Bold(true),
		Active:   lipgloss.NewStyle().Bold(true).Foreground(accent),
		Muted:    lipgloss.NewStyle().Foreground(muted),
		Error:    lipgloss.NewStyle().Bold(true).Foreground(danger),
		Notice:   lipgloss.NewStyle().Italic(true).Foreground(warning),
		Progress: lipgloss.NewStyle().Foreground(info),
		Panel:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(muted).Padding(0, 1),
		Help:     lipgloss.NewStyle().Foreground(muted).MarginTop(1),
	}
}
