package tui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	Pane       lipgloss.Style
	FocusPane  lipgloss.Style
	Title      lipgloss.Style
	Active     lipgloss.Style
	Selected   lipgloss.Style
	Muted      lipgloss.Style
	Category   lipgloss.Style
	Warning    lipgloss.Style
	PromptText lipgloss.Style
}

func defaultStyles() styles {
	border := lipgloss.RoundedBorder()
	return styles{
		Pane: lipgloss.NewStyle().
			Border(border).
			BorderForeground(lipgloss.Color("#44475a")).
			Padding(0, 1),
		FocusPane: lipgloss.NewStyle().
			Border(border).
			BorderForeground(lipgloss.Color("#bd93f9")).
			Padding(0, 1),
		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bd93f9")).
			Bold(true),
		Active: lipgloss.NewStyle().
			Bold(true),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f8f8f2")).
			Background(lipgloss.Color("#44475a")),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6272a4")),
		Category: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8be9fd")),
		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffb86c")),
		PromptText: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#50fa7b")),
	}
}
