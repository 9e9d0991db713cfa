package tui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	Title    lipgloss.Style
	Help     lipgloss.Style
	Selected lipgloss.Style
	Dim      lipgloss.Style
	Badge    lipgloss.Style
	BannerOK lipgloss.Style
	BannerNO lipgloss.Style
	Total    lipgloss.Style
	Field    lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")).MarginBottom(1),
		Help:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		Dim:      lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
		Badge:    lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		BannerOK: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("42")).Padding(0, 1),
		BannerNO: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("160")).Padding(0, 1),
		Total:    lipgloss.NewStyle().Bold(true),
		Field:    lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	}
}
