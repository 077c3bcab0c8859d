package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"mcpchat/notify"
)

var (
	dimColor     = lipgloss.Color("7")
	accentColor  = lipgloss.Color("12")
	successColor = lipgloss.Color("10")
	warningColor = lipgloss.Color("11")
	dangerColor  = lipgloss.Color("9")

	// No backgrounds anywhere: terminal transparency is preserved
	UserStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	AssistantStyle = lipgloss.NewStyle().
			Foreground(accentColor)

	DimStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	BorderStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	TitleStyle = lipgloss.NewStyle().
			Bold(true)

	StatusStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(warningColor).
			Bold(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(dangerColor)

	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(1, 2)
)

// levelStyle colours a toast by its notification level.
func levelStyle(l notify.Level) lipgloss.Style {
	switch l {
	case notify.Success:
		return lipgloss.NewStyle().Foreground(successColor)
	case notify.Warning:
		return lipgloss.NewStyle().Foreground(warningColor)
	case notify.Error:
		return lipgloss.NewStyle().Foreground(dangerColor).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(accentColor)
	}
}

// FormatFooter formats alternating keys and descriptions.
// Usage: FormatFooter("↑/↓", "Navigate", "Enter", "Select", "Esc", "Close")
func FormatFooter(parts ...string) string {
	descStyle := lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	var result []string
	for i := 0; i+1 < len(parts); i += 2 {
		result = append(result, parts[i]+" "+descStyle.Render(parts[i+1]))
	}
	return strings.Join(result, "  ")
}
