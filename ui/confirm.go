package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// confirmation guards leaving a conversation while its reply is in flight.
type confirmation struct {
	title   string
	message string
	chatID  string // conversation to open on yes; empty starts a new one
}

func abandonConfirmation(chatID string) *confirmation {
	target := "start a new conversation"
	if chatID != "" {
		target = "open another conversation"
	}
	return &confirmation{
		title:   "Reply still pending",
		message: "The assistant has not answered yet.\nIf you " + target + " now, that reply is discarded.",
		chatID:  chatID,
	}
}

// leaveConversation switches to chatID, asking first when a reply would be lost.
func (a AppView) leaveConversation(chatID string) (tea.Model, tea.Cmd) {
	if a.session.Pending() {
		a.confirm = abandonConfirmation(chatID)
		a.textarea.Blur()
		return a, nil
	}
	return a, a.switchTo(chatID)
}

func (a *AppView) switchTo(chatID string) tea.Cmd {
	cmd := a.session.SwitchConversation(chatID)
	a.updateViewportContent(true)
	if cmd == nil {
		return nil
	}
	return tea.Batch(cmd, a.loadingSpinner.Tick)
}

func (a AppView) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		chatID := a.confirm.chatID
		a.confirm = nil
		a.textarea.Focus()
		return a, a.switchTo(chatID)
	case "n", "N", "esc":
		a.confirm = nil
		a.textarea.Focus()
	}
	return a, nil
}

func renderConfirmation(c *confirmation, width, height int) string {
	modalWidth := 60
	if width < modalWidth+10 {
		modalWidth = max(width-10, 20)
	}

	section := lipgloss.NewStyle().
		Width(modalWidth).
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor)

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(warningColor).
		Align(lipgloss.Center).
		Width(modalWidth).
		Render(c.title)

	lines := []string{""}
	line := lipgloss.NewStyle().Width(modalWidth).Align(lipgloss.Center)
	for _, l := range strings.Split(c.message, "\n") {
		lines = append(lines, line.Render(l))
	}
	lines = append(lines, "")
	body := section.Render(strings.Join(lines, "\n"))

	footer := section.
		Foreground(dimColor).
		Align(lipgloss.Center).
		Render(FormatFooter("y", "Discard reply", "n", "Stay"))

	content := strings.Join([]string{title, body, footer}, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
