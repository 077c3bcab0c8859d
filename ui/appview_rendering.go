package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (a AppView) View() string {
	if !a.ready {
		return "Loading..."
	}

	if a.showHelp {
		return a.renderHelpModal(a.width, a.height)
	}
	if a.confirm != nil {
		return renderConfirmation(a.confirm, a.width, a.height)
	}
	if a.settings != nil {
		return a.overlay(a.settings.View())
	}
	if a.picker != nil {
		return a.overlay(a.picker.View(min(a.width-8, 100), a.height-4) + "\n" + a.pickerFooter())
	}

	var b strings.Builder
	b.WriteString(a.renderTitle())
	b.WriteString("\n")
	b.WriteString(a.viewport.View())
	b.WriteString("\n")
	if toasts := renderToasts(a.center, a.width); toasts != "" {
		b.WriteString(toasts)
		b.WriteString("\n")
	}
	b.WriteString(BorderStyle.Render(strings.Repeat("─", max(a.width, 1))))
	b.WriteString("\n")
	b.WriteString(a.textarea.View())
	b.WriteString("\n")
	b.WriteString(a.renderStatusBar())
	return b.String()
}

func (a AppView) overlay(content string) string {
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, ModalStyle.Render(content))
}

func (a AppView) pickerFooter() string {
	if a.picker.Multi() {
		return FormatFooter("↑/↓", "Navigate", "Space", "Toggle", "Enter", "Apply", "Esc", "Cancel")
	}
	return FormatFooter("↑/↓", "Navigate", "Enter", "Select", a.kb.Display("list_refresh"), "Refresh", "Esc", "Cancel")
}

func (a AppView) renderTitle() string {
	title := "New conversation"
	if id := a.session.ConversationID(); id != "" {
		title = "Conversation " + id
	}
	return TitleStyle.Render("mcpchat") + DimStyle.Render(" · "+title)
}

func (a AppView) renderStatusBar() string {
	left := fmt.Sprintf("%s · %d tools · temp %.2g",
		a.session.Provider().String(),
		len(a.session.SelectedTools()),
		a.session.ModelSettings().Temperature)

	switch {
	case a.loading != pickerNone:
		left = a.loadingSpinner.View() + " Loading..."
	case a.session.Hydrating():
		left = a.loadingSpinner.View() + " Loading conversation..."
	case a.session.Pending():
		left = a.loadingSpinner.View() + " Waiting for the assistant..."
	}

	right := a.kb.Display("help") + " Help"
	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return StatusStyle.Render(left + strings.Repeat(" ", gap) + right)
}

// updateViewportContent re-renders the conversation into the viewport.
func (a *AppView) updateViewportContent(scrollToBottom bool) {
	if !a.ready {
		return
	}
	a.viewport.SetContent(a.renderMessages())
	if scrollToBottom {
		a.viewport.GotoBottom()
	}
}

func (a AppView) renderMessages() string {
	state := a.session.State()
	width := max(a.width-4, minMessageWidth)

	if len(state.Messages) == 0 {
		if a.session.Hydrating() {
			return DimStyle.Render("Loading conversation...")
		}
		return DimStyle.Render(fmt.Sprintf("Start typing to chat. %s lists saved conversations, %s picks tools.",
			a.kb.Display("chat_picker"), a.kb.Display("tool_picker")))
	}

	var b strings.Builder
	for i, m := range state.Messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if m.IsFromUser {
			b.WriteString(UserStyle.Render("You"))
			b.WriteString("\n")
			b.WriteString(lipgloss.NewStyle().Width(width).Render(m.Text))
			continue
		}
		b.WriteString(AssistantStyle.Render("Assistant"))
		b.WriteString("\n")
		b.WriteString(a.cache.get(m.Text, width))
	}

	if state.Pending {
		b.WriteString("\n\n")
		b.WriteString(AssistantStyle.Render("Assistant"))
		b.WriteString("\n")
		b.WriteString(a.loadingSpinner.View() + DimStyle.Render(" thinking..."))
	}
	return b.String()
}

const minMessageWidth = 20
