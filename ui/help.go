package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func (a AppView) renderHelpModal(width, height int) string {
	kb := a.kb

	green := lipgloss.NewStyle().
		Bold(true).
		Foreground(successColor)

	title := green.Render("mcpchat - Keyboard Shortcuts")

	blue := lipgloss.NewStyle().Foreground(accentColor)

	globalActions := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Global Actions"),
		fmt.Sprintf("• %-13s New conversation", kb.Display("new_chat")),
		fmt.Sprintf("• %-13s Saved conversations", kb.Display("chat_picker")),
		fmt.Sprintf("• %-13s Tools", kb.Display("tool_picker")),
		fmt.Sprintf("• %-13s Provider and model", kb.Display("provider_picker")),
		fmt.Sprintf("• %-13s Model settings", kb.Display("settings")),
		fmt.Sprintf("• %-13s Export as HTML", kb.Display("export")),
		fmt.Sprintf("• %-13s Toggle this help", kb.Display("help")),
		fmt.Sprintf("• %-13s Quit", kb.Display("quit")),
	)

	chatNavigation := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Chat Navigation"),
		fmt.Sprintf("• %-13s Scroll down 1 line", kb.Display("scroll_down")),
		fmt.Sprintf("• %-13s Scroll up 1 line", kb.Display("scroll_up")),
		fmt.Sprintf("• %-13s Half page down", kb.Display("half_page_down")),
		fmt.Sprintf("• %-13s Half page up", kb.Display("half_page_up")),
		fmt.Sprintf("• %-13s Jump to top", kb.Display("scroll_to_top")),
		fmt.Sprintf("• %-13s Jump to bottom", kb.Display("scroll_to_bottom")),
	)

	chatActions := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Chat Actions"),
		"• Enter         Send message",
		fmt.Sprintf("• %-13s Copy last response", kb.Display("yank_last_response")),
		fmt.Sprintf("• %-13s Copy conversation", kb.Display("yank_conversation")),
		fmt.Sprintf("• %-13s Clear input", kb.Display("clear_input")),
	)

	column1 := lipgloss.JoinVertical(lipgloss.Left, globalActions)
	column2 := lipgloss.JoinVertical(lipgloss.Left, chatNavigation, "", chatActions)

	columnStyle := lipgloss.NewStyle().Width(42).PaddingLeft(4)
	columns := lipgloss.JoinHorizontal(
		lipgloss.Top,
		columnStyle.Render(column1),
		columnStyle.Render(column2),
	)

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		"",
		columns,
		"",
		HelpStyle.Render("Esc to close"),
	)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, ModalStyle.Render(content))
}
