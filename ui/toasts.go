package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"mcpchat/notify"
)

const toastTick = 500 * time.Millisecond

type toastTickMsg time.Time

func scheduleToastTick() tea.Cmd {
	return tea.Tick(toastTick, func(t time.Time) tea.Msg {
		return toastTickMsg(t)
	})
}

// renderToasts lists active notifications, newest last.
func renderToasts(center *notify.Center, width int) string {
	if center == nil {
		return ""
	}
	active := center.Active()
	if len(active) == 0 {
		return ""
	}

	lines := make([]string, 0, len(active))
	for _, n := range active {
		lines = append(lines, levelStyle(n.Level).Render(truncate("● "+n.Message, width)))
	}
	return strings.Join(lines, "\n")
}
