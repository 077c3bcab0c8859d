package ui

import (
	"context"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"mcpchat/backend"
	"mcpchat/config"
	"mcpchat/export"
	"mcpchat/model"
	"mcpchat/session"
)

type chatsLoadedMsg struct {
	Chats []backend.ChatSummary
	Err   error
}

type toolsLoadedMsg struct {
	Tools []backend.Tool
	Err   error
}

type providersLoadedMsg struct {
	Providers []backend.Provider
	Err       error
}

type configSavedMsg struct {
	Err error
}

type exportDoneMsg struct {
	Path string
	Err  error
}

type clipboardMsg struct {
	What string
	Err  error
}

func (a AppView) fetchChats() tea.Cmd {
	catalog, timeout := a.catalog, a.requestTimeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		chats, err := catalog.Chats(ctx)
		return chatsLoadedMsg{Chats: chats, Err: err}
	}
}

func (a AppView) fetchTools() tea.Cmd {
	catalog, timeout := a.catalog, a.requestTimeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		tools, err := catalog.Tools(ctx)
		return toolsLoadedMsg{Tools: tools, Err: err}
	}
}

func (a AppView) fetchProviders() tea.Cmd {
	catalog, timeout := a.catalog, a.requestTimeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		providers, err := catalog.Providers(ctx)
		return providersLoadedMsg{Providers: providers, Err: err}
	}
}

// saveConfig persists the current selections so the next start uses them.
func (a AppView) saveConfig() tea.Cmd {
	if a.cfg.Path() == "" {
		return nil
	}
	snapshot := *a.cfg
	snapshot.SelectedTools = a.session.SelectedTools().Names()
	snapshot.ModelSettings = a.session.ModelSettings()
	snapshot.Provider = model.ProviderSelection{}
	if p := a.session.Provider(); p != nil {
		snapshot.Provider = *p
	}
	return func() tea.Msg {
		return configSavedMsg{Err: snapshot.Save()}
	}
}

func (a AppView) exportConversation() tea.Cmd {
	state := a.session.State()
	if len(state.Messages) == 0 {
		return nil
	}
	dataDir, pipeline := a.cfg.DataDir(), a.pipeline
	return func() tea.Msg {
		t := export.NewTranscript(state, timeNow())
		path := export.DefaultPath(dataDir, t, export.FormatHTML)
		return exportDoneMsg{Path: path, Err: export.WriteFile(path, export.FormatHTML, t, pipeline)}
	}
}

func copyLastResponse(state model.ConversationState) tea.Cmd {
	msg, ok := state.LastAssistantMessage()
	if !ok {
		return nil
	}
	return func() tea.Msg {
		return clipboardMsg{What: "Last response", Err: clipboard.WriteAll(msg.Text)}
	}
}

func copyConversation(state model.ConversationState) tea.Cmd {
	if len(state.Messages) == 0 {
		return nil
	}
	var b strings.Builder
	for i, m := range state.Messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if m.IsFromUser {
			b.WriteString("You: ")
		} else {
			b.WriteString("Assistant: ")
		}
		b.WriteString(m.Text)
	}
	text := b.String()
	return func() tea.Msg {
		return clipboardMsg{What: "Conversation", Err: clipboard.WriteAll(text)}
	}
}

func logSessionMsg(msg tea.Msg) {
	switch m := msg.(type) {
	case session.AnswerMsg:
		config.DebugLog.Debugf("[UI] answer received (err=%v)", m.Err)
	case session.HistoryMsg:
		config.DebugLog.Debugf("[UI] history received for %s (err=%v)", m.ID, m.Err)
	}
}
