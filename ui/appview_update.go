package ui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"mcpchat/config"
	"mcpchat/model"
	"mcpchat/notify"
	"mcpchat/session"
)

func (a AppView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

		// title (1) + separator (1) + textarea (3) + status bar (1)
		a.viewport.Width = a.width
		a.viewport.Height = max(a.height-6, 1)
		a.textarea.SetWidth(a.width)

		a.ready = true
		a.updateViewportContent(true)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case session.AnswerMsg, session.HistoryMsg:
		logSessionMsg(msg)
		if a.session.Update(msg) {
			a.updateViewportContent(true)
		}
		return a, nil

	case spinner.TickMsg:
		if a.session.Busy() || a.loading != pickerNone {
			a.loadingSpinner, cmd = a.loadingSpinner.Update(msg)
			a.updateViewportContent(false)
			return a, cmd
		}
		return a, nil

	case toastTickMsg:
		a.center.Prune()
		return a, scheduleToastTick()

	case chatsLoadedMsg:
		a.loading = pickerNone
		if msg.Err != nil {
			a.center.Notify(notify.Error, "Could not load conversations")
			return a, nil
		}
		items := make([]PickerItem, 0, len(msg.Chats))
		for _, c := range msg.Chats {
			items = append(items, PickerItem{ID: c.UUID, Label: c.Title(), Detail: c.CreatedAt})
		}
		a.openPicker(pickerChats, NewPicker("Conversations", items, false))
		a.picker.Select(a.session.ConversationID())
		return a, nil

	case toolsLoadedMsg:
		a.loading = pickerNone
		if msg.Err != nil {
			a.center.Notify(notify.Error, "Could not load tools")
			return a, nil
		}
		items := make([]PickerItem, 0, len(msg.Tools))
		for _, t := range msg.Tools {
			items = append(items, PickerItem{ID: t.Name, Label: t.Name, Detail: t.Description})
		}
		a.openPicker(pickerTools, NewPicker("Tools", items, true))
		a.picker.Select(a.session.SelectedTools().Names()...)
		return a, nil

	case providersLoadedMsg:
		a.loading = pickerNone
		if msg.Err != nil {
			a.center.Notify(notify.Error, "Could not load providers")
			return a, nil
		}
		items := []PickerItem{{ID: "", Label: "Server default", Detail: "let the backend choose"}}
		for _, p := range msg.Providers {
			for _, m := range p.Models {
				sel := model.ProviderSelection{Provider: p.Name, ModelID: m.ModelID}
				detail := p.Name
				if m.Description != "" {
					detail += " · " + m.Description
				}
				items = append(items, PickerItem{ID: sel.String(), Label: m.Name, Detail: detail, Value: sel})
			}
		}
		a.openPicker(pickerProviders, NewPicker("Models", items, false))
		if p := a.session.Provider(); p.Complete() {
			a.picker.Select(p.String())
		}
		return a, nil

	case configSavedMsg:
		if msg.Err != nil {
			config.DebugLog.Errorf("[UI] failed to save config: %v", msg.Err)
			a.center.Notify(notify.Error, "Could not save settings")
		}
		return a, nil

	case exportDoneMsg:
		if msg.Err != nil {
			a.center.Notify(notify.Error, "Export failed: "+msg.Err.Error())
		} else {
			a.center.Notify(notify.Success, "Exported to "+msg.Path)
		}
		return a, nil

	case clipboardMsg:
		if msg.Err != nil {
			a.center.Notify(notify.Error, "Clipboard unavailable")
		} else {
			a.center.Notify(notify.Success, msg.What+" copied")
		}
		return a, nil
	}

	a.textarea, cmd = a.textarea.Update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

func (a *AppView) openPicker(kind pickerKind, p *Picker) {
	a.pickerKind = kind
	a.picker = p
	a.textarea.Blur()
}

func (a *AppView) closeOverlays() {
	a.picker = nil
	a.pickerKind = pickerNone
	a.settings = nil
	a.textarea.Focus()
}

func (a AppView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" || a.kb.Matches(key, "quit") {
		config.DebugLog.Infof("[UI] quit requested")
		a.session.Close()
		return a, tea.Quit
	}

	if a.showHelp {
		if key == "esc" || a.kb.Matches(key, "help") {
			a.showHelp = false
		}
		return a, nil
	}

	if a.confirm != nil {
		return a.handleConfirmKey(msg)
	}
	if a.settings != nil {
		return a.handleSettingsKey(msg)
	}
	if a.picker != nil {
		return a.handlePickerKey(msg)
	}

	switch {
	case a.kb.Matches(key, "help"):
		a.showHelp = true
		return a, nil

	case a.kb.Matches(key, "new_chat"):
		return a.leaveConversation("")

	case a.kb.Matches(key, "chat_picker"):
		a.loading = pickerChats
		return a, tea.Batch(a.fetchChats(), a.loadingSpinner.Tick)

	case a.kb.Matches(key, "tool_picker"):
		a.loading = pickerTools
		return a, tea.Batch(a.fetchTools(), a.loadingSpinner.Tick)

	case a.kb.Matches(key, "provider_picker"):
		a.loading = pickerProviders
		return a, tea.Batch(a.fetchProviders(), a.loadingSpinner.Tick)

	case a.kb.Matches(key, "settings"):
		a.settings = NewSettingsForm(a.session.ModelSettings())
		a.textarea.Blur()
		return a, nil

	case a.kb.Matches(key, "export"):
		cmd := a.exportConversation()
		if cmd == nil {
			a.center.Notify(notify.Info, "Nothing to export yet")
		}
		return a, cmd

	case a.kb.Matches(key, "yank_last_response"):
		return a, copyLastResponse(a.session.State())

	case a.kb.Matches(key, "yank_conversation"):
		return a, copyConversation(a.session.State())

	case a.kb.Matches(key, "clear_input"):
		a.textarea.Reset()
		return a, nil

	case a.kb.Matches(key, "scroll_down"):
		a.viewport.LineDown(1)
		return a, nil
	case a.kb.Matches(key, "scroll_up"):
		a.viewport.LineUp(1)
		return a, nil
	case a.kb.Matches(key, "half_page_down"):
		a.viewport.HalfViewDown()
		return a, nil
	case a.kb.Matches(key, "half_page_up"):
		a.viewport.HalfViewUp()
		return a, nil
	case a.kb.Matches(key, "scroll_to_top"):
		a.viewport.GotoTop()
		return a, nil
	case a.kb.Matches(key, "scroll_to_bottom"):
		a.viewport.GotoBottom()
		return a, nil
	case key == "pgdown":
		a.viewport.ViewDown()
		return a, nil
	case key == "pgup":
		a.viewport.ViewUp()
		return a, nil

	case key == "enter":
		return a.submit()
	}

	var cmd tea.Cmd
	a.textarea, cmd = a.textarea.Update(msg)
	return a, cmd
}

func (a AppView) submit() (tea.Model, tea.Cmd) {
	cmd, err := a.session.Submit(a.textarea.Value())
	switch {
	case errors.Is(err, session.ErrEmptyMessage):
		return a, nil
	case errors.Is(err, session.ErrBusy):
		a.center.Notify(notify.Info, "Please wait for the current reply")
		return a, nil
	case err != nil:
		a.center.Notify(notify.Error, err.Error())
		return a, nil
	}

	a.textarea.Reset()
	a.updateViewportContent(true)
	return a, tea.Batch(cmd, a.loadingSpinner.Tick)
}

func (a AppView) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch {
	case key == "esc":
		a.closeOverlays()
		return a, nil
	case a.kb.Matches(key, "list_down"), key == "ctrl+n":
		a.picker.Move(1)
		return a, nil
	case a.kb.Matches(key, "list_up"), key == "ctrl+p":
		a.picker.Move(-1)
		return a, nil
	case a.picker.Multi() && (a.kb.Matches(key, "list_toggle") || key == "tab"):
		a.picker.Toggle()
		return a, nil
	case a.kb.Matches(key, "list_refresh"):
		kind := a.pickerKind
		a.closeOverlays()
		return a.refetch(kind)
	case key == "enter":
		return a.applyPicker()
	}

	a.picker.UpdateFilter(msg)
	return a, nil
}

func (a AppView) refetch(kind pickerKind) (tea.Model, tea.Cmd) {
	a.loading = kind
	switch kind {
	case pickerChats:
		return a, a.fetchChats()
	case pickerTools:
		return a, a.fetchTools()
	case pickerProviders:
		return a, a.fetchProviders()
	}
	a.loading = pickerNone
	return a, nil
}

func (a AppView) applyPicker() (tea.Model, tea.Cmd) {
	kind, p := a.pickerKind, a.picker
	a.closeOverlays()

	switch kind {
	case pickerTools:
		a.session.SetSelectedTools(model.NewToolSet(p.Selected()...))
		a.center.Notify(notify.Info, fmt.Sprintf("%d tools enabled", len(p.Selected())))
		return a, a.saveConfig()

	case pickerProviders:
		item, ok := p.Current()
		if !ok {
			return a, nil
		}
		if sel, ok := item.Value.(model.ProviderSelection); ok {
			a.session.SetProvider(&sel)
		} else {
			a.session.SetProvider(nil)
		}
		a.center.Notify(notify.Info, "Model: "+a.session.Provider().String())
		return a, a.saveConfig()

	case pickerChats:
		item, ok := p.Current()
		if !ok {
			return a, nil
		}
		return a.leaveConversation(item.ID)
	}
	return a, nil
}

func (a AppView) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.closeOverlays()
		return a, nil
	case "tab", "down":
		a.settings.Move(1)
		return a, nil
	case "shift+tab", "up":
		a.settings.Move(-1)
		return a, nil
	case "enter":
		s, err := a.settings.Values()
		if err != nil {
			a.settings.SetError(err)
			return a, nil
		}
		a.session.SetModelSettings(s)
		a.closeOverlays()
		a.center.Notify(notify.Success, "Model settings saved")
		return a, a.saveConfig()
	}

	return a, a.settings.Update(msg)
}
