// Package session owns one conversation: its messages, the in-flight request
// and the conversation id assigned by the backend.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"mcpchat/backend"
	"mcpchat/config"
	"mcpchat/model"
	"mcpchat/notify"
)

// Transport is the subset of the backend client the controller needs.
type Transport interface {
	Ask(ctx context.Context, payload model.RequestPayload) (backend.AskReply, error)
	Chat(ctx context.Context, id string) ([]backend.HistoryEntry, error)
}

type Options struct {
	Transport Transport
	Notifier  notify.Notifier
	Logger    *zap.SugaredLogger
	// Timeout bounds each round trip. Zero means no bound beyond Close.
	Timeout time.Duration

	SelectedTools model.ToolSet
	ModelSettings model.ModelSettings
	Provider      *model.ProviderSelection
}

// Controller is driven from a single goroutine (the bubbletea update loop or
// a CLI command). The commands it returns run elsewhere but never touch its
// state; their results come back through Update.
type Controller struct {
	transport Transport
	notifier  notify.Notifier
	log       *zap.SugaredLogger
	timeout   time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	state     model.ConversationState
	hydrating bool
	epoch     uint64
	askID     string
	historyID string
	closed    bool

	tools    model.ToolSet
	settings model.ModelSettings
	provider *model.ProviderSelection
}

func New(opts Options) *Controller {
	if opts.Notifier == nil {
		opts.Notifier = notify.Discard
	}
	if opts.Logger == nil {
		opts.Logger = config.DebugLog
	}
	if opts.SelectedTools == nil {
		opts.SelectedTools = model.NewToolSet()
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		transport: opts.Transport,
		notifier:  opts.Notifier,
		log:       opts.Logger,
		timeout:   opts.Timeout,
		ctx:       ctx,
		cancel:    cancel,
		state:     model.ConversationState{Messages: []model.Message{}},
		tools:     opts.SelectedTools.Clone(),
		settings:  opts.ModelSettings,
	}
	c.SetProvider(opts.Provider)
	return c
}

// Submit appends text as a user message and returns the command that sends
// it. While a request or history fetch is running it returns ErrBusy and
// changes nothing.
func (c *Controller) Submit(text string) (tea.Cmd, error) {
	switch {
	case c.closed:
		return nil, ErrClosed
	case c.state.Pending || c.hydrating:
		c.log.Debugw("[session] submit rejected", "pending", c.state.Pending, "hydrating", c.hydrating)
		return nil, ErrBusy
	case strings.TrimSpace(text) == "":
		return nil, ErrEmptyMessage
	}

	c.state.Messages = append(c.state.Messages, model.UserMessage(text))
	c.state.Pending = true
	c.state.Error = ""

	payload := model.Compose(text, c.tools, c.settings, c.state.ID, c.provider)
	t := c.issue()
	c.askID = t.requestID

	c.log.Debugw("[session] sending question",
		"request", t.requestID,
		"chat", c.state.ID,
		"tools", payload.SelectedTools,
		"provider", c.provider)

	transport, ctx, timeout := c.transport, c.ctx, c.timeout
	return func() tea.Msg {
		ctx, cancel := withTimeout(ctx, timeout)
		defer cancel()

		reply, err := transport.Ask(ctx, payload)
		return AnswerMsg{ticket: t, Payload: payload, Reply: reply, Err: err}
	}, nil
}

// SwitchConversation drops the current conversation, abandoning any request
// still in flight, and returns the command that loads id. An empty id starts
// a new conversation and returns nil.
func (c *Controller) SwitchConversation(id string) tea.Cmd {
	if c.closed {
		return nil
	}

	if c.state.Pending {
		c.log.Infow("[session] abandoning in-flight request", "request", c.askID, "chat", c.state.ID)
	}

	c.epoch++
	c.state = model.ConversationState{Messages: []model.Message{}}
	c.askID = ""
	c.historyID = ""
	c.hydrating = false

	if id == "" {
		return nil
	}

	t := c.issue()
	c.historyID = t.requestID
	c.hydrating = true
	c.log.Debugw("[session] loading history", "chat", id, "request", t.requestID)

	transport, ctx, timeout := c.transport, c.ctx, c.timeout
	return func() tea.Msg {
		ctx, cancel := withTimeout(ctx, timeout)
		defer cancel()

		entries, err := transport.Chat(ctx, id)
		return HistoryMsg{ticket: t, ID: id, Entries: entries, Err: err}
	}
}

func (c *Controller) NewConversation() {
	c.SwitchConversation("")
}

// Update applies a result produced by one of the controller's commands and
// reports whether the conversation changed. Results issued before the last
// switch or Close are discarded.
func (c *Controller) Update(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case AnswerMsg:
		return c.applyAnswer(msg)
	case HistoryMsg:
		return c.applyHistory(msg)
	}
	return false
}

func (c *Controller) applyAnswer(msg AnswerMsg) bool {
	if c.closed || msg.epoch != c.epoch || msg.requestID != c.askID || msg.conversationID != c.state.ID {
		c.log.Debugw("[session] discarding stale answer", "request", msg.requestID, "chat", msg.conversationID)
		return false
	}

	c.askID = ""
	c.state.Pending = false

	err := msg.Err
	if err == nil && msg.Reply.Answer == "" {
		err = &backend.Error{Op: "ask", Kind: backend.ErrContract, Err: errors.New("empty answer")}
	}
	if err != nil {
		c.log.Warnw("[session] request failed", "request", msg.requestID, "error", err)
		c.state.Messages = append(c.state.Messages, model.AssistantMessage(ApologyMessage))
		c.state.Error = err.Error()
		c.notifier.Notify(notify.Error, failureNotice(err))
		return true
	}

	c.state.Messages = append(c.state.Messages, model.AssistantMessage(msg.Reply.Answer))
	if !c.state.HasID() && msg.Reply.ChatUUID != "" {
		c.state.ID = msg.Reply.ChatUUID
		c.log.Infow("[session] conversation saved", "chat", c.state.ID)
	}
	return true
}

func (c *Controller) applyHistory(msg HistoryMsg) bool {
	if c.closed || msg.epoch != c.epoch || msg.requestID != c.historyID {
		c.log.Debugw("[session] discarding stale history", "request", msg.requestID, "chat", msg.ID)
		return false
	}

	c.historyID = ""
	c.hydrating = false

	if msg.Err != nil {
		c.log.Warnw("[session] history fetch failed", "chat", msg.ID, "error", msg.Err)
		c.state = model.ConversationState{Messages: []model.Message{}, Error: msg.Err.Error()}
		c.notifier.Notify(notify.Warning, "Could not load that conversation")
		return true
	}

	messages := make([]model.Message, 0, len(msg.Entries))
	for _, e := range msg.Entries {
		messages = append(messages, model.Message{Text: e.Text, IsFromUser: e.IsUser})
	}
	c.state = model.ConversationState{ID: msg.ID, Messages: messages}
	c.log.Debugw("[session] history loaded", "chat", msg.ID, "messages", len(messages))
	return true
}

// Close cancels outstanding commands. Results arriving afterwards are dropped.
func (c *Controller) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.epoch++
	c.askID = ""
	c.historyID = ""
	c.hydrating = false
	c.state.Pending = false
	c.cancel()
}

func (c *Controller) issue() ticket {
	return ticket{epoch: c.epoch, conversationID: c.state.ID, requestID: uuid.NewString()}
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func failureNotice(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "The assistant took too long to respond"
	case errors.Is(err, backend.ErrContract):
		return "The assistant sent a reply that could not be displayed"
	case backend.StatusCode(err) != 0:
		return fmt.Sprintf("The assistant service returned status %d", backend.StatusCode(err))
	default:
		return "Could not reach the assistant service"
	}
}

// State returns a copy of the conversation.
func (c *Controller) State() model.ConversationState {
	return c.state.Clone()
}

func (c *Controller) ConversationID() string { return c.state.ID }
func (c *Controller) Pending() bool          { return c.state.Pending }
func (c *Controller) Hydrating() bool        { return c.hydrating }
func (c *Controller) Closed() bool           { return c.closed }

// Busy reports whether Submit would currently return ErrBusy.
func (c *Controller) Busy() bool {
	return c.state.Pending || c.hydrating
}

func (c *Controller) SetSelectedTools(tools model.ToolSet) {
	c.tools = tools.Clone()
}

func (c *Controller) SelectedTools() model.ToolSet {
	return c.tools.Clone()
}

// SetModelSettings stores settings as given. Range checks belong to the
// caller (see config.ValidateModelSettings).
func (c *Controller) SetModelSettings(s model.ModelSettings) {
	c.settings = s
}

func (c *Controller) ModelSettings() model.ModelSettings {
	return c.settings
}

// SetProvider stores a copy of p. nil clears the selection.
func (c *Controller) SetProvider(p *model.ProviderSelection) {
	if p == nil {
		c.provider = nil
		return
	}
	cp := *p
	c.provider = &cp
}

func (c *Controller) Provider() *model.ProviderSelection {
	if c.provider == nil {
		return nil
	}
	cp := *c.provider
	return &cp
}
