package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"mcpchat/backend"
	"mcpchat/config"
	"mcpchat/notify"
	"mcpchat/render"
	"mcpchat/session"
)

// Catalog lists what the pickers offer.
type Catalog interface {
	Chats(ctx context.Context) ([]backend.ChatSummary, error)
	Tools(ctx context.Context) ([]backend.Tool, error)
	Providers(ctx context.Context) ([]backend.Provider, error)
}

type pickerKind int

const (
	pickerNone pickerKind = iota
	pickerChats
	pickerTools
	pickerProviders
)

type AppView struct {
	cfg      *config.Config
	kb       *config.KeyBindingsConfig
	catalog  Catalog
	session  *session.Controller
	center   *notify.Center
	pipeline *render.Pipeline

	// UI Components
	viewport       viewport.Model
	textarea       textarea.Model
	loadingSpinner spinner.Model

	// Window state
	width  int
	height int
	ready  bool

	showHelp bool

	picker     *Picker
	pickerKind pickerKind
	loading    pickerKind

	settings *SettingsForm
	confirm  *confirmation

	cache *renderCache
}

func NewAppView(cfg *config.Config, catalog Catalog, ctrl *session.Controller, center *notify.Center) AppView {
	ta := textarea.New()
	ta.Placeholder = "Ask anything... (Enter to send)"
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.CharLimit = 0
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = AssistantStyle

	kb := cfg.Keybindings
	if kb == nil {
		kb = config.DefaultKeybindings()
	}

	return AppView{
		cfg:            cfg,
		kb:             kb,
		catalog:        catalog,
		session:        ctrl,
		center:         center,
		pipeline:       render.New(render.Options{CodeStyle: cfg.CodeStyle}),
		viewport:       viewport.New(0, 0),
		textarea:       ta,
		loadingSpinner: sp,
		cache:          newRenderCache(),
	}
}

func (a AppView) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, scheduleToastTick())
}

func (a AppView) requestTimeout() time.Duration {
	if a.cfg.RequestTimeout <= 0 {
		return time.Minute
	}
	return a.cfg.RequestTimeout
}

var timeNow = time.Now
