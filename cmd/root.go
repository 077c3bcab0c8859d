package cmd

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"mcpchat/backend"
	"mcpchat/config"
	"mcpchat/model"
	"mcpchat/notify"
	"mcpchat/session"
	"mcpchat/ui"
)

var version, commit, date = "dev", "none", "unknown"

// SetVersionInfo sets version information from ldflags
func SetVersionInfo(v, c, d string) {
	version, commit, date = v, c, d
}

type rootOptions struct {
	configPath string
	debug      bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "mcpchat",
		Short: "Terminal client for an MCP-enabled chat backend",
		Long: `mcpchat talks to a chat backend that answers questions with the help of
MCP tools. Run without arguments for the interactive TUI, or use the
subcommands for one-shot questions, listings and transcript export.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(opts)
		},
	}
	root.Version = version
	root.SetVersionTemplate(versionTemplate())

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to config.toml (default: ~/.config/mcpchat/config.toml)")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Write debug logging to <data_dir>/debug.log")

	root.AddCommand(
		newAskCmd(opts),
		newChatsCmd(opts),
		newToolsCmd(opts),
		newProvidersCmd(opts),
		newExportCmd(opts),
	)
	return root
}

// Execute runs the root command
func Execute() error {
	return newRootCmd().Execute()
}

func versionTemplate() string {
	if commit != "none" && commit != "" {
		return fmt.Sprintf("mcpchat %s\n  commit: %s\n  built:  %s\n", version, commit, date)
	}
	return fmt.Sprintf("mcpchat %s\n", version)
}

// env is what every command needs once the configuration is loaded.
type env struct {
	cfg    *config.Config
	client *backend.Client
}

func setup(opts *rootOptions) (*env, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	config.InitDebugLog(cfg.DataDir(), opts.debug)
	config.DebugLog.Infow("[config] loaded", "path", cfg.Path(), "backend", cfg.BackendURL)

	client, err := backend.NewClient(cfg.BackendURL, cfg.RequestTimeout)
	if err != nil {
		config.CloseDebugLog()
		return nil, err
	}
	return &env{cfg: cfg, client: client}, nil
}

func (e *env) newController(n notify.Notifier) *session.Controller {
	var provider *model.ProviderSelection
	if e.cfg.Provider.Complete() {
		p := e.cfg.Provider
		provider = &p
	}
	return session.New(session.Options{
		Transport:     e.client,
		Notifier:      n,
		Logger:        config.DebugLog,
		Timeout:       e.cfg.RequestTimeout,
		SelectedTools: model.NewToolSet(e.cfg.SelectedTools...),
		ModelSettings: e.cfg.ModelSettings,
		Provider:      provider,
	})
}

func runTUI(opts *rootOptions) error {
	e, err := setup(opts)
	if err != nil {
		return err
	}
	defer config.CloseDebugLog()

	center := notify.NewCenter(e.cfg.NotificationDuration)
	var n notify.Notifier = center
	if e.cfg.DesktopNotifications {
		n = notify.Fanout(center, notify.NewDesktop("mcpchat"))
	}

	ctrl := e.newController(n)
	defer ctrl.Close()

	view := ui.NewAppView(e.cfg, e.client, ctrl, center)
	p := tea.NewProgram(view, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running app: %w", err)
	}
	return nil
}

// stderrNotifier prints notifications for the one-shot commands.
func stderrNotifier(w io.Writer) notify.Notifier {
	return notify.NotifierFunc(func(level notify.Level, message string) {
		fmt.Fprintf(w, "%s: %s\n", level, message)
	})
}

// drive runs cmd synchronously and feeds its result back to the controller.
// The CLI has no event loop, so this stands in for one.
func drive(ctrl *session.Controller, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			drive(ctrl, c)
		}
	default:
		ctrl.Update(msg)
	}
}
