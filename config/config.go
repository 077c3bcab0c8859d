package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"mcpchat/model"
)

// Config is the resolved runtime configuration.
type Config struct {
	DataDirectory        string
	BackendURL           string
	RequestTimeout       time.Duration
	ModelSettings        model.ModelSettings
	Provider             model.ProviderSelection
	SelectedTools        []string
	CodeStyle            string
	DesktopNotifications bool
	NotificationDuration time.Duration
	Keybindings          *KeyBindingsConfig

	path string
}

var Debug = false

// DebugLog is a no-op until InitDebugLog enables it.
var DebugLog = zap.NewNop().Sugar()

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

// Path returns the file the configuration was loaded from.
func (c *Config) Path() string {
	return c.path
}

func (c *Config) applyEnvOverrides() {
	if host := os.Getenv("MCPCHAT_BACKEND_URL"); host != "" {
		c.BackendURL = host
	}
	if dataDir := os.Getenv("MCPCHAT_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
}

func CheckDebug() bool {
	debug := os.Getenv("MCPCHAT_DEBUG")
	return debug == "true" || debug == "1"
}

// InitDebugLog points DebugLog at <dataDir>/debug.log when debugging is
// requested by flag or by MCPCHAT_DEBUG.
func InitDebugLog(dataDir string, force bool) {
	if !force && !CheckDebug() {
		return
	}

	logPath := filepath.Join(dataDir, "debug.log")

	// Create with secure permissions before zap opens it (0600 - may contain prompts)
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}
	f.Close()

	zc := zap.NewDevelopmentConfig()
	zc.Encoding = "console"
	zc.OutputPaths = []string{logPath}
	zc.ErrorOutputPaths = []string{logPath}
	zc.DisableStacktrace = true
	zc.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")

	l, err := zc.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not start debug log: %v\n", err)
		return
	}

	Debug = true
	DebugLog = l.Sugar()
	DebugLog.Infof("=== Debug logging started (MCPCHAT_DEBUG=%s) ===", os.Getenv("MCPCHAT_DEBUG"))
	DebugLog.Infof("Log path: %s", logPath)
}

// CloseDebugLog flushes buffered log entries.
func CloseDebugLog() {
	_ = DebugLog.Sync()
}

// Load reads the configuration file at path (or the default location when
// path is empty), applies environment overrides and prepares the data directory.
func Load(path string) (*Config, error) {
	if path == "" {
		path = GetSettingsFilePath()
	}

	userCfg, err := LoadUserConfig(path)
	if err != nil {
		return nil, err
	}

	cfg, err := fromUserConfig(userCfg)
	if err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	cfg.path = path
	cfg.applyEnvOverrides()

	if _, err := url.ParseRequestURI(cfg.BackendURL); err != nil {
		return nil, fmt.Errorf("invalid backend URL %q: %w", cfg.BackendURL, err)
	}

	dataDir := cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := EnsureDataDirPermissions(dataDir); err != nil {
		return nil, fmt.Errorf("failed to set data directory permissions: %w", err)
	}

	kb, err := LoadKeybindings(dataDir)
	if err != nil {
		return nil, err
	}
	cfg.Keybindings = kb

	return cfg, nil
}

func fromUserConfig(u *UserConfig) (*Config, error) {
	timeout, err := parseDuration(u.Backend.RequestTimeout, DefaultRequestTimeout)
	if err != nil {
		return nil, fmt.Errorf("backend.request_timeout: %w", err)
	}
	notifyFor, err := parseDuration(u.UI.NotificationDuration, DefaultNotificationDuration)
	if err != nil {
		return nil, fmt.Errorf("ui.notification_duration: %w", err)
	}

	cfg := &Config{
		DataDirectory:        u.DataDirectory,
		BackendURL:           strings.TrimRight(u.Backend.BaseURL, "/"),
		RequestTimeout:       timeout,
		ModelSettings:        u.Model,
		Provider:             model.ProviderSelection{Provider: u.Provider.Name, ModelID: u.Provider.ModelID},
		SelectedTools:        u.Tools.Selected,
		CodeStyle:            u.UI.CodeStyle,
		DesktopNotifications: u.UI.DesktopNotifications,
		NotificationDuration: notifyFor,
	}
	if cfg.DataDirectory == "" {
		cfg.DataDirectory = GetDefaultDataDir()
	}
	if cfg.BackendURL == "" {
		cfg.BackendURL = DefaultBackendURL
	}
	if cfg.CodeStyle == "" {
		cfg.CodeStyle = DefaultCodeStyle
	}
	return cfg, nil
}

func parseDuration(value, fallback string) (time.Duration, error) {
	if strings.TrimSpace(value) == "" {
		value = fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive, got %s", value)
	}
	return d, nil
}

// ToUserConfig converts the runtime configuration back to its file shape.
func (c *Config) ToUserConfig() *UserConfig {
	return &UserConfig{
		DataDirectory: c.DataDirectory,
		Backend: BackendConfig{
			BaseURL:        c.BackendURL,
			RequestTimeout: c.RequestTimeout.String(),
		},
		Model:    c.ModelSettings,
		Provider: ProviderConfig{Name: c.Provider.Provider, ModelID: c.Provider.ModelID},
		Tools:    ToolsConfig{Selected: append([]string{}, c.SelectedTools...)},
		UI: UIConfig{
			CodeStyle:            c.CodeStyle,
			DesktopNotifications: c.DesktopNotifications,
			NotificationDuration: c.NotificationDuration.String(),
		},
	}
}

// Save writes the configuration back to the file it was loaded from.
func (c *Config) Save() error {
	if c.path == "" {
		return errors.New("config has no backing file")
	}
	return SaveUserConfig(c.ToUserConfig(), c.path)
}

// ValidateModelSettings checks the ranges the model controls panel accepts.
func ValidateModelSettings(s model.ModelSettings) error {
	if s.Temperature < 0 || s.Temperature > 1 {
		return errors.New("temperature must be between 0 and 1")
	}
	if s.MaxTokens < 1 || s.MaxTokens > 4000 {
		return errors.New("max tokens must be between 1 and 4000")
	}
	if s.TopP < 0 || s.TopP > 1 {
		return errors.New("top P must be between 0 and 1")
	}
	if s.TopK < 0 {
		return errors.New("top K must not be negative")
	}
	return nil
}
