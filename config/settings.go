package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"mcpchat/model"
)

type BackendConfig struct {
	BaseURL        string `toml:"base_url"`
	RequestTimeout string `toml:"request_timeout"`
}

type ProviderConfig struct {
	Name    string `toml:"name"`
	ModelID string `toml:"model_id"`
}

type ToolsConfig struct {
	Selected []string `toml:"selected"`
}

type UIConfig struct {
	CodeStyle            string `toml:"code_style"`
	DesktopNotifications bool   `toml:"desktop_notifications"`
	NotificationDuration string `toml:"notification_duration"`
}

// UserConfig is the on-disk shape of config.toml.
type UserConfig struct {
	DataDirectory string              `toml:"data_directory"`
	Backend       BackendConfig       `toml:"backend"`
	Model         model.ModelSettings `toml:"model"`
	Provider      ProviderConfig      `toml:"provider"`
	Tools         ToolsConfig         `toml:"tools"`
	UI            UIConfig            `toml:"ui"`
}

// LoadUserConfig reads the config file at path, creating it from the
// template when it does not exist yet.
func LoadUserConfig(path string) (*UserConfig, error) {
	cfg := DefaultUserConfig()

	if !FileExists(path) {
		if err := CreateDefaultUserConfig(path); err != nil {
			return nil, fmt.Errorf("failed to create user config: %w", err)
		}
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse user config: %w", err)
	}

	return cfg, nil
}

func SaveUserConfig(cfg *UserConfig, path string) error {
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// 0600 - may point at private backends
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create user config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode user config: %w", err)
	}

	return nil
}

func CreateDefaultUserConfig(path string) error {
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if FileExists(path) {
		return nil
	}

	if err := os.WriteFile(path, []byte(GenerateUserConfigTemplate()), 0600); err != nil {
		return fmt.Errorf("failed to write user config: %w", err)
	}

	return nil
}
