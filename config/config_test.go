package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcpchat/model"
)

func TestLoad_CreatesTemplate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	t.Setenv("MCPCHAT_DATA_DIR", filepath.Join(dir, "data"))
	t.Setenv("MCPCHAT_BACKEND_URL", "")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, FileExists(path))
	assert.Equal(t, DefaultBackendURL, cfg.BackendURL)
	assert.Equal(t, 2*time.Minute, cfg.RequestTimeout)
	assert.Equal(t, 5*time.Second, cfg.NotificationDuration)
	assert.Equal(t, DefaultModelSettings(), cfg.ModelSettings)
	assert.Equal(t, path, cfg.Path())

	info, err := os.Stat(filepath.Join(dir, "data"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0700), info.Mode().Perm())
}

func TestLoad_ReadsValuesAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `data_directory = "` + filepath.ToSlash(filepath.Join(dir, "data")) + `"

[backend]
base_url = "http://chat.internal:9000/"
request_timeout = "30s"

[model]
temperature = 0.2
max_tokens = 512
top_p = 0.8
top_k = 10

[provider]
name = "anthropic"
model_id = "claude-3-5-sonnet"

[tools]
selected = ["search", "git"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	t.Setenv("MCPCHAT_DATA_DIR", "")
	t.Setenv("MCPCHAT_BACKEND_URL", "")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://chat.internal:9000", cfg.BackendURL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, model.ModelSettings{Temperature: 0.2, MaxTokens: 512, TopP: 0.8, TopK: 10}, cfg.ModelSettings)
	assert.Equal(t, model.ProviderSelection{Provider: "anthropic", ModelID: "claude-3-5-sonnet"}, cfg.Provider)
	assert.Equal(t, []string{"search", "git"}, cfg.SelectedTools)

	t.Setenv("MCPCHAT_BACKEND_URL", "http://override:1234")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://override:1234", cfg.BackendURL)
}

func TestLoad_RejectsBadDuration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[backend]\nrequest_timeout = \"soon\"\n"), 0600))
	t.Setenv("MCPCHAT_DATA_DIR", filepath.Join(dir, "data"))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSave_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	t.Setenv("MCPCHAT_DATA_DIR", filepath.Join(dir, "data"))
	t.Setenv("MCPCHAT_BACKEND_URL", "")

	cfg, err := Load(path)
	require.NoError(t, err)

	cfg.ModelSettings.Temperature = 0.3
	cfg.SelectedTools = []string{"postgres"}
	cfg.Provider = model.ProviderSelection{Provider: "openai", ModelID: "gpt-4o"}
	require.NoError(t, cfg.Save())

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.3, reloaded.ModelSettings.Temperature)
	assert.Equal(t, []string{"postgres"}, reloaded.SelectedTools)
	assert.Equal(t, cfg.Provider, reloaded.Provider)
	assert.Equal(t, cfg.RequestTimeout, reloaded.RequestTimeout)
}

func TestValidateModelSettings(t *testing.T) {
	tests := []struct {
		name     string
		settings model.ModelSettings
		wantErr  bool
	}{
		{name: "defaults", settings: DefaultModelSettings()},
		{name: "temperature too high", settings: model.ModelSettings{Temperature: 1.5, MaxTokens: 10, TopP: 1}, wantErr: true},
		{name: "negative temperature", settings: model.ModelSettings{Temperature: -0.1, MaxTokens: 10, TopP: 1}, wantErr: true},
		{name: "zero tokens", settings: model.ModelSettings{Temperature: 0.5, MaxTokens: 0, TopP: 1}, wantErr: true},
		{name: "too many tokens", settings: model.ModelSettings{Temperature: 0.5, MaxTokens: 4001, TopP: 1}, wantErr: true},
		{name: "top p out of range", settings: model.ModelSettings{Temperature: 0.5, MaxTokens: 10, TopP: 1.2}, wantErr: true},
		{name: "negative top k", settings: model.ModelSettings{Temperature: 0.5, MaxTokens: 10, TopP: 1, TopK: -1}, wantErr: true},
		{name: "bounds", settings: model.ModelSettings{Temperature: 1, MaxTokens: 4000, TopP: 0, TopK: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateModelSettings(tt.settings)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestInitDebugLog_DisabledByDefault(t *testing.T) {
	t.Setenv("MCPCHAT_DEBUG", "")
	dir := t.TempDir()
	InitDebugLog(dir, false)
	assert.False(t, FileExists(filepath.Join(dir, "debug.log")))
}
