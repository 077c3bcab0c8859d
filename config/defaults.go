package config

import "mcpchat/model"

const (
	DefaultBackendURL           = "http://localhost:8081"
	DefaultRequestTimeout       = "2m"
	DefaultCodeStyle            = "github"
	DefaultNotificationDuration = "5s"
)

// DefaultModelSettings mirrors the starting values of the model controls panel.
func DefaultModelSettings() model.ModelSettings {
	return model.ModelSettings{
		Temperature: 0.7,
		MaxTokens:   2000,
		TopP:        1.0,
		TopK:        40,
	}
}

func DefaultUserConfig() *UserConfig {
	return &UserConfig{
		DataDirectory: "~/.local/share/mcpchat",
		Backend: BackendConfig{
			BaseURL:        DefaultBackendURL,
			RequestTimeout: DefaultRequestTimeout,
		},
		Model: DefaultModelSettings(),
		UI: UIConfig{
			CodeStyle:            DefaultCodeStyle,
			NotificationDuration: DefaultNotificationDuration,
		},
	}
}

func GenerateUserConfigTemplate() string {
	return `# mcpchat configuration
# Location: ~/.config/mcpchat/config.toml
# This file uses TOML format: https://toml.io

# Directory for debug logs and exported transcripts
data_directory = "~/.local/share/mcpchat"

[backend]
# Base URL of the assistant service
base_url = "http://localhost:8081"

# Upper bound for a single request (Go duration syntax)
request_timeout = "2m"

[model]
temperature = 0.7
max_tokens = 2000
top_p = 1.0
top_k = 40

[provider]
# Leave both empty to let the server pick. Setting only one of them has no effect.
name = ""
model_id = ""

[tools]
# Tool names enabled for every question, e.g. ["search", "git"]
selected = []

[ui]
# Chroma style used for code blocks in exported transcripts
code_style = "github"

# Also raise desktop notifications for failed requests
desktop_notifications = false

# How long in-app notifications stay visible
notification_duration = "5s"
`
}
