package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// KeyBindingsConfig holds the modifier keys and optional per-action overrides
type KeyBindingsConfig struct {
	Modifiers ModifierConfig    `toml:"modifiers"`
	Actions   map[string]string `toml:"actions"`
}

type ModifierConfig struct {
	Primary   string `toml:"primary"`   // e.g., "alt", "ctrl", "super"
	Secondary string `toml:"secondary"` // e.g., "alt+shift"
}

type binding struct {
	modifier string // "primary", "secondary" or "none"
	key      string
}

// actions lists every bindable action with its default key
var actions = map[string]binding{
	// Main view
	"help":               {"primary", "h"},
	"new_chat":           {"primary", "n"},
	"chat_picker":        {"primary", "s"},
	"tool_picker":        {"primary", "t"},
	"provider_picker":    {"primary", "m"},
	"settings":           {"secondary", "s"},
	"export":             {"primary", "e"},
	"quit":               {"primary", "q"},
	"yank_last_response": {"primary", "y"},
	"yank_conversation":  {"primary", "c"},
	"clear_input":        {"primary", "u"},

	// Scrolling
	"scroll_down":      {"primary", "j"},
	"scroll_up":        {"primary", "k"},
	"half_page_down":   {"secondary", "j"},
	"half_page_up":     {"secondary", "k"},
	"scroll_to_top":    {"primary", "g"},
	"scroll_to_bottom": {"secondary", "g"},

	// Pickers and the settings form
	"list_down":    {"none", "down"},
	"list_up":      {"none", "up"},
	"list_toggle":  {"none", "space"},
	"list_refresh": {"primary", "r"},
}

func DefaultKeybindings() *KeyBindingsConfig {
	return &KeyBindingsConfig{
		Modifiers: ModifierConfig{
			Primary:   "alt",
			Secondary: "alt+shift",
		},
	}
}

// LoadKeybindings reads <dataDir>/keybindings.toml, writing the template on first use
func LoadKeybindings(dataDir string) (*KeyBindingsConfig, error) {
	cfg := DefaultKeybindings()
	path := filepath.Join(dataDir, "keybindings.toml")

	if !FileExists(path) {
		if err := os.WriteFile(path, []byte(GenerateKeybindingsTemplate()), 0600); err != nil {
			return nil, fmt.Errorf("failed to write keybindings: %w", err)
		}
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse keybindings: %w", err)
	}
	if ok, warning := cfg.Validate(); !ok {
		return nil, fmt.Errorf("invalid keybindings: %s", warning)
	} else if warning != "" {
		DebugLog.Warnf("[config] %s", warning)
	}

	return cfg, nil
}

func GenerateKeybindingsTemplate() string {
	return `# mcpchat keybindings
# Location: <data_directory>/keybindings.toml

[modifiers]
primary = "alt"          # alt, ctrl, meta or super
secondary = "alt+shift"

# tmux users may prefer:
#   primary = "ctrl"
#   secondary = "ctrl+shift"

[actions]
# Override single actions, e.g.
#   chat_picker = "ctrl+o"
#   quit = "ctrl+shift+q"
#
# Actions: help, new_chat, chat_picker, tool_picker, provider_picker, settings,
# export, quit, yank_last_response, yank_conversation, clear_input, scroll_down,
# scroll_up, half_page_down, half_page_up, scroll_to_top, scroll_to_bottom,
# list_down, list_up, list_toggle, list_refresh
`
}

func (kb *KeyBindingsConfig) primary() string {
	if kb.Modifiers.Primary == "" {
		return "alt"
	}
	return kb.Modifiers.Primary
}

func (kb *KeyBindingsConfig) secondary() string {
	if kb.Modifiers.Secondary == "" {
		return "alt+shift"
	}
	return kb.Modifiers.Secondary
}

// secondaryKey folds shift into the letter the way terminals report it:
// "alt+shift" + "s" becomes "alt+S".
func (kb *KeyBindingsConfig) secondaryKey(key string) string {
	mod := kb.secondary()
	if len(key) != 1 || key[0] < 'a' || key[0] > 'z' || !strings.Contains(strings.ToLower(mod), "shift") {
		return mod + "+" + key
	}

	var kept []string
	for _, part := range strings.Split(mod, "+") {
		if !strings.EqualFold(part, "shift") {
			kept = append(kept, part)
		}
	}
	kept = append(kept, strings.ToUpper(key))
	return strings.Join(kept, "+")
}

// Key returns the binding for action, honouring user overrides.
// Unknown actions return "".
func (kb *KeyBindingsConfig) Key(action string) string {
	if override := kb.Actions[action]; override != "" {
		return override
	}

	b, ok := actions[action]
	if !ok {
		return ""
	}
	switch b.modifier {
	case "primary":
		return kb.primary() + "+" + b.key
	case "secondary":
		return kb.secondaryKey(b.key)
	default:
		return b.key
	}
}

// Matches reports whether the pressed key (as tea.KeyMsg.String renders it)
// triggers action.
func (kb *KeyBindingsConfig) Matches(pressed, action string) bool {
	key := kb.Key(action)
	if key == "space" {
		key = " "
	}
	return key != "" && pressed == key
}

// Display renders an action's key for help text: "alt+S" becomes "Alt+Shift+S".
func (kb *KeyBindingsConfig) Display(action string) string {
	key := kb.Key(action)
	if key == "" {
		return ""
	}

	parts := strings.Split(key, "+")
	hasShift := false
	for _, p := range parts {
		if strings.EqualFold(p, "shift") {
			hasShift = true
		}
	}

	var out []string
	for i, part := range parts {
		if part == "" {
			continue
		}
		if len(part) == 1 && part[0] >= 'A' && part[0] <= 'Z' && !hasShift && i > 0 {
			out = append(out, "Shift")
		}
		out = append(out, strings.ToUpper(part[:1])+part[1:])
	}
	return strings.Join(out, "+")
}

// Validate returns (ok, warning).
func (kb *KeyBindingsConfig) Validate() (bool, string) {
	primary, secondary := kb.primary(), kb.secondary()

	if primary == "shift" || secondary == "shift" {
		return false, "Shift alone conflicts with typing"
	}
	if strings.Contains(primary, "ctrl") || strings.Contains(secondary, "ctrl") {
		return true, "Ctrl may conflict with terminal shortcuts (Ctrl+C, Ctrl+Z, Ctrl+D)"
	}
	return true, ""
}
