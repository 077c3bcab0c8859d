package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"mcpchat/config"
	"mcpchat/model"
)

type settingField struct {
	label string
	hint  string
}

var settingFields = []settingField{
	{"Temperature", "0 - 1"},
	{"Max tokens", "1 - 4000"},
	{"Top P", "0 - 1"},
	{"Top K", ">= 0"},
}

// SettingsForm edits the model parameters sent with each question.
type SettingsForm struct {
	inputs []textinput.Model
	focus  int
	err    string
}

func NewSettingsForm(s model.ModelSettings) *SettingsForm {
	values := []string{
		strconv.FormatFloat(s.Temperature, 'f', -1, 64),
		strconv.Itoa(s.MaxTokens),
		strconv.FormatFloat(s.TopP, 'f', -1, 64),
		strconv.Itoa(s.TopK),
	}

	f := &SettingsForm{}
	for i, v := range values {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 12
		ti.SetValue(v)
		if i == 0 {
			ti.Focus()
		}
		f.inputs = append(f.inputs, ti)
	}
	return f
}

// Values parses and validates the form.
func (f *SettingsForm) Values() (model.ModelSettings, error) {
	var s model.ModelSettings
	var err error

	field := func(i int) string { return strings.TrimSpace(f.inputs[i].Value()) }

	if s.Temperature, err = strconv.ParseFloat(field(0), 64); err != nil {
		return s, fmt.Errorf("temperature must be a number")
	}
	if s.MaxTokens, err = strconv.Atoi(field(1)); err != nil {
		return s, fmt.Errorf("max tokens must be a whole number")
	}
	if s.TopP, err = strconv.ParseFloat(field(2), 64); err != nil {
		return s, fmt.Errorf("top P must be a number")
	}
	if s.TopK, err = strconv.Atoi(field(3)); err != nil {
		return s, fmt.Errorf("top K must be a whole number")
	}

	if err := config.ValidateModelSettings(s); err != nil {
		return s, err
	}
	return s, nil
}

func (f *SettingsForm) SetError(err error) {
	if err == nil {
		f.err = ""
		return
	}
	f.err = err.Error()
}

func (f *SettingsForm) Move(delta int) {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

func (f *SettingsForm) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *SettingsForm) View() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Model settings"))
	b.WriteString("\n\n")

	for i, field := range settingFields {
		label := fmt.Sprintf("%-12s", field.label)
		if i == f.focus {
			label = SelectedStyle.Render("> " + label)
		} else {
			label = "  " + label
		}
		fmt.Fprintf(&b, "%s %s %s\n", label, f.inputs[i].View(), DimStyle.Render("("+field.hint+")"))
	}

	if f.err != "" {
		b.WriteString("\n")
		b.WriteString(ErrorStyle.Render(f.err))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(FormatFooter("Tab/↑/↓", "Move", "Enter", "Save", "Esc", "Cancel"))
	return b.String()
}
