// Package export writes a conversation out as a standalone HTML page or JSON.
package export

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"mcpchat/config"
	"mcpchat/model"
	"mcpchat/render"
)

type Format string

const (
	FormatHTML Format = "html"
	FormatJSON Format = "json"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatHTML, FormatJSON:
		return f, nil
	case "":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want html or json)", s)
	}
}

// Transcript is the exported form of a conversation.
type Transcript struct {
	ID         string          `json:"chat_uuid,omitempty"`
	Title      string          `json:"title"`
	ExportedAt time.Time       `json:"exported_at"`
	Messages   []model.Message `json:"messages"`
}

// NewTranscript builds a transcript from the conversation, titled after its
// first user message.
func NewTranscript(state model.ConversationState, now time.Time) Transcript {
	title := "New conversation"
	for _, m := range state.Messages {
		if m.IsFromUser {
			title = firstLine(m.Text, 80)
			break
		}
	}
	return Transcript{
		ID:         state.ID,
		Title:      title,
		ExportedAt: now.UTC(),
		Messages:   append([]model.Message{}, state.Messages...),
	}
}

func firstLine(s string, max int) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if r := []rune(s); len(r) > max {
		s = string(r[:max]) + "…"
	}
	return s
}

type htmlMessage struct {
	Role string
	Body template.HTML
}

type htmlPage struct {
	Title      string
	ID         string
	ExportedAt string
	CodeCSS    template.CSS
	Messages   []htmlMessage
}

var page = template.Must(template.New("transcript").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 52rem; margin: 2rem auto; padding: 0 1rem; color: #1f2328; }
.message { border-radius: 8px; padding: 0.75rem 1rem; margin: 0.75rem 0; }
.user { background: #ddf4ff; }
.assistant { background: #f6f8fa; }
.role { font-size: 0.75rem; text-transform: uppercase; color: #57606a; }
.footnotes { font-size: 0.875rem; border-top: 1px solid #d0d7de; margin-top: 0.75rem; }
pre.chroma { padding: 0.75rem; overflow-x: auto; border-radius: 6px; }
{{.CodeCSS}}
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p class="meta">{{if .ID}}Conversation {{.ID}} · {{end}}Exported {{.ExportedAt}}</p>
{{range .Messages}}<div class="message {{.Role}}">
<div class="role">{{.Role}}</div>
{{.Body}}
</div>
{{end}}</body>
</html>
`))

// HTML writes a standalone page. User messages are escaped as plain text;
// assistant messages go through the content pipeline.
func HTML(w io.Writer, t Transcript, p *render.Pipeline) error {
	data := htmlPage{
		Title:      t.Title,
		ID:         t.ID,
		ExportedAt: t.ExportedAt.Format(time.RFC1123),
		CodeCSS:    template.CSS(p.CodeCSS()),
		Messages:   make([]htmlMessage, 0, len(t.Messages)),
	}
	for _, m := range t.Messages {
		var body template.HTML
		if m.IsFromUser {
			body = template.HTML("<p>" + strings.ReplaceAll(template.HTMLEscapeString(m.Text), "\n", "<br>") + "</p>")
		} else {
			// Render output is sanitized by the pipeline's allow-list
			body = template.HTML(p.Render(m.Text))
		}
		data.Messages = append(data.Messages, htmlMessage{Role: m.Role(), Body: body})
	}

	if err := page.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render transcript: %w", err)
	}
	return nil
}

func JSON(w io.Writer, t Transcript) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(t); err != nil {
		return fmt.Errorf("failed to encode transcript: %w", err)
	}
	return nil
}

// Write renders t in the given format to w.
func Write(w io.Writer, format Format, t Transcript, p *render.Pipeline) error {
	switch format {
	case FormatJSON:
		return JSON(w, t)
	case FormatHTML:
		return HTML(w, t, p)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

// DefaultPath returns <dataDir>/exports/<name>.<format>.
func DefaultPath(dataDir string, t Transcript, format Format) string {
	name := t.ID
	if name == "" {
		name = "conversation-" + t.ExportedAt.Format("20060102-150405")
	}
	return filepath.Join(dataDir, "exports", name+"."+string(format))
}

// WriteFile writes t to path with owner-only permissions.
func WriteFile(path string, format Format, t Transcript, p *render.Pipeline) error {
	if err := config.EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	if err := Write(f, format, t, p); err != nil {
		return err
	}
	config.DebugLog.Infof("[export] wrote %s transcript to %s", format, path)
	return nil
}
