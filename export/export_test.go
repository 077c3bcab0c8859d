package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcpchat/model"
	"mcpchat/render"
)

var exportedAt = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func sampleState() model.ConversationState {
	return model.ConversationState{
		ID: "abc",
		Messages: []model.Message{
			model.UserMessage("Is Go fast? <script>alert(1)</script>"),
			model.AssistantMessage("Yes[^1].\n\n```go\nfunc main() {}\n```\n\n[^1]: Benchmarks"),
		},
	}
}

func TestNewTranscript(t *testing.T) {
	tr := NewTranscript(sampleState(), exportedAt)
	assert.Equal(t, "abc", tr.ID)
	assert.Equal(t, "Is Go fast? <script>alert(1)</script>", tr.Title)
	assert.Len(t, tr.Messages, 2)

	empty := NewTranscript(model.ConversationState{}, exportedAt)
	assert.Equal(t, "New conversation", empty.Title)
	assert.NotNil(t, empty.Messages)

	long := NewTranscript(model.ConversationState{Messages: []model.Message{
		model.UserMessage(strings.Repeat("é", 100) + "\nsecond line"),
	}}, exportedAt)
	assert.Equal(t, strings.Repeat("é", 80)+"…", long.Title)
}

func TestHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, HTML(&buf, NewTranscript(sampleState(), exportedAt), render.New(render.Options{CodeStyle: "github"})))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
	assert.Contains(t, out, `href="#footnote-1"`)
	assert.Contains(t, out, "Benchmarks")
	assert.Contains(t, out, `class="chroma"`)
	assert.Contains(t, out, ".chroma")
	assert.Contains(t, out, "Conversation abc")
	assert.Contains(t, out, `class="message user"`)
	assert.Contains(t, out, `class="message assistant"`)
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, NewTranscript(sampleState(), exportedAt)))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "abc", got["chat_uuid"])
	assert.Equal(t, "2024-05-01T12:00:00Z", got["exported_at"])

	messages := got["messages"].([]any)
	require.Len(t, messages, 2)
	assert.Equal(t, true, messages[0].(map[string]any)["isFromUser"])
	assert.Equal(t, false, messages[1].(map[string]any)["isFromUser"])
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "html", want: FormatHTML},
		{in: "JSON", want: FormatJSON},
		{in: "", want: FormatHTML},
		{in: "pdf", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	tr := NewTranscript(sampleState(), exportedAt)

	path := DefaultPath(dir, tr, FormatJSON)
	assert.Equal(t, filepath.Join(dir, "exports", "abc.json"), path)
	require.NoError(t, WriteFile(path, FormatJSON, tr, render.New(render.Options{})))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	unsaved := NewTranscript(model.ConversationState{}, exportedAt)
	assert.Equal(t, filepath.Join(dir, "exports", "conversation-20240501-120000.html"), DefaultPath(dir, unsaved, FormatHTML))
}
