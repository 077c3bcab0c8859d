package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcpchat/export"
)

// fakeBackend serves canned replies and records /ask bodies.
type fakeBackend struct {
	mu       sync.Mutex
	answer   string
	askCode  int
	payloads []map[string]any
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /ask", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.payloads = append(f.payloads, body)
		f.mu.Unlock()

		if f.askCode != 0 {
			http.Error(w, "boom", f.askCode)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"answer": f.answer, "chat_uuid": "abc"})
	})
	mux.HandleFunc("GET /chat/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "xyz" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `{"messages":[{"Text":"hi","IsUser":true},{"Text":"**hello** there","IsUser":false}]}`)
	})
	mux.HandleFunc("GET /chats", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chats":[{"uuid":"xyz","created_at":"2024-05-01T10:00:00Z","messages":[{"Text":"What is Go?","IsUser":true}]}]}`)
	})
	mux.HandleFunc("GET /api/tools", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"name":"search","description":"Search the web"},{"name":"calc","description":"Evaluate\nexpressions"}]`)
	})
	mux.HandleFunc("GET /llm-providers", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"providers":[{"name":"openai","models":[{"modelId":"gpt-4o","name":"GPT-4o"}]}]}`)
	})
	return mux
}

func (f *fakeBackend) lastPayload(t *testing.T) map[string]any {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.payloads)
	return f.payloads[len(f.payloads)-1]
}

// newTestEnv starts a backend and writes a config pointing at it.
func newTestEnv(t *testing.T) (*fakeBackend, string, string) {
	t.Helper()
	t.Setenv("MCPCHAT_BACKEND_URL", "")
	t.Setenv("MCPCHAT_DATA_DIR", "")
	t.Setenv("MCPCHAT_DEBUG", "")

	fb := &fakeBackend{answer: "Paris is the capital."}
	srv := httptest.NewServer(fb.handler())
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	dataDir := filepath.Join(dir, "data")
	cfgPath := filepath.Join(dir, "config.toml")
	content := fmt.Sprintf("data_directory = %q\n\n[backend]\nbase_url = %q\nrequest_timeout = \"5s\"\n\n[tools]\nselected = [\"search\"]\n", dataDir, srv.URL)
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0600))

	return fb, cfgPath, dataDir
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestRootFlags(t *testing.T) {
	root := newRootCmd()

	debug := root.PersistentFlags().Lookup("debug")
	require.NotNil(t, debug)
	assert.Equal(t, "false", debug.DefValue)
	require.NotNil(t, root.PersistentFlags().Lookup("config"))

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"ask", "chats", "tools", "providers", "export"}, names)
}

func TestAsk_PrintsAnswerAndChatID(t *testing.T) {
	fb, cfgPath, _ := newTestEnv(t)

	out, errOut, err := execute(t, "--config", cfgPath, "ask", "-o", "markdown", "What", "is", "the", "capital?")
	require.NoError(t, err)

	assert.Equal(t, "Paris is the capital.\n", out)
	assert.Contains(t, errOut, "chat: abc")

	body := fb.lastPayload(t)
	assert.Equal(t, "What is the capital?", body["question"])
	assert.Equal(t, []any{"search"}, body["selectedTools"])
	assert.NotContains(t, body, "chat_uuid")
	assert.NotContains(t, body, "llmProvider")
}

func TestAsk_FlagsOverrideConfig(t *testing.T) {
	fb, cfgPath, _ := newTestEnv(t)

	_, _, err := execute(t, "--config", cfgPath, "ask", "-o", "markdown",
		"--tool", "calc", "--tool", "weather", "--provider", "openai", "--model", "gpt-4o", "hi")
	require.NoError(t, err)

	body := fb.lastPayload(t)
	assert.Equal(t, []any{"calc", "weather"}, body["selectedTools"])
	assert.Equal(t, map[string]any{"provider": "openai", "modelId": "gpt-4o"}, body["llmProvider"])
}

func TestAsk_ContinuesConversation(t *testing.T) {
	fb, cfgPath, _ := newTestEnv(t)

	_, _, err := execute(t, "--config", cfgPath, "ask", "-o", "markdown", "--chat", "xyz", "and then?")
	require.NoError(t, err)

	assert.Equal(t, "xyz", fb.lastPayload(t)["chat_uuid"])
}

func TestAsk_UnknownConversation(t *testing.T) {
	fb, cfgPath, _ := newTestEnv(t)

	_, errOut, err := execute(t, "--config", cfgPath, "ask", "--chat", "missing", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load conversation missing")
	assert.Contains(t, errOut, "warning:")
	assert.Empty(t, fb.payloads)
}

func TestAsk_BackendFailure(t *testing.T) {
	fb, cfgPath, _ := newTestEnv(t)
	fb.askCode = http.StatusInternalServerError

	out, errOut, err := execute(t, "--config", cfgPath, "ask", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ask failed")
	assert.Contains(t, errOut, "error:")
	assert.Empty(t, out)
}

func TestAsk_HTMLOutput(t *testing.T) {
	fb, cfgPath, _ := newTestEnv(t)
	fb.answer = "**Go** is fast[^1].\n\n[^1]: Source A"

	out, _, err := execute(t, "--config", cfgPath, "ask", "-o", "html", "why go?")
	require.NoError(t, err)

	assert.Contains(t, out, "<strong>Go</strong>")
	assert.Contains(t, out, `id="footnote-1"`)
	assert.Contains(t, out, "Source A")
	assert.NotContains(t, out, "[^1]")
}

func TestAsk_TerminalOutput(t *testing.T) {
	_, cfgPath, _ := newTestEnv(t)

	out, _, err := execute(t, "--config", cfgPath, "ask", "hi")
	require.NoError(t, err)
	assert.Contains(t, out, "Paris")
}

func TestAsk_BadFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"provider without model", []string{"ask", "--provider", "openai", "hi"}, "must be given together"},
		{"model without provider", []string{"ask", "--model", "gpt-4o", "hi"}, "must be given together"},
		{"unknown output", []string{"ask", "-o", "pdf", "hi"}, "unknown output format"},
		{"no question", []string{"ask"}, "requires at least 1 arg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, cfgPath, _ := newTestEnv(t)
			_, _, err := execute(t, append([]string{"--config", cfgPath}, tt.args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestListings(t *testing.T) {
	tests := []struct {
		command string
		want    []string
	}{
		{"chats", []string{"ID", "xyz", "2024-05-01T10:00:00Z", "What is Go?"}},
		{"tools", []string{"NAME", "search", "Search the web", "Evaluate expressions"}},
		{"providers", []string{"PROVIDER", "openai", "gpt-4o", "GPT-4o"}},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			_, cfgPath, _ := newTestEnv(t)
			out, _, err := execute(t, "--config", cfgPath, tt.command)
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
		})
	}
}

func TestExport_JSONToStdout(t *testing.T) {
	_, cfgPath, _ := newTestEnv(t)

	out, _, err := execute(t, "--config", cfgPath, "export", "xyz", "--format", "json", "-o", "-")
	require.NoError(t, err)

	var tr export.Transcript
	require.NoError(t, json.Unmarshal([]byte(out), &tr))
	assert.Equal(t, "xyz", tr.ID)
	assert.Equal(t, "hi", tr.Title)
	require.Len(t, tr.Messages, 2)
	assert.True(t, tr.Messages[0].IsFromUser)
	assert.Equal(t, "**hello** there", tr.Messages[1].Text)
}

func TestExport_HTMLToDefaultPath(t *testing.T) {
	_, cfgPath, dataDir := newTestEnv(t)

	_, errOut, err := execute(t, "--config", cfgPath, "export", "xyz")
	require.NoError(t, err)

	path := filepath.Join(dataDir, "exports", "xyz.html")
	assert.Contains(t, errOut, path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<strong>hello</strong>")

	info, err := f.Stat()
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestExport_Failures(t *testing.T) {
	_, cfgPath, _ := newTestEnv(t)

	_, _, err := execute(t, "--config", cfgPath, "export", "xyz", "--format", "pdf")
	require.Error(t, err)

	_, _, err = execute(t, "--config", cfgPath, "export", "missing", "-o", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load conversation missing")
}
