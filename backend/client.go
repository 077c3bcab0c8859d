package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/jsonschema-go/jsonschema"

	"mcpchat/config"
	"mcpchat/model"
)

// MaxResponseSize caps how much of a reply body is read.
const MaxResponseSize = 10 * 1024 * 1024

// Client talks to the assistant service over its JSON API.
type Client struct {
	http    *http.Client
	baseURL string
}

func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	if baseURL == "" {
		baseURL = config.DefaultBackendURL
	}

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid backend URL: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, fmt.Errorf("invalid backend URL %q: scheme must be http or https", baseURL)
	}

	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Ask sends one question and returns the assistant's answer. A reply without
// a non-empty answer is a contract violation.
func (c *Client) Ask(ctx context.Context, payload model.RequestPayload) (AskReply, error) {
	const op = "ask"
	var reply AskReply

	body, err := json.Marshal(payload)
	if err != nil {
		return reply, &Error{Op: op, Kind: ErrTransport, Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	if err := c.do(ctx, op, http.MethodPost, "/ask", body, askSchema, &reply); err != nil {
		return reply, err
	}
	if reply.Answer == "" {
		return reply, contractError(op, errors.New("empty answer"))
	}

	config.DebugLog.Debugf("[backend] ask ok: chat_uuid=%q answer_len=%d tokens=%d/%d",
		reply.ChatUUID, len(reply.Answer), reply.InputToken, reply.OutputToken)
	return reply, nil
}

// Chat fetches the persisted transcript of one conversation.
func (c *Client) Chat(ctx context.Context, id string) ([]HistoryEntry, error) {
	var reply historyReply
	if err := c.do(ctx, "chat", http.MethodGet, "/chat/"+url.PathEscape(id), nil, historySchema, &reply); err != nil {
		return nil, err
	}
	if reply.Messages == nil {
		reply.Messages = []HistoryEntry{}
	}
	config.DebugLog.Debugf("[backend] chat %s: %d messages", id, len(reply.Messages))
	return reply.Messages, nil
}

// Chats lists the user's saved conversations.
func (c *Client) Chats(ctx context.Context) ([]ChatSummary, error) {
	var reply chatsReply
	if err := c.do(ctx, "chats", http.MethodGet, "/chats", nil, chatsSchema, &reply); err != nil {
		return nil, err
	}
	return reply.Chats, nil
}

// Tools lists the tools the backend exposes.
func (c *Client) Tools(ctx context.Context) ([]Tool, error) {
	var tools []Tool
	if err := c.do(ctx, "tools", http.MethodGet, "/api/tools", nil, toolsSchema, &tools); err != nil {
		return nil, err
	}
	return tools, nil
}

// Providers lists LLM providers and their models.
func (c *Client) Providers(ctx context.Context) ([]Provider, error) {
	var reply providersReply
	if err := c.do(ctx, "providers", http.MethodGet, "/llm-providers", nil, providersSchema, &reply); err != nil {
		return nil, err
	}
	return reply.Providers, nil
}

// do performs one request, validates the reply against schema and decodes it into out.
func (c *Client) do(ctx context.Context, op, method, path string, body []byte, schema *jsonschema.Resolved, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return transportError(op, 0, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	config.DebugLog.Debugf("[backend] %s %s", method, path)
	resp, err := c.http.Do(req)
	if err != nil {
		config.DebugLog.Warnf("[backend] %s %s failed: %v", method, path, err)
		return transportError(op, 0, err)
	}
	defer resp.Body.Close()

	data, err := readResponse(resp)
	if err != nil {
		return transportError(op, resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		config.DebugLog.Warnf("[backend] %s %s: status %d", method, path, resp.StatusCode)
		return transportError(op, resp.StatusCode, fmt.Errorf("unexpected status: %s", snippet(data)))
	}

	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return contractError(op, fmt.Errorf("invalid JSON: %w", err))
	}
	if err := schema.Validate(generic); err != nil {
		return contractError(op, fmt.Errorf("unexpected reply shape: %w", err))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return contractError(op, fmt.Errorf("failed to decode reply: %w", err))
	}
	return nil
}

func readResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if len(body) > MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}

func snippet(data []byte) string {
	s := strings.TrimSpace(string(data))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	if s == "" {
		return "(empty body)"
	}
	return s
}
