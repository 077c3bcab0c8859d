package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSettings = ModelSettings{Temperature: 0.7, MaxTokens: 2000, TopP: 0.9, TopK: 40}

func payloadKeys(t *testing.T, p RequestPayload) map[string]json.RawMessage {
	t.Helper()
	data, err := json.Marshal(p)
	require.NoError(t, err)
	var keys map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &keys))
	return keys
}

func TestCompose_OmitsUnsetKeys(t *testing.T) {
	p := Compose("hello", ToolSet{}, testSettings, "", nil)
	keys := payloadKeys(t, p)

	assert.NotContains(t, keys, "chat_uuid")
	assert.NotContains(t, keys, "llmProvider")
	assert.JSONEq(t, `[]`, string(keys["selectedTools"]))
	assert.JSONEq(t, `"hello"`, string(keys["question"]))
	assert.JSONEq(t, `{"temperature":0.7,"maxTokens":2000,"topP":0.9,"topK":40}`, string(keys["modelSettings"]))
}

func TestCompose_ProviderSelection(t *testing.T) {
	tests := []struct {
		name     string
		provider *ProviderSelection
		present  bool
	}{
		{name: "nil", provider: nil, present: false},
		{name: "provider only", provider: &ProviderSelection{Provider: "anthropic"}, present: false},
		{name: "model only", provider: &ProviderSelection{ModelID: "claude-3-5-sonnet"}, present: false},
		{name: "both", provider: &ProviderSelection{Provider: "anthropic", ModelID: "claude-3-5-sonnet"}, present: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Compose("q", nil, testSettings, "", tt.provider)
			keys := payloadKeys(t, p)
			_, ok := keys["llmProvider"]
			assert.Equal(t, tt.present, ok)
			if tt.present {
				assert.JSONEq(t, `{"provider":"anthropic","modelId":"claude-3-5-sonnet"}`, string(keys["llmProvider"]))
			}
		})
	}
}

func TestCompose_ConversationID(t *testing.T) {
	p := Compose("again", NewToolSet("search", "git"), testSettings, "abc", nil)
	keys := payloadKeys(t, p)

	assert.JSONEq(t, `"abc"`, string(keys["chat_uuid"]))
	assert.JSONEq(t, `["git","search"]`, string(keys["selectedTools"]))
}

func TestCompose_DoesNotAliasProvider(t *testing.T) {
	sel := &ProviderSelection{Provider: "openai", ModelID: "gpt-4o"}
	p := Compose("q", nil, testSettings, "", sel)
	sel.ModelID = "changed"

	require.NotNil(t, p.ProviderSelection)
	assert.Equal(t, "gpt-4o", p.ProviderSelection.ModelID)
}

func TestCompose_TrustsSettings(t *testing.T) {
	wild := ModelSettings{Temperature: 9, MaxTokens: -1, TopP: 3, TopK: -5}
	p := Compose("q", nil, wild, "", nil)
	assert.Equal(t, wild, p.ModelSettings)
}

func TestToolSet(t *testing.T) {
	set := NewToolSet("b", " ", "a", "b")
	assert.Equal(t, []string{"a", "b"}, set.Names())

	set.Toggle("a")
	assert.False(t, set.Has("a"))
	set.Toggle("c")
	assert.Equal(t, []string{"b", "c"}, set.Names())

	var empty ToolSet
	assert.NotNil(t, empty.Names())
}

func TestConversationState_LastAssistantMessage(t *testing.T) {
	s := ConversationState{Messages: []Message{
		AssistantMessage("first"),
		UserMessage("question"),
		AssistantMessage("second"),
		UserMessage("follow up"),
	}}
	msg, ok := s.LastAssistantMessage()
	require.True(t, ok)
	assert.Equal(t, "second", msg.Text)

	_, ok = ConversationState{}.LastAssistantMessage()
	assert.False(t, ok)
}
