package backend

// AskReply is the reply to POST /ask.
type AskReply struct {
	Answer      string `json:"answer"`
	ChatUUID    string `json:"chat_uuid,omitempty"`
	InputToken  int    `json:"input_token,omitempty"`
	OutputToken int    `json:"output_token,omitempty"`
}

// HistoryEntry is one persisted message as returned by GET /chat/{id}.
type HistoryEntry struct {
	Text   string `json:"Text"`
	IsUser bool   `json:"IsUser"`
}

type historyReply struct {
	Messages []HistoryEntry `json:"messages"`
}

// ChatSummary is one conversation from GET /chats.
type ChatSummary struct {
	UUID      string         `json:"uuid"`
	CreatedAt string         `json:"created_at"`
	Messages  []HistoryEntry `json:"messages"`
}

// Title is the first user message, used as the label in pickers.
func (c ChatSummary) Title() string {
	for _, m := range c.Messages {
		if m.IsUser && m.Text != "" {
			return m.Text
		}
	}
	return c.UUID
}

type chatsReply struct {
	Chats []ChatSummary `json:"chats"`
}

// Tool is a tool the backend can call on the assistant's behalf.
type Tool struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type ProviderModel struct {
	ModelID     string `json:"modelId"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Provider is an LLM provider and the models it serves.
type Provider struct {
	Name   string          `json:"name"`
	Models []ProviderModel `json:"models"`
}

type providersReply struct {
	Providers []Provider `json:"providers"`
}
