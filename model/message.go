package model

// Message is one entry of a conversation transcript.
// Messages are never edited after they are appended.
type Message struct {
	Text       string `json:"text"`
	IsFromUser bool   `json:"isFromUser"`
}

// UserMessage creates a message authored by the local user.
func UserMessage(text string) Message {
	return Message{Text: text, IsFromUser: true}
}

// AssistantMessage creates a message authored by the assistant.
func AssistantMessage(text string) Message {
	return Message{Text: text, IsFromUser: false}
}

// Role returns the conventional role name for display and export.
func (m Message) Role() string {
	if m.IsFromUser {
		return "user"
	}
	return "assistant"
}
