package model

// ConversationState is the data owned by a session controller.
//
// An empty ID means the conversation has not been saved by the server yet.
// An empty Error means the last exchange did not fail.
type ConversationState struct {
	ID       string    `json:"id,omitempty"`
	Messages []Message `json:"messages"`
	Pending  bool      `json:"pending"`
	Error    string    `json:"error,omitempty"`
}

// HasID reports whether the server has assigned an identifier.
func (s ConversationState) HasID() bool {
	return s.ID != ""
}

// Clone returns a copy whose message slice does not alias the original.
func (s ConversationState) Clone() ConversationState {
	c := s
	c.Messages = append([]Message(nil), s.Messages...)
	return c
}

// LastAssistantMessage returns the most recent assistant reply, if any.
func (s ConversationState) LastAssistantMessage() (Message, bool) {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if !s.Messages[i].IsFromUser {
			return s.Messages[i], true
		}
	}
	return Message{}, false
}
