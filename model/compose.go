package model

// RequestPayload is the body of POST /ask.
//
// ConversationID and ProviderSelection are omitted from the JSON entirely
// when unset; the backend rejects null identifiers.
type RequestPayload struct {
	Question          string             `json:"question"`
	SelectedTools     []string           `json:"selectedTools"`
	ModelSettings     ModelSettings      `json:"modelSettings"`
	ConversationID    string             `json:"chat_uuid,omitempty"`
	ProviderSelection *ProviderSelection `json:"llmProvider,omitempty"`
}

// Compose builds the request for question from the current selections.
// Settings are trusted as given; range checks belong to whoever edits them.
func Compose(question string, tools ToolSet, settings ModelSettings, conversationID string, provider *ProviderSelection) RequestPayload {
	payload := RequestPayload{
		Question:       question,
		SelectedTools:  tools.Names(),
		ModelSettings:  settings,
		ConversationID: conversationID,
	}
	if provider.Complete() {
		sel := *provider
		payload.ProviderSelection = &sel
	}
	return payload
}
