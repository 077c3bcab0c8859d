package session

import (
	"mcpchat/backend"
	"mcpchat/model"
)

// ticket identifies the controller state a command was issued against.
type ticket struct {
	epoch          uint64
	conversationID string
	requestID      string
}

// AnswerMsg carries the result of an ask round trip.
type AnswerMsg struct {
	ticket
	Payload model.RequestPayload
	Reply   backend.AskReply
	Err     error
}

// HistoryMsg carries the result of a history fetch.
type HistoryMsg struct {
	ticket
	ID      string
	Entries []backend.HistoryEntry
	Err     error
}
