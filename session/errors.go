package session

import "errors"

// ApologyMessage is appended as the assistant's reply when a request fails.
const ApologyMessage = "Sorry, there was an error processing your request. Please try again."

var (
	ErrBusy         = errors.New("a request is already in progress")
	ErrEmptyMessage = errors.New("message is empty")
	ErrClosed       = errors.New("session is closed")
)
