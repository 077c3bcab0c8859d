// Package sessiontest provides fakes for exercising session.Controller
// without a backend.
package sessiontest

import (
	"context"
	"sync"

	"mcpchat/backend"
	"mcpchat/model"
	"mcpchat/notify"
)

// FakeTransport implements session.Transport with configurable responses.
type FakeTransport struct {
	AskFunc  func(ctx context.Context, payload model.RequestPayload) (backend.AskReply, error)
	ChatFunc func(ctx context.Context, id string) ([]backend.HistoryEntry, error)

	mu       sync.Mutex
	payloads []model.RequestPayload
	chatIDs  []string
}

// NewFakeTransport creates a transport that answers every question with
// "Mock response" and returns empty histories.
func NewFakeTransport() *FakeTransport {
	f := &FakeTransport{}
	f.AskFunc = f.defaultAsk
	f.ChatFunc = f.defaultChat
	return f
}

func (f *FakeTransport) defaultAsk(ctx context.Context, payload model.RequestPayload) (backend.AskReply, error) {
	return backend.AskReply{Answer: "Mock response"}, nil
}

func (f *FakeTransport) defaultChat(ctx context.Context, id string) ([]backend.HistoryEntry, error) {
	return []backend.HistoryEntry{}, nil
}

func (f *FakeTransport) Ask(ctx context.Context, payload model.RequestPayload) (backend.AskReply, error) {
	f.mu.Lock()
	f.payloads = append(f.payloads, payload)
	f.mu.Unlock()
	return f.AskFunc(ctx, payload)
}

func (f *FakeTransport) Chat(ctx context.Context, id string) ([]backend.HistoryEntry, error) {
	f.mu.Lock()
	f.chatIDs = append(f.chatIDs, id)
	f.mu.Unlock()
	return f.ChatFunc(ctx, id)
}

// Payloads returns every payload passed to Ask, in call order.
func (f *FakeTransport) Payloads() []model.RequestPayload {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.RequestPayload(nil), f.payloads...)
}

// ChatIDs returns every id passed to Chat, in call order.
func (f *FakeTransport) ChatIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.chatIDs...)
}

// Replies returns an AskFunc that hands out replies in order and repeats the
// last one once they run out.
func Replies(replies ...backend.AskReply) func(context.Context, model.RequestPayload) (backend.AskReply, error) {
	var mu sync.Mutex
	i := 0
	return func(context.Context, model.RequestPayload) (backend.AskReply, error) {
		mu.Lock()
		defer mu.Unlock()
		r := replies[i]
		if i < len(replies)-1 {
			i++
		}
		return r, nil
	}
}

type Notice struct {
	Level   notify.Level
	Message string
}

// Recorder is a notify.Notifier that keeps what it receives.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *Recorder) Notify(level notify.Level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, Notice{Level: level, Message: message})
}

func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}
