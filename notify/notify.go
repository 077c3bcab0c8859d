// Package notify delivers transient messages to the user: in-app toasts with
// expiry and, optionally, desktop notifications.
package notify

import (
	"slices"
	"sync"
	"time"

	"github.com/gen2brain/beeep"
	"github.com/google/uuid"

	"mcpchat/config"
)

type Level int

const (
	Info Level = iota
	Success
	Warning
	Error
)

func (l Level) String() string {
	switch l {
	case Success:
		return "success"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "info"
	}
}

// Notifier receives notifications. Implementations must not block.
type Notifier interface {
	Notify(level Level, message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(level Level, message string)

func (f NotifierFunc) Notify(level Level, message string) { f(level, message) }

// Discard drops every notification.
var Discard Notifier = NotifierFunc(func(Level, string) {})

type Notification struct {
	ID      string
	Level   Level
	Message string
	Expires time.Time
}

// Center keeps the notifications currently on screen.
type Center struct {
	mu       sync.Mutex
	items    []Notification
	duration time.Duration
	now      func() time.Time
}

func NewCenter(duration time.Duration) *Center {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return &Center{duration: duration, now: time.Now}
}

func (c *Center) Notify(level Level, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = append(c.items, Notification{
		ID:      uuid.NewString(),
		Level:   level,
		Message: message,
		Expires: c.now().Add(c.duration),
	})
	config.DebugLog.Debugf("[notify] %s: %s", level, message)
}

// Active returns unexpired notifications, oldest first.
func (c *Center) Active() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pruneLocked()
	return slices.Clone(c.items)
}

func (c *Center) Dismiss(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = slices.DeleteFunc(c.items, func(n Notification) bool { return n.ID == id })
}

// Prune drops expired notifications and reports how many remain.
func (c *Center) Prune() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pruneLocked()
	return len(c.items)
}

func (c *Center) pruneLocked() {
	now := c.now()
	c.items = slices.DeleteFunc(c.items, func(n Notification) bool { return !now.Before(n.Expires) })
}

// Desktop raises OS notifications for messages at or above MinLevel.
type Desktop struct {
	Title    string
	MinLevel Level
	send     func(title, message string, icon any) error
}

func NewDesktop(title string) *Desktop {
	return &Desktop{Title: title, MinLevel: Warning, send: beeep.Notify}
}

func (d *Desktop) Notify(level Level, message string) {
	if level < d.MinLevel {
		return
	}
	// beeep spawns a helper process on most platforms; keep it off the caller
	go func(title string) {
		// Use empty string for icon - beeep handles platform defaults
		if err := d.send(title, message, ""); err != nil {
			config.DebugLog.Warnf("[notify] desktop notification failed: %v", err)
		}
	}(d.Title)
}

// Fanout delivers every notification to each of ns.
func Fanout(ns ...Notifier) Notifier {
	return NotifierFunc(func(level Level, message string) {
		for _, n := range ns {
			if n != nil {
				n.Notify(level, message)
			}
		}
	})
}
