// Package notify collects user-visible notifications (the toast analog
// of the storefront UI). Producers push through the Center; consumers
// either poll Recent or register a listener.
package notify

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level classifies a notification.
type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Notification is a single user-visible message.
type Notification struct {
	ID      string
	Level   Level
	Message string
	At      time.Time
}

// Center is a bounded, thread-safe buffer of recent notifications.
type Center struct {
	mu        sync.Mutex
	recent    []Notification
	capacity  int
	listeners []func(Notification)
	log       *slog.Logger
}

// NewCenter creates a Center keeping at most capacity notifications.
func NewCenter(capacity int) *Center {
	if capacity <= 0 {
		capacity = 50
	}
	return &Center{
		capacity: capacity,
		log:      slog.Default(),
	}
}

// Error records an error-level notification.
func (c *Center) Error(message string) {
	c.push(LevelError, message)
}

// Info records an info-level notification.
func (c *Center) Info(message string) {
	c.push(LevelInfo, message)
}

func (c *Center) push(level Level, message string) {
	n := Notification{
		ID:      uuid.NewString(),
		Level:   level,
		Message: message,
		At:      time.Now(),
	}

	c.mu.Lock()
	c.recent = append(c.recent, n)
	if len(c.recent) > c.capacity {
		c.recent = c.recent[len(c.recent)-c.capacity:]
	}
	listeners := make([]func(Notification), len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()

	if level == LevelError {
		c.log.Warn("Notification", "id", n.ID, "message", message)
	} else {
		c.log.Info("Notification", "id", n.ID, "message", message)
	}

	for _, fn := range listeners {
		fn(n)
	}
}

// Recent returns a copy of the buffered notifications, oldest first.
func (c *Center) Recent() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notification, len(c.recent))
	copy(out, c.recent)
	return out
}

// OnNotify registers a listener invoked for every new notification.
func (c *Center) OnNotify(fn func(Notification)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}
