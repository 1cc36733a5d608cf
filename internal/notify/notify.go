// Package notify delivers career-coach events to chat platforms
// (Slack, Discord).
package notify

import (
	"context"
	"log"
)

// Event is a notification formatted for display in chat.
type Event struct {
	Title    string  // headline (e.g. "Interview tomorrow: Backend Engineer at Acme")
	Body     string  // detail text
	Severity string  // "info", "warning", "error", "success"
	Fields   []Field // key-value metadata pairs
}

// Field is a key-value pair displayed alongside an event.
type Field struct {
	Name  string
	Value string
	Short bool // hint: render side-by-side with another field
}

// Notifier delivers events to a single destination.
type Notifier interface {
	Send(ctx context.Context, evt Event) error
}

// severityColor maps event severities to sidebar color hints.
var severityColor = map[string]string{
	"info":    "#439fe0",
	"warning": "#f2c744",
	"error":   "#d00000",
	"success": "#36a64f",
}

// colorFor returns the sidebar color for a severity, defaulting to info.
func colorFor(severity string) string {
	if c, ok := severityColor[severity]; ok {
		return c
	}
	return severityColor["info"]
}

// Multi fans an event out to every configured notifier. A failing
// destination is logged and skipped so one dead webhook never blocks
// the rest, and never fails the operation that raised the event.
type Multi struct {
	notifiers []Notifier
}

// NewMulti creates a fan-out notifier.
func NewMulti(notifiers ...Notifier) *Multi {
	return &Multi{notifiers: notifiers}
}

// Send delivers the event to all destinations. Always returns nil.
func (m *Multi) Send(ctx context.Context, evt Event) error {
	for _, n := range m.notifiers {
		if err := n.Send(ctx, evt); err != nil {
			log.Printf("notify: send failed: %v", err)
		}
	}
	return nil
}
