// Package comms carries change notifications between the stores and the
// clients watching them.
package comms

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventType identifies what changed.
type EventType string

const (
	TypeTaskPut      EventType = "task.put"      // task created or replaced
	TypeTaskDeleted  EventType = "task.deleted"  // task removed
	TypeInventoryPut EventType = "inventory.put" // inventory item upserted
)

// AllTypes subscribes a handler to every event type.
const AllTypes EventType = "*"

// Event tells watchers that the entity named by Subject changed and should be
// refetched.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Subject   string    `json:"subject"` // task ID or inventory item name
	Timestamp time.Time `json:"timestamp"`
}

// NewEvent returns an event of type t about subject, stamped now.
func NewEvent(t EventType, subject string) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      t,
		Subject:   subject,
		Timestamp: time.Now().UTC(),
	}
}

// Handler processes a published event.
type Handler func(ctx context.Context, ev *Event) error

// Bus fans change events out to subscribers and keeps a bounded history.
type Bus interface {
	// Publish delivers ev to the subscribers of its type and of AllTypes.
	Publish(ctx context.Context, ev *Event) error

	// Subscribe registers a handler for events of type t, or every event when
	// t is AllTypes. Returns an unsubscribe function.
	Subscribe(t EventType, handler Handler) (unsubscribe func())

	// History returns up to limit recent events of type t (AllTypes for
	// every type) in chronological order. limit <= 0 means no limit.
	History(t EventType, limit int) ([]*Event, error)
}
