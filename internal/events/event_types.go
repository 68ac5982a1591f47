package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventFileOrphaned   EventType = "file_orphaned"
	EventCatalogChanged EventType = "catalog_changed"
)

// Action names a catalog mutation.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// Event represents a domain event emitted by services and middleware.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ActorID   string      `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// FileOrphanedPayload points at an upload that no record references.
type FileOrphanedPayload struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// CatalogChangedPayload describes one catalog mutation.
type CatalogChangedPayload struct {
	Resource string `json:"resource"`
	Action   Action `json:"action"`
	RecordID string `json:"record_id"`
}

// NewEvent stamps an event with an id and the current time.
func NewEvent(eventType EventType, actorID string, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		ActorID:   actorID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}
