// Package queue publishes domain events to RabbitMQ for downstream consumers.
package queue

import (
	"time"

	"github.com/google/uuid"
)

// Actions carried by EntityChangedEvent.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// EntityChangedEvent is published after a successful create, update or delete
// of a city, hotel, garage or car. It carries enough for consumers to log or
// trigger analytics without querying the primary database.
type EntityChangedEvent struct {
	ID         string    `json:"id"`
	Entity     string    `json:"entity"`
	Action     string    `json:"action"`
	EntityID   uint64    `json:"entity_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewEntityChanged builds an event with a fresh UUID and UTC timestamp.
func NewEntityChanged(entity, action string, entityID uint64) EntityChangedEvent {
	return EntityChangedEvent{
		ID:         uuid.NewString(),
		Entity:     entity,
		Action:     action,
		EntityID:   entityID,
		OccurredAt: time.Now().UTC(),
	}
}
