package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered  EventType = "user_registered"
	EventUserPromoted    EventType = "user_promoted"
	EventUserDeleted     EventType = "user_deleted"
	EventMenuItemCreated EventType = "menu_item_created"
	EventMenuItemDeleted EventType = "menu_item_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	Collection string    `json:"collection"`
	DocumentID any       `json:"document_id,omitempty"`
	Actor      string    `json:"actor,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	Payload    any       `json:"payload,omitempty"`
}

// NewEvent stamps an event with a fresh id and the current time.
func NewEvent(eventType EventType, collection string, documentID any, actor string, payload any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		Collection: collection,
		DocumentID: documentID,
		Actor:      actor,
		Timestamp:  time.Now().UTC(),
		Payload:    payload,
	}
}

// UserPayload describes the user record an event is about.
type UserPayload struct {
	Email string `json:"email,omitempty"`
}

// CountPayload carries the number of documents an operation affected.
type CountPayload struct {
	Affected int64 `json:"affected"`
}

// MenuItemPayload describes a created menu item.
type MenuItemPayload struct {
	Name     string  `json:"name"`
	Category string  `json:"category,omitempty"`
	Price    float64 `json:"price"`
}
