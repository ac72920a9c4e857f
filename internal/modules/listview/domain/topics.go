package domain

import (
	"strings"
	"time"
)

const (
	SystemEntity = "system"

	TopicSystemConnected = SystemEntity + ".connected"
	TopicSystemPong      = SystemEntity + ".pong"

	ActionConnected   = "connected"
	ActionPong        = "pong"
	ActionCreated     = "created"
	ActionUpdated     = "updated"
	ActionDeleted     = "deleted"
	ActionInvalidated = "invalidated"
)

// Message is the envelope pushed to websocket clients and decoded from backend change events.
type Message struct {
	Topic      string            `json:"topic"`
	Entity     string            `json:"entity"`
	Action     string            `json:"action"`
	ResourceID string            `json:"resourceId,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Data       any               `json:"data,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
}

// InvalidatedTopic tells browsers showing screen that their collection snapshot is out of date.
func InvalidatedTopic(screen string) string {
	return CustomTopic(screen, ActionInvalidated)
}

// CustomTopic returns the canonical topic for the given entity and action.
func CustomTopic(entity, action string) string {
	cleanEntity := strings.TrimSpace(entity)
	cleanAction := strings.TrimSpace(action)
	if cleanEntity == "" || cleanAction == "" {
		return ""
	}
	return cleanEntity + "." + cleanAction
}

// NewInvalidatedMessage builds the push sent after a create/delete round-trip or a backend event.
func NewInvalidatedMessage(screen, cause, resourceID string, at time.Time) *Message {
	return &Message{
		Topic:      InvalidatedTopic(screen),
		Entity:     strings.TrimSpace(screen),
		Action:     ActionInvalidated,
		ResourceID: strings.TrimSpace(resourceID),
		Metadata:   map[string]string{"cause": strings.TrimSpace(cause)},
		Timestamp:  at.UTC(),
	}
}
