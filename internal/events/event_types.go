package events

import (
	"time"

	"github.com/gymflow/portal/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSessionHydrated        EventType = "session_hydrated"
	EventSessionHydrationFailed EventType = "session_hydration_failed"
	EventSessionLoggedIn        EventType = "session_logged_in"
	EventSessionLoggedOut       EventType = "session_logged_out"
	EventSessionRejected        EventType = "session_rejected"
)

// Event represents a session lifecycle change.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Subject   string      `json:"subject"`
	UserID    domain.ID   `json:"user_id,omitempty"`
	Role      domain.Role `json:"role,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// HydrationFailedPayload carries the reason identity resolution failed.
type HydrationFailedPayload struct {
	Reason string `json:"reason"`
}
