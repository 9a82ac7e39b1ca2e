// Package events provides the pub/sub event bus the countdown publishes its
// side effects on. Presentation code (celebrations, notifications, the live
// websocket stream) subscribes here instead of being called by the runner.
package events

import "time"

// EventType identifies the category of event.
type EventType string

const (
	// Periodic evaluation
	EventTick EventType = "countdown.tick"

	// State transitions
	EventMilestoneTransition EventType = "milestone.transition"
	EventTargetReached       EventType = "target.reached"

	// Target date changes
	EventTargetUpdated      EventType = "target.updated"
	EventTargetCleared      EventType = "target.cleared"
	EventValidationRejected EventType = "validation.rejected"

	// Store failures (non-fatal)
	EventStoreError EventType = "store.error"
)

// Event is the core message passed through the event bus.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Source    string      `json:"source"`
	Data      interface{} `json:"data"`
}

// ──────────────────────────────────────────────────────────────────────────────
// Type-Specific Payloads
// ──────────────────────────────────────────────────────────────────────────────

// MilestoneData is the payload for EventMilestoneTransition.
type MilestoneData struct {
	DaysRemaining     int `json:"daysRemaining"`
	PrevDaysRemaining int `json:"prevDaysRemaining"`
	Trigger           int `json:"trigger"`
}

// TargetData is the payload for EventTargetUpdated, EventTargetCleared and EventTargetReached.
type TargetData struct {
	Target    time.Time `json:"target"`
	Previous  time.Time `json:"previous,omitempty"`
	Persisted bool      `json:"persisted"`
}

// RejectionData is the payload for EventValidationRejected.
type RejectionData struct {
	Input   string `json:"input"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// StoreErrorData is the payload for EventStoreError.
type StoreErrorData struct {
	Op    string `json:"op"` // "read", "write" or "clear"
	Error string `json:"error"`
}
