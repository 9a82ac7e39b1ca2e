package events

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/ShaKy8/CountdownToRetirement/internal/clock"
)

// Hub is the central event bus.
// It provides pub/sub semantics with typed events and non-blocking fan-out.
type Hub struct {
	mu   sync.RWMutex
	subs map[EventType][]chan Event

	// Global subscribers receive all events
	global []chan Event

	clock clock.Clock

	published atomic.Uint64
	dropped   atomic.Uint64
}

// NewHub creates a new event hub.
func NewHub() *Hub {
	return NewHubWithClock(nil)
}

// NewHubWithClock creates a hub that stamps events from clk.
func NewHubWithClock(clk clock.Clock) *Hub {
	return &Hub{
		subs:  make(map[EventType][]chan Event),
		clock: clock.OrReal(clk),
	}
}

// Publish sends an event to all subscribers of that event type.
// This is non-blocking - if a subscriber's channel is full, the event is dropped.
func (h *Hub) Publish(e Event) {
	if h == nil {
		return
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = h.clock.Now()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	h.published.Add(1)

	for _, ch := range h.subs[e.Type] {
		select {
		case ch <- e:
		default:
			h.dropped.Add(1)
		}
	}

	for _, ch := range h.global {
		select {
		case ch <- e:
		default:
			h.dropped.Add(1)
		}
	}
}

// Subscribe returns a channel that receives events of the specified types.
// If no types are specified, subscribes to all events.
// The caller is responsible for draining the channel to avoid drops.
func (h *Hub) Subscribe(bufSize int, types ...EventType) <-chan Event {
	if bufSize <= 0 {
		bufSize = 64
	}

	ch := make(chan Event, bufSize)

	h.mu.Lock()
	defer h.mu.Unlock()

	if len(types) == 0 {
		h.global = append(h.global, ch)
	} else {
		for _, t := range types {
			h.subs[t] = append(h.subs[t], ch)
		}
	}

	return ch
}

// Unsubscribe removes a channel from all subscriptions.
// The channel is NOT closed by this method.
func (h *Hub) Unsubscribe(ch <-chan Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.global = removeFromSlice(h.global, ch)
	for t, subs := range h.subs {
		h.subs[t] = removeFromSlice(subs, ch)
	}
}

// Stats returns publish/drop counts for monitoring.
func (h *Hub) Stats() (published, dropped uint64) {
	return h.published.Load(), h.dropped.Load()
}

func removeFromSlice(slice []chan Event, target <-chan Event) []chan Event {
	result := make([]chan Event, 0, len(slice))
	for _, ch := range slice {
		if ch != target {
			result = append(result, ch)
		}
	}
	return result
}

// ──────────────────────────────────────────────────────────────────────────────
// Convenience Methods
// ──────────────────────────────────────────────────────────────────────────────

// EmitMilestoneTransition publishes a milestone crossing.
func (h *Hub) EmitMilestoneTransition(prev, cur, trigger int) {
	h.Publish(Event{
		Type:   EventMilestoneTransition,
		Source: "runner",
		Data: MilestoneData{
			DaysRemaining:     cur,
			PrevDaysRemaining: prev,
			Trigger:           trigger,
		},
	})
}

// EmitValidationRejected publishes a rejected target update.
func (h *Hub) EmitValidationRejected(input, reason, message string) {
	h.Publish(Event{
		Type:   EventValidationRejected,
		Source: "runner",
		Data:   RejectionData{Input: input, Reason: reason, Message: message},
	})
}

// EmitStoreError publishes a non-fatal target store failure.
func (h *Hub) EmitStoreError(op string, err error) {
	h.Publish(Event{
		Type:   EventStoreError,
		Source: "store",
		Data:   StoreErrorData{Op: op, Error: err.Error()},
	})
}
