package event

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of event
type EventType string

// Event types constants
const (
	// Paste lifecycle events
	PasteStarted           EventType = "paste.started"
	PasteAddressResolved   EventType = "paste.address_resolved"
	PastePreflightPassed   EventType = "paste.preflight_passed"
	PasteSignatureRequest  EventType = "paste.signature_requested"
	PasteSignatureReceived EventType = "paste.signature_received"
	PasteSubmitted         EventType = "paste.submitted"
	PasteStored            EventType = "paste.stored"
	PasteFailed            EventType = "paste.failed"

	// Fetch events
	FetchStarted   EventType = "fetch.started"
	FetchCompleted EventType = "fetch.completed"
	FetchFailed    EventType = "fetch.failed"
)

// Event represents an event emitted by the system
type Event struct {
	Type          EventType                    // Type of event
	CorrelationID string                       // Ties together the events of one call
	Chain         string                       // ETH or SOL; empty for fetches
	Timestamp     time.Time                    // When the event occurred
	Data          map[EventDataKey]interface{} // Additional contextual data
}

// NewCorrelationID returns a fresh id for one CreatePaste or FetchPaste call.
func NewCorrelationID() string {
	return uuid.NewString()
}

func NewEvent(eventType EventType, correlationID, chain string, data map[EventDataKey]interface{}) Event {
	if data == nil {
		data = make(map[EventDataKey]interface{})
	}

	return Event{
		Type:          eventType,
		CorrelationID: correlationID,
		Chain:         chain,
		Timestamp:     time.Now(),
		Data:          data,
	}
}
