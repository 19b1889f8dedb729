package event

import (
	"context"
	"runtime/debug"
	"sync"

	"github.com/LumeraProtocol/pastadrop/sdk/log"
)

// Handler is a function that processes events
type Handler func(Event)

// Bus manages event subscriptions and dispatching. Handlers run
// synchronously on the publishing goroutine, in subscription order.
type Bus struct {
	subscribers      map[EventType][]Handler // Type-specific handlers
	wildcardHandlers []Handler               // Handlers for all events
	mu               sync.RWMutex
	logger           log.Logger
}

// NewBus creates a new event bus
func NewBus(logger log.Logger) *Bus {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Bus{
		subscribers: make(map[EventType][]Handler),
		logger:      logger,
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.logger.Debug(context.Background(), "Subscribing handler to event type", "eventType", eventType)
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// SubscribeAll registers a handler for all event types
func (b *Bus) SubscribeAll(handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.logger.Debug(context.Background(), "Subscribing handler to all event types")
	b.wildcardHandlers = append(b.wildcardHandlers, handler)
}

// Publish delivers event to its type-specific handlers, then to wildcard
// handlers. Nothing is delivered once ctx is done.
func (b *Bus) Publish(ctx context.Context, event Event) {
	if ctx.Err() != nil {
		return
	}

	b.mu.RLock()
	handlers := append([]Handler(nil), b.subscribers[event.Type]...)
	handlers = append(handlers, b.wildcardHandlers...)
	b.mu.RUnlock()

	b.logger.Debug(ctx, "Publishing event",
		"type", event.Type,
		"correlationID", event.CorrelationID,
		"handlerCount", len(handlers))

	for _, handler := range handlers {
		b.safelyCallHandler(ctx, handler, event)
	}
}

// safelyCallHandler executes a handler with panic recovery
func (b *Bus) safelyCallHandler(ctx context.Context, handler Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error(ctx,
				"Event handler panicked",
				"error", r,
				"eventType", event.Type,
				"stackTrace", string(debug.Stack()),
			)
		}
	}()
	handler(copyEvent(event))
}

// copyEvent creates a copy of an event so handlers cannot mutate each
// other's data
func copyEvent(e Event) Event {
	copied := e
	copied.Data = make(map[EventDataKey]interface{}, len(e.Data))
	for k, v := range e.Data {
		copied.Data[k] = v
	}
	return copied
}
