// internal/events/stream.go
package events

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Stream is an append-only, in-memory record of engine events with
// subscriber fan-out. Emission is fire-and-forget from the engine's point of
// view: the log append always succeeds and handler errors are logged, never
// propagated into engine control flow.
type Stream struct {
	mu       sync.RWMutex
	log      []Event
	handlers map[EventType]map[string]Handler
	logger   *zap.Logger
}

// NewStream creates an empty event stream.
func NewStream(logger *zap.Logger) *Stream {
	return &Stream{
		handlers: make(map[EventType]map[string]Handler),
		logger:   logger.Named("events"),
	}
}

// Subscribe registers a handler for a specific event type. Use AnyEvent to
// receive every event.
func (s *Stream) Subscribe(eventType EventType, handler Handler) Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New().String()

	if s.handlers[eventType] == nil {
		s.handlers[eventType] = make(map[string]Handler)
	}
	s.handlers[eventType][id] = handler

	s.logger.Debug("Handler subscribed",
		zap.String("event_type", string(eventType)),
		zap.String("subscription_id", id))

	return &subscription{id: id, stream: s, typ: eventType}
}

// SubscribeFunc is a convenience method for subscribing with a function.
func (s *Stream) SubscribeFunc(eventType EventType, fn func(context.Context, Event) error) Subscription {
	return s.Subscribe(eventType, HandlerFunc(fn))
}

// Emit appends the event to the log and notifies subscribers in order of
// registration type (exact-type handlers, then AnyEvent handlers).
func (s *Stream) Emit(ctx context.Context, event Event) {
	s.mu.Lock()
	s.log = append(s.log, event)
	handlers := make([]Handler, 0, 4)
	for _, h := range s.handlers[event.Type()] {
		handlers = append(handlers, h)
	}
	for _, h := range s.handlers[AnyEvent] {
		handlers = append(handlers, h)
	}
	s.mu.Unlock()

	for _, h := range handlers {
		if err := h.Handle(ctx, event); err != nil {
			s.logger.Error("Event handler error",
				zap.String("event_type", string(event.Type())),
				zap.String("asset_id", event.Asset()),
				zap.Error(err))
		}
	}
}

// All returns a snapshot of the full event log in emission order.
func (s *Stream) All() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Event, len(s.log))
	copy(out, s.log)
	return out
}

// ByAsset returns the events emitted for one asset, in emission order.
func (s *Stream) ByAsset(assetID string) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Event
	for _, e := range s.log {
		if e.Asset() == assetID {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of events emitted so far.
func (s *Stream) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.log)
}

// unsubscribe removes a handler subscription.
func (s *Stream) unsubscribe(id string, eventType EventType) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if handlers, ok := s.handlers[eventType]; ok {
		delete(handlers, id)
		if len(handlers) == 0 {
			delete(s.handlers, eventType)
		}
	}

	s.logger.Debug("Handler unsubscribed",
		zap.String("event_type", string(eventType)),
		zap.String("subscription_id", id))
}
