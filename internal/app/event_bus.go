// Package app contains the application layer - service implementations and
// lifecycle event dispatch.
package app

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/example/quotedesk/internal/core/events"
	"github.com/example/quotedesk/internal/ports/secondary"
)

// EventBus dispatches lifecycle events to subscribed handlers in process.
// Services publish only after their state change has committed, and a
// failing handler is logged and skipped: subscribers never undo the change
// that produced the event.
type EventBus struct {
	mu       sync.RWMutex
	handlers []secondary.EventHandler
	logger   logrus.FieldLogger
}

// NewEventBus creates an EventBus with the given handlers.
func NewEventBus(logger logrus.FieldLogger, handlers ...secondary.EventHandler) *EventBus {
	return &EventBus{
		handlers: handlers,
		logger:   logger,
	}
}

// Subscribe adds a handler.
func (b *EventBus) Subscribe(h secondary.EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Publish delivers each event to every handler in subscription order.
func (b *EventBus) Publish(ctx context.Context, evts ...events.Event) {
	b.mu.RLock()
	handlers := append([]secondary.EventHandler(nil), b.handlers...)
	b.mu.RUnlock()

	for _, evt := range evts {
		for _, h := range handlers {
			if err := h.Handle(ctx, evt); err != nil {
				b.logger.WithError(err).WithFields(logrus.Fields{
					"event":   evt.EventType(),
					"handler": h.Name(),
				}).Error("event handler failed")
			}
		}
	}
}

// Ensure EventBus implements the interface.
var _ secondary.EventPublisher = (*EventBus)(nil)
