// util/event_bus.go
package util

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	logger "github.com/zukapustikova/ai-governance-transparency-ledger/logging"
)

// Topics published on the bus. Handlers are asynchronous and best-effort;
// no mutation waits on them.
const (
	TopicEventAppended       = "event.appended"
	TopicConcernRaised       = "concern.raised"
	TopicConcernResolved     = "concern.resolved"
	TopicComplianceSubmitted = "compliance.submitted"
	TopicComplianceReviewed  = "compliance.reviewed"
	TopicPartyRegistered     = "party.registered"
)

// BusEvent is a published notification.
type BusEvent struct {
	Topic   string
	Payload any
}

// EventHandler handles one published event.
type EventHandler func(context.Context, BusEvent) error

// EventBus fans published events out to subscribers in goroutines.
type EventBus struct {
	mu          sync.RWMutex
	subscribers map[string][]EventHandler
	errorChan   chan error
}

// NewEventBus creates an idle bus; call Start to drain handler errors.
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make(map[string][]EventHandler),
		errorChan:   make(chan error, 100),
	}
}

// Subscribe adds a handler for a topic.
func (eb *EventBus) Subscribe(topic string, handler EventHandler) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.subscribers[topic] = append(eb.subscribers[topic], handler)
}

// Publish delivers the payload to every subscriber of topic, each in its
// own goroutine. Handler failures are collected, never returned.
func (eb *EventBus) Publish(ctx context.Context, topic string, payload any) {
	eb.mu.RLock()
	handlers := eb.subscribers[topic]
	eb.mu.RUnlock()

	event := BusEvent{Topic: topic, Payload: payload}
	for _, handler := range handlers {
		go func(h EventHandler) {
			if err := h(ctx, event); err != nil {
				select {
				case eb.errorChan <- fmt.Errorf("handler for %s: %w", topic, err):
				default:
					logger.Error("Event handler error (channel full)",
						zap.String("topic", topic), zap.Error(err))
				}
			}
		}(handler)
	}
}

// Start begins logging handler errors until ctx is cancelled.
func (eb *EventBus) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case err := <-eb.errorChan:
				logger.Error("Event handler error", zap.Error(err))
			case <-ctx.Done():
				return
			}
		}
	}()
}
