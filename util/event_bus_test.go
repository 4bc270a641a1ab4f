// util/event_bus_test.go
package util

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	logger "github.com/zukapustikova/ai-governance-transparency-ledger/logging"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	os.Exit(m.Run())
}

func TestPublishReachesAllSubscribers(t *testing.T) {
	bus := NewEventBus()

	var mu sync.Mutex
	got := []string{}
	done := make(chan struct{}, 2)

	handler := func(name string) EventHandler {
		return func(ctx context.Context, e BusEvent) error {
			mu.Lock()
			got = append(got, name)
			mu.Unlock()
			done <- struct{}{}
			return nil
		}
	}
	bus.Subscribe(TopicConcernRaised, handler("a"))
	bus.Subscribe(TopicConcernRaised, handler("b"))

	bus.Publish(context.Background(), TopicConcernRaised, "payload")

	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("handler did not run")
		}
	}
	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{"a", "b"}, got)
}

func TestPublishUnknownTopicIsNoop(t *testing.T) {
	bus := NewEventBus()
	bus.Publish(context.Background(), "no.subscribers", nil)
}

func TestPublishCarriesTopicAndPayload(t *testing.T) {
	bus := NewEventBus()
	events := make(chan BusEvent, 1)

	bus.Subscribe(TopicEventAppended, func(ctx context.Context, e BusEvent) error {
		events <- e
		return nil
	})
	bus.Publish(context.Background(), TopicEventAppended, 42)

	select {
	case e := <-events:
		assert.Equal(t, TopicEventAppended, e.Topic)
		assert.Equal(t, 42, e.Payload)
	case <-time.After(time.Second):
		t.Fatal("handler did not run")
	}
}
