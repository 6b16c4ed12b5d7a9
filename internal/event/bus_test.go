package event

import (
	"context"
	"sync"
	"testing"

	"github.com/msptoolkit/netscout/pkg/plugin"
	"go.uber.org/zap"
)

func TestPublishDispatchesToTopicHandlers(t *testing.T) {
	bus := NewBus(zap.NewNop())

	var got []string
	bus.Subscribe("scan.started", func(_ context.Context, e plugin.Event) {
		got = append(got, e.Topic)
	})
	bus.Subscribe("scan.completed", func(_ context.Context, e plugin.Event) {
		got = append(got, e.Topic)
	})

	_ = bus.Publish(context.Background(), plugin.Event{Topic: "scan.started"})

	if len(got) != 1 || got[0] != "scan.started" {
		t.Fatalf("got %v, want [scan.started]", got)
	}
}

func TestSubscribeAllReceivesEveryTopic(t *testing.T) {
	bus := NewBus(zap.NewNop())

	var count int
	bus.SubscribeAll(func(_ context.Context, _ plugin.Event) { count++ })

	_ = bus.Publish(context.Background(), plugin.Event{Topic: "a"})
	_ = bus.Publish(context.Background(), plugin.Event{Topic: "b"})

	if count != 2 {
		t.Errorf("wildcard handler called %d times, want 2", count)
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	bus := NewBus(zap.NewNop())

	var count int
	unsub := bus.Subscribe("x", func(_ context.Context, _ plugin.Event) { count++ })

	_ = bus.Publish(context.Background(), plugin.Event{Topic: "x"})
	unsub()
	_ = bus.Publish(context.Background(), plugin.Event{Topic: "x"})

	if count != 1 {
		t.Errorf("handler called %d times after unsubscribe, want 1", count)
	}
}

func TestPanickingHandlerDoesNotPoisonBus(t *testing.T) {
	bus := NewBus(zap.NewNop())

	bus.Subscribe("x", func(_ context.Context, _ plugin.Event) { panic("boom") })

	var called bool
	bus.Subscribe("x", func(_ context.Context, _ plugin.Event) { called = true })

	_ = bus.Publish(context.Background(), plugin.Event{Topic: "x"})

	if !called {
		t.Error("second handler not called after first panicked")
	}
}

func TestPublishAsyncDelivers(t *testing.T) {
	bus := NewBus(zap.NewNop())

	var wg sync.WaitGroup
	wg.Add(1)
	bus.Subscribe("x", func(_ context.Context, _ plugin.Event) { wg.Done() })

	bus.PublishAsync(context.Background(), plugin.Event{Topic: "x"})
	wg.Wait()
}
