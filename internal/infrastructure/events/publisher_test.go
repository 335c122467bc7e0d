package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"convroute/internal/domain/event"
)

type fakePublisher struct {
	mu    sync.Mutex
	calls [][]event.RoutingEvent
}

func (f *fakePublisher) Publish(ctx context.Context, evts []event.RoutingEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	batch := make([]event.RoutingEvent, len(evts))
	copy(batch, evts)
	f.calls = append(f.calls, batch)
	return nil
}

func (f *fakePublisher) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, batch := range f.calls {
		n += len(batch)
	}
	return n
}

func TestAsyncPublisherFlushesOnTicker(t *testing.T) {
	fake := &fakePublisher{}
	p := NewAsyncPublisher(fake, 100)
	defer p.Close()

	require.NoError(t, p.Publish(context.Background(), []event.RoutingEvent{
		{ID: "1", Type: event.TypeRoutingSucceeded},
	}))

	require.Eventually(t, func() bool { return fake.total() == 1 }, time.Second, 10*time.Millisecond)
}

func TestAsyncPublisherFlushesOnBatchSize(t *testing.T) {
	fake := &fakePublisher{}
	p := NewAsyncPublisher(fake, 100)
	defer p.Close()

	evts := make([]event.RoutingEvent, 10)
	for i := range evts {
		evts[i] = event.RoutingEvent{ID: string(rune('a' + i)), Type: event.TypeRoutingSucceeded}
	}
	require.NoError(t, p.Publish(context.Background(), evts))

	require.Eventually(t, func() bool { return fake.total() == 10 }, time.Second, 10*time.Millisecond)
}

func TestNoOpPublisherDiscards(t *testing.T) {
	var p Publisher = NoOpPublisher{}
	assert.NoError(t, p.Publish(context.Background(), []event.RoutingEvent{{ID: "1"}}))
}
