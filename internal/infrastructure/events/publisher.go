// Package events publishes routing events (a conversion attempt's outcome)
// to AWS EventBridge, and fans them out, successful and failed alike, to
// connected WebSocket clients.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"

	"convroute/internal/domain/event"
)

// Publisher delivers routing events to whatever is listening downstream.
type Publisher interface {
	Publish(ctx context.Context, events []event.RoutingEvent) error
}

// EventBridgePublisher implements Publisher over AWS EventBridge.
type EventBridgePublisher struct {
	client    *eventbridge.Client
	eventBus  string
	source    string
	batchSize int
}

// NewEventBridgePublisher returns a Publisher backed by client. eventBus
// defaults to "default" and source to "convroute" when empty.
func NewEventBridgePublisher(client *eventbridge.Client, eventBus, source string) Publisher {
	if eventBus == "" {
		eventBus = "default"
	}
	if source == "" {
		source = "convroute"
	}
	return &EventBridgePublisher{
		client:    client,
		eventBus:  eventBus,
		source:    source,
		batchSize: 10, // EventBridge's PutEvents limit
	}
}

func (p *EventBridgePublisher) Publish(ctx context.Context, evts []event.RoutingEvent) error {
	if len(evts) == 0 {
		return nil
	}
	for i := 0; i < len(evts); i += p.batchSize {
		end := i + p.batchSize
		if end > len(evts) {
			end = len(evts)
		}
		if err := p.publishBatch(ctx, evts[i:end]); err != nil {
			return fmt.Errorf("publish event batch: %w", err)
		}
	}
	return nil
}

func (p *EventBridgePublisher) publishBatch(ctx context.Context, evts []event.RoutingEvent) error {
	entries := make([]types.PutEventsRequestEntry, 0, len(evts))
	for _, e := range evts {
		entry, err := p.createEventEntry(e)
		if err != nil {
			return fmt.Errorf("create event entry: %w", err)
		}
		entries = append(entries, entry)
	}

	output, err := p.client.PutEvents(ctx, &eventbridge.PutEventsInput{Entries: entries})
	if err != nil {
		return fmt.Errorf("put events: %w", err)
	}
	if output.FailedEntryCount > 0 {
		return fmt.Errorf("%d events failed to publish", output.FailedEntryCount)
	}
	return nil
}

func (p *EventBridgePublisher) createEventEntry(e event.RoutingEvent) (types.PutEventsRequestEntry, error) {
	detail, err := json.Marshal(e)
	if err != nil {
		return types.PutEventsRequestEntry{}, fmt.Errorf("marshal event: %w", err)
	}
	return types.PutEventsRequestEntry{
		EventBusName: aws.String(p.eventBus),
		Source:       aws.String(p.source),
		DetailType:   aws.String(e.EventType()),
		Detail:       aws.String(string(detail)),
		Time:         aws.Time(time.Now()),
		Resources:    []string{e.AggregateID()},
	}, nil
}

// AsyncPublisher wraps a Publisher to decouple the caller from publish
// latency: events are queued and flushed by a background worker in batches
// of up to 10 or every 100ms, whichever comes first.
type AsyncPublisher struct {
	publisher Publisher
	queue     chan event.RoutingEvent
	done      chan struct{}
}

// NewAsyncPublisher starts the background worker and returns the wrapper.
// queueSize defaults to 1000 when non-positive.
func NewAsyncPublisher(publisher Publisher, queueSize int) *AsyncPublisher {
	if queueSize <= 0 {
		queueSize = 1000
	}
	p := &AsyncPublisher{
		publisher: publisher,
		queue:     make(chan event.RoutingEvent, queueSize),
		done:      make(chan struct{}),
	}
	go p.worker()
	return p
}

func (p *AsyncPublisher) Publish(ctx context.Context, evts []event.RoutingEvent) error {
	for _, e := range evts {
		select {
		case p.queue <- e:
		case <-ctx.Done():
			return ctx.Err()
		default:
			return fmt.Errorf("event queue is full")
		}
	}
	return nil
}

func (p *AsyncPublisher) worker() {
	batch := make([]event.RoutingEvent, 0, 10)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		p.publisher.Publish(ctx, batch)
		cancel()
		batch = batch[:0]
	}

	for {
		select {
		case e := <-p.queue:
			batch = append(batch, e)
			if len(batch) >= 10 {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-p.done:
			for {
				select {
				case e := <-p.queue:
					batch = append(batch, e)
					if len(batch) >= 10 {
						flush()
					}
				default:
					flush()
					return
				}
			}
		}
	}
}

// Close stops the background worker after flushing whatever is queued.
func (p *AsyncPublisher) Close() {
	close(p.done)
}

// NoOpPublisher discards every event. Used when no event bus is configured.
type NoOpPublisher struct{}

func (NoOpPublisher) Publish(context.Context, []event.RoutingEvent) error { return nil }
