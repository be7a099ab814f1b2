package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// EventPublisher pushes envelope events onto the platform stream. Publishing
// is best-effort from the caller's point of view: services log failures but
// never roll back domain writes over a lost event.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// WatermillPublisher publishes through a watermill pub/sub. The in-process
// gochannel transport keeps the messaging path real without requiring a
// broker next to the service.
type WatermillPublisher struct {
	publisher message.Publisher
	pubSub    *gochannel.GoChannel
	logger    *slog.Logger
}

// NewWatermillPublisher builds a gochannel-backed publisher.
func NewWatermillPublisher(logger *slog.Logger) *WatermillPublisher {
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 256},
		watermill.NewSlogLogger(logger),
	)
	return &WatermillPublisher{
		publisher: pubSub,
		pubSub:    pubSub,
		logger:    logger,
	}
}

func (p *WatermillPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event.Type, err)
	}

	msg := message.NewMessage(event.ID, payload)
	msg.SetContext(ctx)
	msg.Metadata.Set("type", event.Type)
	msg.Metadata.Set("source", event.Source)

	if err := p.publisher.Publish(Topic, msg); err != nil {
		return fmt.Errorf("publish event %s: %w", event.Type, err)
	}

	p.logger.DebugContext(ctx, "event published",
		"event_id", event.ID,
		"event_type", event.Type)
	return nil
}

// Subscribe hands back the raw message stream for consumers (notification
// workers, projections). Callers own acking.
func (p *WatermillPublisher) Subscribe(ctx context.Context) (<-chan *message.Message, error) {
	return p.pubSub.Subscribe(ctx, Topic)
}

func (p *WatermillPublisher) Close() error {
	return p.pubSub.Close()
}

// MockEventPublisher records events for tests.
type MockEventPublisher struct {
	mu     sync.Mutex
	events []Event
	logger *slog.Logger
}

func NewMockEventPublisher(logger *slog.Logger) *MockEventPublisher {
	return &MockEventPublisher{logger: logger}
}

func (m *MockEventPublisher) Publish(ctx context.Context, event Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockEventPublisher) Close() error { return nil }

// GetPublishedEvents returns a copy of everything published so far.
func (m *MockEventPublisher) GetPublishedEvents() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}

// ClearEvents resets the recorded events between test cases.
func (m *MockEventPublisher) ClearEvents() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = nil
}
