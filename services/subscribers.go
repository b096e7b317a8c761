package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/suportekambafy-lab/checkout-service/models"
)

// Subscriber is a downstream consumer of order completions (event bus,
// push-notification bridge, conversion tracking). Subscribers are best
// effort: a failing or unconfigured subscriber is logged by the caller and
// never escalated into an order-processing error.
type Subscriber interface {
	Name() string
	Notify(ctx context.Context, event models.OrderCompletedEvent) error
}

// EventPublisher is the producer shape both the Kafka writer and the SNS
// client satisfy.
type EventPublisher interface {
	Publish(ctx context.Context, message []byte) error
}

type publisherSubscriber struct {
	name      string
	publisher EventPublisher
}

// NewPublisherSubscriber adapts a raw message publisher into a Subscriber.
func NewPublisherSubscriber(name string, publisher EventPublisher) Subscriber {
	return &publisherSubscriber{name: name, publisher: publisher}
}

func (s *publisherSubscriber) Name() string { return s.name }

func (s *publisherSubscriber) Notify(ctx context.Context, event models.OrderCompletedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal order completed event: %w", err)
	}
	return s.publisher.Publish(ctx, data)
}
