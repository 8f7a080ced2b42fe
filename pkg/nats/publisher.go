package nats

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/pviana/store-manager/pkg/messaging"
)

// NatsPublisher publishes domain events to JetStream.
type NatsPublisher struct {
	js jetstream.JetStream
}

var _ messaging.Publisher = (*NatsPublisher)(nil)

func NewNatsPublisher(js jetstream.JetStream) *NatsPublisher {
	return &NatsPublisher{js: js}
}

// Publish serializes the event and publishes it on the event's subject,
// waiting for the stream acknowledgement.
func (p *NatsPublisher) Publish(ctx context.Context, event messaging.Event) error {
	data, err := event.Payload()
	if err != nil {
		return fmt.Errorf("failed to serialize event for %q: %w", event.Subject(), err)
	}
	if _, err := p.js.Publish(ctx, event.Subject(), data); err != nil {
		return fmt.Errorf("failed to publish to %q: %w", event.Subject(), err)
	}
	return nil
}
