// Package natsutil publishes the engine's CloudEvents to NATS JetStream.
package natsutil

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/carverauto/internalize/pkg/models"
)

const (
	eventSource = "internalize/engine"

	deviceEventType  = "com.carverauto.internalize.device.internalized"
	deviceSubject    = "events.device.internalized"
	summaryEventType = "com.carverauto.internalize.walk.completed"
	summarySubject   = "events.device.walk"
)

// EventPublisher publishes CloudEvents to a JetStream stream. It
// implements the engine's Reporter interface.
type EventPublisher struct {
	js       jetstream.JetStream
	stream   string
	hostname string
}

// NewEventPublisher creates a new EventPublisher for the specified stream.
// hostname, if non-empty, is stamped on every event payload.
func NewEventPublisher(js jetstream.JetStream, streamName, hostname string) *EventPublisher {
	return &EventPublisher{
		js:       js,
		stream:   streamName,
		hostname: hostname,
	}
}

// DeviceInternalized publishes one event per storage device the engine
// processed.
func (p *EventPublisher) DeviceInternalized(ctx context.Context, data models.DeviceInternalizedData) error {
	data.Host = p.hostname

	return p.publish(ctx, newCloudEvent(deviceEventType, deviceSubject, data.Timestamp, data))
}

// WalkCompleted publishes the per-walk summary event.
func (p *EventPublisher) WalkCompleted(ctx context.Context, data models.WalkSummaryData) error {
	data.Host = p.hostname

	return p.publish(ctx, newCloudEvent(summaryEventType, summarySubject, data.Timestamp, data))
}

func (p *EventPublisher) publish(ctx context.Context, event models.CloudEvent) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", event.Type, err)
	}

	if _, err := p.js.Publish(ctx, event.Subject, eventBytes); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.Type, err)
	}

	return nil
}

func newCloudEvent(eventType, subject string, ts time.Time, data interface{}) models.CloudEvent {
	return models.CloudEvent{
		SpecVersion:     "1.0",
		ID:              uuid.New().String(),
		Source:          eventSource,
		Type:            eventType,
		DataContentType: "application/json",
		Subject:         subject,
		Time:            &ts,
		Data:            data,
	}
}

// ConnectWithEventPublisher connects to NATS, ensures the stream
// exists and returns a publisher bound to it. The caller owns the
// returned connection.
func ConnectWithEventPublisher(ctx context.Context, natsCfg *models.NATSConfig, events *models.EventsConfig, hostname string, opts ...nats.Option) (*EventPublisher, *nats.Conn, error) {
	nc, err := nats.Connect(natsCfg.URL, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	var js jetstream.JetStream

	if natsCfg.Domain != "" {
		js, err = jetstream.NewWithDomain(nc, natsCfg.Domain)
	} else {
		js, err = jetstream.New(nc)
	}

	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	// Ensure the stream exists before publishing into it.
	if _, err := js.Stream(ctx, events.StreamName); err != nil {
		streamConfig := jetstream.StreamConfig{
			Name:     events.StreamName,
			Subjects: events.Subjects,
		}

		if _, err := js.CreateOrUpdateStream(ctx, streamConfig); err != nil {
			nc.Close()
			return nil, nil, fmt.Errorf("failed to create or get stream %s: %w", events.StreamName, err)
		}
	}

	return NewEventPublisher(js, events.StreamName, hostname), nc, nil
}
