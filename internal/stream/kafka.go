// Package stream publishes geofence events to Kafka for downstream
// consumers (trip timelines, companion apps, analytics).
package stream

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/parkpilot/location-core/internal/model"
)

// KafkaPublisher writes one JSON message per geofence event, keyed by
// user id so a consumer partition sees a user's events in order
type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher creates a publisher for the given brokers and topic
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

// Publish sends one geofence event
func (p *KafkaPublisher) Publish(ctx context.Context, event model.GeofenceEvent) error {
	msg, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal geofence event: %w", err)
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.User.ID),
		Value: msg,
	}); err != nil {
		return fmt.Errorf("write geofence event: %w", err)
	}

	return nil
}

// Close flushes and closes the underlying writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
