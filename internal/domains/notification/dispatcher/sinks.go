package dispatcher

import (
	"context"
	"fmt"

	"sarana/config"
	"sarana/infras/kafka"
	"sarana/infras/websocket"
	"sarana/internal/domains/notification/model"
)

const (
	headerEventKind = "event_kind"
	headerRecipient = "recipient_user_id"
)

// NewSinks wires the configured sinks. The topic sink is skipped when no brokers are set.
func NewSinks(cfg *config.Config, client kafka.Client, hub websocket.Hub) []Sink {
	sinks := []Sink{NewHubSink(hub)}

	if len(cfg.Kafka.Brokers) > 0 {
		sinks = append(sinks, NewKafkaSink(client, cfg))
	}

	return sinks
}

type kafkaSink struct {
	client kafka.Client
	topic  string
}

// NewKafkaSink publishes events keyed by booking request so one request stays on one partition.
func NewKafkaSink(client kafka.Client, cfg *config.Config) Sink {
	return &kafkaSink{client: client, topic: cfg.Kafka.Topics.Notification}
}

func (s *kafkaSink) Name() string {
	return "kafka"
}

func (s *kafkaSink) Deliver(ctx context.Context, event model.Event) error {
	err := s.client.SendMessages(ctx, s.topic, kafka.Message{
		Key:   event.BookingRequestID,
		Value: event,
		Headers: map[string]string{
			headerEventKind: string(event.Kind),
			headerRecipient: event.RecipientUserID,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to publish notification %s: %w", event.ID, err)
	}

	return nil
}

type hubSink struct {
	hub websocket.Hub
}

// NewHubSink pushes events to the recipient's open sockets. Offline recipients read their inbox later.
func NewHubSink(hub websocket.Hub) Sink {
	return &hubSink{hub: hub}
}

func (s *hubSink) Name() string {
	return "websocket"
}

func (s *hubSink) Deliver(_ context.Context, event model.Event) error {
	s.hub.SendToUser(event.RecipientUserID, event)

	return nil
}
