// Package kafka implements the eventstream Publisher on Apache Kafka.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/pressroom-tools/redlist/pkg/eventstream"
)

// DefaultTopic is the topic watchlist events are published to.
const DefaultTopic = "redlist.watchlist"

// Publisher publishes watchlist events to a Kafka topic.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// Config holds configuration for the Kafka publisher.
type Config struct {
	// Brokers is the list of bootstrap broker addresses.
	Brokers []string

	// Topic is the destination topic. Defaults to DefaultTopic if empty.
	Topic string
}

// NewPublisher creates a Kafka-backed eventstream publisher.
func NewPublisher(cfg Config, logger *slog.Logger) (*Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka: at least one broker is required")
	}

	topic := cfg.Topic
	if topic == "" {
		topic = DefaultTopic
	}

	writer := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.Brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		WriteTimeout: 10 * time.Second,
	}

	logger.Info("kafka eventstream enabled",
		"brokers", cfg.Brokers,
		"topic", topic,
	)

	return &Publisher{
		writer: writer,
		logger: logger,
	}, nil
}

// PublishWatchlistUpdate writes the event as a JSON message keyed by event
// type.
func (p *Publisher) PublishWatchlistUpdate(ctx context.Context, event *eventstream.WatchlistUpdatedEvent) error {
	if event == nil {
		return eventstream.ErrNilEvent
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka: marshaling event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(event.EventType),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("kafka: writing event: %w", err)
	}

	p.logger.Debug("watchlist event published",
		"event_id", event.EventID,
		"action", event.Action,
	)
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

var _ eventstream.Publisher = (*Publisher)(nil)
