package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/pos-import-service/internal/config"
	"github.com/couchcryptid/pos-import-service/internal/domain"
)

// EventTypeImported is the event_type header of import events.
const EventTypeImported = "pos.imported"

// Publisher produces import events to a Kafka topic.
// It implements importer.EventPublisher.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
	}
	return &Publisher{writer: w, logger: logger}
}

// PublishImported writes one event for a saved point of sale, keyed by its ID.
func (p *Publisher) PublishImported(ctx context.Context, pos domain.PointOfSale) error {
	msg, err := serializeToMessage(pos)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write import event: %w", err)
	}
	p.logger.Debug("import event published", "pos_id", pos.ID, "topic", p.writer.Topic)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a PointOfSale into a Kafka message.
func serializeToMessage(pos domain.PointOfSale) (kafkago.Message, error) {
	data, err := json.Marshal(pos)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize point of sale: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(pos.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(EventTypeImported)},
			{Key: "source", Value: []byte("osm")},
			{Key: "imported_at", Value: []byte(pos.CreatedAt.Format(time.RFC3339))},
		},
	}, nil
}
