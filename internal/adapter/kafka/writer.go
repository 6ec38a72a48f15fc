package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/impact-yield-explorer/internal/config"
	"github.com/couchcryptid/impact-yield-explorer/internal/query"
)

// Writer publishes key snapshots to a Kafka topic.
// It implements pipeline.SnapshotPublisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured snapshot topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaSnapshotTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishSnapshots writes one message per key in a single WriteMessages call.
// Messages are keyed by the snapshot key so a compacted topic keeps the latest.
func (w *Writer) PublishSnapshots(ctx context.Context, snapshots []query.KeySnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(snapshots))
	for i := range snapshots {
		msg, err := serializeToMessage(snapshots[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write snapshots: %w", err)
	}
	w.logger.Debug("snapshots published", "topic", w.writer.Topic, "count", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a KeySnapshot into a Kafka message.
func serializeToMessage(snapshot query.KeySnapshot) (kafkago.Message, error) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize snapshot: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(snapshot.Key),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "built_at", Value: []byte(snapshot.BuiltAt.Format(time.RFC3339))},
		},
	}, nil
}
