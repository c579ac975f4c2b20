package kafka

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/flood-planner/internal/config"
	"github.com/couchcryptid/flood-planner/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces plan events to a Kafka topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch serializes and publishes multiple plan events to the sink topic
// in a single WriteMessages call.
func (w *Writer) LoadBatch(ctx context.Context, events []domain.PlanEvent) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(events))
	for i := range events {
		msg, err := serializeToMessage(events[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return err
	}
	w.logger.Debug("plans published", "count", len(msgs), "topic", w.writer.Topic)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a PlanEvent into a Kafka message.
func serializeToMessage(event domain.PlanEvent) (kafkago.Message, error) {
	out, err := domain.SerializePlanEvent(event)
	if err != nil {
		return kafkago.Message{}, err
	}
	return kafkago.Message{
		Key:   out.Key,
		Value: out.Value,
		Headers: []kafkago.Header{
			{Key: "outcome", Value: []byte(out.Headers["outcome"])},
			{Key: "planned_at", Value: []byte(out.Headers["planned_at"])},
		},
	}, nil
}
