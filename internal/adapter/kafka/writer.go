package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/market-scout/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Record types carried in the record_type header.
const (
	RecordTypeState   = "state"
	RecordTypeAmenity = "amenity"
)

// Writer publishes transformed records to a Kafka topic.
// It implements pipeline.StatePublisher and pipeline.AmenityPublisher.
type Writer struct {
	writer *kafkago.Writer
	runID  string
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for topic. Every message carries runID
// in its headers.
func NewWriter(brokers []string, topic, runID string, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, runID: runID, logger: logger}
}

// Topic returns the destination topic.
func (w *Writer) Topic() string {
	return w.writer.Topic
}

// PublishStates writes one message per state, keyed by state name.
func (w *Writer) PublishStates(ctx context.Context, records []domain.StateRecord) error {
	msgs := make([]kafkago.Message, 0, len(records))
	for i := range records {
		msg, err := serializeToMessage(records[i].Name, RecordTypeState, w.runID, records[i])
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	return w.write(ctx, msgs)
}

// PublishAmenities writes one message per point, keyed by OSM element id.
func (w *Writer) PublishAmenities(ctx context.Context, points []domain.AmenityPoint) error {
	msgs := make([]kafkago.Message, 0, len(points))
	for i := range points {
		msg, err := serializeToMessage(points[i].ID, RecordTypeAmenity, w.runID, points[i])
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	return w.write(ctx, msgs)
}

func (w *Writer) write(ctx context.Context, msgs []kafkago.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d messages to %s: %w", len(msgs), w.writer.Topic, err)
	}
	w.logger.Info("records published", "topic", w.writer.Topic, "count", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a record into a Kafka message.
func serializeToMessage(key, recordType, runID string, v any) (kafkago.Message, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize %s record: %w", recordType, err)
	}
	return kafkago.Message{
		Key:   []byte(key),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "record_type", Value: []byte(recordType)},
			{Key: "run_id", Value: []byte(runID)},
			{Key: "produced_at", Value: []byte(domain.Now().Format(time.RFC3339))},
		},
	}, nil
}
