// Package kafka publishes validated vehicle events for downstream
// consumers (dashboards, archival). Publishing is optional; the pipeline
// runs unchanged without a writer.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/junctionworks/traffic-survey-service/internal/config"
	"github.com/junctionworks/traffic-survey-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces vehicle events to a Kafka topic.
// It implements pipeline.EventPublisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishEvents serializes and publishes the validated events of one
// survey file in a single WriteMessages call for efficiency.
func (w *Writer) PublishEvents(ctx context.Context, events []domain.VehicleEvent) error {
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
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a VehicleEvent into a Kafka message. The
// junction name keys the message so one junction's events stay ordered
// within a partition.
func serializeToMessage(event domain.VehicleEvent) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize vehicle event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.JunctionName),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "vehicle_type", Value: []byte(event.VehicleType)},
			{Key: "hour", Value: []byte(event.Hour)},
		},
	}, nil
}
