// Package kafka publishes generated readings to a Kafka topic for
// load-test fan-out. The sink is optional; the scheduler runs without it
// when no brokers are configured.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/asiligreen/solar-sim/internal/simulate"
)

// Writer produces reading messages to a Kafka topic.
// It implements scheduler.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured readings topic.
func NewWriter(brokers []string, topic string, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishReadings serializes and publishes one installation-day of readings
// in a single WriteMessages call.
func (w *Writer) PublishReadings(ctx context.Context, installationID uuid.UUID, readings []simulate.Reading) error {
	if len(readings) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(readings))
	for i := range readings {
		msg, err := serializeReading(installationID, readings[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

// Close flushes and closes the underlying producer.
func (w *Writer) Close() error {
	return w.writer.Close()
}

// readingMessage is the wire form of a published reading.
type readingMessage struct {
	InstallationID string  `json:"installation_id"`
	Timestamp      string  `json:"timestamp"`
	PowerKW        float64 `json:"power_kw"`
	Weather        string  `json:"weather"`
	SolarElevation float64 `json:"solar_elevation"`
	CellTempC      float64 `json:"cell_temp_c,omitempty"`
	SoilingDays    int     `json:"soiling_days,omitempty"`
}

// serializeReading marshals a reading into a Kafka message keyed by
// installation, so one installation's stream stays ordered per partition.
func serializeReading(installationID uuid.UUID, r simulate.Reading) (kafkago.Message, error) {
	msg := readingMessage{
		InstallationID: installationID.String(),
		Timestamp:      r.Timestamp.UTC().Format(time.RFC3339),
		PowerKW:        r.PowerKW,
		Weather:        string(r.Weather),
		SolarElevation: r.SolarElevation,
		CellTempC:      r.CellTempC,
		SoilingDays:    r.SoilingDays,
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize reading: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(installationID.String()),
		Value: data,
		Time:  r.Timestamp,
		Headers: []kafkago.Header{
			{Key: "weather", Value: []byte(r.Weather)},
			{Key: "timestamp", Value: []byte(r.Timestamp.UTC().Format(time.RFC3339))},
		},
	}, nil
}
