// Package invalidation shares cache invalidations between console processes
// over a Kafka topic, so a write made in one terminal refreshes the others.
package invalidation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/md-rashed-zaman/bookingdesk/libs/kafkax"
	"github.com/md-rashed-zaman/bookingdesk/services/console/internal/query"
)

const (
	EventType    = "console.query.invalidated"
	DefaultTopic = "console.query.invalidated.v1"
)

type Event struct {
	Keys []query.Key `json:"keys"`
	At   time.Time   `json:"at"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Invalidator applies received invalidations. *query.Client satisfies it.
type Invalidator interface {
	InvalidateLocal(ctx context.Context, keys ...query.Key) error
}

type Config struct {
	Brokers []string
	Topic   string
	// Source identifies this process; its own messages are skipped on read.
	Source string
}

type Bus struct {
	logger *slog.Logger
	topic  string
	source string
	writer messageWriter
	reader func() messageReader
}

func NewKafkaBus(logger *slog.Logger, cfg Config) (*Bus, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka brokers are required")
	}
	if cfg.Topic == "" {
		cfg.Topic = DefaultTopic
	}
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.Topic,
		Balancer: &kafka.Hash{},
	})
	// No consumer group: every console must see every invalidation.
	reader := func() messageReader {
		return kafka.NewReader(kafka.ReaderConfig{
			Brokers:     cfg.Brokers,
			Topic:       cfg.Topic,
			MinBytes:    1,
			MaxBytes:    10e6,
			StartOffset: kafka.LastOffset,
		})
	}
	return newBus(logger, cfg, writer, reader), nil
}

func newBus(logger *slog.Logger, cfg Config, w messageWriter, r func() messageReader) *Bus {
	if cfg.Topic == "" {
		cfg.Topic = DefaultTopic
	}
	if cfg.Source == "" {
		cfg.Source = uuid.NewString()
	}
	return &Bus{logger: logger, topic: cfg.Topic, source: cfg.Source, writer: w, reader: r}
}

func (b *Bus) Source() string { return b.source }

// Publish implements query.Notifier.
func (b *Bus) Publish(ctx context.Context, keys []query.Key) error {
	if len(keys) == 0 {
		return nil
	}
	payload, err := json.Marshal(Event{Keys: keys, At: time.Now().UTC()})
	if err != nil {
		return err
	}
	msg := kafkax.NewMessage(ctx, keys[0].String(), kafkax.EventMeta{EventType: EventType, Source: b.source}, payload)
	if err := b.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish invalidation: %w", err)
	}
	return nil
}

// Run applies invalidations published by other processes until ctx ends.
func (b *Bus) Run(ctx context.Context, target Invalidator) {
	reader := b.reader()
	defer reader.Close()

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			b.logger.Error("kafka read error", "err", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}
		b.handle(ctx, msg, target)
	}
}

func (b *Bus) handle(ctx context.Context, msg kafka.Message, target Invalidator) {
	meta := kafkax.ExtractEventMeta(msg)
	if meta.Source == b.source || meta.EventType != EventType {
		return
	}

	ctxMsg := kafkax.ExtractTraceContext(ctx, msg)
	ctxSpan, span := otel.Tracer("kafka").Start(ctxMsg, "kafka.consume",
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", b.topic),
		),
	)
	defer span.End()

	var ev Event
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		b.logger.Warn("invalid invalidation event", "event_id", meta.EventID, "err", err)
		span.RecordError(err)
		return
	}
	if err := target.InvalidateLocal(ctxSpan, ev.Keys...); err != nil {
		b.logger.Error("apply invalidation failed", "event_id", meta.EventID, "err", err)
		span.RecordError(err)
		return
	}
	b.logger.Debug("invalidation applied", "event_id", meta.EventID, "source", meta.Source, "keys", len(ev.Keys))
}

func (b *Bus) Close() error { return b.writer.Close() }
