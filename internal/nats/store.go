package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/mark3labs/promptgen/internal/logger"
)

const streamName = "promptgen_renders"

// RenderEvent records one successful render served over NATS.
type RenderEvent struct {
	Set       string            `json:"set"`
	Fields    map[string]string `json:"fields"`
	Messages  int               `json:"messages"`
	Timestamp time.Time         `json:"timestamp"`
	Sequence  uint64            `json:"-"`
}

// EventSubject returns the subject render events are published on.
// Example: "promptgen.events.rendered"
func EventSubject(prefix string) string {
	return prefix + ".events.rendered"
}

// SetupStream creates or updates the JetStream stream holding render events
// for prefix, with 30-day retention.
func SetupStream(ctx context.Context, js jetstream.JetStream, prefix string) (jetstream.Stream, error) {
	return js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     streamName,
		Subjects: []string{prefix + ".events.>"},
		Storage:  jetstream.FileStorage,
		MaxAge:   30 * 24 * time.Hour, // 30 day retention
	})
}

// EventLog appends render events to JetStream.
type EventLog struct {
	js      jetstream.JetStream
	subject string
}

// NewEventLog ensures the render stream exists and returns a log that
// publishes to it.
func NewEventLog(ctx context.Context, js jetstream.JetStream, prefix string) (*EventLog, error) {
	if _, err := SetupStream(ctx, js, prefix); err != nil {
		return nil, fmt.Errorf("failed to setup render stream: %w", err)
	}
	return &EventLog{js: js, subject: EventSubject(prefix)}, nil
}

// Record publishes event, stamping the time when unset.
func (l *EventLog) Record(ctx context.Context, event RenderEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal render event: %w", err)
	}

	ack, err := l.js.Publish(ctx, l.subject, data)
	if err != nil {
		logger.Error("Failed to publish render event to %s: %v", l.subject, err)
		return fmt.Errorf("failed to publish render event: %w", err)
	}
	logger.Debug("Render event recorded: set=%s seq=%d", event.Set, ack.Sequence)
	return nil
}

// History returns up to limit of the most recent render events, oldest
// first. A limit of zero or less returns every event.
func History(ctx context.Context, js jetstream.JetStream, limit int) ([]RenderEvent, error) {
	stream, err := js.Stream(ctx, streamName)
	if err != nil {
		return nil, fmt.Errorf("failed to open render stream: %w", err)
	}
	info, err := stream.Info(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read render stream info: %w", err)
	}
	if info.State.Msgs == 0 {
		return []RenderEvent{}, nil
	}

	cfg := jetstream.OrderedConsumerConfig{DeliverPolicy: jetstream.DeliverAllPolicy}
	if limit > 0 && info.State.Msgs > uint64(limit) {
		cfg.DeliverPolicy = jetstream.DeliverByStartSequencePolicy
		cfg.OptStartSeq = info.State.LastSeq - uint64(limit) + 1
	}

	consumer, err := stream.OrderedConsumer(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer: %w", err)
	}

	const batchSize = 1000
	events := make([]RenderEvent, 0)
	for {
		msgs, err := consumer.FetchNoWait(batchSize)
		if err != nil {
			break
		}

		msgCount := 0
		for msg := range msgs.Messages() {
			msgCount++
			var event RenderEvent
			if err := json.Unmarshal(msg.Data(), &event); err != nil {
				logger.Warn("Skipping malformed render event: %v", err)
				continue
			}
			if meta, err := msg.Metadata(); err == nil {
				event.Sequence = meta.Sequence.Stream
			}
			events = append(events, event)
		}

		if msgCount < batchSize {
			break
		}
	}

	if limit > 0 && len(events) > limit {
		events = events[len(events)-limit:]
	}
	return events, nil
}
