// Package events fans tracker notifications out to logs and the broker.
package events

import (
	"context"

	"nutrilog/internal/amqp"
	"nutrilog/internal/log"
	"nutrilog/internal/records"
)

// Field keys carried by tracker events.
const (
	KeyPrincipalID = log.FieldPrincipalID
	KeyUsername    = log.FieldUsername
	KeyEntryKind   = log.FieldEntryKind
	KeyEntryID     = log.FieldEntryID
	KeyDate        = log.FieldDate
	KeyName        = "name"
	KeyCalories    = "calories"
	KeyProtein     = "protein"
	KeyFat         = "fat"
	KeyCarbs       = "carbs"
	KeyKcalBurned  = "kcal_burned"
	KeyFields      = "fields"
	KeyReason      = "reason"
)

// Multi delivers every event to each sink in order.
type Multi []records.EventSink

func (m Multi) Emit(ctx context.Context, name string, fields map[string]any) {
	for _, s := range m {
		s.Emit(ctx, name, fields)
	}
}

// Discard drops every event.
type Discard struct{}

func (Discard) Emit(context.Context, string, map[string]any) {}

// LogSink writes events through the structured logger.
type LogSink struct {
	logger *log.StructuredLogger
}

func NewLogSink(logger *log.Logger) *LogSink {
	return &LogSink{logger: log.NewStructuredLogger(logger.WithComponent(log.ComponentTracker))}
}

func (s *LogSink) Emit(ctx context.Context, name string, fields map[string]any) {
	s.logger.LogEvent(ctx, name, log.NewFields().Merge(fields))
}

// Publisher is the subset of the AMQP client the sink needs.
type Publisher interface {
	PublishEntryEvent(ctx context.Context, msg *amqp.EntryEventMessage) error
}

// AMQPSink publishes committed entry changes. Events without an entry id
// (logins, validation failures) are ignored. Publish failures are logged and
// never reach the caller.
type AMQPSink struct {
	pub    Publisher
	logger *log.Logger
}

func NewAMQPSink(pub Publisher, logger *log.Logger) *AMQPSink {
	return &AMQPSink{pub: pub, logger: logger.WithComponent(log.ComponentAMQP)}
}

func (s *AMQPSink) Emit(ctx context.Context, name string, fields map[string]any) {
	msg, ok := MessageFromFields(name, fields)
	if !ok {
		return
	}
	if err := s.pub.PublishEntryEvent(context.WithoutCancel(ctx), msg); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish entry event",
			log.FieldEvent, name,
			log.FieldEntryID, msg.EntryID,
			log.FieldError, err.Error())
	}
}

// MessageFromFields builds a broker message from event fields. It reports
// false when the event does not describe a stored entry.
func MessageFromFields(name string, fields map[string]any) (*amqp.EntryEventMessage, bool) {
	kind, _ := fields[KeyEntryKind].(string)
	entryID := asInt64(fields[KeyEntryID])
	principalID := asInt64(fields[KeyPrincipalID])
	if kind == "" || entryID <= 0 || principalID <= 0 {
		return nil, false
	}
	msg := amqp.NewEntryEventMessage(name, kind, entryID, principalID)
	msg.Date, _ = fields[KeyDate].(string)
	msg.Name, _ = fields[KeyName].(string)
	msg.Calories = asInt64(fields[KeyCalories])
	msg.Protein = asInt64(fields[KeyProtein])
	msg.Fat = asInt64(fields[KeyFat])
	msg.Carbs = asInt64(fields[KeyCarbs])
	msg.KcalBurned = asInt64(fields[KeyKcalBurned])
	return msg, true
}

func asInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	default:
		return 0
	}
}
