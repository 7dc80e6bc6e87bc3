package events

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"nutrilog/internal/amqp"
	"nutrilog/internal/log"
)

type fakePublisher struct {
	msgs []*amqp.EntryEventMessage
	err  error
}

func (f *fakePublisher) PublishEntryEvent(_ context.Context, msg *amqp.EntryEventMessage) error {
	f.msgs = append(f.msgs, msg)
	return f.err
}

func testLogger(buf *bytes.Buffer) *log.Logger {
	return log.New(log.Config{
		Component: "test",
		Handler:   slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}),
	})
}

func TestMessageFromFields(t *testing.T) {
	msg, ok := MessageFromFields("add_food_success", map[string]any{
		KeyPrincipalID: int64(3),
		KeyEntryKind:   "food",
		KeyEntryID:     int64(11),
		KeyDate:        "2023-10-15",
		KeyName:        "Apple",
		KeyCalories:    int64(95),
		KeyCarbs:       int64(25),
	})
	if !ok {
		t.Fatal("expected a message")
	}
	if msg.Event != "add_food_success" || msg.EntryID != 11 || msg.PrincipalID != 3 || msg.Calories != 95 || msg.Name != "Apple" {
		t.Fatalf("unexpected message %+v", msg)
	}

	if _, ok := MessageFromFields("login_success", map[string]any{KeyPrincipalID: int64(3)}); ok {
		t.Fatal("events without an entry should be skipped")
	}
}

func TestAMQPSinkSwallowsErrors(t *testing.T) {
	var buf bytes.Buffer
	pub := &fakePublisher{err: errors.New("broker down")}
	sink := NewAMQPSink(pub, testLogger(&buf))

	sink.Emit(context.Background(), "delete_fitness_success", map[string]any{
		KeyPrincipalID: int64(1),
		KeyEntryKind:   "fitness",
		KeyEntryID:     int64(2),
	})
	sink.Emit(context.Background(), "add_fitness_validation_failed", map[string]any{
		KeyPrincipalID: int64(1),
	})

	if len(pub.msgs) != 1 {
		t.Fatalf("published %d messages, want 1", len(pub.msgs))
	}
	if !strings.Contains(buf.String(), "broker down") {
		t.Fatalf("publish failure not logged: %s", buf.String())
	}
}

func TestLogSinkAndMulti(t *testing.T) {
	var buf bytes.Buffer
	pub := &fakePublisher{}
	sink := Multi{NewLogSink(testLogger(&buf)), NewAMQPSink(pub, testLogger(&buf)), Discard{}}

	sink.Emit(context.Background(), "add_food_validation_failed", map[string]any{
		KeyPrincipalID: int64(5),
		KeyFields:      "calories,fat",
	})

	out := buf.String()
	if !strings.Contains(out, "event=add_food_validation_failed") || !strings.Contains(out, "level=WARN") {
		t.Fatalf("unexpected log output: %s", out)
	}
	if !strings.Contains(out, "principal_id=5") {
		t.Fatalf("fields not logged: %s", out)
	}
	if len(pub.msgs) != 0 {
		t.Fatal("validation failures must not be published")
	}
}
