package worker

import (
	"context"
	"fmt"

	"nutrilog/internal/amqp"
	"nutrilog/internal/log"
	"nutrilog/internal/sheets"
)

// JournalWorker copies entry events into the journal sheet.
type JournalWorker struct {
	journal sheets.JournalWriter
	logger  *log.Logger
}

func NewJournalWorker(journal sheets.JournalWriter, logger *log.Logger) *JournalWorker {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &JournalWorker{
		journal: journal,
		logger:  logger.WithComponent(log.ComponentWorker),
	}
}

// HandleEntryEvent appends one journal row for msg. A returned error makes
// the consumer requeue the delivery.
func (w *JournalWorker) HandleEntryEvent(ctx context.Context, msg *amqp.EntryEventMessage) error {
	fields := log.NewFields().
		WithPrincipal(msg.PrincipalID).
		WithEntry(msg.Kind, msg.EntryID, msg.Date)
	w.logger.DebugContext(ctx, "Processing entry event", append(fields.ToSlice(), log.FieldEvent, msg.Event)...)

	ref, err := w.journal.Append(ctx, RowFromMessage(msg))
	if err != nil {
		w.logger.ErrorContext(ctx, "Failed to append journal row",
			append(fields.WithError(err).ToSlice(), log.FieldEvent, msg.Event)...)
		return fmt.Errorf("append journal row: %w", err)
	}

	w.logger.InfoContext(ctx, "Journaled entry event",
		append(fields.ToSlice(), log.FieldEvent, msg.Event, "row_ref", ref)...)
	return nil
}

// RowFromMessage maps an entry event onto the journal layout.
func RowFromMessage(msg *amqp.EntryEventMessage) sheets.JournalRow {
	return sheets.JournalRow{
		Timestamp:   msg.Timestamp,
		Event:       msg.Event,
		PrincipalID: msg.PrincipalID,
		Kind:        msg.Kind,
		EntryID:     msg.EntryID,
		Date:        msg.Date,
		Name:        msg.Name,
		Calories:    msg.Calories,
		Protein:     msg.Protein,
		Fat:         msg.Fat,
		Carbs:       msg.Carbs,
		KcalBurned:  msg.KcalBurned,
	}
}
