package sheets

import (
	"context"
	"strconv"
	"time"
)

// JournalHeader names the journal columns, left to right.
var JournalHeader = []any{
	"Timestamp", "Event", "Principal", "Kind", "Entry", "Date",
	"Name", "Calories", "Protein", "Fat", "Carbs", "Kcal burned",
}

// JournalRow is one tracker event as recorded in the journal sheet.
type JournalRow struct {
	Timestamp   time.Time
	Event       string
	PrincipalID int64
	Kind        string
	EntryID     int64
	Date        string
	Name        string
	Calories    int64
	Protein     int64
	Fat         int64
	Carbs       int64
	KcalBurned  int64
}

// Values renders the row in JournalHeader order. Fitness rows leave the
// macro columns blank and food rows leave kcal burned blank.
func (r JournalRow) Values() []any {
	blank := func(v int64, show bool) any {
		if !show {
			return ""
		}
		return strconv.FormatInt(v, 10)
	}
	food := r.Kind == "food"
	return []any{
		r.Timestamp.UTC().Format(time.RFC3339),
		r.Event,
		strconv.FormatInt(r.PrincipalID, 10),
		r.Kind,
		strconv.FormatInt(r.EntryID, 10),
		r.Date,
		r.Name,
		blank(r.Calories, food),
		blank(r.Protein, food),
		blank(r.Fat, food),
		blank(r.Carbs, food),
		blank(r.KcalBurned, !food),
	}
}

// Ports for outbound adapters.
type (
	JournalWriter interface {
		Append(ctx context.Context, row JournalRow) (rowRef string, err error)
	}
)
