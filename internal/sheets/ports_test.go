package sheets

import (
	"testing"
	"time"
)

func TestJournalRow_Values(t *testing.T) {
	ts := time.Date(2023, 10, 15, 10, 0, 0, 0, time.FixedZone("CEST", 2*3600))

	tests := []struct {
		name string
		row  JournalRow
		want []any
	}{
		{
			name: "food row",
			row: JournalRow{
				Timestamp: ts, Event: "add_food_success", PrincipalID: 1, Kind: "food",
				EntryID: 7, Date: "2023-10-15", Name: "Apple", Calories: 95, Carbs: 25,
			},
			want: []any{"2023-10-15T08:00:00Z", "add_food_success", "1", "food", "7", "2023-10-15", "Apple", "95", "0", "0", "25", ""},
		},
		{
			name: "fitness row",
			row: JournalRow{
				Timestamp: ts, Event: "delete_fitness_success", PrincipalID: 2, Kind: "fitness",
				EntryID: 9, Date: "2023-10-15", Name: "Running", KcalBurned: 300,
			},
			want: []any{"2023-10-15T08:00:00Z", "delete_fitness_success", "2", "fitness", "9", "2023-10-15", "Running", "", "", "", "", "300"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.row.Values()
			if len(got) != len(JournalHeader) {
				t.Fatalf("got %d columns, want %d", len(got), len(JournalHeader))
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("column %v = %v, want %v", JournalHeader[i], got[i], tt.want[i])
				}
			}
		})
	}
}
