package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	ports "nutrilog/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type fakeSheets struct {
	mu      sync.Mutex
	header  bool
	appends [][]any
	updates int
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet:
		vr := map[string]any{"range": "Journal!A1:L1"}
		if f.header {
			vr["values"] = [][]any{ports.JournalHeader}
		}
		json.NewEncoder(w).Encode(vr)
	case r.Method == http.MethodPut:
		f.header = true
		f.updates++
		json.NewEncoder(w).Encode(map[string]any{"updatedRange": "Journal!A1:L1"})
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":append"):
		var vr gsheet.ValueRange
		if err := json.NewDecoder(r.Body).Decode(&vr); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.appends = append(f.appends, vr.Values...)
		json.NewEncoder(w).Encode(map[string]any{
			"updates": map[string]any{"updatedRange": "Journal!A2:L2"},
		})
	default:
		http.NotFound(w, r)
	}
}

func newTestClient(t *testing.T, fake *fakeSheets) *Client {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	svc, err := gsheet.NewService(context.Background(),
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithHTTPClient(srv.Client()),
		goption.WithoutAuthentication())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return &Client{svc: svc, spreadsheetID: "sheet-id", journalSheet: "Journal"}
}

func TestNew_MissingSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), "  ", "Journal")
	if err == nil || err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Fatalf("New() error = %v", err)
	}
}

func TestNew_MissingCredentials(t *testing.T) {
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", "")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_FILE", "")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")

	_, err := New(context.Background(), "sheet-id", "")
	if err == nil || !strings.Contains(err.Error(), "missing service account credentials") {
		t.Fatalf("New() error = %v", err)
	}
}

func TestClient_AppendUninitialized(t *testing.T) {
	c := &Client{spreadsheetID: "test"}
	if _, err := c.Append(context.Background(), ports.JournalRow{}); err == nil {
		t.Fatal("expected error with nil service")
	}
}

func TestClient_Append(t *testing.T) {
	fake := &fakeSheets{}
	c := newTestClient(t, fake)

	row := ports.JournalRow{
		Timestamp:   time.Date(2023, 10, 15, 8, 30, 0, 0, time.UTC),
		Event:       "add_food_success",
		PrincipalID: 1,
		Kind:        "food",
		EntryID:     42,
		Date:        "2023-10-15",
		Name:        "Apple",
		Calories:    95,
		Carbs:       25,
	}

	ref, err := c.Append(context.Background(), row)
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if ref != "Journal!A2:L2" {
		t.Errorf("Append() ref = %q", ref)
	}
	if _, err := c.Append(context.Background(), row); err != nil {
		t.Fatalf("second Append() error = %v", err)
	}

	if fake.updates != 1 {
		t.Errorf("header written %d times, want 1", fake.updates)
	}
	if len(fake.appends) != 2 {
		t.Fatalf("appended %d rows, want 2", len(fake.appends))
	}
	got := fake.appends[0]
	if got[1] != "add_food_success" || got[4] != "42" || got[6] != "Apple" || got[7] != "95" {
		t.Errorf("appended row = %v", got)
	}
}
