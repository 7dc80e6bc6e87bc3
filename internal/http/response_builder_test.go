package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"nutrilog/internal/core"
	"nutrilog/internal/session"
)

func TestJSONResponseBuilder(t *testing.T) {
	w := httptest.NewRecorder()

	NewJSONResponse().
		Status(http.StatusCreated).
		Header("X-Test", "1").
		Body(map[string]int{"id": 7}).
		Write(w)

	if w.Code != http.StatusCreated {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusCreated)
	}
	if w.Header().Get("X-Test") != "1" {
		t.Error("custom header missing")
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	var body map[string]int
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || body["id"] != 7 {
		t.Errorf("Body = %s", w.Body.String())
	}
}

func TestErrorResponseFor(t *testing.T) {
	verr := &core.ValidationError{Fields: []core.FieldError{
		{Field: "date", Err: core.ErrMissingField, Message: "field is required"},
		{Field: "calories", Err: core.ErrNegativeValue, Message: "must not be negative"},
	}}

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		clearCookie bool
	}{
		{"validation", verr, http.StatusBadRequest, false},
		{"not found or unauthorized", core.ErrNotFoundOrUnauthorized, http.StatusNotFound, false},
		{"principal gone", fmt.Errorf("lookup: %w", core.ErrPrincipalNotFound), http.StatusUnauthorized, true},
		{"bad credentials", core.ErrInvalidCredentials, http.StatusUnauthorized, false},
		{"duplicate username", core.ErrUsernameTaken, http.StatusConflict, false},
		{"unexpected", errors.New("disk on fire"), http.StatusInternalServerError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			writeError(w, r, tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			cleared := false
			for _, c := range w.Result().Cookies() {
				if c.Name == session.CookieName && c.MaxAge < 0 {
					cleared = true
				}
			}
			if cleared != tt.clearCookie {
				t.Errorf("cookie cleared = %v, want %v", cleared, tt.clearCookie)
			}
		})
	}
}

func TestValidationErrorResponse_Body(t *testing.T) {
	verr := &core.ValidationError{Fields: []core.FieldError{
		{Field: "date", Err: core.ErrInvalidDate, Message: "invalid date format, use YYYY-MM-DD"},
		{Field: "protein", Err: core.ErrTypeMismatch, Message: "must be a number"},
	}}
	w := httptest.NewRecorder()
	ValidationErrorResponse(verr).Write(w)

	var body struct {
		Error  string `json:"error"`
		Fields []struct {
			Field, Code, Message string
		} `json:"fields"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error == "" || len(body.Fields) != 2 {
		t.Fatalf("body = %s", w.Body.String())
	}
	if body.Fields[0].Code != "invalid_date" || body.Fields[1].Code != "type_mismatch" {
		t.Errorf("codes = %s, %s", body.Fields[0].Code, body.Fields[1].Code)
	}
}

func TestInternalServerError_HidesDetails(t *testing.T) {
	w := httptest.NewRecorder()
	writeError(w, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("secret table name leaked"))
	if got := w.Body.String(); got != "{\"error\":\"internal server error\"}\n" {
		t.Errorf("body = %q", got)
	}
}
