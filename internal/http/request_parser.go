// Package http provides the JSON API server and its handlers.
//
// This file implements utilities for reading request bodies into the
// untyped payloads the validators expect.

package http

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"nutrilog/internal/core"
)

// MaxBodyBytes caps every request body.
const MaxBodyBytes = 64 << 10

// ReadPayload decodes a JSON object body into a core.Payload. Oversized or
// malformed bodies are reported as a malformed payload.
func ReadPayload(w http.ResponseWriter, r *http.Request) (core.Payload, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		return nil, malformedBody("request body too large or unreadable")
	}
	return core.DecodePayload(body)
}

// Credentials is the register/login body.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ReadCredentials accepts a JSON body or a urlencoded/multipart form.
func ReadCredentials(w http.ResponseWriter, r *http.Request) (Credentials, error) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	if isForm(r) {
		if err := r.ParseForm(); err != nil {
			return Credentials{}, malformedBody("invalid form body")
		}
		return Credentials{
			Username: sanitizeInput(r.PostForm.Get("username")),
			Password: r.PostForm.Get("password"),
		}, nil
	}

	var c Credentials
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&c); err != nil {
		return Credentials{}, malformedBody("body must be a JSON object with string username and password")
	}
	c.Username = sanitizeInput(c.Username)
	return c, nil
}

func isForm(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mt == "application/x-www-form-urlencoded" || mt == "multipart/form-data"
}

// EntryID reads the positive integer id stored under field.
func EntryID(p core.Payload, field string) (int64, error) {
	if p == nil {
		return 0, malformedBody("payload is missing")
	}
	raw, ok := p[field]
	if !ok || raw == nil {
		return 0, fieldError(field, core.ErrMissingField, "field is required")
	}
	n, ok := raw.(json.Number)
	if !ok {
		return 0, fieldError(field, core.ErrTypeMismatch, "must be a number")
	}
	id, err := n.Int64()
	if err != nil || id <= 0 {
		return 0, fieldError(field, core.ErrTypeMismatch, fmt.Sprintf("must be a positive integer, got %s", n))
	}
	return id, nil
}

// QueryDay returns the named query parameter, or today when it is absent.
func QueryDay(r *http.Request, name string) string {
	if v := strings.TrimSpace(r.URL.Query().Get(name)); v != "" {
		return v
	}
	return core.Today()
}

func fieldError(field string, err error, msg string) error {
	return &core.ValidationError{Fields: []core.FieldError{{Field: field, Err: err, Message: msg}}}
}

func malformedBody(msg string) error {
	return &core.ValidationError{Fields: []core.FieldError{{Err: core.ErrMalformedPayload, Message: msg}}}
}
