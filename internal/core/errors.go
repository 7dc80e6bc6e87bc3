package core

import (
	"errors"
	"strings"
)

// Validation error codes. Each FieldError wraps exactly one of these, so
// callers can match with errors.Is on the aggregate ValidationError.
var (
	ErrMissingField     = errors.New("missing field")
	ErrInvalidDate      = errors.New("invalid date")
	ErrNegativeValue    = errors.New("negative value")
	ErrTypeMismatch     = errors.New("type mismatch")
	ErrMalformedPayload = errors.New("malformed payload")
)

var (
	// ErrNotFoundOrUnauthorized is returned for both a missing entry and an
	// entry owned by someone else.
	ErrNotFoundOrUnauthorized = errors.New("entry not found or unauthorized")
	// ErrPrincipalNotFound means the session refers to a user that no longer
	// resolves; callers should force re-authentication.
	ErrPrincipalNotFound  = errors.New("principal not found")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// FieldError describes a single rejected field.
type FieldError struct {
	Field   string
	Err     error
	Message string
}

func (e FieldError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e FieldError) Unwrap() error { return e.Err }

// Code returns the short machine-readable name of the failure.
func (e FieldError) Code() string {
	return CodeOf(e.Err)
}

// ValidationError aggregates every field problem found in one submission.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Error())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() []error {
	errs := make([]error, 0, len(e.Fields))
	for _, f := range e.Fields {
		errs = append(errs, f)
	}
	return errs
}

// FieldNames lists the rejected fields in report order.
func (e *ValidationError) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return names
}

// For returns the first problem reported for field, if any.
func (e *ValidationError) For(field string) (FieldError, bool) {
	for _, f := range e.Fields {
		if f.Field == field {
			return f, true
		}
	}
	return FieldError{}, false
}

func (e *ValidationError) add(field string, err error, msg string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Err: err, Message: msg})
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func malformed(msg string) error {
	return &ValidationError{Fields: []FieldError{{Err: ErrMalformedPayload, Message: msg}}}
}

// CodeOf maps a taxonomy error to its wire code.
func CodeOf(err error) string {
	switch {
	case errors.Is(err, ErrMissingField):
		return "missing_field"
	case errors.Is(err, ErrInvalidDate):
		return "invalid_date"
	case errors.Is(err, ErrNegativeValue):
		return "negative_value"
	case errors.Is(err, ErrTypeMismatch):
		return "type_mismatch"
	case errors.Is(err, ErrMalformedPayload):
		return "malformed_payload"
	case errors.Is(err, ErrNotFoundOrUnauthorized):
		return "not_found_or_unauthorized"
	case errors.Is(err, ErrPrincipalNotFound):
		return "principal_not_found"
	default:
		return "internal"
	}
}
