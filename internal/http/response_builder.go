// Package http provides the JSON API server and its handlers.
//
// This file implements a small builder for JSON responses and the mapping
// from tracker errors to status codes.

package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"nutrilog/internal/core"
	"nutrilog/internal/log"
)

// JSONResponseBuilder provides a fluent API for building JSON responses.
type JSONResponseBuilder struct {
	statusCode int
	body       any
	headers    map[string]string
	cookies    []*http.Cookie
}

// NewJSONResponse creates a new response builder with default 200 status.
func NewJSONResponse() *JSONResponseBuilder {
	return &JSONResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

func (b *JSONResponseBuilder) Status(code int) *JSONResponseBuilder {
	b.statusCode = code
	return b
}

// Header adds a custom header to the response.
func (b *JSONResponseBuilder) Header(name, value string) *JSONResponseBuilder {
	b.headers[name] = value
	return b
}

func (b *JSONResponseBuilder) Cookie(c *http.Cookie) *JSONResponseBuilder {
	b.cookies = append(b.cookies, c)
	return b
}

// Body sets the value encoded as the response body.
func (b *JSONResponseBuilder) Body(v any) *JSONResponseBuilder {
	b.body = v
	return b
}

// Message sets a {"message": msg} body.
func (b *JSONResponseBuilder) Message(msg string) *JSONResponseBuilder {
	return b.Body(map[string]string{"message": msg})
}

// Write sends the built response to the http.ResponseWriter.
func (b *JSONResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	for _, c := range b.cookies {
		http.SetCookie(w, c)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(b.statusCode)
	if b.body != nil {
		_ = json.NewEncoder(w).Encode(b.body)
	}
}

type fieldProblem struct {
	Field   string `json:"field,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorBody struct {
	Error  string         `json:"error"`
	Fields []fieldProblem `json:"fields,omitempty"`
}

// ErrorResponse creates a {"error": message} response.
func ErrorResponse(statusCode int, message string) *JSONResponseBuilder {
	return NewJSONResponse().Status(statusCode).Body(errorBody{Error: message})
}

// ValidationErrorResponse lists every rejected field.
func ValidationErrorResponse(verr *core.ValidationError) *JSONResponseBuilder {
	body := errorBody{Error: "validation failed"}
	for _, f := range verr.Fields {
		body.Fields = append(body.Fields, fieldProblem{Field: f.Field, Code: f.Code(), Message: f.Message})
	}
	return NewJSONResponse().Status(http.StatusBadRequest).Body(body)
}

func UnauthorizedError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusUnauthorized, message)
}

func NotFoundError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusNotFound, message)
}

func InternalServerError() *JSONResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, "internal server error")
}

// MethodNotAllowedError creates a 405 Method Not Allowed error response.
func MethodNotAllowedError() *JSONResponseBuilder {
	return ErrorResponse(http.StatusMethodNotAllowed, "method not allowed")
}

// errorResponseFor maps tracker errors to responses. Unknown errors are
// logged and hidden behind a generic 500.
func errorResponseFor(r *http.Request, err error) *JSONResponseBuilder {
	var verr *core.ValidationError
	switch {
	case errors.As(err, &verr):
		return ValidationErrorResponse(verr)
	case errors.Is(err, core.ErrNotFoundOrUnauthorized):
		return NotFoundError(err.Error())
	case errors.Is(err, core.ErrPrincipalNotFound):
		return UnauthorizedError("session no longer valid").Cookie(expiredSessionCookie(r))
	case errors.Is(err, core.ErrInvalidCredentials):
		return UnauthorizedError(err.Error())
	case errors.Is(err, core.ErrUsernameTaken):
		return ErrorResponse(http.StatusConflict, err.Error())
	default:
		ctx := r.Context()
		log.FromContext(ctx).ErrorContext(ctx, "Request failed",
			log.FieldError, err.Error(),
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path)
		return InternalServerError()
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	errorResponseFor(r, err).Write(w)
}
