// Package trace tags requests with an id and logs their start and end.
package trace

import (
	"context"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"nutrilog/internal/log"
)

type contextKey struct{}

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

const maxIncomingIDLen = 64

// Middleware tags each request with an id and a request-scoped logger.
type Middleware struct {
	logger    *log.Logger
	extractIP func(*http.Request) string

	total        atomic.Int64
	inFlight     atomic.Int64
	clientErrors atomic.Int64
	serverErrors atomic.Int64
	latencyMicro atomic.Int64
}

// Metrics is a snapshot of request counters.
type Metrics struct {
	TotalRequests     int64
	InFlight          int64
	ClientErrors      int64
	ServerErrors      int64
	TotalLatencyMicro int64
}

// MeanLatencyMicros is the average request duration in microseconds.
func (m Metrics) MeanLatencyMicros() int64 {
	if m.TotalRequests == 0 {
		return 0
	}
	return m.TotalLatencyMicro / m.TotalRequests
}

func NewMiddleware(logger *log.Logger, extractIP func(*http.Request) string) *Middleware {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Middleware{logger: logger.WithComponent(log.ComponentHTTP), extractIP: extractIP}
}

func (m *Middleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		m.inFlight.Add(1)
		defer m.inFlight.Add(-1)

		clientIP := ""
		if m.extractIP != nil {
			clientIP = m.extractIP(r)
		}

		requestID := incomingRequestID(r)
		if requestID == "" {
			requestID = NewRequestID()
		}
		reqLogger := m.logger.With(log.FieldRequestID, requestID)
		ctx := context.WithValue(r.Context(), contextKey{}, requestID)
		ctx = log.NewContext(ctx, reqLogger)
		r = r.WithContext(ctx)
		w.Header().Set(RequestIDHeader, requestID)

		sl := log.NewStructuredLogger(reqLogger)
		sl.LogHTTPStart(ctx, r, clientIP)

		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)

		elapsed := time.Since(start)
		m.record(rw.status, elapsed)
		sl.LogHTTPEnd(ctx, r, rw.status, elapsed.Milliseconds(), clientIP)
	})
}

func (m *Middleware) record(status int, elapsed time.Duration) {
	m.total.Add(1)
	m.latencyMicro.Add(elapsed.Microseconds())
	switch {
	case status >= 500:
		m.serverErrors.Add(1)
	case status >= 400:
		m.clientErrors.Add(1)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (rw *statusRecorder) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.status = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b)
}

// incomingRequestID accepts a caller-supplied id made of letters, digits,
// '-' and '_' only.
func incomingRequestID(r *http.Request) string {
	id := strings.TrimSpace(r.Header.Get(RequestIDHeader))
	if id == "" || len(id) > maxIncomingIDLen {
		return ""
	}
	for _, c := range id {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return ""
		}
	}
	return id
}

// NewRequestID returns a fresh "req_"-prefixed id.
func NewRequestID() string {
	return "req_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// GetRequestID extracts the request ID from context
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(contextKey{}).(string)
	return id
}

func (m *Middleware) GetMetrics() Metrics {
	return Metrics{
		TotalRequests:     m.total.Load(),
		InFlight:          m.inFlight.Load(),
		ClientErrors:      m.clientErrors.Load(),
		ServerErrors:      m.serverErrors.Load(),
		TotalLatencyMicro: m.latencyMicro.Load(),
	}
}
