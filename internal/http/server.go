package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"nutrilog/internal/core"
	"nutrilog/internal/log"
	"nutrilog/internal/middleware/ratelimit"
	"nutrilog/internal/middleware/security"
	"nutrilog/internal/middleware/trace"
	"nutrilog/internal/session"
)

// Tracker is the use-case surface the handlers drive.
type Tracker interface {
	Register(ctx context.Context, username, secret string) (int64, error)
	Login(ctx context.Context, username, secret string) (core.Principal, error)
	Principal(ctx context.Context, principalID int64) (core.Principal, error)
	AddFood(ctx context.Context, principalID int64, raw core.Payload) (core.FoodEntry, error)
	AddFitness(ctx context.Context, principalID int64, raw core.Payload) (core.FitnessEntry, error)
	DeleteFood(ctx context.Context, principalID, entryID int64) error
	DeleteFitness(ctx context.Context, principalID, entryID int64) error
	UpdateGoals(ctx context.Context, principalID int64, raw core.Payload) (core.Goals, error)
	Summarize(ctx context.Context, principalID int64, date string) (core.DailySummary, error)
	SummarizeRange(ctx context.Context, principalID int64, from, to string) ([]core.DailySummary, error)
}

// Pinger reports whether the record store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options configures NewServer.
type Options struct {
	Addr               string
	AllowedOrigins     []string
	RateLimitPerMinute int
	Logger             *log.Logger
	Store              Pinger
}

type Server struct {
	http.Server
	tracker  Tracker
	sessions *session.Manager
	store    Pinger
	logger   *log.Logger
	started  time.Time

	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware

	shutdownOnce sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(opts Options, tracker Tracker, sessions *session.Manager) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}

	detector := security.NewDetector()
	s := &Server{
		tracker:  tracker,
		sessions: sessions,
		store:    opts.Store,
		logger:   logger.WithComponent(log.ComponentHTTP),
		started:  time.Now(),
		limiter:  ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		detector: detector,
		tracer:   trace.NewMiddleware(logger, detector.ExtractClientIP),
	}

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		NotFoundError("not found").Write(w)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		MethodNotAllowedError().Write(w)
	})

	r.Use(
		s.tracer.Middleware,
		security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware,
		detector.Middleware,
		s.limiter.Middleware(detector.ExtractClientIP, isMutation, func(w http.ResponseWriter, r *http.Request) {
			ErrorResponse(http.StatusTooManyRequests, "rate limit exceeded, try again later").Write(w)
		}),
	)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/readyz", s.handleReady).Methods(http.MethodGet)

	r.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	r.Handle("/logout", s.requireSession(http.HandlerFunc(s.handleLogout))).Methods(http.MethodPost)
	r.Handle("/daily-summary", s.requireSession(http.HandlerFunc(s.handleDailySummary))).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.requireSession)
	api.HandleFunc("/food", s.handleAddFood).Methods(http.MethodPost)
	api.HandleFunc("/food", s.handleDeleteFood).Methods(http.MethodDelete)
	api.HandleFunc("/fitness", s.handleAddFitness).Methods(http.MethodPost)
	api.HandleFunc("/fitness", s.handleDeleteFitness).Methods(http.MethodDelete)
	api.HandleFunc("/update-goal", s.handleUpdateGoals).Methods(http.MethodPost)
	api.HandleFunc("/export.xlsx", s.handleExport).Methods(http.MethodGet)

	var handler http.Handler = r
	// An empty origin list would make rs/cors allow every origin.
	if len(opts.AllowedOrigins) > 0 {
		handler = cors.New(cors.Options{
			AllowedOrigins:   opts.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete},
			AllowedHeaders:   []string{"Content-Type", "Authorization"},
			ExposedHeaders:   []string{trace.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           600,
		}).Handler(r)
	}

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func isMutation(r *http.Request) bool {
	return r.Method == http.MethodPost || r.Method == http.MethodDelete
}

// Shutdown stops background helpers and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// requireSession resolves the session token into a principal. A token whose
// principal no longer exists is treated as logged out.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		token := sessionToken(r)
		if token == "" {
			UnauthorizedError("authentication required").Write(w)
			return
		}

		claims, err := s.sessions.Resolve(token)
		if err != nil {
			log.FromContext(ctx).DebugContext(ctx, "Session rejected", log.FieldError, err.Error())
			UnauthorizedError("authentication required").Cookie(expiredSessionCookie(r)).Write(w)
			return
		}
		id, err := claims.PrincipalID()
		if err != nil {
			UnauthorizedError("authentication required").Cookie(expiredSessionCookie(r)).Write(w)
			return
		}

		p, err := s.tracker.Principal(ctx, id)
		if err != nil {
			writeError(w, r, err)
			return
		}

		ctx = context.WithValue(ctx, principalKey, p)
		ctx = context.WithValue(ctx, claimsKey, claims)
		ctx = log.NewContext(ctx, log.FromContext(ctx).With(log.FieldPrincipalID, p.ID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
