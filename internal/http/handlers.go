package http

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"nutrilog/internal/core"
	"nutrilog/internal/export"
	"nutrilog/internal/log"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Body(map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	}).Write(w)
}

// handleReady checks the record store and reports helper state.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	code := http.StatusOK
	checks := map[string]any{}

	if s.store == nil {
		checks["store"] = "not_configured"
	} else if err := s.store.Ping(ctx); err != nil {
		checks["store"] = "failed: " + err.Error()
		status = "not_ready"
		code = http.StatusServiceUnavailable
	} else {
		checks["store"] = "ok"
	}

	limits := s.limiter.GetMetrics()
	checks["rate_limiter"] = map[string]any{
		"active_clients": limits.ClientCount,
		"rejected":       limits.Rejected,
	}
	checks["revoked_sessions"] = s.sessions.RevokedCount()
	traffic := s.tracer.GetMetrics()
	checks["requests"] = map[string]any{
		"total":           traffic.TotalRequests,
		"in_flight":       traffic.InFlight,
		"server_errors":   traffic.ServerErrors,
		"mean_latency_us": traffic.MeanLatencyMicros(),
	}
	checks["suspicious_requests"] = s.detector.GetMetrics().SuspiciousRequests

	NewJSONResponse().Status(code).Body(map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	}).Write(w)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	creds, err := ReadCredentials(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := s.tracker.Register(r.Context(), creds.Username, creds.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Status(http.StatusCreated).Body(map[string]any{
		"message": "registration successful",
		"id":      id,
	}).Write(w)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	creds, err := ReadCredentials(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := s.tracker.Login(r.Context(), creds.Username, creds.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	token, expires, err := s.sessions.Issue(p.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	NewJSONResponse().
		Cookie(sessionCookie(r, token, expires)).
		Body(map[string]any{
			"message":    "login successful",
			"token":      token,
			"expires_at": expires.UTC().Format(time.RFC3339),
			"username":   p.Username,
		}).Write(w)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s.sessions.Revoke(claimsFrom(ctx))
	log.FromContext(ctx).InfoContext(ctx, "Session revoked", log.FieldOperation, "logout")

	NewJSONResponse().
		Cookie(expiredSessionCookie(r)).
		Message("logged out").
		Write(w)
}

func (s *Server) handleAddFood(w http.ResponseWriter, r *http.Request) {
	p, err := ReadPayload(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	entry, err := s.tracker.AddFood(r.Context(), principalFrom(r.Context()).ID, p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Status(http.StatusCreated).Body(map[string]any{
		"message": "food entry added",
		"id":      entry.ID,
		"entry":   entry,
	}).Write(w)
}

func (s *Server) handleAddFitness(w http.ResponseWriter, r *http.Request) {
	p, err := ReadPayload(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	entry, err := s.tracker.AddFitness(r.Context(), principalFrom(r.Context()).ID, p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Status(http.StatusCreated).Body(map[string]any{
		"message": "fitness entry added",
		"id":      entry.ID,
		"entry":   entry,
	}).Write(w)
}

func (s *Server) handleDeleteFood(w http.ResponseWriter, r *http.Request) {
	s.handleDelete(w, r, "food_id", s.tracker.DeleteFood, "food entry deleted")
}

func (s *Server) handleDeleteFitness(w http.ResponseWriter, r *http.Request) {
	s.handleDelete(w, r, "fitness_id", s.tracker.DeleteFitness, "fitness entry deleted")
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request, field string, del func(context.Context, int64, int64) error, msg string) {
	p, err := ReadPayload(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := EntryID(p, field)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := del(r.Context(), principalFrom(r.Context()).ID, id); err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Message(msg).Write(w)
}

func (s *Server) handleUpdateGoals(w http.ResponseWriter, r *http.Request) {
	p, err := ReadPayload(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	goals, err := s.tracker.UpdateGoals(r.Context(), principalFrom(r.Context()).ID, p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Body(map[string]any{
		"message": "goals updated",
		"goals":   goals,
	}).Write(w)
}

func (s *Server) handleDailySummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.tracker.Summarize(r.Context(), principalFrom(r.Context()).ID, QueryDay(r, "date"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Body(newSummaryResponse(summary)).Write(w)
}

// handleExport streams an XLSX workbook covering ?from=..&to=.. (both
// default to today).
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	from, to := QueryDay(r, "from"), QueryDay(r, "to")

	days, err := s.tracker.SummarizeRange(ctx, principalFrom(ctx).ID, from, to)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteSummaries(&buf, days); err != nil {
		writeError(w, r, err)
		return
	}

	log.FromContext(ctx).InfoContext(ctx, "Summaries exported",
		log.FieldOperation, log.OpExport, "from", from, "to", to, "days", len(days))

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(from, to)+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

type summaryResponse struct {
	Date                  string              `json:"date"`
	CaloriesGoal          int64               `json:"calories_goal"`
	ProteinGoal           int64               `json:"protein_goal"`
	FatGoal               int64               `json:"fat_goal"`
	CarbsGoal             int64               `json:"carbs_goal"`
	TotalCaloriesConsumed int64               `json:"total_calories_consumed"`
	TotalCaloriesBurned   int64               `json:"total_calories_burned"`
	NetCalories           int64               `json:"net_calories"`
	TotalProtein          int64               `json:"total_protein"`
	TotalFat              int64               `json:"total_fat"`
	TotalCarbs            int64               `json:"total_carbs"`
	FoodLog               []core.FoodEntry    `json:"food_log"`
	FitnessLog            []core.FitnessEntry `json:"fitness_log"`
	Progress              core.Progress       `json:"progress"`
}

func newSummaryResponse(s core.DailySummary) summaryResponse {
	return summaryResponse{
		Date:                  s.Date,
		CaloriesGoal:          s.Goals.Calories,
		ProteinGoal:           s.Goals.Protein,
		FatGoal:               s.Goals.Fat,
		CarbsGoal:             s.Goals.Carbs,
		TotalCaloriesConsumed: s.TotalCalories,
		TotalCaloriesBurned:   s.TotalBurned,
		NetCalories:           s.NetCalories,
		TotalProtein:          s.TotalProtein,
		TotalFat:              s.TotalFat,
		TotalCarbs:            s.TotalCarbs,
		FoodLog:               s.Food,
		FitnessLog:            s.Fitness,
		Progress:              s.Progress(),
	}
}
