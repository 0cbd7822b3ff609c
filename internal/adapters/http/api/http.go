// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/ayushkatiyar1508/brain-guard/internal/domain/types"
	"github.com/ayushkatiyar1508/brain-guard/pkg/logger"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Server wires HTTP routes for the business API.
type Server struct {
	health     *HealthHandler
	stats      *StatsHandler
	dashboard  *DashboardHandler
	profiles   *ProfilesHandler
	monitoring *MonitoringHandler
	alerts     *AlertsHandler
	routines   *RoutinesHandler
	exercises  *ExercisesHandler
	progress   *ProgressHandler
	caregivers *CaregiversHandler
	calls      *CallsHandler
	live       http.Handler
}

// NewServer creates the API server with all handlers.
func NewServer(deps Deps) *Server {
	deps = deps.withDefaults()
	return &Server{
		health:     NewHealthHandler(),
		stats:      NewStatsHandler(deps.Stats),
		dashboard:  NewDashboardHandler(deps.Alerts, deps.Routines, deps.Monitoring),
		profiles:   NewProfilesHandler(deps.Profiles, deps.Journal),
		monitoring: NewMonitoringHandler(deps.Monitoring, deps.Ingest),
		alerts:     NewAlertsHandler(deps.Alerts, deps.Notifier, deps.Journal),
		routines:   NewRoutinesHandler(deps.Routines, deps.Journal),
		exercises:  NewExercisesHandler(deps.Exercises),
		progress:   NewProgressHandler(deps.Progress, deps.Journal),
		caregivers: NewCaregiversHandler(deps.Caregivers, deps.Journal),
		calls:      NewCallsHandler(deps.Calls),
		live:       deps.Live,
	}
}

// Register attaches all business routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	handle := func(pattern, endpoint string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, MetricsMiddleware(h, endpoint))
	}

	handle("GET /healthz", "healthz", s.health.HandleHealth)
	handle("GET /stats", "stats", s.stats.HandleStats)
	handle("GET /dashboard/{user_id}", "dashboard", s.dashboard.HandleGet)

	handle("GET /profiles", "profiles", s.profiles.HandleList)
	handle("POST /profiles", "profiles", s.profiles.HandleCreate)
	handle("GET /profiles/{id}", "profile", s.profiles.HandleGet)
	handle("PATCH /profiles/{id}", "profile", s.profiles.HandleUpdate)
	handle("DELETE /profiles/{id}", "profile", s.profiles.HandleDelete)

	handle("POST /monitoring", "monitoring_submit", s.monitoring.HandleSubmit)
	handle("GET /monitoring/{user_id}", "monitoring", s.monitoring.HandleList)
	handle("GET /monitoring/{user_id}/stats", "monitoring_stats", s.monitoring.HandleStats)

	handle("GET /alerts/{user_id}", "alerts", s.alerts.HandleList)
	handle("POST /alerts", "alerts", s.alerts.HandleCreate)
	handle("POST /alerts/{id}/read", "alert_read", s.alerts.HandleRead)
	handle("POST /alerts/{id}/resolve", "alert_resolve", s.alerts.HandleResolve)
	handle("DELETE /alerts/{id}", "alert", s.alerts.HandleDelete)

	handle("GET /routines/{user_id}", "routines", s.routines.HandleList)
	handle("POST /routines", "routines", s.routines.HandleCreate)
	handle("PATCH /routines/{id}", "routine", s.routines.HandleUpdate)
	handle("POST /routines/{id}/complete", "routine_complete", s.routines.HandleComplete)
	handle("DELETE /routines/{id}", "routine", s.routines.HandleDelete)

	handle("GET /exercises", "exercises", s.exercises.HandleList)
	handle("GET /exercises/{id}", "exercise", s.exercises.HandleGet)

	handle("GET /progress/{user_id}", "progress", s.progress.HandleList)
	handle("POST /progress", "progress", s.progress.HandleCreate)

	handle("GET /caregivers/{senior_id}", "caregivers", s.caregivers.HandleForSenior)
	handle("GET /seniors/{caregiver_id}", "seniors", s.caregivers.HandleForCaregiver)
	handle("POST /caregivers", "caregivers", s.caregivers.HandleCreate)
	handle("DELETE /caregivers/{id}", "caregiver", s.caregivers.HandleDelete)

	handle("GET /calls/contacts", "call_contacts", s.calls.HandleContacts)
	handle("GET /calls/upcoming", "call_upcoming", s.calls.HandleUpcoming)
	handle("POST /calls", "calls", s.calls.HandleStart)
	handle("POST /calls/{id}/mute", "call_mute", s.calls.HandleMute)
	handle("POST /calls/{id}/video", "call_video", s.calls.HandleVideo)
	handle("DELETE /calls/{id}", "call", s.calls.HandleEnd)

	if s.live != nil {
		mux.Handle("GET /ws/alerts", s.live)
	}
}

type ackResponse struct {
	Status       string `json:"status"`
	Duplicate    bool   `json:"duplicate"`
	SubmissionID string `json:"submission_id"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Stats is the /stats payload.
type Stats = types.Stats

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes the error envelope. Server errors carry only the status text.
func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil && status < http.StatusInternalServerError {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// fail maps err to a status and writes it. Server errors are logged.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		logger.Get().Named("api").Error(r.Context(), "request failed",
			logger.String("path", r.URL.Path),
			logger.String("method", r.Method),
			logger.Error(err))
	}
	writeError(w, status, code, err)
}

// decode reads a JSON body into v.
func decode(r *http.Request, v any) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", ErrBadRequest)
		}
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return nil
}

// intParam parses a positive integer query parameter. Absent yields def.
func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", ErrBadRequest, name)
	}
	return n, nil
}

// boolParam reports whether a query parameter is "true" or "1".
func boolParam(r *http.Request, name string) bool {
	v := r.URL.Query().Get(name)
	return v == "true" || v == "1"
}
