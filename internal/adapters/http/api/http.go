// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/cors"
	"github.com/okian/visitas/internal/adapters/charts"
	"github.com/okian/visitas/internal/adapters/repository"
	"github.com/okian/visitas/internal/adapters/session"
	service "github.com/okian/visitas/internal/app"
	"github.com/okian/visitas/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Session resolves the caller's session, creating one when needed.
	Session(id string) (*session.Session, bool, error)

	Controls(ctx context.Context, sess *session.Session) (service.Controls, error)
	ApplyFilters(ctx context.Context, sess *session.Session, in service.FilterInput) (service.Controls, error)
	ClickYear(ctx context.Context, sess *session.Session, year string) (service.Controls, error)
	SetView(ctx context.Context, sess *session.Session, name string) (service.Controls, error)
	Render(ctx context.Context, sess *session.Session, view types.View) (*service.Dashboard, error)
}

// Server wires HTTP routes for the dashboard API.
type Server struct {
	deps        Dependencies
	corsOrigins []string
	renderer    *charts.Renderer

	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	stateHandler     *StateHandler
	chartHandler     *ChartHandler
	dashboardHandler *dashboardHandler
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithCORSOrigins sets the origins allowed to call the API from a browser.
func WithCORSOrigins(origins []string) Option {
	return func(s *Server) {
		s.corsOrigins = origins
	}
}

// WithChartRenderer sets the renderer behind /charts.
func WithChartRenderer(r *charts.Renderer) Option {
	return func(s *Server) {
		if r != nil {
			s.renderer = r
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{deps: deps, renderer: charts.NewRenderer()}
	for _, opt := range opts {
		opt(s)
	}
	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	s.stateHandler = NewStateHandler(deps)
	s.chartHandler = NewChartHandler(deps, s.renderer)
	s.dashboardHandler = newDashboardHandler()
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", MetricsMiddleware(s.healthHandler.HandleMetrics, "metrics"))
	mux.HandleFunc("/dashboard", MetricsMiddleware(s.dashboardHandler.HandleDashboard, "dashboard"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("GET /api/state", MetricsMiddleware(s.withSession(s.stateHandler.HandleGetState), "state"))
	mux.HandleFunc("POST /api/filters", MetricsMiddleware(s.withSession(s.stateHandler.HandlePostFilters), "filters"))
	mux.HandleFunc("POST /api/year-click", MetricsMiddleware(s.withSession(s.stateHandler.HandlePostYearClick), "year_click"))
	mux.HandleFunc("POST /api/view", MetricsMiddleware(s.withSession(s.stateHandler.HandlePostView), "view"))
	mux.HandleFunc("GET /api/views/{view}", MetricsMiddleware(s.withSession(s.stateHandler.HandleGetView), "views"))
	mux.HandleFunc("GET /charts/{file}", MetricsMiddleware(s.withSession(s.chartHandler.HandleGetChart), "charts"))
}

// Handler wraps h with CORS for the configured origins. Credentials are
// allowed so the session cookie travels with cross-origin calls.
func (s *Server) Handler(h http.Handler) http.Handler {
	if len(s.corsOrigins) == 0 {
		return h
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   s.corsOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", SessionHeader},
		ExposedHeaders:   []string{SessionHeader},
		AllowCredentials: true,
		MaxAge:           300,
	})(h)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError maps service and loader failures onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, repository.ErrLoad):
		writeError(w, http.StatusServiceUnavailable, "load_error", Wrap(op, err))
	case errors.Is(err, service.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}
