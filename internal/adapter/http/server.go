package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/flood-planner/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RequestPlanner plans a single decoded request.
type RequestPlanner interface {
	PlanRequest(ctx context.Context, req domain.PlanRequest, source string) (domain.PlanEvent, error)
}

// Server serves synchronous planning next to the operational endpoints.
type Server struct {
	srv    *http.Server
	logger *slog.Logger
}

// NewServer routes POST /v1/plans to planner and exposes /healthz, /readyz,
// and /metrics. Readiness follows ready.
func NewServer(addr string, ready sharedobs.ReadinessChecker, planner RequestPlanner, logger *slog.Logger) *Server {
	plans := &planHandler{planner: planner, logger: logger}

	mux := http.NewServeMux()
	mux.Handle("POST /v1/plans", plans)
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		logger: logger,
	}
}

// Start listens until Shutdown. It returns http.ErrServerClosed after a clean shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.srv.Addr)
	return s.srv.ListenAndServe()
}

// Shutdown drains in-flight plan requests before ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.srv.Handler.ServeHTTP(w, r)
}
