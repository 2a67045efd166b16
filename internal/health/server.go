// Package health serves the engine's liveness, readiness and metrics routes.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/paddock/internal/models"
)

const checkTimeout = 3 * time.Second

// HistoryStore is the prediction-history database as seen by readiness checks.
type HistoryStore interface {
	Driver() string
	Ping(ctx context.Context) error
}

// OracleChecker reports whether the ML place-probability service is reachable.
type OracleChecker interface {
	HealthCheck(ctx context.Context) error
}

// Status is the /health response.
type Status struct {
	Status       string `json:"status"`
	Service      string `json:"service"`
	Version      string `json:"version,omitempty"`
	Commit       string `json:"commit,omitempty"`
	ModelVersion string `json:"model_version,omitempty"`
}

// Readiness is the /ready response. Regime is the weighting regime the next
// prediction will start from: an unreachable oracle leaves the server ready
// but scoring with fallback weights.
type Readiness struct {
	Status       string            `json:"status"`
	Regime       models.Regime     `json:"regime"`
	HistoryStore string            `json:"history_store"`
	Checks       map[string]string `json:"checks"`
}

// Config wires the server to the engine's dependencies. Store and Oracle are
// optional; a nil Metrics handler disables the metrics route.
type Config struct {
	Addr         string
	ServiceName  string
	Version      string
	Commit       string
	ModelVersion string
	Logger       *logrus.Logger
	Store        HistoryStore
	Oracle       OracleChecker
	Metrics      http.Handler
	MetricsPath  string
}

// Server answers health probes for the prediction engine.
type Server struct {
	cfg   Config
	ready atomic.Bool
}

// NewServer creates a server that is not yet ready.
func NewServer(cfg Config) *Server {
	if cfg.MetricsPath == "" {
		cfg.MetricsPath = "/metrics"
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	return &Server{cfg: cfg}
}

// SetReady marks whether the engine accepts traffic.
func (s *Server) SetReady(ready bool) {
	s.ready.Store(ready)
}

// IsReady reports the flag set by SetReady.
func (s *Server) IsReady() bool {
	return s.ready.Load()
}

// Handler returns the server's routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ready", s.handleReady)
	if s.cfg.Metrics != nil {
		mux.Handle(s.cfg.MetricsPath, s.cfg.Metrics)
	}
	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.cfg.Logger.WithField("addr", s.cfg.Addr).Info("Health server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.SetReady(false)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.cfg.Logger.Info("Health server shutting down")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Status{
		Status:       "ok",
		Service:      s.cfg.ServiceName,
		Version:      s.cfg.Version,
		Commit:       s.cfg.Commit,
		ModelVersion: s.cfg.ModelVersion,
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	resp := s.readiness(r.Context())
	code := http.StatusOK
	if resp.Status != "ready" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, resp)
}

func (s *Server) readiness(ctx context.Context) Readiness {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	resp := Readiness{
		Status:       "ready",
		Regime:       models.RegimeFallback,
		HistoryStore: "disabled",
		Checks:       map[string]string{},
	}
	if !s.IsReady() {
		resp.Status = "not_ready"
		resp.Checks["engine"] = "starting or draining"
	}

	if s.cfg.Store != nil {
		resp.HistoryStore = s.cfg.Store.Driver()
		if err := s.cfg.Store.Ping(ctx); err != nil {
			resp.Status = "not_ready"
			resp.Checks["history_store"] = "error: " + err.Error()
		} else {
			resp.Checks["history_store"] = "ok"
		}
	}

	switch {
	case s.cfg.Oracle == nil:
		resp.Checks["ml_oracle"] = "not configured"
	case s.cfg.Oracle.HealthCheck(ctx) != nil:
		resp.Checks["ml_oracle"] = "unreachable"
	default:
		resp.Checks["ml_oracle"] = "ok"
		resp.Regime = models.RegimeMLPresent
	}
	return resp
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
