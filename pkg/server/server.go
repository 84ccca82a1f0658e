// Package server exposes the ranking tools over HTTP and WebSocket.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/gorilla/mux"

	"github.com/srodi/hotspot-report/pkg/config"
	"github.com/srodi/hotspot-report/pkg/report"
	"github.com/srodi/hotspot-report/pkg/tools"
)

const (
	maxRequestBytes   = 1 << 20
	headerStatus      = "X-Result-Status"
	headerFingerprint = "X-Document-Fingerprint"
)

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// Server routes tool calls from HTTP and WebSocket clients to the registry.
type Server struct {
	registry *tools.Registry
	metrics  *Metrics
	log      logr.Logger
	version  string
	started  time.Time

	closing   chan struct{}
	closeOnce sync.Once
}

// New creates a Server. metrics may be shared with other components.
func New(registry *tools.Registry, metrics *Metrics, log logr.Logger, version string) *Server {
	return &Server{
		registry: registry,
		metrics:  metrics,
		log:      log.WithName("server"),
		version:  version,
		started:  time.Now(),
		closing:  make(chan struct{}),
	}
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()

	api := router.PathPrefix("/v1").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/tools", s.handleListTools).Methods(http.MethodGet)
	api.HandleFunc("/tools/{name}", s.handleCallTool).Methods(http.MethodPost)
	api.HandleFunc("/ws", s.handleWebSocket).Methods(http.MethodGet)

	router.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	return router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully and
// closes open WebSocket sessions.
func (s *Server) Run(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutdown signal received")
	s.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.log.Info("server exited cleanly")
	return nil
}

// Close ends every open WebSocket session. It is safe to call more than once.
func (s *Server) Close() {
	s.closeOnce.Do(func() { close(s.closing) })
}

// call runs one tool and records the outcome.
func (s *Server) call(name string, args json.RawMessage) (report.Outcome, error) {
	start := time.Now()
	out, err := s.registry.Call(name, args)
	elapsed := time.Since(start)

	switch {
	case errors.Is(err, tools.ErrUnknownTool):
		s.metrics.observe("unknown", statusUnknownTool, elapsed)
	case errors.Is(err, tools.ErrInvalidArguments):
		canonical, _ := s.registry.Resolve(name)
		s.metrics.observe(canonical, statusInvalidArgs, elapsed)
	case err == nil:
		canonical, _ := s.registry.Resolve(name)
		s.metrics.observe(canonical, string(out.Status()), elapsed)
		s.log.V(1).Info("tool call", "tool", canonical, "status", out.Status(), "elapsed", elapsed)
	}
	return out, err
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Version: s.version,
		Uptime:  time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.registry.List())
}

func (s *Server) handleCallTool(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err != nil {
		s.writeError(w, http.StatusRequestEntityTooLarge, err)
		return
	}

	out, err := s.call(name, body)
	switch {
	case errors.Is(err, tools.ErrUnknownTool):
		s.writeError(w, http.StatusNotFound, err)
		return
	case err != nil:
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	w.Header().Set(headerStatus, string(out.Status()))
	if fp := out.Fingerprint(); fp != "" {
		w.Header().Set(headerFingerprint, fp)
	}
	s.writeJSON(w, http.StatusOK, out)
}
