// Package server provides the HTTP server for the nayana wink detector.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/ayusman/nayana/internal/app"
	"github.com/ayusman/nayana/internal/capture"
	"github.com/ayusman/nayana/internal/logging"
	"github.com/ayusman/nayana/internal/server/api"
	"github.com/ayusman/nayana/internal/status"
	"github.com/ayusman/nayana/internal/store"
	"github.com/ayusman/nayana/internal/wink"
)

// HealthReporter exposes the frame loop's condition.
type HealthReporter interface {
	Health() app.Health
}

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Hub       *status.Hub
	Preview   *capture.Preview
	App       HealthReporter
	// Thresholds is the configured pair; Params the running session's.
	Thresholds wink.Thresholds
	Params     wink.Params
	StreamFPS  int
	Logger     *logrus.Logger
}

// Server represents the HTTP server for the application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
	log    *logrus.Entry
	http   *http.Server
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	logger := config.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
		log:    logging.Component(logger, "server"),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	s.mux.Handle("/api/settings", api.NewSettingsHandler(s.config.Store, s.config.Thresholds, s.config.Params))

	// /api/status serves a snapshot, or a live feed on WebSocket upgrade
	if s.config.Hub != nil {
		snapshot := api.NewStatusHandler(s.config.Hub)
		feed := NewStatusSocket(s.config.Hub, s.config.StreamFPS, s.log)
		s.mux.Handle("/api/status", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if websocket.IsWebSocketUpgrade(r) {
				feed.ServeHTTP(w, r)
				return
			}
			snapshot.ServeHTTP(w, r)
		}))
	}

	if s.config.Preview != nil {
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Preview, s.config.StreamFPS))
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}

	if s.config.App != nil {
		h := s.config.App.Health()
		response["camera"] = h.Camera
		response["enabled"] = h.Enabled
		if h.Error != "" {
			response["status"] = "degraded"
			response["error"] = h.Error
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address and blocks
// until ctx is cancelled or the listener fails.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.http.ListenAndServe()
	}()

	s.log.WithField("addr", addr).Info("server listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	}
}
