// Package server provides the MasterHand debug and observability HTTP
// surface: health, the snap-event log, a landmark WebSocket broadcast,
// an MJPEG camera stream, and Prometheus metrics. Nothing here is in the
// gesture path; the UDP sink remains the only consumer-facing output.
package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ayusman/masterhand/internal/capture"
	"github.com/ayusman/masterhand/internal/store"
)

// Config holds the server wiring. Nil fields disable their routes.
type Config struct {
	Store    *store.Store
	Camera   capture.Camera
	Registry *prometheus.Registry
	Logger   *zap.Logger
}

// Server is the debug HTTP server.
type Server struct {
	config Config
	logger *zap.Logger
	mux    *http.ServeMux
	frames *FrameHub
	start  time.Time
}

// New creates a Server with the given configuration.
func New(config Config) *Server {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		config: config,
		logger: logger,
		mux:    http.NewServeMux(),
		frames: NewFrameHub(logger),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// Frames returns the WebSocket broadcast hub; the pipeline's frame
// listener feeds it.
func (s *Server) Frames() *FrameHub {
	return s.frames
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.Handle("/api/landmarks", s.frames)

	if s.config.Store != nil {
		s.mux.HandleFunc("/api/events", s.handleEvents)
	}
	if s.config.Camera != nil {
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Camera))
	}
	if s.config.Registry != nil {
		s.mux.Handle("/metrics", promhttp.HandlerFor(s.config.Registry, promhttp.HandlerOpts{}))
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

	writeJSON(w, http.StatusOK, response)
}

// handleEvents handles GET requests to /api/events, returning recent
// snap events newest first. ?limit= caps the result (default 50).
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	events, err := s.config.Store.Events().ListRecentSnaps(limit)
	if err != nil {
		s.logger.Error("failed to list snap events", zap.Error(err))
		http.Error(w, "Failed to list events", http.StatusInternalServerError)
		return
	}
	if events == nil {
		events = []store.SnapEvent{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"events": events})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
