// Package server provides the HTTP server for the FocusLens attention tracker.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/RajSingh-webdev/FocusLens/internal/app"
	"github.com/RajSingh-webdev/FocusLens/internal/server/api"
	"github.com/RajSingh-webdev/FocusLens/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	App       *app.App
}

// Server represents the HTTP server for the FocusLens application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	// Live attention endpoints need the session controller
	if s.config.App != nil {
		s.mux.HandleFunc("/api/session/start", s.handleSessionStart)
		s.mux.HandleFunc("/api/session/stop", s.handleSessionStop)
		s.mux.HandleFunc("/api/attention", s.handleAttention)
		s.mux.HandleFunc("/api/attention/history", s.handleHistory)
		s.mux.Handle("/api/attention/ws", NewAttentionHandler(s.config.App))
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.App))
	}

	// Session log API needs the store
	if s.config.Store != nil {
		sessionsHandler := api.NewSessionsHandler(s.config.Store)
		s.mux.Handle("/api/sessions", sessionsHandler)
		s.mux.Handle("/api/sessions/", sessionsHandler)
		s.mux.Handle("/api/settings/", api.NewSettingsHandler(s.config.Store))
	}

	// Serve the dashboard if StaticDir is configured
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

	uptime := time.Since(s.start)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	})
}

// handleSessionStart handles POST /api/session/start. A camera failure maps
// to 503 with the user-facing status message.
func (s *Server) handleSessionStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := s.config.App.Start(); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"error":  err.Error(),
			"status": s.config.App.Status(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"state":      string(s.config.App.State()),
		"status":     s.config.App.Status(),
		"session_id": s.config.App.SessionID(),
	})
}

// handleSessionStop handles POST /api/session/stop.
func (s *Server) handleSessionStop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.config.App.Stop()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"state":  string(s.config.App.State()),
		"status": s.config.App.Status(),
	})
}

// attentionResponse is the live attention payload: tracker snapshot plus
// the controller's state and status line.
type attentionResponse struct {
	Score          float64 `json:"score"`
	EyeActivity    float64 `json:"eye_activity"`
	HeadStability  float64 `json:"head_stability"`
	FacialMovement float64 `json:"facial_movement"`
	Label          string  `json:"label"`
	Baseline       float64 `json:"baseline"`
	FaceDetected   bool    `json:"face_detected"`
	State          string  `json:"state"`
	Status         string  `json:"status"`
	SessionID      string  `json:"session_id,omitempty"`
}

func (s *Server) attentionPayload() attentionResponse {
	snap := s.config.App.Snapshot()
	return attentionResponse{
		Score:          snap.Score,
		EyeActivity:    snap.EyeActivity,
		HeadStability:  snap.HeadStability,
		FacialMovement: snap.FacialMovement,
		Label:          snap.Label,
		Baseline:       snap.Baseline,
		FaceDetected:   snap.FaceDetected,
		State:          string(s.config.App.State()),
		Status:         s.config.App.Status(),
		SessionID:      s.config.App.SessionID(),
	}
}

// handleAttention handles GET /api/attention.
func (s *Server) handleAttention(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, s.attentionPayload())
}

// handleHistory handles GET /api/attention/history. The history is the
// in-memory rolling window, oldest first.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	history := s.config.App.History()
	if history == nil {
		history = []float64{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"history": history,
	})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
