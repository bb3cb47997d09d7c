package server

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/RajSingh-webdev/FocusLens/internal/app"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// AttentionHandler pushes live attention snapshots to WebSocket clients at
// the scoring cadence.
type AttentionHandler struct {
	app     *app.App
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

// NewAttentionHandler creates a new AttentionHandler for the given session controller.
func NewAttentionHandler(a *app.App) *AttentionHandler {
	h := &AttentionHandler{
		app:     a,
		clients: make(map[*websocket.Conn]bool),
	}
	go h.broadcast()
	return h
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *AttentionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

type wsMessage struct {
	Score          float64 `json:"score"`
	EyeActivity    float64 `json:"eye_activity"`
	HeadStability  float64 `json:"head_stability"`
	FacialMovement float64 `json:"facial_movement"`
	Label          string  `json:"label"`
	FaceDetected   bool    `json:"face_detected"`
	State          string  `json:"state"`
	Status         string  `json:"status"`
	Timestamp      int64   `json:"timestamp"`
}

// broadcast sends the current snapshot to all connected clients.
func (h *AttentionHandler) broadcast() {
	ticker := time.NewTicker(200 * time.Millisecond) // scoring cadence
	defer ticker.Stop()

	for range ticker.C {
		h.mu.RLock()
		if len(h.clients) == 0 {
			h.mu.RUnlock()
			continue
		}
		h.mu.RUnlock()

		snap := h.app.Snapshot()
		msg := wsMessage{
			Score:          snap.Score,
			EyeActivity:    snap.EyeActivity,
			HeadStability:  snap.HeadStability,
			FacialMovement: snap.FacialMovement,
			Label:          snap.Label,
			FaceDetected:   snap.FaceDetected,
			State:          string(h.app.State()),
			Status:         h.app.Status(),
			Timestamp:      time.Now().UnixMilli(),
		}

		h.mu.RLock()
		for conn := range h.clients {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("websocket write error: %v", err)
			}
		}
		h.mu.RUnlock()
	}
}
