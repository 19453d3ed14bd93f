package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ayusman/masterhand/internal/gesture"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // debug surface, local connections only
	},
}

// FrameHub pushes each frame result to connected WebSocket clients for
// debug visualization. The pipeline calls Broadcast from its frame
// listener; the hub never pulls frames itself, so an idle hub costs the
// pipeline nothing.
type FrameHub struct {
	logger  *zap.Logger
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

// NewFrameHub creates an empty hub.
func NewFrameHub(logger *zap.Logger) *FrameHub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FrameHub{
		logger:  logger,
		clients: make(map[*websocket.Conn]bool),
	}
}

// ServeHTTP upgrades the connection and parks it in the client set.
func (h *FrameHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade error", zap.Error(err))
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

	// Keep the connection alive by draining client messages.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *FrameHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends one frame result to every connected client. Results
// without hands never reach this point; the pipeline filters them.
func (h *FrameHub) Broadcast(result *gesture.FrameResult) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.clients) == 0 {
		return
	}

	msg, err := json.Marshal(map[string]any{
		"hands":     result.Hands,
		"snap":      result.Snap,
		"timestamp": time.Now().UnixMilli(),
	})
	if err != nil {
		h.logger.Warn("failed to marshal frame broadcast", zap.Error(err))
		return
	}

	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.logger.Debug("websocket write error", zap.Error(err))
		}
	}
}
