// internal/handlers/websocket/websocket.go
package websocket

import (
	"net/http"
	"time"

	"estate-portal/internal/middleware"
	"estate-portal/internal/pkg/response"
	ws "estate-portal/internal/websocket"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type WebSocketHandler struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewWebSocketHandler accepts upgrades from the given origins. With no
// origins every origin is accepted.
func NewWebSocketHandler(hub *ws.Hub, origins []string, logger *zap.Logger) *WebSocketHandler {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return &WebSocketHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(allowed) == 0 || origin == "" || allowed[origin]
			},
		},
		logger: logger,
	}
}

// HandleConnection upgrades an authenticated request. MUST be used after
// the auth middleware, which accepts the session or token in the query.
func (h *WebSocketHandler) HandleConnection(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		response.Unauthorized(c, "missing authentication token")
		return
	}
	sessionID, _ := middleware.GetSessionID(c)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed",
			zap.Error(err),
			zap.String("ip", c.ClientIP()),
		)
		return
	}

	client := ws.NewClient(h.hub, conn, &ws.ClientAuth{
		Identity:  identity,
		SessionID: sessionID,
		Subject:   middleware.GetSubject(c),
	})

	if !h.hub.Join(client) {
		_ = conn.Close()
		return
	}

	// Start client goroutines
	go client.WritePump()
	go client.ReadPump()
}

// GetStats returns WebSocket connection statistics
func (h *WebSocketHandler) GetStats(c *gin.Context) {
	identity := middleware.MustGetIdentity(c)

	stats := map[string]interface{}{
		"total_connections": h.hub.TotalClients(),
		"your_connections":  h.hub.GetConnectedClients(identity),
		"handled_events":    h.hub.HandledEvents(),
		"timestamp":         time.Now(),
	}

	response.Success(c, http.StatusOK, "WebSocket stats", stats)
}
