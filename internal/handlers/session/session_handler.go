// internal/handlers/session/session_handler.go
package session

import (
	"net/http"
	"strings"

	"estate-portal/internal/middleware"
	"estate-portal/internal/pkg/response"
	"estate-portal/internal/pkg/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ViewDropper discards every list view an identity holds.
type ViewDropper interface {
	DropSession(identity string) int
}

// Disconnecter closes an identity's websockets.
type Disconnecter interface {
	DisconnectUser(identity, reason string)
}

type CreateSessionRequest struct {
	Token string `json:"token"`
}

type SessionHandler struct {
	store   *session.Store
	views   ViewDropper
	sockets Disconnecter
	logger  *zap.Logger
}

func NewSessionHandler(store *session.Store, views ViewDropper, sockets Disconnecter, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		store:   store,
		views:   views,
		sockets: sockets,
		logger:  logger,
	}
}

// ========== Login ==========

// CreateSession exchanges an upstream token for a portal session id. The
// token may come in the body or as a Bearer header.
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ValidationError(c, "invalid request", err)
			return
		}
	}
	token := strings.TrimSpace(req.Token)
	if token == "" {
		token = bearer(c.GetHeader("Authorization"))
	}
	if token == "" {
		response.ValidationError(c, "token is required", nil)
		return
	}

	data, err := h.store.Create(c.Request.Context(), token, c.ClientIP(), c.GetHeader("User-Agent"))
	if err != nil {
		h.logger.Warn("session creation failed", zap.String("ip", c.ClientIP()), zap.Error(err))
		response.FromError(c, err)
		return
	}

	h.logger.Info("portal session created",
		zap.String("session_id", data.ID),
		zap.String("subject", data.Subject),
	)
	response.Success(c, http.StatusCreated, "session created", data.Info())
}

// GetSession describes the caller's portal session.
func (h *SessionHandler) GetSession(c *gin.Context) {
	id, ok := middleware.GetSessionID(c)
	if !ok {
		response.NotFound(c, "no portal session")
		return
	}

	data, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "session retrieved", data.Info())
}

// ========== Logout ==========

// DeleteSession ends the portal session, drops the caller's views and
// closes their sockets.
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	identity := middleware.MustGetIdentity(c)

	if id, ok := middleware.GetSessionID(c); ok {
		if err := h.store.Delete(c.Request.Context(), id); err != nil {
			response.FromError(c, err)
			return
		}
	}

	dropped := h.views.DropSession(identity)
	h.sockets.DisconnectUser(identity, "logout")

	h.logger.Info("portal session ended",
		zap.String("identity", identity),
		zap.Int("views_dropped", dropped),
	)
	response.Success(c, http.StatusOK, "session ended", nil)
}

func bearer(header string) string {
	parts := strings.Fields(header)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}
