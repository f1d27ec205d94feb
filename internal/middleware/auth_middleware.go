// internal/middleware/auth_middleware.go
package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	xerrors "estate-portal/internal/pkg/errors"
	"estate-portal/internal/pkg/jwt"
	"estate-portal/internal/pkg/response"
	"estate-portal/internal/pkg/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionHeader carries a portal session id issued by POST /session.
const SessionHeader = "X-Portal-Session"

const (
	identityKey  = "identity"
	sessionIDKey = "session_id"
	subjectKey   = "subject"
)

type AuthMiddleware struct {
	sessions  *session.Store
	inspector *jwt.Inspector
	logger    *zap.Logger
	now       func() time.Time
}

func NewAuthMiddleware(sessions *session.Store, inspector *jwt.Inspector, logger *zap.Logger) *AuthMiddleware {
	if inspector == nil {
		inspector = jwt.NewInspector(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthMiddleware{sessions: sessions, inspector: inspector, logger: logger, now: time.Now}
}

// Auth resolves the caller's upstream token, either from a portal session
// or from a bearer token passed through, and stores it in the request
// context for the upstream client.
func (m *AuthMiddleware) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if id := extractSessionID(c); id != "" && m.sessions != nil {
			data, err := m.sessions.Get(ctx, id)
			if err != nil {
				response.FromError(c, err)
				return
			}
			if err := m.sessions.Touch(ctx, data); err != nil {
				m.logger.Warn("failed to touch session", zap.String("session_id", id), zap.Error(err))
			}

			ctx = session.WithSessionID(session.WithToken(ctx, data.Token), data.ID)
			c.Request = c.Request.WithContext(ctx)
			c.Set(identityKey, data.ID)
			c.Set(sessionIDKey, data.ID)
			c.Set(subjectKey, data.Subject)
			c.Next()
			return
		}

		token := extractToken(c)
		if token == "" {
			response.Error(c, http.StatusUnauthorized, "missing authorization token", xerrors.ErrUnauthorized)
			return
		}

		var subject string
		if claims, err := m.inspector.Inspect(token); err == nil {
			if claims.Expired(m.now()) {
				response.FromError(c, xerrors.ErrSessionExpired)
				return
			}
			subject = claims.Subject
		}

		c.Request = c.Request.WithContext(session.WithToken(ctx, token))
		c.Set(identityKey, TokenIdentity(token))
		c.Set(subjectKey, subject)
		c.Next()
	}
}

// TokenIdentity keys views for callers using a raw bearer token, so the
// token itself is never used as a map key or logged.
func TokenIdentity(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "tok-" + hex.EncodeToString(sum[:16])
}

// extractSessionID reads the portal session from the header, or from the
// query for websocket upgrades.
func extractSessionID(c *gin.Context) string {
	if id := strings.TrimSpace(c.GetHeader(SessionHeader)); id != "" {
		return id
	}
	return strings.TrimSpace(c.Query("session"))
}

// extractToken extracts Bearer token from Authorization header
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Fields(authHeader)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}

	// Browsers cannot set headers on websocket upgrades.
	return strings.TrimSpace(c.Query("token"))
}
