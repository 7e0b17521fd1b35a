package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/workbook-backend/internal/platform/ctxutil"
	"github.com/yungbote/workbook-backend/internal/platform/logger"
	"github.com/yungbote/workbook-backend/internal/services"
	"github.com/yungbote/workbook-backend/internal/session"
)

const invalidSessionCode = "invalid_session"

type SessionMiddleware struct {
	log      *logger.Logger
	sessions services.SessionService
}

func NewSessionMiddleware(log *logger.Logger, sessions services.SessionService) *SessionMiddleware {
	return &SessionMiddleware{log: log.With("middleware", "SessionMiddleware"), sessions: sessions}
}

// RequireSession resolves the session cookie to an actor and rejects the
// request with 403 when it cannot.
func (m *SessionMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(session.CookieName)
		if err != nil || token == "" {
			abortInvalidSession(c)
			return
		}
		actor, err := m.sessions.Resolve(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, services.ErrInvalidSession) {
				m.log.Error("session lookup failed", "error", err)
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
					"error": gin.H{"message": "session store unavailable", "code": "retryable"},
				})
				return
			}
			abortInvalidSession(c)
			return
		}
		c.Request = c.Request.WithContext(ctxutil.WithActorData(c.Request.Context(), actor))
		c.Next()
	}
}

func abortInvalidSession(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"error": gin.H{"message": services.ErrInvalidSession.Error(), "code": invalidSessionCode},
	})
}
