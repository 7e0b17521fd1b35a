package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/workbook-backend/internal/http/response"
	"github.com/yungbote/workbook-backend/internal/platform/ctxutil"
	"github.com/yungbote/workbook-backend/internal/services"
	"github.com/yungbote/workbook-backend/internal/session"
)

type SessionHandler struct {
	sessions services.SessionService
}

func NewSessionHandler(sessions services.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// POST /api/session/:username
func (h *SessionHandler) Login(c *gin.Context) {
	login, err := h.sessions.Login(c.Request.Context(), c.Param("username"))
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	http.SetCookie(c.Writer, h.sessions.Codec().Cookie(login.Token, login.Session.ExpiresAt))
	response.RespondOK(c, gin.H{"ok": true, "session_id": login.Session.ID, "user_id": login.User.ID})
}

// GET /api/session
func (h *SessionHandler) Get(c *gin.Context) {
	ad := ctxutil.GetActorData(c.Request.Context())
	if ad == nil {
		response.RespondError(c, http.StatusForbidden, "invalid_session", services.ErrInvalidSession)
		return
	}
	response.RespondOK(c, gin.H{"user_id": ad.ActorID})
}

// DELETE /api/session
func (h *SessionHandler) Delete(c *gin.Context) {
	token, err := c.Cookie(session.CookieName)
	if err != nil || token == "" {
		response.RespondError(c, http.StatusForbidden, "invalid_session", services.ErrInvalidSession)
		return
	}
	if err := h.sessions.Logout(c.Request.Context(), token); err != nil {
		if errors.Is(err, services.ErrInvalidSession) {
			response.RespondError(c, http.StatusForbidden, "invalid_session", err)
			return
		}
		response.RespondAggregateError(c, err)
		return
	}
	http.SetCookie(c.Writer, h.sessions.Codec().Expired())
	response.RespondOK(c, gin.H{"ok": true})
}
