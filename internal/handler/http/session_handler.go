package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mohammedadiga/newRoodxServer/internal/config"
	"github.com/mohammedadiga/newRoodxServer/internal/handler/http/middleware"
	"github.com/mohammedadiga/newRoodxServer/internal/service"
)

// SessionHandler exposes the per-device session list to its owner.
type SessionHandler struct {
	sessions *service.SessionService
	errors   translator
}

// NewSessionHandler builds the session handler.
func NewSessionHandler(sessions *service.SessionService, cfg *config.Config, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		errors:   translator{logger: logger, production: cfg.IsProduction()},
	}
}

// Current returns the caller's own session together with its user profile.
func (h *SessionHandler) Current(c *gin.Context) {
	sessionID := c.GetString(middleware.ContextSessionIDKey)

	user, session, err := h.sessions.CurrentSession(c.Request.Context(), sessionID)
	if err != nil {
		h.errors.handle(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "session": session})
}

// List returns every session of the caller, the current one flagged.
func (h *SessionHandler) List(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserIDKey)
	sessionID := c.GetString(middleware.ContextSessionIDKey)

	views, err := h.sessions.ListSessions(c.Request.Context(), userID, sessionID)
	if err != nil {
		h.errors.handle(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": views})
}

// Delete revokes one of the caller's sessions by id.
func (h *SessionHandler) Delete(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserIDKey)
	targetID := c.Param("id")

	if err := h.sessions.DeleteSession(c.Request.Context(), userID, targetID); err != nil {
		h.errors.handle(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Session deleted"})
}
