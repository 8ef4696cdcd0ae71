package handler

import (
	"errors"
	"net/http"

	"genesis-backend/internal/gateway"
	"genesis-backend/internal/model"
	"genesis-backend/internal/service"
	"genesis-backend/internal/storage"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	sessions *service.SessionService
	gateway  *gateway.Gateway
}

func NewSessionHandler(sessions *service.SessionService, gw *gateway.Gateway) *SessionHandler {
	return &SessionHandler{sessions: sessions, gateway: gw}
}

func statusFor(err error) int {
	if errors.Is(err, storage.ErrSessionNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func (h *SessionHandler) GetSession(c *gin.Context) {
	session, err := h.sessions.GetSession(c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, service.Summary(session))
}

func (h *SessionHandler) GetMessages(c *gin.Context) {
	sessionID := c.Param("id")
	messages, err := h.sessions.GetSessionMessages(sessionID)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"sessionId": sessionID,
		"messages":  messages,
	})
}

// DeleteSession clears the conversation. A caller starts over with a new session id.
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	sessionID := c.Param("id")
	if err := h.sessions.ClearSession(sessionID); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "sessionId": sessionID})
}

func (h *SessionHandler) ListSessions(c *gin.Context) {
	sessions, err := h.sessions.GetAllSessions()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	summaries := make([]model.SessionResponse, len(sessions))
	for i, s := range sessions {
		summaries[i] = service.Summary(s)
	}
	c.JSON(http.StatusOK, gin.H{"sessions": summaries})
}

// WSInfo describes the realtime endpoint.
func (h *SessionHandler) WSInfo(path string) gin.HandlerFunc {
	return func(c *gin.Context) {
		scheme := "ws"
		if c.Request.TLS != nil {
			scheme = "wss"
		}
		c.JSON(http.StatusOK, gin.H{
			"message":     "WebSocket server running on " + c.Request.Host,
			"endpoint":    scheme + "://" + c.Request.Host + path,
			"status":      "active",
			"connections": h.gateway.Registry().Len(),
		})
	}
}
