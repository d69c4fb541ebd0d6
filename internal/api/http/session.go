package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewSession registers a fresh origin session.
func (h *Handlers) NewSession(c *gin.Context) {
	s, err := h.sessions.Create()
	if err != nil {
		h.logger.Error("Failed to create session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessionId": s.ID})
}

// GetSession returns session metadata. Looking a session up counts as use.
func (h *Handlers) GetSession(c *gin.Context) {
	s, ok := h.sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, s.Metadata())
}

// DeleteSession drops a session and its cookies. Unknown IDs are not an error.
func (h *Handlers) DeleteSession(c *gin.Context) {
	h.sessions.Invalidate(c.Param("id"))
	c.Status(http.StatusNoContent)
}
