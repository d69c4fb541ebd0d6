package http

import (
	"errors"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/unilite/internal/domain/stats"
)

// Data serves the cached dashboard figures.
func (h *Handlers) Data(c *gin.Context) {
	userID := c.DefaultQuery("userId", stats.DefaultUserID)

	result, err := h.stats.Lookup(userID, c.Query("type"))
	if errors.Is(err, stats.ErrUnknownType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "types": stats.Types()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	body, err := sonic.Marshal(result)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode stats"})
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}
