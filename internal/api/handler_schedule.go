package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"register-schedule-backend/internal/engine"
)

// GetSchedule handles GET /api/clients/{client_id}/schedule: today's
// expected open/close events with execution status.
func (h *Handler) GetSchedule(c *gin.Context) {
	clientID, err := strconv.ParseInt(c.Param("client_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid client ID"})
		return
	}

	operations, err := h.engine.Project(c.Request.Context(), clientID, time.Now().UTC())
	if err != nil {
		var cfgErr *engine.ConfigError
		if errors.As(err, &cfgErr) {
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": cfgErr.Error()})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to project schedule"})
		return
	}

	if operations == nil {
		operations = []engine.ScheduledOperation{}
	}
	c.JSON(http.StatusOK, operations)
}
