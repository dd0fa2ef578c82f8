package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"register-schedule-backend/internal/model"
)

// GetExecutions handles GET /api/clients/{client_id}/executions with
// optional type (open|close), status (success|failure), from and to
// (RFC 3339) filters. The range defaults to the trailing 24 hours.
func (h *Handler) GetExecutions(c *gin.Context) {
	clientID, err := strconv.ParseInt(c.Param("client_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid client ID"})
		return
	}

	var operationType string
	switch c.Query("type") {
	case "":
	case "open":
		operationType = model.OperationAutoOpen
	case "close":
		operationType = model.OperationAutoClose
	default:
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "type must be open or close"})
		return
	}

	status := c.Query("status")
	if status != "" && status != model.StatusSuccess && status != model.StatusFailure {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "status must be success or failure"})
		return
	}

	end := time.Now().UTC()
	start := end.Add(-24 * time.Hour)
	if fromParam := c.Query("from"); fromParam != "" {
		start, err = time.Parse(time.RFC3339, fromParam)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "from must be RFC 3339"})
			return
		}
	}
	if toParam := c.Query("to"); toParam != "" {
		end, err = time.Parse(time.RFC3339, toParam)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "to must be RFC 3339"})
			return
		}
	}

	entries, err := h.store.LogsInRange(c.Request.Context(), clientID, operationType, status, start, end)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve executions"})
		return
	}

	if entries == nil {
		entries = []model.ExecutionLog{}
	}
	c.JSON(http.StatusOK, entries)
}
