package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// GetClientConfig handles GET /api/clients/{client_id}/config. A config
// row is lazily created with defaults on first read.
func (h *Handler) GetClientConfig(c *gin.Context) {
	clientID, err := strconv.ParseInt(c.Param("client_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid client ID"})
		return
	}

	cfg, err := h.store.GetOrCreateClientConfig(c.Request.Context(), clientID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve client config"})
		return
	}

	c.JSON(http.StatusOK, cfg)
}

type putClientConfigRequest struct {
	Timezone                  string `json:"timezone" binding:"required"`
	AutoScheduleEnabled       bool   `json:"auto_schedule_enabled"`
	NotificationEnabled       bool   `json:"notification_enabled"`
	NotificationMinutesBefore int    `json:"notification_minutes_before" binding:"min=0"`
}

// PutClientConfig handles PUT /api/clients/{client_id}/config.
func (h *Handler) PutClientConfig(c *gin.Context) {
	clientID, err := strconv.ParseInt(c.Param("client_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid client ID"})
		return
	}

	var req putClientConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Reject unknown zones at write time; the engine hard-fails on them.
	if _, err := time.LoadLocation(req.Timezone); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Unknown timezone"})
		return
	}

	cfg, err := h.store.GetOrCreateClientConfig(c.Request.Context(), clientID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve client config"})
		return
	}

	cfg.Timezone = req.Timezone
	cfg.AutoScheduleEnabled = req.AutoScheduleEnabled
	cfg.NotificationEnabled = req.NotificationEnabled
	cfg.NotificationMinutesBefore = req.NotificationMinutesBefore

	if err := h.store.SaveClientConfig(c.Request.Context(), &cfg); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to save client config"})
		return
	}

	c.JSON(http.StatusOK, cfg)
}
