package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"register-schedule-backend/internal/model"
)

// GetPeriods handles GET /api/clients/{client_id}/periods. An optional
// ?day= query narrows the listing to one weekday.
func (h *Handler) GetPeriods(c *gin.Context) {
	clientID, err := strconv.ParseInt(c.Param("client_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid client ID"})
		return
	}

	var periods []model.SchedulePeriod
	if dayParam := c.Query("day"); dayParam != "" {
		day, err := strconv.Atoi(dayParam)
		if err != nil || day < 1 || day > 7 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "day must be 1 (Monday) through 7 (Sunday)"})
			return
		}
		periods, err = h.store.PeriodsForDay(c.Request.Context(), clientID, day)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve periods"})
			return
		}
	} else {
		periods, err = h.store.PeriodsForClient(c.Request.Context(), clientID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve periods"})
			return
		}
	}

	if periods == nil {
		periods = []model.SchedulePeriod{}
	}
	c.JSON(http.StatusOK, periods)
}

type putPeriodRequest struct {
	ID               int64  `json:"id"`
	DayOfWeek        int    `json:"day_of_week" binding:"required,min=1,max=7"`
	PeriodName       string `json:"period_name" binding:"required"`
	OpenHour         int    `json:"open_hour" binding:"min=0,max=23"`
	OpenMinute       int    `json:"open_minute" binding:"min=0,max=59"`
	CloseHour        int    `json:"close_hour" binding:"min=0,max=23"`
	CloseMinute      int    `json:"close_minute" binding:"min=0,max=59"`
	AutoOpenEnabled  bool   `json:"auto_open_enabled"`
	AutoCloseEnabled bool   `json:"auto_close_enabled"`
	PriorityOrder    int    `json:"priority_order"`
}

// PutPeriod handles PUT /api/clients/{client_id}/periods: create or
// replace one operating period. Open/close ordering is deliberately not
// validated; the engine treats the fields as opaque boundaries.
func (h *Handler) PutPeriod(c *gin.Context) {
	clientID, err := strconv.ParseInt(c.Param("client_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid client ID"})
		return
	}

	var req putPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	period := model.SchedulePeriod{
		ID:               req.ID,
		ClientID:         clientID,
		DayOfWeek:        req.DayOfWeek,
		PeriodName:       req.PeriodName,
		OpenHour:         req.OpenHour,
		OpenMinute:       req.OpenMinute,
		CloseHour:        req.CloseHour,
		CloseMinute:      req.CloseMinute,
		AutoOpenEnabled:  req.AutoOpenEnabled,
		AutoCloseEnabled: req.AutoCloseEnabled,
		IsActive:         true,
		PriorityOrder:    req.PriorityOrder,
	}

	if err := h.store.UpsertPeriod(c.Request.Context(), &period); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to save period"})
		return
	}

	c.JSON(http.StatusOK, period)
}

// DeletePeriod handles DELETE /api/periods/{id}: a soft delete flipping
// is_active off.
func (h *Handler) DeletePeriod(c *gin.Context) {
	periodID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid period ID"})
		return
	}

	if err := h.store.DeactivatePeriod(c.Request.Context(), periodID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Period not found"})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete period"})
		return
	}

	c.Status(http.StatusNoContent)
}
