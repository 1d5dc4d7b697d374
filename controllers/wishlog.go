package controllers

import (
	"errors"
	"net/http"

	"dearminder-backend/config"
	"dearminder-backend/models"
	"dearminder-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetEventWishLogs retrieves the dispatch history for one event,
// newest first
func GetEventWishLogs(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	userUUID, err := uuid.Parse(userID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid user ID format")
		return
	}

	eventUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid event ID format")
		return
	}

	// Events are scoped per user; confirm ownership before exposing logs
	var event models.Event
	if err := config.DB.Where("user_id = ? AND id = ?", userUUID, eventUUID).
		First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Event not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var logs []models.WishLog
	if err := config.DB.Where("event_id = ?", eventUUID).
		Order("sent_at DESC").Find(&logs).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve wish logs")
		return
	}

	c.JSON(http.StatusOK, logs)
}
