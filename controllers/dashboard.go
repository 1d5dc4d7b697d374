package controllers

import (
	"fmt"
	"net/http"
	"time"

	"dearminder-backend/config"
	"dearminder-backend/models"
	"dearminder-backend/services"
	"dearminder-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UpcomingEvent struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	EventType string    `json:"eventType"`
	Date      string    `json:"date"` // e.g. "Today", "Tomorrow", "3 days"
	DaysUntil int       `json:"daysUntil"`
}

type TypeCount struct {
	EventType string `json:"eventType"`
	Count     int64  `json:"count"`
}

func GetDashboardOverview(c *gin.Context) {
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

	// Total events
	var totalEvents int64
	config.DB.Model(&models.Event{}).
		Where("user_id = ? AND deleted_at IS NULL", userUUID).Count(&totalEvents)

	// Events by type
	var byType []TypeCount
	config.DB.Model(&models.Event{}).
		Select("event_type, COUNT(*) as count").
		Where("user_id = ? AND deleted_at IS NULL", userUUID).
		Group("event_type").Scan(&byType)

	// Wishes sent (successful dispatch attempts)
	var wishesSent int64
	config.DB.Model(&models.WishLog{}).
		Where("user_id = ? AND status = ?", userUUID, models.StatusSuccess).
		Count(&wishesSent)

	// Unread in-app notifications
	var unread int64
	config.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userUUID, false).Count(&unread)

	// Upcoming events within 30 days, sorted by next occurrence
	var events []models.Event
	config.DB.Where("user_id = ? AND is_active = ?", userUUID, true).Find(&events)

	now := time.Now()
	var upcoming []UpcomingEvent
	for _, event := range services.Upcoming(events, now, 30) {
		daysUntil := utils.DaysBetween(utils.AdjustedEventDate(event.EventDate, now), now)
		var label string
		switch daysUntil {
		case 0:
			label = "Today"
		case 1:
			label = "Tomorrow"
		default:
			label = fmt.Sprintf("%d days", daysUntil)
		}
		upcoming = append(upcoming, UpcomingEvent{
			ID:        event.ID,
			Name:      event.Name,
			EventType: event.EventType,
			Date:      label,
			DaysUntil: daysUntil,
		})
		if len(upcoming) >= 7 {
			break
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"totalEvents":         totalEvents,
		"eventsByType":        byType,
		"wishesSent":          wishesSent,
		"unreadNotifications": unread,
		"upcomingEvents":      upcoming,
	})
}
