package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"dearminder-backend/config"
	"dearminder-backend/models"
	"dearminder-backend/services"
	"dearminder-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateEventInput defines the expected JSON structure for creating an event
type CreateEventInput struct {
	Name            string     `json:"name" binding:"required"`
	EventType       string     `json:"eventType" binding:"required"`
	EventDate       *time.Time `json:"eventDate" binding:"required"`
	Relation        string     `json:"relation"`
	Channels        []string   `json:"channels"`
	Email           *string    `json:"email"`
	Phone           *string    `json:"phone"`
	CustomMessage   string     `json:"customMessage"`
	AutoWishEnabled bool       `json:"autoWishEnabled"`
}

// UpdateEventInput defines the expected JSON structure for updating an event
type UpdateEventInput struct {
	Name            *string    `json:"name"`
	EventType       *string    `json:"eventType"`
	EventDate       *time.Time `json:"eventDate"`
	Relation        *string    `json:"relation"`
	Channels        *[]string  `json:"channels"`
	Email           *string    `json:"email"`
	Phone           *string    `json:"phone"`
	CustomMessage   *string    `json:"customMessage"`
	AutoWishEnabled *bool      `json:"autoWishEnabled"`
	IsActive        *bool      `json:"isActive"`
}

// validateContacts checks that each selected channel has the contact
// field it needs.
func validateContacts(channels []string, email, phone string) string {
	for _, ch := range channels {
		switch ch {
		case models.ChannelEmail:
			if email == "" {
				return "email channel selected but no email address provided"
			}
			if !utils.ValidateEmail(email) {
				return "Invalid email address format"
			}
		case models.ChannelSMS:
			if phone == "" {
				return "sms channel selected but no phone number provided"
			}
			if !utils.ValidatePhone(phone) {
				return "Invalid phone number format"
			}
		}
	}
	return ""
}

// CreateEvent creates a new reminder event for the user
func CreateEvent(c *gin.Context) {
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

	var input CreateEventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !utils.ValidateChannels(input.Channels) {
		utils.RespondWithError(c, http.StatusBadRequest, "Channels must be a subset of email, sms, app")
		return
	}

	email := ""
	if input.Email != nil {
		email = *input.Email
	}
	phone := ""
	if input.Phone != nil {
		phone = *input.Phone
	}
	if msg := validateContacts(input.Channels, email, phone); msg != "" {
		utils.RespondWithError(c, http.StatusBadRequest, msg)
		return
	}

	event := models.Event{
		ID:              uuid.New(),
		UserID:          userUUID,
		Name:            input.Name,
		EventType:       input.EventType,
		EventDate:       *input.EventDate,
		Relation:        input.Relation,
		Channels:        models.StringList(input.Channels),
		Email:           email,
		Phone:           phone,
		CustomMessage:   input.CustomMessage,
		AutoWishEnabled: input.AutoWishEnabled,
		IsActive:        true,
	}

	if err := config.DB.Create(&event).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create event")
		return
	}

	c.JSON(http.StatusCreated, event)
}

// GetEvents retrieves all events for the user
func GetEvents(c *gin.Context) {
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

	var events []models.Event
	if err := config.DB.Where("user_id = ?", userUUID).Order("name").Find(&events).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve events")
		return
	}

	c.JSON(http.StatusOK, events)
}

// GetUpcomingEvents retrieves the user's events due within ?days=N
// (default 30), sorted by next occurrence
func GetUpcomingEvents(c *gin.Context) {
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

	days := 30
	if q := c.Query("days"); q != "" {
		if n, err := strconv.Atoi(q); err == nil && n >= 0 {
			days = n
		}
	}

	var events []models.Event
	if err := config.DB.Where("user_id = ? AND is_active = ?", userUUID, true).Find(&events).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve events")
		return
	}

	c.JSON(http.StatusOK, services.Upcoming(events, time.Now(), days))
}

// GetEvent retrieves a specific event by ID
func GetEvent(c *gin.Context) {
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

	c.JSON(http.StatusOK, event)
}

// UpdateEvent updates an existing event
func UpdateEvent(c *gin.Context) {
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

	var input UpdateEventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	// Retrieve existing event
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

	// Update fields if provided
	if input.Name != nil {
		event.Name = *input.Name
	}
	if input.EventType != nil {
		event.EventType = *input.EventType
	}
	if input.EventDate != nil {
		event.EventDate = *input.EventDate
	}
	if input.Relation != nil {
		event.Relation = *input.Relation
	}
	if input.Channels != nil {
		if !utils.ValidateChannels(*input.Channels) {
			utils.RespondWithError(c, http.StatusBadRequest, "Channels must be a subset of email, sms, app")
			return
		}
		event.Channels = models.StringList(*input.Channels)
	}
	if input.Email != nil {
		event.Email = *input.Email
	}
	if input.Phone != nil {
		event.Phone = *input.Phone
	}
	if input.CustomMessage != nil {
		event.CustomMessage = *input.CustomMessage
	}
	if input.AutoWishEnabled != nil {
		event.AutoWishEnabled = *input.AutoWishEnabled
	}
	if input.IsActive != nil {
		event.IsActive = *input.IsActive
	}

	if msg := validateContacts(event.Channels, event.Email, event.Phone); msg != "" {
		utils.RespondWithError(c, http.StatusBadRequest, msg)
		return
	}

	if err := config.DB.Save(&event).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update event")
		return
	}

	c.JSON(http.StatusOK, event)
}

// DeleteEvent soft deletes an event
func DeleteEvent(c *gin.Context) {
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

	result := config.DB.Where("user_id = ? AND id = ?", userUUID, eventUUID).
		Delete(&models.Event{})

	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete event")
		return
	}

	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Event not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully"})
}
