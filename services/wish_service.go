// services/wish_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"dearminder-backend/models"
	"dearminder-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DispatchResult is the per-event outcome reported back to the caller.
type DispatchResult struct {
	UserID  uuid.UUID `json:"userId"`
	EventID uuid.UUID `json:"eventId"`
	Success bool      `json:"success"`
	Error   string    `json:"error,omitempty"`
}

// DispatchSummary is the JSON-serializable result of one horizon run.
type DispatchSummary struct {
	Processed int              `json:"processed"`
	Results   []DispatchResult `json:"results"`
}

// WishService selects due events and fans out per-channel notification
// attempts, writing one WishLog per attempt. All collaborators are
// injected so tests run against in-memory fakes.
type WishService struct {
	events EventStore
	logs   WishLogStore
	notifs NotificationStore
	users  UserStore
	email  EmailSender
	sms    SMSSender

	// Now is the clock used for due-day computation; replaceable in tests.
	Now func() time.Time
}

func NewWishService(events EventStore, logs WishLogStore, notifs NotificationStore, users UserStore, email EmailSender, sms SMSSender) *WishService {
	return &WishService{
		events: events,
		logs:   logs,
		notifs: notifs,
		users:  users,
		email:  email,
		sms:    sms,
		Now:    time.Now,
	}
}

// NewWishServiceFromDB wires the service against gorm-backed stores and
// the environment-configured transports.
func NewWishServiceFromDB(db *gorm.DB) *WishService {
	return NewWishService(
		NewGormEventStore(db),
		NewGormWishLogStore(db),
		NewGormNotificationStore(db),
		NewGormUserStore(db),
		NewEmailSender(),
		NewSMSSender(),
	)
}

// DueEvents returns the events whose recurring month/day equals
// today+offset, grouped by owning user. A store failure is fatal for
// the invocation and propagates to the caller.
func (s *WishService) DueEvents(offsetDays int) (map[uuid.UUID][]models.Event, error) {
	target := utils.BeginningOfDay(s.Now()).AddDate(0, 0, offsetDays)
	due, err := s.events.ListForDay(target)
	if err != nil {
		return nil, err
	}

	grouped := make(map[uuid.UUID][]models.Event)
	for _, event := range due {
		grouped[event.UserID] = append(grouped[event.UserID], event)
	}
	return grouped, nil
}

// ProcessToday dispatches wishes for today's auto-wish events across
// each event's preferred channels. Dispatch requires both the event's
// flag and the owner's auto-wish master switch. Per-channel failures
// are contained; only the initial selection query can abort the run.
func (s *WishService) ProcessToday() (*DispatchSummary, error) {
	log.Println("Starting due-today wish dispatch...")

	grouped, err := s.DueEvents(0)
	if err != nil {
		return nil, err
	}

	summary := &DispatchSummary{Results: []DispatchResult{}}
	for userID, events := range grouped {
		user, err := s.users.FindByID(userID)
		if err != nil {
			// Cannot verify the owner's opt-out, so nothing is sent.
			log.Printf("Failed to load user %s: %v", userID, err)
			for _, event := range events {
				if !event.AutoWishEnabled {
					continue
				}
				summary.Results = append(summary.Results, DispatchResult{
					UserID:  userID,
					EventID: event.ID,
					Success: false,
					Error:   err.Error(),
				})
				summary.Processed++
			}
			continue
		}
		if !user.AutoWishEnabled {
			continue
		}

		for _, event := range events {
			if !event.AutoWishEnabled {
				continue
			}
			summary.Results = append(summary.Results, s.dispatchWish(event))
			summary.Processed++
		}
	}

	log.Printf("Due-today dispatch completed: %d events processed", summary.Processed)
	return summary, nil
}

// dispatchWish attempts every preferred channel for one event and
// appends one WishLog per attempt. An event counts as success when no
// attempted channel ended failed or error.
func (s *WishService) dispatchWish(event models.Event) DispatchResult {
	message := WishMessage(event)
	result := DispatchResult{UserID: event.UserID, EventID: event.ID, Success: true}

	for _, channel := range event.Channels {
		status, details := s.attemptChannel(event, channel, message)

		entry := models.WishLog{
			EventID:      event.ID,
			UserID:       event.UserID,
			Channel:      channel,
			Status:       status,
			Message:      message,
			ErrorDetails: details,
			SentAt:       s.Now(),
		}
		if err := s.logs.Append(&entry); err != nil {
			// Best-effort telemetry; the send already happened.
			log.Printf("Failed to log wish for event %s: %v", event.ID, err)
		}

		if status == models.StatusFailed || status == models.StatusError {
			result.Success = false
			if result.Error == "" {
				result.Error = details
			}
		}
	}

	return result
}

// attemptChannel performs one delivery attempt. A panicking transport
// is recovered and classified as an error outcome so the rest of the
// batch keeps going.
func (s *WishService) attemptChannel(event models.Event, channel, message string) (status, details string) {
	defer func() {
		if r := recover(); r != nil {
			status = models.StatusError
			details = fmt.Sprintf("%v", r)
		}
	}()

	switch channel {
	case models.ChannelEmail:
		if event.Email == "" {
			return models.StatusFailed, "missing email address for email channel"
		}
		subject := fmt.Sprintf("Happy %s!", event.EventType)
		if err := s.email.Send(event.Email, subject, message); err != nil {
			return models.StatusFailed, err.Error()
		}
		return models.StatusSuccess, ""

	case models.ChannelSMS:
		if event.Phone == "" {
			return models.StatusFailed, "missing phone number for sms channel"
		}
		if err := s.sms.Send(event.Phone, message); err != nil {
			if errors.Is(err, ErrSMSNotImplemented) {
				return models.StatusNotImplemented, err.Error()
			}
			return models.StatusFailed, err.Error()
		}
		return models.StatusSuccess, ""

	case models.ChannelApp:
		// In-app surfacing only writes a notification row; rendering is
		// the frontend's job. A write failure does not fail the channel.
		n := models.Notification{
			UserID:  event.UserID,
			EventID: &event.ID,
			Type:    "wish",
			Title:   fmt.Sprintf("Today is %s's %s!", event.Name, event.EventType),
			Message: message,
		}
		if err := s.notifs.Create(&n); err != nil {
			log.Printf("Failed to create in-app notification for event %s: %v", event.ID, err)
		}
		return models.StatusSuccess, ""

	default:
		return models.StatusError, fmt.Sprintf("unknown channel: %s", channel)
	}
}

// ProcessTomorrow emails owners a day-before reminder for tomorrow's
// events and surfaces an in-app notification, honoring each user's
// notification preferences.
func (s *WishService) ProcessTomorrow() (*DispatchSummary, error) {
	log.Println("Starting due-tomorrow reminder processing...")

	grouped, err := s.DueEvents(1)
	if err != nil {
		return nil, err
	}

	summary := &DispatchSummary{Results: []DispatchResult{}}
	for userID, events := range grouped {
		user, err := s.users.FindByID(userID)
		if err != nil {
			log.Printf("Failed to load user %s: %v", userID, err)
			for _, event := range events {
				summary.Results = append(summary.Results, DispatchResult{
					UserID:  userID,
					EventID: event.ID,
					Success: false,
					Error:   err.Error(),
				})
				summary.Processed++
			}
			continue
		}

		for _, event := range events {
			summary.Results = append(summary.Results, s.remindOwner(user, event))
			summary.Processed++
		}
	}

	log.Printf("Due-tomorrow processing completed: %d events processed", summary.Processed)
	return summary, nil
}

func (s *WishService) remindOwner(user *models.User, event models.Event) DispatchResult {
	result := DispatchResult{UserID: user.ID, EventID: event.ID, Success: true}
	eventDay := utils.AdjustedEventDate(event.EventDate, s.Now()).Format("January 2")

	if user.EmailReminders {
		subject := fmt.Sprintf("Upcoming %s Reminder", event.EventType)
		body := fmt.Sprintf("Hello,\n\nThis is a reminder that %s's %s is coming up on %s.\nDon't forget to send your wishes!\n\nBest regards,\nDearMinder Team",
			event.Name, event.EventType, eventDay)
		if err := s.email.Send(user.Email, subject, body); err != nil {
			log.Printf("Failed to send reminder email to %s: %v", user.Email, err)
			result.Success = false
			result.Error = err.Error()
		}
	}

	if user.AppNotifications {
		n := models.Notification{
			UserID:  user.ID,
			EventID: &event.ID,
			Type:    "reminder",
			Title:   fmt.Sprintf("%s's %s is tomorrow", event.Name, event.EventType),
			Message: fmt.Sprintf("%s's %s is coming up on %s.", event.Name, event.EventType, eventDay),
		}
		if err := s.notifs.Create(&n); err != nil {
			log.Printf("Failed to create reminder notification for event %s: %v", event.ID, err)
		}
	}

	return result
}

// WishMessage returns the text sent for an event: the custom message if
// set, otherwise a default built from the event type.
func WishMessage(event models.Event) string {
	if event.CustomMessage != "" {
		return event.CustomMessage
	}
	return fmt.Sprintf("Wishing you a wonderful %s!", event.EventType)
}

// Upcoming keeps events whose next occurrence is within horizonDays of
// now (today counts), sorted ascending by adjusted date.
func Upcoming(events []models.Event, now time.Time, horizonDays int) []models.Event {
	var upcoming []models.Event
	for _, event := range events {
		adjusted := utils.AdjustedEventDate(event.EventDate, now)
		diff := utils.DaysBetween(adjusted, now)
		if diff >= 0 && diff <= horizonDays {
			upcoming = append(upcoming, event)
		}
	}

	sort.Slice(upcoming, func(i, j int) bool {
		a := utils.AdjustedEventDate(upcoming[i].EventDate, now)
		b := utils.AdjustedEventDate(upcoming[j].EventDate, now)
		return a.Before(b)
	})
	return upcoming
}
