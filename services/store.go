// services/store.go
package services

import (
	"time"

	"dearminder-backend/models"
	"dearminder-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Storage capabilities the wish service depends on. Kept narrow so
// tests can substitute in-memory fakes.
type EventStore interface {
	ListActive() ([]models.Event, error)
	ListForDay(target time.Time) ([]models.Event, error)
}

type WishLogStore interface {
	Append(entry *models.WishLog) error
}

type NotificationStore interface {
	Create(n *models.Notification) error
}

type UserStore interface {
	FindByID(id uuid.UUID) (*models.User, error)
}

type GormEventStore struct {
	db *gorm.DB
}

func NewGormEventStore(db *gorm.DB) *GormEventStore {
	return &GormEventStore{db: db}
}

func (s *GormEventStore) ListActive() ([]models.Event, error) {
	var events []models.Event
	if err := s.db.Where("is_active = ?", true).Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// ListForDay returns active events whose recurring month/day falls on
// the target calendar day. The month/day match is done in Go so the
// Feb 29 clamp stays consistent with the dashboard ranking.
func (s *GormEventStore) ListForDay(target time.Time) ([]models.Event, error) {
	events, err := s.ListActive()
	if err != nil {
		return nil, err
	}
	var due []models.Event
	for _, event := range events {
		if len(event.Channels) == 0 {
			continue
		}
		if utils.OccursOn(event.EventDate, target) {
			due = append(due, event)
		}
	}
	return due, nil
}

type GormWishLogStore struct {
	db *gorm.DB
}

func NewGormWishLogStore(db *gorm.DB) *GormWishLogStore {
	return &GormWishLogStore{db: db}
}

// Append inserts a new log row. Logs are never updated or deleted here;
// retention is handled outside the application.
func (s *GormWishLogStore) Append(entry *models.WishLog) error {
	return s.db.Create(entry).Error
}

type GormNotificationStore struct {
	db *gorm.DB
}

func NewGormNotificationStore(db *gorm.DB) *GormNotificationStore {
	return &GormNotificationStore{db: db}
}

func (s *GormNotificationStore) Create(n *models.Notification) error {
	return s.db.Create(n).Error
}

type GormUserStore struct {
	db *gorm.DB
}

func NewGormUserStore(db *gorm.DB) *GormUserStore {
	return &GormUserStore{db: db}
}

func (s *GormUserStore) FindByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
