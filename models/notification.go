// models/notification.go
package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification is an in-app notification row surfaced on the dashboard.
type Notification struct {
	ID      uuid.UUID  `gorm:"type:uuid;primary_key"`
	UserID  uuid.UUID  `gorm:"type:uuid;index;not null"`
	EventID *uuid.UUID `gorm:"type:uuid;index"`

	Type    string `gorm:"type:varchar(30)"` // wish, reminder
	Title   string `gorm:"not null"`
	Message string `gorm:"type:text"`
	IsRead  bool   `gorm:"default:false"`

	gorm.Model
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	n.ID = uuid.New()
	return
}
