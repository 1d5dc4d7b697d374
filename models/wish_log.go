// models/wish_log.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Dispatch outcome statuses.
const (
	StatusPending        = "pending"
	StatusSuccess        = "success"
	StatusFailed         = "failed"
	StatusError          = "error"
	StatusNotImplemented = "not_implemented"
)

// WishLog records one notification delivery attempt. Rows are written
// only by the dispatcher and never updated or deleted afterwards.
type WishLog struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key"`
	EventID uuid.UUID `gorm:"type:uuid;index;not null"`
	UserID  uuid.UUID `gorm:"type:uuid;index;not null"`

	Channel      string `gorm:"type:varchar(20)"` // email, sms, app
	Status       string `gorm:"type:varchar(20)"` // pending, success, failed, error, not_implemented
	Message      string `gorm:"type:text"`
	ErrorDetails string `gorm:"type:text"`
	SentAt       time.Time

	gorm.Model
}

func (w *WishLog) BeforeCreate(tx *gorm.DB) (err error) {
	w.ID = uuid.New()
	return
}
