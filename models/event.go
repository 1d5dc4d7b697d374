// models/event.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Delivery channels an event may notify through.
const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
	ChannelApp   = "app"
)

// Event is a person + occasion reminder. EventDate is a yearly-recurring
// month/day; the stored year carries no meaning for recurrence.
type Event struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name      string    `gorm:"not null"`                  // person being remembered
	EventType string    `gorm:"type:varchar(30);not null"` // birthday, anniversary, custom
	EventDate time.Time `gorm:"not null"`
	Relation  string    `gorm:"type:varchar(30)"`

	Channels StringList `gorm:"type:jsonb;default:'[]'"`

	Email         string
	Phone         string
	CustomMessage string `gorm:"type:text"`

	AutoWishEnabled bool `gorm:"default:false"`
	IsActive        bool `gorm:"default:true"`

	WishLogs []WishLog `gorm:"foreignKey:EventID"`

	gorm.Model
}

func (e *Event) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return
}

// StringList is a JSONB-backed string array column.
type StringList []string

func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		s = StringList{}
	}
	return json.Marshal(s)
}

func (s *StringList) Scan(value interface{}) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, s)
}
