package notification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification is one inbox row. (EventID, RecipientID) is unique so a
// redelivered event does not duplicate the inbox.
type Notification struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	EventID     string     `gorm:"type:varchar(64);not null;uniqueIndex:uq_notification_event_recipient"`
	RecipientID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_notification_event_recipient;index:idx_notifications_recipient"`
	Kind        string     `gorm:"type:varchar(30);not null"`
	Title       string     `gorm:"type:varchar(200);not null"`
	Message     string     `gorm:"type:text;not null"`
	ReferenceID *uuid.UUID `gorm:"type:uuid"`
	IsRead      bool       `gorm:"not null"`
	ReadAt      *time.Time
	CreatedAt   time.Time
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
