package teamcalendar

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const EventTypeLeave = "LEAVE"

// CalendarEvent is a shared calendar entry. ReferenceID is the leave request
// it mirrors; there is at most one event per request.
type CalendarEvent struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ReferenceID  uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_calendar_event_reference"`
	EmployeeID   uuid.UUID  `gorm:"type:uuid;not null"`
	DepartmentID *uuid.UUID `gorm:"type:uuid;index:idx_calendar_events_department"`
	EventType    string     `gorm:"type:varchar(20);not null"`
	Title        string     `gorm:"type:varchar(255);not null"`
	Status       string     `gorm:"type:varchar(20);not null"`
	StartAt      time.Time  `gorm:"not null;index:idx_calendar_events_range"`
	EndAt        time.Time  `gorm:"not null;index:idx_calendar_events_range"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (e *CalendarEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
