package holiday

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Holiday struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Date        time.Time `gorm:"type:date;not null;uniqueIndex:uq_holiday_date_country"`
	Name        string    `gorm:"type:varchar(120);not null"`
	IsRecurring bool      `gorm:"not null"`
	CountryCode string    `gorm:"type:varchar(2);not null;uniqueIndex:uq_holiday_date_country"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (h *Holiday) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

// OccurrencesBetween returns the dates this holiday falls on inside [start, end].
// A recurring holiday repeats on the same month and day every year; Feb 29
// only occurs in leap years.
func (h Holiday) OccurrencesBetween(start, end time.Time) []time.Time {
	if !h.IsRecurring {
		if h.Date.Before(start) || h.Date.After(end) {
			return nil
		}
		return []time.Time{h.Date}
	}

	var out []time.Time
	for y := start.Year(); y <= end.Year(); y++ {
		d := time.Date(y, h.Date.Month(), h.Date.Day(), 0, 0, 0, 0, time.UTC)
		if d.Month() != h.Date.Month() {
			continue
		}
		if d.Before(start) || d.After(end) {
			continue
		}
		out = append(out, d)
	}
	return out
}
