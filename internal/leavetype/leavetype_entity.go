package leavetype

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type LeaveType struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name             string          `gorm:"type:varchar(100);not null;uniqueIndex:uq_leave_type_name"`
	Description      string          `gorm:"type:text"`
	AccrualRate      decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	MaxDays          *int            `gorm:"type:int"`
	RequiresDocument bool            `gorm:"not null"`
	IsActive         bool            `gorm:"not null;index:idx_leave_types_active"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (l *LeaveType) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
