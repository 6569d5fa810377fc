package leave

import (
	"time"

	"go-leave/internal/leavetype"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LeaveRequest is never deleted; it only moves through statuses.
// TotalDays is the chargeable duration computed at submission and reused by
// every later transition.
type LeaveRequest struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID  uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_employee_dates"`
	LeaveTypeID uuid.UUID `gorm:"type:uuid;not null"`

	StartDate time.Time       `gorm:"type:date;not null;index:idx_leave_requests_employee_dates"`
	EndDate   time.Time       `gorm:"type:date;not null;index:idx_leave_requests_employee_dates"`
	TotalDays decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	FullDay   bool            `gorm:"not null"`
	Reason    string          `gorm:"type:text"`
	Comments  string          `gorm:"type:text"`

	Status     Status     `gorm:"type:varchar(20);not null;index:idx_leave_requests_status"`
	ReviewedBy *uuid.UUID `gorm:"type:uuid"`
	ReviewedAt *time.Time

	LeaveType *leavetype.LeaveType `gorm:"foreignKey:LeaveTypeID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

func (l *LeaveRequest) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

func (l LeaveRequest) leaveTypeName() string {
	if l.LeaveType == nil {
		return ""
	}
	return l.LeaveType.Name
}
