package balance

import (
	"time"

	"go-leave/internal/leavetype"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LeaveBalance is one employee's ledger for one leave type in one year.
// Version increases on every write and guards concurrent updates.
type LeaveBalance struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balance_owner"`
	LeaveTypeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balance_owner"`
	Year        int       `gorm:"not null;uniqueIndex:uq_leave_balance_owner"`

	TotalDays      decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	UsedDays       decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	PendingDays    decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	AdjustmentDays decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	Version        int64           `gorm:"not null"`

	LeaveType *leavetype.LeaveType `gorm:"foreignKey:LeaveTypeID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LeaveBalance) TableName() string {
	return "leave_balances"
}

func (b *LeaveBalance) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Available is total minus used minus pending. It can be negative only after
// an adjustment lowered the total below current usage.
func (b LeaveBalance) Available() decimal.Decimal {
	return b.TotalDays.Sub(b.UsedDays).Sub(b.PendingDays)
}

// BalanceAdjustment records every administrative change to a balance.
type BalanceAdjustment struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey"`
	BalanceID          uuid.UUID       `gorm:"type:uuid;not null;index:idx_balance_adjustments_balance"`
	PreviousAdjustment decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	NewAdjustment      decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	PreviousTotal      decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	NewTotal           decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	Reason             string          `gorm:"type:text"`
	ActorID            *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt          time.Time
}

func (BalanceAdjustment) TableName() string {
	return "leave_balance_adjustments"
}

func (a *BalanceAdjustment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
