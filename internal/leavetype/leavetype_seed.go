package leavetype

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func intPtr(v int) *int { return &v }

// DefaultLeaveTypes is the catalogue installed on an empty database. Accrual
// rates are chosen so twelve months reach the cap.
func DefaultLeaveTypes() []LeaveType {
	return []LeaveType{
		{Name: "Annual Leave", Description: "Paid annual leave", AccrualRate: decimal.RequireFromString("1.5"), MaxDays: intPtr(18), IsActive: true},
		{Name: "Maternity Leave", Description: "Leave for childbirth", AccrualRate: decimal.NewFromInt(7), MaxDays: intPtr(84), RequiresDocument: true, IsActive: true},
		{Name: "Paternity Leave", Description: "Leave for new fathers", AccrualRate: decimal.RequireFromString("0.34"), MaxDays: intPtr(4), RequiresDocument: true, IsActive: true},
		{Name: "Sick Leave", Description: "Leave for illness", AccrualRate: decimal.RequireFromString("2.5"), MaxDays: intPtr(30), RequiresDocument: true, IsActive: true},
		{Name: "Compassionate Leave", Description: "Leave for bereavement", AccrualRate: decimal.RequireFromString("0.42"), MaxDays: intPtr(5), RequiresDocument: true, IsActive: true},
		{Name: "Study Leave", Description: "Leave for examinations", AccrualRate: decimal.RequireFromString("1.17"), MaxDays: intPtr(14), RequiresDocument: true, IsActive: true},
		{Name: "Marriage Leave", Description: "Leave for own wedding", AccrualRate: decimal.RequireFromString("0.25"), MaxDays: intPtr(3), RequiresDocument: true, IsActive: true},
		{Name: "Unpaid Leave", Description: "Leave without pay", AccrualRate: decimal.RequireFromString("7.5"), MaxDays: intPtr(90), IsActive: true},
	}
}

// Seed creates any default leave type missing by name. Existing rows are not touched.
func Seed(ctx context.Context, repo Repository, logger *zap.Logger) error {
	created := 0
	for _, lt := range DefaultLeaveTypes() {
		_, err := repo.FindByName(ctx, lt.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		lt := lt
		if err := repo.Create(ctx, &lt); err != nil {
			return err
		}
		created++
	}
	logger.Info("leave types seeded", zap.Int("created", created))
	return nil
}
