package leavetype

import "github.com/shopspring/decimal"

type CreateLeaveTypeRequest struct {
	Name             string          `json:"name" binding:"required,max=100"`
	Description      string          `json:"description"`
	AccrualRate      decimal.Decimal `json:"accrual_rate"`
	MaxDays          *int            `json:"max_days" binding:"omitempty,min=0,max=366"`
	RequiresDocument bool            `json:"requires_document"`
}

type LeaveTypeResponse struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Description      string          `json:"description,omitempty"`
	AccrualRate      decimal.Decimal `json:"accrual_rate"`
	MaxDays          *int            `json:"max_days,omitempty"`
	RequiresDocument bool            `json:"requires_document"`
	IsActive         bool            `json:"is_active"`
}
