package balance

import "github.com/shopspring/decimal"

type AdjustBalanceRequest struct {
	EmployeeID     string           `json:"employee_id" binding:"required,uuid"`
	LeaveTypeID    string           `json:"leave_type_id" binding:"required,uuid"`
	Year           *int             `json:"year" binding:"omitempty,min=2000,max=2100"`
	AdjustmentDays *decimal.Decimal `json:"adjustment_days"`
	Reason         string           `json:"reason" binding:"max=500"`
}

type BalanceResponse struct {
	ID             string          `json:"id"`
	EmployeeID     string          `json:"employee_id"`
	LeaveTypeID    string          `json:"leave_type_id"`
	LeaveTypeName  string          `json:"leave_type_name,omitempty"`
	Year           int             `json:"year"`
	TotalDays      decimal.Decimal `json:"total_days"`
	UsedDays       decimal.Decimal `json:"used_days"`
	PendingDays    decimal.Decimal `json:"pending_days"`
	AdjustmentDays decimal.Decimal `json:"adjustment_days"`
	AvailableDays  decimal.Decimal `json:"available_days"`
}

func mapToResponse(b LeaveBalance, leaveTypeName string) BalanceResponse {
	if leaveTypeName == "" && b.LeaveType != nil {
		leaveTypeName = b.LeaveType.Name
	}
	return BalanceResponse{
		ID:             b.ID.String(),
		EmployeeID:     b.EmployeeID.String(),
		LeaveTypeID:    b.LeaveTypeID.String(),
		LeaveTypeName:  leaveTypeName,
		Year:           b.Year,
		TotalDays:      b.TotalDays,
		UsedDays:       b.UsedDays,
		PendingDays:    b.PendingDays,
		AdjustmentDays: b.AdjustmentDays,
		AvailableDays:  b.Available(),
	}
}
