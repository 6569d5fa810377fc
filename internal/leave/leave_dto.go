package leave

import (
	"time"

	"go-leave/internal/workcalendar"

	"github.com/shopspring/decimal"
)

type SubmitLeaveRequest struct {
	LeaveTypeID string `json:"leave_type_id" binding:"required,uuid"`
	StartDate   string `json:"start_date" binding:"required"`
	EndDate     string `json:"end_date" binding:"required"`
	Reason      string `json:"reason" binding:"max=1000"`
	FullDay     *bool  `json:"full_day"`
}

type UpdateStatusRequest struct {
	Status   string `json:"status" binding:"required"`
	Comments string `json:"comments" binding:"max=1000"`
}

type LeaveResponse struct {
	ID            string          `json:"id"`
	EmployeeID    string          `json:"employee_id"`
	LeaveTypeID   string          `json:"leave_type_id"`
	LeaveTypeName string          `json:"leave_type_name,omitempty"`
	StartDate     string          `json:"start_date"`
	EndDate       string          `json:"end_date"`
	TotalDays     decimal.Decimal `json:"total_days"`
	FullDay       bool            `json:"full_day"`
	Status        Status          `json:"status"`
	Reason        string          `json:"reason,omitempty"`
	Comments      string          `json:"comments,omitempty"`
	ReviewedBy    *string         `json:"reviewed_by,omitempty"`
	ReviewedAt    *time.Time      `json:"reviewed_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func mapToResponse(l LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:            l.ID.String(),
		EmployeeID:    l.EmployeeID.String(),
		LeaveTypeID:   l.LeaveTypeID.String(),
		LeaveTypeName: l.leaveTypeName(),
		StartDate:     workcalendar.FormatDate(l.StartDate),
		EndDate:       workcalendar.FormatDate(l.EndDate),
		TotalDays:     l.TotalDays,
		FullDay:       l.FullDay,
		Status:        l.Status,
		Reason:        l.Reason,
		Comments:      l.Comments,
		ReviewedAt:    l.ReviewedAt,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}
	if l.ReviewedBy != nil {
		v := l.ReviewedBy.String()
		resp.ReviewedBy = &v
	}
	return resp
}

func mapToResponses(items []LeaveRequest) []LeaveResponse {
	resp := make([]LeaveResponse, len(items))
	for i, l := range items {
		resp[i] = mapToResponse(l)
	}
	return resp
}
