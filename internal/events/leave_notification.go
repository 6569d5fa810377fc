package events

import "time"

const LeaveLifecycleTopic = "hr.leave.lifecycle.v1"

const AggregateLeaveRequest = "leave_request"

type Recipient struct {
	EmployeeID string `json:"employee_id"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
}

// LeaveNotificationEvent carries one notice to every recipient. EventID is
// the outbox id and makes redelivery detectable.
type LeaveNotificationEvent struct {
	EventID        string      `json:"event_id"`
	EventType      string      `json:"event_type"`
	LeaveRequestID string      `json:"leave_request_id"`
	EmployeeID     string      `json:"employee_id"`
	EmployeeName   string      `json:"employee_name"`
	LeaveTypeName  string      `json:"leave_type_name"`
	StartDate      string      `json:"start_date"`
	EndDate        string      `json:"end_date"`
	TotalDays      string      `json:"total_days"`
	Status         string      `json:"status"`
	Comments       string      `json:"comments,omitempty"`
	Recipients     []Recipient `json:"recipients"`
	OccurredAt     time.Time   `json:"occurred_at"`
}
