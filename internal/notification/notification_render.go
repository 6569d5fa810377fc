package notification

import (
	"fmt"
	"strings"

	"go-leave/internal/events"
	"go-leave/internal/leave"
)

// render builds the inbox text for one event. Manager-facing kinds name the
// requester; the rest address the requester directly.
func render(e events.LeaveNotificationEvent) (string, string) {
	period := fmt.Sprintf("%s from %s to %s (%s days)", e.LeaveTypeName, e.StartDate, e.EndDate, e.TotalDays)

	var title, message string
	switch leave.NoticeKind(e.EventType) {
	case leave.NoticeSubmitted:
		title = "Leave request submitted"
		message = "Your request for " + period + " is waiting for approval."
	case leave.NoticeApprovalPending:
		title = "Leave request awaiting your approval"
		message = e.EmployeeName + " requested " + period + "."
	case leave.NoticeApproved:
		title = "Leave request approved"
		message = "Your request for " + period + " was approved."
	case leave.NoticeRejected:
		title = "Leave request rejected"
		message = "Your request for " + period + " was rejected."
	case leave.NoticeCancelled:
		title = "Leave request cancelled"
		message = "Your request for " + period + " was cancelled."
	case leave.NoticeLeaveReminder:
		title = "Leave starts tomorrow"
		message = "Your " + period + " starts tomorrow."
	case leave.NoticeApprovalReminder:
		title = "Leave request still pending"
		message = e.EmployeeName + " is still waiting on a decision for " + period + "."
	default:
		title = "Leave request update"
		message = "Request for " + period + " is now " + strings.ToLower(e.Status) + "."
	}

	if e.Comments != "" {
		message += " Comments: " + e.Comments
	}
	return title, message
}
