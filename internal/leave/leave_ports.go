package leave

import (
	"context"
	"time"

	"go-leave/internal/employee"
	"go-leave/internal/leavetype"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type NoticeKind string

const (
	NoticeSubmitted        NoticeKind = "SUBMITTED"
	NoticeApprovalPending  NoticeKind = "APPROVAL_PENDING"
	NoticeApproved         NoticeKind = "APPROVED"
	NoticeRejected         NoticeKind = "REJECTED"
	NoticeCancelled        NoticeKind = "CANCELLED"
	NoticeLeaveReminder    NoticeKind = "LEAVE_REMINDER"
	NoticeApprovalReminder NoticeKind = "APPROVAL_REMINDER"
)

// Notice is the snapshot of a request handed to notification sinks.
type Notice struct {
	RequestID     uuid.UUID
	EmployeeID    uuid.UUID
	EmployeeName  string
	LeaveTypeName string
	StartDate     time.Time
	EndDate       time.Time
	TotalDays     decimal.Decimal
	Status        Status
	Comments      string
}

//go:generate mockgen -source=leave_ports.go -destination=mock/leave_ports_mock.go -package=mock
type Notifier interface {
	Notify(ctx context.Context, kind NoticeKind, notice Notice, recipients []employee.Contact) error
}

// CalendarEntry is the shared-calendar view of a leave request, keyed by
// RequestID.
type CalendarEntry struct {
	RequestID    uuid.UUID
	EmployeeID   uuid.UUID
	DepartmentID string
	Title        string
	Start        time.Time
	End          time.Time
	Status       Status
}

type CalendarSink interface {
	CreateEvent(ctx context.Context, entry CalendarEntry) error
	UpdateEvent(ctx context.Context, entry CalendarEntry) error
	DeleteEvent(ctx context.Context, requestID uuid.UUID) error
}

// Workdays counts chargeable days; *workcalendar.Calendar satisfies it.
type Workdays interface {
	ChargeableDays(ctx context.Context, start, end time.Time) (decimal.Decimal, error)
}

// LeaveTypeReader resolves leave types; leavetype.Service satisfies it.
type LeaveTypeReader interface {
	GetByID(ctx context.Context, id string) (leavetype.LeaveType, error)
}

func newNotice(l LeaveRequest, employeeName, leaveTypeName string) Notice {
	return Notice{
		RequestID:     l.ID,
		EmployeeID:    l.EmployeeID,
		EmployeeName:  employeeName,
		LeaveTypeName: leaveTypeName,
		StartDate:     l.StartDate,
		EndDate:       l.EndDate,
		TotalDays:     l.TotalDays,
		Status:        l.Status,
		Comments:      l.Comments,
	}
}

// newCalendarEntry spans the whole of every day in the request.
func newCalendarEntry(l LeaveRequest, p employee.Profile, leaveTypeName string) CalendarEntry {
	return CalendarEntry{
		RequestID:    l.ID,
		EmployeeID:   l.EmployeeID,
		DepartmentID: p.DepartmentID,
		Title:        p.FullName + " - " + leaveTypeName,
		Start:        l.StartDate,
		End:          l.EndDate.Add(24*time.Hour - time.Second),
		Status:       l.Status,
	}
}
