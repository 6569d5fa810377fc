package leave

import (
	"context"

	"go-leave/internal/employee"
	"go-leave/internal/shared/metrics"

	"go.uber.org/zap"
)

// Side effects run after commit. Their failures are logged and counted but
// never reach the caller.

func (s *service) afterSubmit(ctx context.Context, l LeaveRequest, profile employee.Profile, leaveTypeName string) {
	if s.calendar != nil {
		entry := newCalendarEntry(l, profile, leaveTypeName)
		if err := s.calendar.CreateEvent(ctx, entry); err != nil {
			s.sideEffectFailed(ctx, "calendar_create", l, err)
		}
	}

	notice := newNotice(l, profile.FullName, leaveTypeName)
	s.notify(ctx, NoticeSubmitted, notice, []employee.Contact{profile.Contact})
	if len(profile.ManagerChain) == 0 {
		s.log(ctx).Warn("no managers to notify",
			zap.String("leave_request_id", l.ID.String()),
			zap.String("department_id", profile.DepartmentID),
		)
		return
	}
	s.notify(ctx, NoticeApprovalPending, notice, profile.ManagerChain)
}

func (s *service) afterTransition(ctx context.Context, l LeaveRequest) {
	profile, err := s.directory.FindByID(ctx, l.EmployeeID.String())
	if err != nil {
		s.sideEffectFailed(ctx, "directory", l, err)
		return
	}

	if s.calendar != nil {
		var err error
		if l.Status == StatusApproved {
			err = s.calendar.UpdateEvent(ctx, newCalendarEntry(l, profile, l.leaveTypeName()))
		} else {
			err = s.calendar.DeleteEvent(ctx, l.ID)
		}
		if err != nil {
			s.sideEffectFailed(ctx, "calendar_sync", l, err)
		}
	}

	s.notify(ctx, noticeKindFor(l.Status), newNotice(l, profile.FullName, l.leaveTypeName()), []employee.Contact{profile.Contact})
}

func (s *service) notify(ctx context.Context, kind NoticeKind, notice Notice, recipients []employee.Contact) {
	if s.notifier == nil || len(recipients) == 0 {
		return
	}
	if err := s.notifier.Notify(ctx, kind, notice, recipients); err != nil {
		metrics.SideEffectFailure("notify")
		s.log(ctx).Warn("notification failed",
			zap.String("leave_request_id", notice.RequestID.String()),
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
	}
}

func (s *service) sideEffectFailed(ctx context.Context, effect string, l LeaveRequest, err error) {
	metrics.SideEffectFailure(effect)
	s.log(ctx).Warn("leave side effect failed",
		zap.String("effect", effect),
		zap.String("leave_request_id", l.ID.String()),
		zap.Error(err),
	)
}

func noticeKindFor(status Status) NoticeKind {
	switch status {
	case StatusApproved:
		return NoticeApproved
	case StatusRejected:
		return NoticeRejected
	default:
		return NoticeCancelled
	}
}
