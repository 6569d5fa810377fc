package leave

import (
	"context"
	"time"

	"go-leave/internal/employee"
	"go-leave/internal/workcalendar"

	"go.uber.org/zap"
)

// DefaultPendingAge is how long a request may wait before managers are reminded.
const DefaultPendingAge = 48 * time.Hour

// Reminder sends the periodic nudges: employees whose approved leave starts
// tomorrow, and managers with requests pending longer than pendingAge.
type Reminder struct {
	repo       Repository
	directory  employee.Directory
	notifier   Notifier
	pendingAge time.Duration
	now        func() time.Time
	logger     *zap.Logger
}

func NewReminder(repo Repository, directory employee.Directory, notifier Notifier, logger ...*zap.Logger) *Reminder {
	l := zap.L().Named("leave.reminder")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.reminder")
	}
	return &Reminder{
		repo:       repo,
		directory:  directory,
		notifier:   notifier,
		pendingAge: DefaultPendingAge,
		now:        time.Now,
		logger:     l,
	}
}

func (r *Reminder) WithClock(now func() time.Time) *Reminder {
	r.now = now
	return r
}

// Run sends both reminder kinds and returns how many notifications went out.
func (r *Reminder) Run(ctx context.Context) (int, error) {
	upcoming, err := r.SendLeaveReminders(ctx)
	if err != nil {
		return upcoming, err
	}
	pending, err := r.SendApprovalReminders(ctx)
	return upcoming + pending, err
}

func (r *Reminder) SendLeaveReminders(ctx context.Context) (int, error) {
	tomorrow := workcalendar.DateOf(r.now().UTC()).AddDate(0, 0, 1)
	items, err := r.repo.FindApprovedStartingOn(ctx, tomorrow)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, l := range items {
		profile, err := r.directory.FindByID(ctx, l.EmployeeID.String())
		if err != nil {
			r.logger.Warn("leave reminder skipped", zap.String("leave_request_id", l.ID.String()), zap.Error(err))
			continue
		}
		notice := newNotice(l, profile.FullName, l.leaveTypeName())
		if err := r.notifier.Notify(ctx, NoticeLeaveReminder, notice, []employee.Contact{profile.Contact}); err != nil {
			r.logger.Warn("leave reminder failed", zap.String("leave_request_id", l.ID.String()), zap.Error(err))
			continue
		}
		sent++
	}
	r.logger.Info("leave reminders sent", zap.Int("candidates", len(items)), zap.Int("sent", sent))
	return sent, nil
}

func (r *Reminder) SendApprovalReminders(ctx context.Context) (int, error) {
	cutoff := r.now().UTC().Add(-r.pendingAge)
	items, err := r.repo.FindPendingCreatedBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, l := range items {
		profile, err := r.directory.FindByID(ctx, l.EmployeeID.String())
		if err != nil {
			r.logger.Warn("approval reminder skipped", zap.String("leave_request_id", l.ID.String()), zap.Error(err))
			continue
		}
		if len(profile.ManagerChain) == 0 {
			continue
		}
		notice := newNotice(l, profile.FullName, l.leaveTypeName())
		if err := r.notifier.Notify(ctx, NoticeApprovalReminder, notice, profile.ManagerChain); err != nil {
			r.logger.Warn("approval reminder failed", zap.String("leave_request_id", l.ID.String()), zap.Error(err))
			continue
		}
		sent++
	}
	r.logger.Info("approval reminders sent", zap.Int("candidates", len(items)), zap.Int("sent", sent))
	return sent, nil
}
