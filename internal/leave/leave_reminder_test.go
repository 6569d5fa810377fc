package leave_test

import (
	"context"
	"testing"
	"time"

	"go-leave/internal/leave"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestReminder_Run(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	seed := func(t *testing.T, f *leaveFixture, start string, status leave.Status, createdAt time.Time) leave.LeaveRequest {
		t.Helper()
		l := leave.LeaveRequest{
			EmployeeID:  uuid.MustParse(f.employeeID),
			LeaveTypeID: f.annual.ID,
			StartDate:   date(start),
			EndDate:     date(start),
			TotalDays:   d("1"),
			FullDay:     true,
			Status:      status,
			CreatedAt:   createdAt,
		}
		require.NoError(t, f.repo.Create(ctx, &l))
		return l
	}

	t.Run("reminds employees and managers", func(t *testing.T) {
		f := newLeaveFixture(t)
		upcoming := seed(t, f, "2026-03-02", leave.StatusApproved, now.Add(-24*time.Hour))
		stale := seed(t, f, "2026-03-10", leave.StatusPending, now.Add(-72*time.Hour))
		seed(t, f, "2026-03-11", leave.StatusPending, now.Add(-time.Hour))
		seed(t, f, "2026-03-03", leave.StatusApproved, now.Add(-24*time.Hour))

		r := leave.NewReminder(f.repo, f.directory, f.notifier, zap.NewNop()).WithClock(func() time.Time { return now })
		sent, err := r.Run(ctx)

		require.NoError(t, err)
		assert.Equal(t, 2, sent)
		require.Len(t, f.notifier.calls, 2)

		assert.Equal(t, leave.NoticeLeaveReminder, f.notifier.calls[0].kind)
		assert.Equal(t, upcoming.ID, f.notifier.calls[0].notice.RequestID)
		assert.Equal(t, []string{f.employeeID}, f.notifier.calls[0].recipients)
		assert.Equal(t, "Annual Leave", f.notifier.calls[0].notice.LeaveTypeName)

		assert.Equal(t, leave.NoticeApprovalReminder, f.notifier.calls[1].kind)
		assert.Equal(t, stale.ID, f.notifier.calls[1].notice.RequestID)
		assert.Equal(t, []string{f.managerID}, f.notifier.calls[1].recipients)
	})

	t.Run("notifier failures are skipped", func(t *testing.T) {
		f := newLeaveFixture(t)
		seed(t, f, "2026-03-02", leave.StatusApproved, now.Add(-24*time.Hour))
		f.notifier.err = errSinkDown

		r := leave.NewReminder(f.repo, f.directory, f.notifier, zap.NewNop()).WithClock(func() time.Time { return now })
		sent, err := r.Run(ctx)

		require.NoError(t, err)
		assert.Zero(t, sent)
	})
}
