package leave_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go-leave/internal/balance"
	"go-leave/internal/employee"
	employeeerrors "go-leave/internal/employee/errors"
	"go-leave/internal/leave"
	"go-leave/internal/leavetype"
	"go-leave/internal/shared/testutil"
	"go-leave/internal/workcalendar"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func d(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func intPtr(v int) *int { return &v }

func date(v string) time.Time {
	t, err := workcalendar.ParseDate(v)
	if err != nil {
		panic(err)
	}
	return t
}

type holidaySource struct {
	days []time.Time
}

func (h *holidaySource) HolidaysBetween(ctx context.Context, start, end time.Time) ([]time.Time, error) {
	return h.days, nil
}

type fakeDirectory struct {
	profiles map[string]employee.Profile
}

func (f *fakeDirectory) FindByID(ctx context.Context, employeeID string) (employee.Profile, error) {
	p, ok := f.profiles[employeeID]
	if !ok {
		return employee.Profile{}, employeeerrors.ErrEmployeeNotFound
	}
	return p, nil
}

type notifyCall struct {
	kind       leave.NoticeKind
	notice     leave.Notice
	recipients []string
}

type recordingNotifier struct {
	mu    sync.Mutex
	calls []notifyCall
	err   error
}

func (r *recordingNotifier) Notify(ctx context.Context, kind leave.NoticeKind, notice leave.Notice, recipients []employee.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, len(recipients))
	for i, c := range recipients {
		ids[i] = c.ID
	}
	r.calls = append(r.calls, notifyCall{kind: kind, notice: notice, recipients: ids})
	return r.err
}

func (r *recordingNotifier) kinds() []leave.NoticeKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]leave.NoticeKind, len(r.calls))
	for i, c := range r.calls {
		out[i] = c.kind
	}
	return out
}

type recordingCalendar struct {
	created []leave.CalendarEntry
	updated []leave.CalendarEntry
	deleted []uuid.UUID
	err     error
}

func (r *recordingCalendar) CreateEvent(ctx context.Context, entry leave.CalendarEntry) error {
	r.created = append(r.created, entry)
	return r.err
}

func (r *recordingCalendar) UpdateEvent(ctx context.Context, entry leave.CalendarEntry) error {
	r.updated = append(r.updated, entry)
	return r.err
}

func (r *recordingCalendar) DeleteEvent(ctx context.Context, requestID uuid.UUID) error {
	r.deleted = append(r.deleted, requestID)
	return r.err
}

type leaveFixture struct {
	db         *gorm.DB
	service    leave.Service
	repo       leave.Repository
	annual     leavetype.LeaveType
	holidays   *holidaySource
	directory  *fakeDirectory
	notifier   *recordingNotifier
	calendar   *recordingCalendar
	employeeID string
	managerID  string
	department string
}

func newLeaveFixture(t *testing.T, opts ...leave.Option) *leaveFixture {
	t.Helper()
	db := testutil.NewSQLiteDB(t,
		&leavetype.LeaveType{},
		&employee.Employee{},
		&balance.LeaveBalance{},
		&balance.BalanceAdjustment{},
		&leave.LeaveRequest{},
	)

	annual := leavetype.LeaveType{Name: "Annual Leave", AccrualRate: d("1.5"), MaxDays: intPtr(18), IsActive: true}
	require.NoError(t, db.Create(&annual).Error)

	department := uuid.New()
	emp := employee.Employee{FullName: "Eve Employee", Email: "eve@example.com", DepartmentID: &department}
	mgr := employee.Employee{FullName: "Max Manager", Email: "max@example.com", DepartmentID: &department, IsManager: true}
	require.NoError(t, db.Create(&emp).Error)
	require.NoError(t, db.Create(&mgr).Error)

	mgrContact := employee.Contact{ID: mgr.ID.String(), FullName: mgr.FullName, Email: mgr.Email}
	directory := &fakeDirectory{profiles: map[string]employee.Profile{
		emp.ID.String(): {
			Contact:      employee.Contact{ID: emp.ID.String(), FullName: emp.FullName, Email: emp.Email},
			DepartmentID: department.String(),
			ManagerChain: []employee.Contact{mgrContact},
		},
		mgr.ID.String(): {
			Contact:      mgrContact,
			DepartmentID: department.String(),
			ManagerChain: []employee.Contact{},
		},
	}}

	holidays := &holidaySource{}
	notifier := &recordingNotifier{}
	calendar := &recordingCalendar{}
	repo := leave.NewRepository(db)
	ledger := balance.NewLedger(balance.NewRepository(db), leavetype.NewPolicy("PTO", 20), zap.NewNop())

	allOpts := append([]leave.Option{leave.WithCalendarSink(calendar), leave.WithLogger(zap.NewNop())}, opts...)
	svc := leave.NewService(
		db,
		repo,
		ledger,
		leavetype.NewService(leavetype.NewRepository(db), zap.NewNop()),
		workcalendar.New(holidays, zap.NewNop()),
		directory,
		notifier,
		allOpts...,
	)

	return &leaveFixture{
		db:         db,
		service:    svc,
		repo:       repo,
		annual:     annual,
		holidays:   holidays,
		directory:  directory,
		notifier:   notifier,
		calendar:   calendar,
		employeeID: emp.ID.String(),
		managerID:  mgr.ID.String(),
		department: department.String(),
	}
}

func (f *leaveFixture) submit(t *testing.T, start, end string) leave.LeaveResponse {
	t.Helper()
	resp, err := f.service.Submit(context.Background(), f.employeeID, leave.SubmitLeaveRequest{
		LeaveTypeID: f.annual.ID.String(),
		StartDate:   start,
		EndDate:     end,
		Reason:      "holiday",
	})
	require.NoError(t, err)
	return resp
}

func (f *leaveFixture) balance(t *testing.T) balance.LeaveBalance {
	t.Helper()
	var b balance.LeaveBalance
	require.NoError(t, f.db.Where("employee_id = ? AND leave_type_id = ?", f.employeeID, f.annual.ID).First(&b).Error)
	return b
}

func (f *leaveFixture) countRequests(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&leave.LeaveRequest{}).Count(&n).Error)
	return n
}

func assertDays(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.True(t, d(want).Equal(got), "%s: want %s, got %s", field, want, got)
}

var errSinkDown = errors.New("sink down")
