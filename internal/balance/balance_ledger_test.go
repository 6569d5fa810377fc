package balance_test

import (
	"context"
	"sync"
	"testing"

	"go-leave/internal/balance"
	balanceerrors "go-leave/internal/balance/errors"
	"go-leave/internal/leavetype"
	"go-leave/internal/shared/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
)

func d(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func intPtr(v int) *int { return &v }

func assertDays(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.True(t, d(want).Equal(got), "%s: want %s, got %s", field, want, got)
}

type ledgerFixture struct {
	db     *gorm.DB
	ledger *balance.Ledger
	annual leavetype.LeaveType
	logs   *observer.ObservedLogs
}

func newLedgerFixture(t *testing.T) ledgerFixture {
	t.Helper()
	db := testutil.NewSQLiteDB(t, &leavetype.LeaveType{}, &balance.LeaveBalance{}, &balance.BalanceAdjustment{})

	annual := leavetype.LeaveType{Name: "Annual Leave", AccrualRate: d("1.5"), MaxDays: intPtr(18), IsActive: true}
	require.NoError(t, db.Create(&annual).Error)

	core, logs := observer.New(zap.WarnLevel)
	ledger := balance.NewLedger(balance.NewRepository(db), leavetype.NewPolicy("PTO", 20), zap.New(core))

	return ledgerFixture{db: db, ledger: ledger, annual: annual, logs: logs}
}

func (f ledgerFixture) createType(t *testing.T, lt leavetype.LeaveType) leavetype.LeaveType {
	t.Helper()
	lt.IsActive = true
	require.NoError(t, f.db.Create(&lt).Error)
	return lt
}

// inTx runs fn against a ledger bound to a fresh transaction.
func (f ledgerFixture) inTx(fn func(l *balance.Ledger) error) error {
	return f.db.Transaction(func(tx *gorm.DB) error {
		return fn(f.ledger.WithTx(tx))
	})
}

func (f ledgerFixture) reload(t *testing.T, id uuid.UUID) balance.LeaveBalance {
	t.Helper()
	var b balance.LeaveBalance
	require.NoError(t, f.db.First(&b, "id = ?", id).Error)
	return b
}

func (f ledgerFixture) open(t *testing.T, employeeID uuid.UUID, lt leavetype.LeaveType, year int) balance.LeaveBalance {
	t.Helper()
	var out balance.LeaveBalance
	require.NoError(t, f.inTx(func(l *balance.Ledger) error {
		b, err := l.GetOrCreate(context.Background(), employeeID, lt, year)
		if err != nil {
			return err
		}
		out = *b
		return nil
	}))
	return out
}

func TestLedger_GetOrCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("new balance gets capped entitlement", func(t *testing.T) {
		f := newLedgerFixture(t)
		b := f.open(t, uuid.New(), f.annual, 2026)

		assertDays(t, "18", b.TotalDays, "total")
		assertDays(t, "0", b.UsedDays, "used")
		assertDays(t, "0", b.PendingDays, "pending")
		assertDays(t, "18", b.Available(), "available")
	})

	t.Run("existing row is returned", func(t *testing.T) {
		f := newLedgerFixture(t)
		employeeID := uuid.New()
		first := f.open(t, employeeID, f.annual, 2026)
		second := f.open(t, employeeID, f.annual, 2026)

		assert.Equal(t, first.ID, second.ID)
		var count int64
		f.db.Model(&balance.LeaveBalance{}).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("years are separate balances", func(t *testing.T) {
		f := newLedgerFixture(t)
		employeeID := uuid.New()
		assert.NotEqual(t, f.open(t, employeeID, f.annual, 2026).ID, f.open(t, employeeID, f.annual, 2027).ID)
	})

	t.Run("standard pto override", func(t *testing.T) {
		f := newLedgerFixture(t)
		pto := f.createType(t, leavetype.LeaveType{Name: "pto", AccrualRate: d("1")})
		assertDays(t, "20", f.open(t, uuid.New(), pto, 2026).TotalDays, "total")
	})

	t.Run("find missing balance", func(t *testing.T) {
		f := newLedgerFixture(t)
		err := f.inTx(func(l *balance.Ledger) error {
			_, err := l.Find(ctx, uuid.New(), f.annual.ID, 2026)
			return err
		})
		assert.ErrorIs(t, err, balanceerrors.ErrBalanceNotFound)
	})
}

func TestLedger_ReserveCommitRelease(t *testing.T) {
	ctx := context.Background()

	t.Run("reserve five of eighteen", func(t *testing.T) {
		f := newLedgerFixture(t)
		b := f.open(t, uuid.New(), f.annual, 2026)

		require.NoError(t, f.inTx(func(l *balance.Ledger) error {
			locked, err := l.GetOrCreate(ctx, b.EmployeeID, f.annual, 2026)
			require.NoError(t, err)
			return l.Reserve(ctx, locked, d("5"))
		}))

		got := f.reload(t, b.ID)
		assertDays(t, "5", got.PendingDays, "pending")
		assertDays(t, "13", got.Available(), "available")
		assert.Equal(t, b.Version+1, got.Version)
	})

	t.Run("negative insufficient balance leaves row untouched", func(t *testing.T) {
		f := newLedgerFixture(t)
		b := f.open(t, uuid.New(), f.annual, 2026)

		err := f.inTx(func(l *balance.Ledger) error {
			locked, err := l.GetOrCreate(ctx, b.EmployeeID, f.annual, 2026)
			require.NoError(t, err)
			return l.Reserve(ctx, locked, d("20"))
		})

		assert.ErrorIs(t, err, balanceerrors.ErrInsufficientBalance)
		got := f.reload(t, b.ID)
		assertDays(t, "0", got.PendingDays, "pending")
		assert.Equal(t, b.Version, got.Version)
	})

	t.Run("reserve exactly the available days", func(t *testing.T) {
		f := newLedgerFixture(t)
		b := f.open(t, uuid.New(), f.annual, 2026)
		require.NoError(t, f.ledger.Reserve(ctx, &b, d("18")))
		assertDays(t, "0", b.Available(), "available")
	})

	t.Run("negative days rejected", func(t *testing.T) {
		f := newLedgerFixture(t)
		b := f.open(t, uuid.New(), f.annual, 2026)
		assert.ErrorIs(t, f.ledger.Reserve(ctx, &b, d("-1")), balanceerrors.ErrInvalidDays)
	})

	t.Run("reserve then release pending round-trips", func(t *testing.T) {
		f := newLedgerFixture(t)
		b := f.open(t, uuid.New(), f.annual, 2026)
		require.NoError(t, f.ledger.Reserve(ctx, &b, d("2")))
		before := f.reload(t, b.ID).PendingDays

		require.NoError(t, f.ledger.Reserve(ctx, &b, d("3.5")))
		require.NoError(t, f.ledger.Release(ctx, &b, d("3.5"), balance.BucketPending))

		assertDays(t, before.String(), f.reload(t, b.ID).PendingDays, "pending")
	})

	t.Run("commit moves pending to used", func(t *testing.T) {
		f := newLedgerFixture(t)
		b := f.open(t, uuid.New(), f.annual, 2026)
		require.NoError(t, f.ledger.Reserve(ctx, &b, d("5")))

		require.NoError(t, f.ledger.CommitApproval(ctx, &b, d("5")))

		got := f.reload(t, b.ID)
		assertDays(t, "0", got.PendingDays, "pending")
		assertDays(t, "5", got.UsedDays, "used")
		assertDays(t, "13", got.Available(), "available")
	})

	t.Run("release used leaves pending alone", func(t *testing.T) {
		f := newLedgerFixture(t)
		b := f.open(t, uuid.New(), f.annual, 2026)
		require.NoError(t, f.ledger.Reserve(ctx, &b, d("5")))
		require.NoError(t, f.ledger.CommitApproval(ctx, &b, d("5")))
		require.NoError(t, f.ledger.Reserve(ctx, &b, d("2")))

		require.NoError(t, f.ledger.Release(ctx, &b, d("5"), balance.BucketUsed))

		got := f.reload(t, b.ID)
		assertDays(t, "0", got.UsedDays, "used")
		assertDays(t, "2", got.PendingDays, "pending")
	})

	t.Run("release below zero clamps and warns", func(t *testing.T) {
		f := newLedgerFixture(t)
		b := f.open(t, uuid.New(), f.annual, 2026)
		require.NoError(t, f.ledger.Reserve(ctx, &b, d("1")))

		require.NoError(t, f.ledger.Release(ctx, &b, d("3"), balance.BucketPending))

		got := f.reload(t, b.ID)
		assertDays(t, "0", got.PendingDays, "pending")
		entries := f.logs.FilterMessage("ledger counter clamped at zero").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "pending", entries[0].ContextMap()["counter"])
	})

	t.Run("negative unknown bucket", func(t *testing.T) {
		f := newLedgerFixture(t)
		b := f.open(t, uuid.New(), f.annual, 2026)
		assert.Error(t, f.ledger.Release(ctx, &b, d("1"), balance.Bucket("carryover")))
	})

	t.Run("negative stale version conflicts", func(t *testing.T) {
		f := newLedgerFixture(t)
		b := f.open(t, uuid.New(), f.annual, 2026)
		stale := b

		require.NoError(t, f.ledger.Reserve(ctx, &b, d("1")))
		err := f.ledger.Reserve(ctx, &stale, d("1"))

		assert.ErrorIs(t, err, balanceerrors.ErrBalanceConflict)
		assertDays(t, "1", f.reload(t, b.ID).PendingDays, "pending")
	})
}

func TestLedger_Adjust(t *testing.T) {
	ctx := context.Background()

	t.Run("adjustment is capped by max days", func(t *testing.T) {
		f := newLedgerFixture(t)
		b := f.open(t, uuid.New(), f.annual, 2026)

		_, err := f.ledger.Adjust(ctx, &b, f.annual, d("5"), "carry over", nil)
		require.NoError(t, err)
		assertDays(t, "18", f.reload(t, b.ID).TotalDays, "total")

		audit, err := f.ledger.Adjust(ctx, &b, f.annual, d("-3"), "correction", nil)
		require.NoError(t, err)

		got := f.reload(t, b.ID)
		assertDays(t, "15", got.TotalDays, "total")
		assertDays(t, "-3", got.AdjustmentDays, "adjustment")
		assertDays(t, "5", audit.PreviousAdjustment, "previous adjustment")
		assertDays(t, "18", audit.PreviousTotal, "previous total")
		assertDays(t, "15", audit.NewTotal, "new total")

		rows, err := balance.NewRepository(f.db).FindAdjustments(ctx, b.ID)
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})

	t.Run("adjustment keeps used and pending", func(t *testing.T) {
		f := newLedgerFixture(t)
		b := f.open(t, uuid.New(), f.annual, 2026)
		require.NoError(t, f.ledger.Reserve(ctx, &b, d("4")))
		require.NoError(t, f.ledger.CommitApproval(ctx, &b, d("4")))
		require.NoError(t, f.ledger.Reserve(ctx, &b, d("2")))

		_, err := f.ledger.Adjust(ctx, &b, f.annual, d("-10"), "", nil)
		require.NoError(t, err)

		got := f.reload(t, b.ID)
		assertDays(t, "8", got.TotalDays, "total")
		assertDays(t, "4", got.UsedDays, "used")
		assertDays(t, "2", got.PendingDays, "pending")
	})

	t.Run("uncapped type can go negative", func(t *testing.T) {
		f := newLedgerFixture(t)
		unpaid := f.createType(t, leavetype.LeaveType{Name: "Unpaid Leave", AccrualRate: d("1")})
		b := f.open(t, uuid.New(), unpaid, 2026)

		_, err := f.ledger.Adjust(ctx, &b, unpaid, d("-30"), "", nil)
		require.NoError(t, err)

		assertDays(t, "-18", f.reload(t, b.ID).TotalDays, "total")
		assert.Equal(t, 1, f.logs.FilterMessage("adjustment left balance overdrawn").Len())
	})
}

func TestLedger_ConcurrentReservations(t *testing.T) {
	ctx := context.Background()

	run := func(t *testing.T, f ledgerFixture, lt leavetype.LeaveType, employeeID uuid.UUID, days ...string) []error {
		t.Helper()
		errs := make([]error, len(days))
		start := make(chan struct{})
		var wg sync.WaitGroup
		for i, n := range days {
			wg.Add(1)
			go func(i int, n string) {
				defer wg.Done()
				<-start
				errs[i] = balance.RetryOnConflict(ctx, 3, func() error {
					return f.inTx(func(l *balance.Ledger) error {
						b, err := l.GetOrCreate(ctx, employeeID, lt, 2026)
						if err != nil {
							return err
						}
						return l.Reserve(ctx, b, d(n))
					})
				})
			}(i, n)
		}
		close(start)
		wg.Wait()
		return errs
	}

	t.Run("only one of two tens fits in fifteen", func(t *testing.T) {
		f := newLedgerFixture(t)
		lt := f.createType(t, leavetype.LeaveType{Name: "Flex Leave", AccrualRate: d("1.25")})
		employeeID := uuid.New()
		b := f.open(t, employeeID, lt, 2026)
		assertDays(t, "15", b.Available(), "available")

		errs := run(t, f, lt, employeeID, "10", "10")

		succeeded, refused := 0, 0
		for _, err := range errs {
			if err == nil {
				succeeded++
				continue
			}
			assert.ErrorIs(t, err, balanceerrors.ErrInsufficientBalance)
			refused++
		}
		assert.Equal(t, 1, succeeded)
		assert.Equal(t, 1, refused)
		assertDays(t, "10", f.reload(t, b.ID).PendingDays, "pending")
	})

	t.Run("both fit when the sum is within availability", func(t *testing.T) {
		f := newLedgerFixture(t)
		lt := f.createType(t, leavetype.LeaveType{Name: "Flex Leave", AccrualRate: d("1.25")})
		employeeID := uuid.New()

		errs := run(t, f, lt, employeeID, "7", "8")

		for _, err := range errs {
			assert.NoError(t, err)
		}
		got := f.open(t, employeeID, lt, 2026)
		assertDays(t, "15", got.PendingDays, "pending")
		assertDays(t, "0", got.Available(), "available")
	})
}
