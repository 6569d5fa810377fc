package balance

import (
	"context"
	"errors"

	balanceerrors "go-leave/internal/balance/errors"
	"go-leave/internal/leavetype"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/shared/metrics"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Bucket names the counter a release gives days back from.
type Bucket string

const (
	BucketPending Bucket = "pending"
	BucketUsed    Bucket = "used"
)

// Ledger applies reservations, commits, releases and adjustments to a
// balance row. Each call persists immediately through a version-guarded
// update, so a Ledger should be bound to the caller's transaction with
// WithTx and the balance read through GetOrCreate in that same transaction.
type Ledger struct {
	repo   Repository
	policy leavetype.Policy
	logger *zap.Logger
}

func NewLedger(repo Repository, policy leavetype.Policy, logger ...*zap.Logger) *Ledger {
	l := zap.L().Named("balance.ledger")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.ledger")
	}
	return &Ledger{repo: repo, policy: policy, logger: l}
}

func (l *Ledger) WithTx(tx *gorm.DB) *Ledger {
	return &Ledger{repo: l.repo.WithTx(tx), policy: l.policy, logger: l.logger}
}

// GetOrCreate returns the locked balance for the triple, creating it with
// the leave type's full entitlement when absent.
func (l *Ledger) GetOrCreate(ctx context.Context, employeeID uuid.UUID, lt leavetype.LeaveType, year int) (*LeaveBalance, error) {
	b, err := l.repo.FindForUpdate(ctx, employeeID, lt.ID, year)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	fresh := &LeaveBalance{
		EmployeeID:  employeeID,
		LeaveTypeID: lt.ID,
		Year:        year,
		TotalDays:   l.policy.TotalDays(lt, decimal.Zero),
	}
	if err := l.repo.CreateIfAbsent(ctx, fresh); err != nil {
		return nil, err
	}

	b, err = l.repo.FindForUpdate(ctx, employeeID, lt.ID, year)
	if err != nil {
		return nil, err
	}
	l.log(ctx).Info("leave balance created",
		zap.String("balance_id", b.ID.String()),
		zap.String("employee_id", employeeID.String()),
		zap.String("leave_type", lt.Name),
		zap.Int("year", year),
		zap.String("total_days", b.TotalDays.String()),
	)
	return b, nil
}

// Find returns the locked balance without creating one.
func (l *Ledger) Find(ctx context.Context, employeeID, leaveTypeID uuid.UUID, year int) (*LeaveBalance, error) {
	b, err := l.repo.FindForUpdate(ctx, employeeID, leaveTypeID, year)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, balanceerrors.ErrBalanceNotFound
		}
		return nil, err
	}
	return b, nil
}

// Reserve holds days as pending. It refuses any reservation that would take
// the available balance below zero.
func (l *Ledger) Reserve(ctx context.Context, b *LeaveBalance, days decimal.Decimal) error {
	if days.IsNegative() {
		return balanceerrors.ErrInvalidDays
	}
	if b.Available().LessThan(days) {
		metrics.LedgerOperation("reserve", "insufficient")
		l.log(ctx).Info("reservation refused",
			zap.String("balance_id", b.ID.String()),
			zap.String("requested", days.String()),
			zap.String("available", b.Available().String()),
		)
		return balanceerrors.ErrInsufficientBalance
	}

	b.PendingDays = b.PendingDays.Add(days)
	return l.save(ctx, b, "reserve")
}

// CommitApproval moves days from pending to used.
func (l *Ledger) CommitApproval(ctx context.Context, b *LeaveBalance, days decimal.Decimal) error {
	if days.IsNegative() {
		return balanceerrors.ErrInvalidDays
	}
	b.PendingDays = l.subtract(ctx, b, string(BucketPending), b.PendingDays, days)
	b.UsedDays = b.UsedDays.Add(days)
	return l.save(ctx, b, "commit")
}

// Release gives days back from the bucket the request was charged to.
func (l *Ledger) Release(ctx context.Context, b *LeaveBalance, days decimal.Decimal, from Bucket) error {
	if days.IsNegative() {
		return balanceerrors.ErrInvalidDays
	}
	switch from {
	case BucketPending:
		b.PendingDays = l.subtract(ctx, b, string(BucketPending), b.PendingDays, days)
	case BucketUsed:
		b.UsedDays = l.subtract(ctx, b, string(BucketUsed), b.UsedDays, days)
	default:
		return errors.New("balance: unknown release bucket " + string(from))
	}
	return l.save(ctx, b, "release")
}

// Adjust replaces the adjustment, recomputes the total through the leave
// type policy and records an audit row. Used and pending are untouched.
func (l *Ledger) Adjust(ctx context.Context, b *LeaveBalance, lt leavetype.LeaveType, adjustment decimal.Decimal, reason string, actorID *uuid.UUID) (*BalanceAdjustment, error) {
	audit := &BalanceAdjustment{
		BalanceID:          b.ID,
		PreviousAdjustment: b.AdjustmentDays,
		PreviousTotal:      b.TotalDays,
		Reason:             reason,
		ActorID:            actorID,
	}

	b.AdjustmentDays = adjustment.Round(2)
	b.TotalDays = l.policy.TotalDays(lt, b.AdjustmentDays).Round(2)
	if err := l.save(ctx, b, "adjust"); err != nil {
		return nil, err
	}

	audit.NewAdjustment = b.AdjustmentDays
	audit.NewTotal = b.TotalDays
	if err := l.repo.CreateAdjustment(ctx, audit); err != nil {
		return nil, err
	}

	if b.Available().IsNegative() {
		l.log(ctx).Warn("adjustment left balance overdrawn",
			zap.String("balance_id", b.ID.String()),
			zap.String("total_days", b.TotalDays.String()),
			zap.String("available", b.Available().String()),
		)
	}
	return audit, nil
}

func (l *Ledger) subtract(ctx context.Context, b *LeaveBalance, counter string, current, days decimal.Decimal) decimal.Decimal {
	next := current.Sub(days)
	if !next.IsNegative() {
		return next
	}
	metrics.LedgerClamp(counter)
	l.log(ctx).Warn("ledger counter clamped at zero",
		zap.String("balance_id", b.ID.String()),
		zap.String("counter", counter),
		zap.String("current", current.String()),
		zap.String("requested", days.String()),
	)
	return decimal.Zero
}

func (l *Ledger) save(ctx context.Context, b *LeaveBalance, op string) error {
	if err := l.repo.UpdateCounters(ctx, b); err != nil {
		if errors.Is(err, balanceerrors.ErrBalanceConflict) {
			metrics.LedgerOperation(op, "conflict")
		} else {
			metrics.LedgerOperation(op, "error")
		}
		return err
	}
	metrics.LedgerOperation(op, "ok")
	l.log(ctx).Debug("ledger updated",
		zap.String("operation", op),
		zap.String("balance_id", b.ID.String()),
		zap.String("total_days", b.TotalDays.String()),
		zap.String("used_days", b.UsedDays.String()),
		zap.String("pending_days", b.PendingDays.String()),
		zap.Int64("version", b.Version),
	)
	return nil
}

func (l *Ledger) log(ctx context.Context) *zap.Logger {
	return contextutil.GetLogger(ctx, l.logger)
}
