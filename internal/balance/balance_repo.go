package balance

import (
	"context"
	"time"

	balanceerrors "go-leave/internal/balance/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=balance_repo.go -destination=mock/balance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindForUpdate(ctx context.Context, employeeID, leaveTypeID uuid.UUID, year int) (*LeaveBalance, error)
	CreateIfAbsent(ctx context.Context, b *LeaveBalance) error
	UpdateCounters(ctx context.Context, b *LeaveBalance) error
	CreateAdjustment(ctx context.Context, a *BalanceAdjustment) error
	FindByEmployeeAndYear(ctx context.Context, employeeID uuid.UUID, year int) ([]LeaveBalance, error)
	FindAdjustments(ctx context.Context, balanceID uuid.UUID) ([]BalanceAdjustment, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

// FindForUpdate takes a row lock for the rest of the transaction. Drivers
// without row locks ignore the clause and rely on the version guard.
func (r *repository) FindForUpdate(ctx context.Context, employeeID, leaveTypeID uuid.UUID, year int) (*LeaveBalance, error) {
	var b LeaveBalance
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("employee_id = ? AND leave_type_id = ? AND year = ?", employeeID, leaveTypeID, year).
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// CreateIfAbsent inserts b unless a row for the same owner triple exists.
// Callers re-read afterwards to get whichever row won.
func (r *repository) CreateIfAbsent(ctx context.Context, b *LeaveBalance) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "employee_id"}, {Name: "leave_type_id"}, {Name: "year"}},
			DoNothing: true,
		}).
		Omit(clause.Associations).
		Create(b).Error
}

// UpdateCounters writes all counters if the stored version still matches
// b.Version, then bumps b.Version.
func (r *repository) UpdateCounters(ctx context.Context, b *LeaveBalance) error {
	res := r.db.WithContext(ctx).
		Model(&LeaveBalance{}).
		Where("id = ? AND version = ?", b.ID, b.Version).
		Updates(map[string]any{
			"total_days":      b.TotalDays,
			"used_days":       b.UsedDays,
			"pending_days":    b.PendingDays,
			"adjustment_days": b.AdjustmentDays,
			"version":         b.Version + 1,
			"updated_at":      time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return balanceerrors.ErrBalanceConflict
	}
	b.Version++
	return nil
}

func (r *repository) CreateAdjustment(ctx context.Context, a *BalanceAdjustment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) FindByEmployeeAndYear(ctx context.Context, employeeID uuid.UUID, year int) ([]LeaveBalance, error) {
	var balances []LeaveBalance
	err := r.db.WithContext(ctx).
		Preload("LeaveType").
		Where("employee_id = ? AND year = ?", employeeID, year).
		Order("created_at ASC").
		Find(&balances).Error
	return balances, err
}

func (r *repository) FindAdjustments(ctx context.Context, balanceID uuid.UUID) ([]BalanceAdjustment, error) {
	var rows []BalanceAdjustment
	err := r.db.WithContext(ctx).
		Where("balance_id = ?", balanceID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}
