package leave

import (
	"context"
	"time"

	leaveerrors "go-leave/internal/leave/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*LeaveRequest, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*LeaveRequest, error)
	UpdateStatus(ctx context.Context, l *LeaveRequest, from Status) error
	FindByEmployee(ctx context.Context, employeeID uuid.UUID) ([]LeaveRequest, error)
	FindPendingByDepartment(ctx context.Context, departmentID uuid.UUID) ([]LeaveRequest, error)
	FindApprovedStartingOn(ctx context.Context, day time.Time) ([]LeaveRequest, error)
	FindPendingCreatedBefore(ctx context.Context, cutoff time.Time) ([]LeaveRequest, error)
	HasOverlappingPeriod(ctx context.Context, employeeID uuid.UUID, startDate, endDate time.Time) (bool, error)
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

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(l).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*LeaveRequest, error) {
	var l LeaveRequest
	if err := r.db.WithContext(ctx).Preload("LeaveType").First(&l, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&l, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// UpdateStatus writes the review fields only while the stored status still
// equals from, so a request cannot be transitioned twice.
func (r *repository) UpdateStatus(ctx context.Context, l *LeaveRequest, from Status) error {
	res := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("id = ? AND status = ?", l.ID, from).
		Updates(map[string]any{
			"status":      l.Status,
			"comments":    l.Comments,
			"reviewed_by": l.ReviewedBy,
			"reviewed_at": l.ReviewedAt,
			"updated_at":  time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return leaveerrors.ErrInvalidTransition
	}
	return nil
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID uuid.UUID) ([]LeaveRequest, error) {
	var items []LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("LeaveType").
		Where("employee_id = ?", employeeID).
		Order("start_date DESC").
		Find(&items).Error
	return items, err
}

func (r *repository) FindPendingByDepartment(ctx context.Context, departmentID uuid.UUID) ([]LeaveRequest, error) {
	var items []LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("LeaveType").
		Joins("JOIN employees ON employees.id = leave_requests.employee_id").
		Where("employees.department_id = ?", departmentID).
		Where("leave_requests.status = ?", StatusPending).
		Order("leave_requests.created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *repository) FindApprovedStartingOn(ctx context.Context, day time.Time) ([]LeaveRequest, error) {
	var items []LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("LeaveType").
		Where("status = ? AND start_date = ?", StatusApproved, day).
		Find(&items).Error
	return items, err
}

func (r *repository) FindPendingCreatedBefore(ctx context.Context, cutoff time.Time) ([]LeaveRequest, error) {
	var items []LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("LeaveType").
		Where("status = ? AND created_at < ?", StatusPending, cutoff).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

// HasOverlappingPeriod reports a pending or approved request of the employee
// sharing at least one date with [startDate, endDate].
func (r *repository) HasOverlappingPeriod(ctx context.Context, employeeID uuid.UUID, startDate, endDate time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("employee_id = ?", employeeID).
		Where("status IN ?", []Status{StatusPending, StatusApproved}).
		Where("NOT (end_date < ? OR start_date > ?)", startDate, endDate).
		Count(&count).Error
	return count > 0, err
}
