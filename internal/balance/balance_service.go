package balance

import (
	"context"
	"time"

	balanceerrors "go-leave/internal/balance/errors"
	"go-leave/internal/employee"
	"go-leave/internal/leavetype"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LeaveTypeReader resolves a leave type by id; leavetype.Service satisfies it.
type LeaveTypeReader interface {
	GetByID(ctx context.Context, id string) (leavetype.LeaveType, error)
}

// EmployeeLookup confirms an employee exists; employee.Directory satisfies it.
type EmployeeLookup interface {
	FindByID(ctx context.Context, employeeID string) (employee.Profile, error)
}

//go:generate mockgen -source=balance_service.go -destination=mock/balance_service_mock.go -package=mock
type Service interface {
	AdjustBalance(ctx context.Context, actorID string, req AdjustBalanceRequest) (BalanceResponse, error)
	GetBalances(ctx context.Context, employeeID string, year int) ([]BalanceResponse, error)
}

type service struct {
	db         *gorm.DB
	repo       Repository
	ledger     *Ledger
	leaveTypes LeaveTypeReader
	employees  EmployeeLookup
	maxRetries uint64
	logger     *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, ledger *Ledger, leaveTypes LeaveTypeReader, employees EmployeeLookup, maxRetries uint64, logger ...*zap.Logger) Service {
	l := zap.L().Named("balance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.service")
	}
	return &service{
		db:         db,
		repo:       repo,
		ledger:     ledger,
		leaveTypes: leaveTypes,
		employees:  employees,
		maxRetries: maxRetries,
		logger:     l,
	}
}

// AdjustBalance sets the adjustment for a balance, creating the balance when
// it does not exist yet. A missing year means the current year and a
// missing adjustment means zero.
func (s *service) AdjustBalance(ctx context.Context, actorID string, req AdjustBalanceRequest) (BalanceResponse, error) {
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return BalanceResponse{}, balanceerrors.ErrInvalidEmployeeID
	}
	if _, err := uuid.Parse(req.LeaveTypeID); err != nil {
		return BalanceResponse{}, balanceerrors.ErrInvalidLeaveTypeID
	}

	year := time.Now().UTC().Year()
	if req.Year != nil {
		year = *req.Year
	}
	if year < 2000 || year > 2100 {
		return BalanceResponse{}, balanceerrors.ErrInvalidYear
	}

	adjustment := decimal.Zero
	if req.AdjustmentDays != nil {
		adjustment = *req.AdjustmentDays
	}

	var actor *uuid.UUID
	if id, err := uuid.Parse(actorID); err == nil {
		actor = &id
	}

	if s.employees != nil {
		if _, err := s.employees.FindByID(ctx, employeeID.String()); err != nil {
			return BalanceResponse{}, err
		}
	}

	lt, err := s.leaveTypes.GetByID(ctx, req.LeaveTypeID)
	if err != nil {
		return BalanceResponse{}, err
	}

	var result LeaveBalance
	err = RetryOnConflict(ctx, s.maxRetries, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			ledger := s.ledger.WithTx(tx)
			b, err := ledger.GetOrCreate(ctx, employeeID, lt, year)
			if err != nil {
				return err
			}
			if _, err := ledger.Adjust(ctx, b, lt, adjustment, req.Reason, actor); err != nil {
				return err
			}
			result = *b
			return nil
		})
	})
	if err != nil {
		s.logger.Error("adjust balance failed",
			zap.String("employee_id", employeeID.String()),
			zap.String("leave_type_id", req.LeaveTypeID),
			zap.Int("year", year),
			zap.Error(err),
		)
		return BalanceResponse{}, err
	}

	s.logger.Info("balance adjusted",
		zap.String("balance_id", result.ID.String()),
		zap.String("adjustment_days", result.AdjustmentDays.String()),
		zap.String("total_days", result.TotalDays.String()),
		zap.String("actor_id", actorID),
	)
	return mapToResponse(result, lt.Name), nil
}

// GetBalances lists the balances that exist for the year. Balances are
// created lazily, so a leave type never used that year is absent.
func (s *service) GetBalances(ctx context.Context, employeeID string, year int) ([]BalanceResponse, error) {
	id, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, balanceerrors.ErrInvalidEmployeeID
	}
	if year < 2000 || year > 2100 {
		return nil, balanceerrors.ErrInvalidYear
	}

	balances, err := s.repo.FindByEmployeeAndYear(ctx, id, year)
	if err != nil {
		s.logger.Error("get balances failed", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, err
	}

	resp := make([]BalanceResponse, len(balances))
	for i, b := range balances {
		resp[i] = mapToResponse(b, "")
	}
	return resp, nil
}
