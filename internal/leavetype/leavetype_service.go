package leavetype

import (
	"context"
	"errors"
	"strings"

	leavetypeerrors "go-leave/internal/leavetype/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leavetype_service.go -destination=mock/leavetype_service_mock.go -package=mock
type Service interface {
	GetAll(ctx context.Context) ([]LeaveTypeResponse, error)
	GetByID(ctx context.Context, id string) (LeaveType, error)
	Create(ctx context.Context, req CreateLeaveTypeRequest) (LeaveTypeResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("leavetype.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavetype.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) GetAll(ctx context.Context) ([]LeaveTypeResponse, error) {
	types, err := s.repo.FindAllActive(ctx)
	if err != nil {
		s.logger.Error("get leave types failed", zap.Error(err))
		return nil, err
	}
	resp := make([]LeaveTypeResponse, len(types))
	for i, lt := range types {
		resp[i] = mapToResponse(lt)
	}
	return resp, nil
}

// GetByID returns the entity, active or not; callers decide whether an
// inactive type is acceptable.
func (s *service) GetByID(ctx context.Context, id string) (LeaveType, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveType{}, leavetypeerrors.ErrInvalidLeaveTypeID
	}
	lt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveType{}, leavetypeerrors.ErrLeaveTypeNotFound
		}
		return LeaveType{}, err
	}
	return *lt, nil
}

func (s *service) Create(ctx context.Context, req CreateLeaveTypeRequest) (LeaveTypeResponse, error) {
	if req.AccrualRate.IsNegative() {
		return LeaveTypeResponse{}, leavetypeerrors.ErrInvalidAccrualRate
	}

	lt := &LeaveType{
		Name:             strings.TrimSpace(req.Name),
		Description:      req.Description,
		AccrualRate:      req.AccrualRate.Round(2),
		MaxDays:          req.MaxDays,
		RequiresDocument: req.RequiresDocument,
		IsActive:         true,
	}
	if err := s.repo.Create(ctx, lt); err != nil {
		if isDuplicate(err) {
			return LeaveTypeResponse{}, leavetypeerrors.ErrLeaveTypeExists
		}
		s.logger.Error("create leave type failed", zap.String("name", lt.Name), zap.Error(err))
		return LeaveTypeResponse{}, err
	}

	s.logger.Info("leave type created",
		zap.String("leave_type_id", lt.ID.String()),
		zap.String("name", lt.Name),
	)
	return mapToResponse(*lt), nil
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func mapToResponse(lt LeaveType) LeaveTypeResponse {
	return LeaveTypeResponse{
		ID:               lt.ID.String(),
		Name:             lt.Name,
		Description:      lt.Description,
		AccrualRate:      lt.AccrualRate,
		MaxDays:          lt.MaxDays,
		RequiresDocument: lt.RequiresDocument,
		IsActive:         lt.IsActive,
	}
}
