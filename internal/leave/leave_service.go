package leave

import (
	"context"
	"errors"
	"time"

	"go-leave/internal/balance"
	"go-leave/internal/employee"
	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/shared/metrics"
	"go-leave/internal/workcalendar"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultMaxRetries = 3

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, employeeID string, req SubmitLeaveRequest) (LeaveResponse, error)
	UpdateStatus(ctx context.Context, actorID, requestID string, req UpdateStatusRequest) (LeaveResponse, error)
	Cancel(ctx context.Context, employeeID, requestID string) (LeaveResponse, error)
	GetByID(ctx context.Context, actorID, requestID string, canReadAll bool) (LeaveResponse, error)
	GetMine(ctx context.Context, employeeID string) ([]LeaveResponse, error)
	GetPendingApprovals(ctx context.Context, managerID string) ([]LeaveResponse, error)
}

type Option func(*service)

// WithCalendarSink enables shared-calendar sync. Without it calendar side
// effects are skipped.
func WithCalendarSink(sink CalendarSink) Option {
	return func(s *service) { s.calendar = sink }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *service) {
		if logger != nil {
			s.logger = logger.Named("leave.service")
		}
	}
}

// WithMaxRetries bounds the retries after a balance version conflict.
func WithMaxRetries(n uint64) Option {
	return func(s *service) { s.maxRetries = n }
}

func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

type service struct {
	db         *gorm.DB
	repo       Repository
	ledger     *balance.Ledger
	leaveTypes LeaveTypeReader
	workdays   Workdays
	directory  employee.Directory
	notifier   Notifier
	calendar   CalendarSink
	maxRetries uint64
	now        func() time.Time
	logger     *zap.Logger
}

func NewService(
	db *gorm.DB,
	repo Repository,
	ledger *balance.Ledger,
	leaveTypes LeaveTypeReader,
	workdays Workdays,
	directory employee.Directory,
	notifier Notifier,
	opts ...Option,
) Service {
	s := &service{
		db:         db,
		repo:       repo,
		ledger:     ledger,
		leaveTypes: leaveTypes,
		workdays:   workdays,
		directory:  directory,
		notifier:   notifier,
		maxRetries: defaultMaxRetries,
		now:        time.Now,
		logger:     zap.L().Named("leave.service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) log(ctx context.Context) *zap.Logger {
	return contextutil.GetLogger(ctx, s.logger)
}

// Submit charges the chargeable days of the period against the balance of
// the start date's year and stores the request as PENDING. Nothing is
// written when the balance is insufficient.
func (s *service) Submit(ctx context.Context, employeeID string, req SubmitLeaveRequest) (LeaveResponse, error) {
	empID, err := uuid.Parse(employeeID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidEmployeeID
	}
	if _, err := uuid.Parse(req.LeaveTypeID); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveTypeID
	}
	start, end, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return LeaveResponse{}, err
	}

	lt, err := s.leaveTypes.GetByID(ctx, req.LeaveTypeID)
	if err != nil {
		return LeaveResponse{}, err
	}
	if !lt.IsActive {
		return LeaveResponse{}, leaveerrors.ErrLeaveTypeInactive
	}

	profile, err := s.directory.FindByID(ctx, employeeID)
	if err != nil {
		return LeaveResponse{}, err
	}

	days, err := s.workdays.ChargeableDays(ctx, start, end)
	if err != nil {
		return LeaveResponse{}, err
	}
	if !days.IsPositive() {
		return LeaveResponse{}, leaveerrors.ErrNoChargeableDays
	}

	fullDay := true
	if req.FullDay != nil {
		fullDay = *req.FullDay
	}

	var created LeaveRequest
	err = balance.RetryOnConflict(ctx, s.maxRetries, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			repo := s.repo.WithTx(tx)
			ledger := s.ledger.WithTx(tx)

			overlap, err := repo.HasOverlappingPeriod(ctx, empID, start, end)
			if err != nil {
				return err
			}
			if overlap {
				return leaveerrors.ErrLeaveOverlap
			}

			b, err := ledger.GetOrCreate(ctx, empID, lt, start.Year())
			if err != nil {
				return err
			}
			if err := ledger.Reserve(ctx, b, days); err != nil {
				return err
			}

			created = LeaveRequest{
				EmployeeID:  empID,
				LeaveTypeID: lt.ID,
				StartDate:   start,
				EndDate:     end,
				TotalDays:   days,
				FullDay:     fullDay,
				Reason:      req.Reason,
				Status:      StatusPending,
			}
			return repo.Create(ctx, &created)
		})
	})
	if err != nil {
		s.log(ctx).Warn("leave submission failed",
			zap.String("employee_id", employeeID),
			zap.String("leave_type_id", req.LeaveTypeID),
			zap.String("days", days.String()),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	created.LeaveType = &lt
	metrics.Transition(string(StatusPending))
	s.log(ctx).Info("leave request submitted",
		zap.String("leave_request_id", created.ID.String()),
		zap.String("employee_id", employeeID),
		zap.String("days", days.String()),
	)

	s.afterSubmit(ctx, created, profile, lt.Name)
	return mapToResponse(created), nil
}

// UpdateStatus reviews a request. Approval commits the reserved days;
// rejection or cancellation gives them back to the bucket they were held in.
func (s *service) UpdateStatus(ctx context.Context, actorID, requestID string, req UpdateStatusRequest) (LeaveResponse, error) {
	actor, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}
	next, err := ParseStatus(req.Status)
	if err != nil {
		return LeaveResponse{}, err
	}

	return s.transition(ctx, requestID, next, func(l *LeaveRequest) error {
		if l.EmployeeID == actor {
			return leaveerrors.ErrSelfReview
		}
		l.Comments = req.Comments
		reviewedAt := s.now().UTC()
		l.ReviewedBy = &actor
		l.ReviewedAt = &reviewedAt
		return nil
	})
}

// Cancel lets the requester withdraw a pending or approved request.
func (s *service) Cancel(ctx context.Context, employeeID, requestID string) (LeaveResponse, error) {
	owner, err := uuid.Parse(employeeID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidEmployeeID
	}

	return s.transition(ctx, requestID, StatusCancelled, func(l *LeaveRequest) error {
		if l.EmployeeID != owner {
			return leaveerrors.ErrNotRequestOwner
		}
		return nil
	})
}

// transition runs the status change and its ledger movement in one
// transaction. prepare may refuse the change or fill review fields.
func (s *service) transition(ctx context.Context, requestID string, next Status, prepare func(l *LeaveRequest) error) (LeaveResponse, error) {
	id, err := uuid.Parse(requestID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidRequestID
	}

	var (
		updated LeaveRequest
		from    Status
	)
	err = balance.RetryOnConflict(ctx, s.maxRetries, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			repo := s.repo.WithTx(tx)
			ledger := s.ledger.WithTx(tx)

			l, err := repo.FindByIDForUpdate(ctx, id)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return leaveerrors.ErrLeaveNotFound
				}
				return err
			}
			if err := prepare(l); err != nil {
				return err
			}
			if !l.Status.CanTransitionTo(next) {
				return leaveerrors.ErrInvalidTransition
			}

			b, err := ledger.Find(ctx, l.EmployeeID, l.LeaveTypeID, l.StartDate.Year())
			if err != nil {
				return err
			}
			switch {
			case next == StatusApproved:
				err = ledger.CommitApproval(ctx, b, l.TotalDays)
			case l.Status == StatusApproved:
				err = ledger.Release(ctx, b, l.TotalDays, balance.BucketUsed)
			default:
				err = ledger.Release(ctx, b, l.TotalDays, balance.BucketPending)
			}
			if err != nil {
				return err
			}

			from = l.Status
			l.Status = next
			if err := repo.UpdateStatus(ctx, l, from); err != nil {
				return err
			}
			updated = *l
			return nil
		})
	})
	if err != nil {
		s.log(ctx).Warn("leave transition failed",
			zap.String("leave_request_id", requestID),
			zap.String("to", string(next)),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	metrics.Transition(string(next))
	s.log(ctx).Info("leave request transitioned",
		zap.String("leave_request_id", requestID),
		zap.String("from", string(from)),
		zap.String("to", string(next)),
	)

	lt, err := s.leaveTypes.GetByID(ctx, updated.LeaveTypeID.String())
	if err == nil {
		updated.LeaveType = &lt
	}
	s.afterTransition(ctx, updated)
	return mapToResponse(updated), nil
}

func (s *service) GetByID(ctx context.Context, actorID, requestID string, canReadAll bool) (LeaveResponse, error) {
	id, err := uuid.Parse(requestID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidRequestID
	}

	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	if !canReadAll && l.EmployeeID.String() != actorID {
		return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
	}
	return mapToResponse(*l), nil
}

func (s *service) GetMine(ctx context.Context, employeeID string) ([]LeaveResponse, error) {
	id, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, leaveerrors.ErrInvalidEmployeeID
	}
	items, err := s.repo.FindByEmployee(ctx, id)
	if err != nil {
		return nil, err
	}
	return mapToResponses(items), nil
}

// GetPendingApprovals lists pending requests in the manager's department,
// leaving out the manager's own requests.
func (s *service) GetPendingApprovals(ctx context.Context, managerID string) ([]LeaveResponse, error) {
	profile, err := s.directory.FindByID(ctx, managerID)
	if err != nil {
		return nil, err
	}
	if profile.DepartmentID == "" {
		return []LeaveResponse{}, nil
	}
	departmentID, err := uuid.Parse(profile.DepartmentID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.FindPendingByDepartment(ctx, departmentID)
	if err != nil {
		return nil, err
	}

	resp := make([]LeaveResponse, 0, len(items))
	for _, l := range items {
		if l.EmployeeID.String() == managerID {
			continue
		}
		resp = append(resp, mapToResponse(l))
	}
	return resp, nil
}

func parseDateRange(startRaw, endRaw string) (time.Time, time.Time, error) {
	start, err := workcalendar.ParseDate(startRaw)
	if err != nil {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	end, err := workcalendar.ParseDate(endRaw)
	if err != nil {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateRange
	}
	return start, end, nil
}
