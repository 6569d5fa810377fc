package teamcalendar

import (
	"context"
	"time"

	"go-leave/internal/holiday"
	teamcalendarerrors "go-leave/internal/teamcalendar/errors"
	"go-leave/internal/workcalendar"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const maxRangeDays = 366

type HolidayLister interface {
	GetHolidays(ctx context.Context, startDate, endDate string) ([]holiday.HolidayResponse, error)
}

//go:generate mockgen -source=teamcalendar_service.go -destination=mock/teamcalendar_service_mock.go -package=mock
type Service interface {
	Events(ctx context.Context, startDate, endDate string) ([]EventResponse, error)
	TeamCalendar(ctx context.Context, departmentID, startDate, endDate string) (TeamCalendarResponse, error)
}

type service struct {
	repo     Repository
	holidays HolidayLister
	logger   *zap.Logger
}

func NewService(repo Repository, holidays HolidayLister, logger ...*zap.Logger) Service {
	l := zap.L().Named("teamcalendar.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("teamcalendar.service")
	}
	return &service{repo: repo, holidays: holidays, logger: l}
}

func (s *service) Events(ctx context.Context, startDate, endDate string) ([]EventResponse, error) {
	start, end, err := parseRange(startDate, endDate)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.FindOverlapping(ctx, start, endOfDay(end), nil)
	if err != nil {
		return nil, err
	}
	return mapToResponses(items), nil
}

// TeamCalendar combines a department's leave events with the holidays of
// the same range. Both are loaded concurrently.
func (s *service) TeamCalendar(ctx context.Context, departmentID, startDate, endDate string) (TeamCalendarResponse, error) {
	deptID, err := uuid.Parse(departmentID)
	if err != nil {
		return TeamCalendarResponse{}, teamcalendarerrors.ErrInvalidDepartmentID
	}
	start, end, err := parseRange(startDate, endDate)
	if err != nil {
		return TeamCalendarResponse{}, err
	}

	var (
		events   []CalendarEvent
		holidays []holiday.HolidayResponse
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		events, err = s.repo.FindOverlapping(gctx, start, endOfDay(end), &deptID)
		return err
	})
	g.Go(func() error {
		var err error
		holidays, err = s.holidays.GetHolidays(gctx, workcalendar.FormatDate(start), workcalendar.FormatDate(end))
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Warn("team calendar load failed", zap.String("department_id", departmentID), zap.Error(err))
		return TeamCalendarResponse{}, err
	}
	if holidays == nil {
		holidays = []holiday.HolidayResponse{}
	}

	return TeamCalendarResponse{
		DepartmentID: deptID.String(),
		StartDate:    workcalendar.FormatDate(start),
		EndDate:      workcalendar.FormatDate(end),
		Leaves:       mapToResponses(events),
		Holidays:     holidays,
	}, nil
}

func parseRange(startDate, endDate string) (time.Time, time.Time, error) {
	start, err := workcalendar.ParseDate(startDate)
	if err != nil {
		return time.Time{}, time.Time{}, teamcalendarerrors.ErrInvalidDateFormat
	}
	end, err := workcalendar.ParseDate(endDate)
	if err != nil {
		return time.Time{}, time.Time{}, teamcalendarerrors.ErrInvalidDateFormat
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, teamcalendarerrors.ErrInvalidDateRange
	}
	if end.Sub(start) > maxRangeDays*24*time.Hour {
		return time.Time{}, time.Time{}, teamcalendarerrors.ErrRangeTooLarge
	}
	return start, end, nil
}

func endOfDay(d time.Time) time.Time {
	return d.Add(24*time.Hour - time.Second)
}
