package holiday

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	holidayerrors "go-leave/internal/holiday/errors"
	"go-leave/internal/workcalendar"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	CacheKey = "holidays:ranges"
	cacheTTL = 6 * time.Hour
)

//go:generate mockgen -source=holiday_service.go -destination=mock/holiday_service_mock.go -package=mock
type Service interface {
	HolidaysBetween(ctx context.Context, start, end time.Time) ([]time.Time, error)
	GetHolidays(ctx context.Context, startDate, endDate string) ([]HolidayResponse, error)
	Create(ctx context.Context, req CreateHolidayRequest) (HolidayResponse, error)
}

type service struct {
	repo        Repository
	rdb         *redis.Client
	sf          *singleflight.Group
	countryCode string
	logger      *zap.Logger
}

// NewService builds the holiday source. rdb may be nil to disable caching.
func NewService(repo Repository, rdb *redis.Client, countryCode string, logger ...*zap.Logger) Service {
	l := zap.L().Named("holiday.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("holiday.service")
	}
	return &service{
		repo:        repo,
		rdb:         rdb,
		sf:          &singleflight.Group{},
		countryCode: strings.ToUpper(countryCode),
		logger:      l,
	}
}

func CacheField(countryCode string, start, end time.Time) string {
	return countryCode + ":" + workcalendar.FormatDate(start) + ":" + workcalendar.FormatDate(end)
}

func (s *service) HolidaysBetween(ctx context.Context, start, end time.Time) ([]time.Time, error) {
	occ, err := s.occurrences(ctx, workcalendar.DateOf(start), workcalendar.DateOf(end))
	if err != nil {
		return nil, err
	}
	dates := make([]time.Time, 0, len(occ))
	for _, h := range occ {
		d, err := workcalendar.ParseDate(h.Date)
		if err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, nil
}

func (s *service) GetHolidays(ctx context.Context, startDate, endDate string) ([]HolidayResponse, error) {
	start, err := workcalendar.ParseDate(startDate)
	if err != nil {
		return nil, holidayerrors.ErrInvalidDateFormat
	}
	end, err := workcalendar.ParseDate(endDate)
	if err != nil {
		return nil, holidayerrors.ErrInvalidDateFormat
	}
	if start.After(end) {
		return nil, holidayerrors.ErrInvalidDateRange
	}
	return s.occurrences(ctx, start, end)
}

func (s *service) occurrences(ctx context.Context, start, end time.Time) ([]HolidayResponse, error) {
	field := CacheField(s.countryCode, start, end)

	if s.rdb != nil {
		if cached, err := s.rdb.HGet(ctx, CacheKey, field).Result(); err == nil {
			var resp []HolidayResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn("holiday cache read failed", zap.Error(err))
		}
	}

	v, err, _ := s.sf.Do(field, func() (interface{}, error) {
		holidays, err := s.repo.FindApplicable(ctx, s.countryCode, start, end)
		if err != nil {
			return nil, err
		}

		resp := expand(holidays, start, end)

		if s.rdb != nil {
			if data, err := json.Marshal(resp); err == nil {
				if err := s.rdb.HSet(ctx, CacheKey, field, string(data)).Err(); err != nil {
					s.logger.Warn("holiday cache write failed", zap.Error(err))
				} else {
					s.rdb.Expire(ctx, CacheKey, cacheTTL)
				}
			}
		}
		return resp, nil
	})
	if err != nil {
		s.logger.Error("load holidays failed", zap.String("range", field), zap.Error(err))
		return nil, err
	}

	return v.([]HolidayResponse), nil
}

func (s *service) Create(ctx context.Context, req CreateHolidayRequest) (HolidayResponse, error) {
	date, err := workcalendar.ParseDate(req.Date)
	if err != nil {
		return HolidayResponse{}, holidayerrors.ErrInvalidDateFormat
	}

	h := &Holiday{
		Date:        date,
		Name:        strings.TrimSpace(req.Name),
		IsRecurring: req.IsRecurring,
		CountryCode: strings.ToUpper(req.CountryCode),
	}
	if err := s.repo.Create(ctx, h); err != nil {
		if isDuplicate(err) {
			return HolidayResponse{}, holidayerrors.ErrHolidayExists
		}
		s.logger.Error("create holiday failed", zap.Error(err))
		return HolidayResponse{}, err
	}

	// Any cached range may now be stale.
	if s.rdb != nil {
		if err := s.rdb.Del(ctx, CacheKey).Err(); err != nil {
			s.logger.Warn("holiday cache invalidation failed", zap.Error(err))
		}
	}

	s.logger.Info("holiday created",
		zap.String("holiday_id", h.ID.String()),
		zap.String("date", req.Date),
		zap.Bool("recurring", h.IsRecurring),
	)
	return mapToResponse(*h, h.Date), nil
}

func expand(holidays []Holiday, start, end time.Time) []HolidayResponse {
	resp := make([]HolidayResponse, 0, len(holidays))
	for _, h := range holidays {
		for _, d := range h.OccurrencesBetween(start, end) {
			resp = append(resp, mapToResponse(h, d))
		}
	}
	sort.SliceStable(resp, func(i, j int) bool { return resp[i].Date < resp[j].Date })
	return resp
}

func mapToResponse(h Holiday, on time.Time) HolidayResponse {
	return HolidayResponse{
		ID:          h.ID.String(),
		Date:        workcalendar.FormatDate(on),
		Name:        h.Name,
		IsRecurring: h.IsRecurring,
		CountryCode: h.CountryCode,
	}
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
