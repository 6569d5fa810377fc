// Package workcalendar converts date ranges into chargeable business days.
package workcalendar

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const dateKeyLayout = "2006-01-02"

// HolidaySource lists declared holidays that fall inside [start, end].
type HolidaySource interface {
	HolidaysBetween(ctx context.Context, start, end time.Time) ([]time.Time, error)
}

type Calendar struct {
	holidays HolidaySource
	logger   *zap.Logger
}

// New returns a Calendar. A nil source means no holidays are declared.
func New(holidays HolidaySource, logger ...*zap.Logger) *Calendar {
	l := zap.L().Named("workcalendar")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("workcalendar")
	}
	return &Calendar{holidays: holidays, logger: l}
}

// ChargeableDays counts the dates in [start, end] that are neither a weekend
// nor a declared holiday. start after end yields zero.
func (c *Calendar) ChargeableDays(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	start, end = DateOf(start), DateOf(end)
	if start.After(end) {
		return decimal.Zero, nil
	}

	holidays := map[string]struct{}{}
	if c.holidays != nil {
		dates, err := c.holidays.HolidaysBetween(ctx, start, end)
		if err != nil {
			c.logger.Error("load holidays failed",
				zap.String("start_date", start.Format(dateKeyLayout)),
				zap.String("end_date", end.Format(dateKeyLayout)),
				zap.Error(err),
			)
			return decimal.Zero, err
		}
		for _, d := range dates {
			holidays[DateOf(d).Format(dateKeyLayout)] = struct{}{}
		}
	}

	var count int64
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if IsWeekend(d) {
			continue
		}
		if _, ok := holidays[d.Format(dateKeyLayout)]; ok {
			continue
		}
		count++
	}

	return decimal.NewFromInt(count), nil
}

func IsWeekend(d time.Time) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// DateOf drops the clock and location, keeping the calendar date as UTC midnight.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD calendar date as UTC midnight.
func ParseDate(v string) (time.Time, error) {
	return time.Parse(dateKeyLayout, v)
}

func FormatDate(t time.Time) string {
	return t.Format(dateKeyLayout)
}
