package holiday

import (
	"context"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=holiday_repo.go -destination=mock/holiday_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, h *Holiday) error
	// FindApplicable returns one-off holidays inside the range plus every
	// recurring holiday, limited to the country (or global ones) when set.
	FindApplicable(ctx context.Context, countryCode string, start, end time.Time) ([]Holiday, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, h *Holiday) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *repository) FindApplicable(ctx context.Context, countryCode string, start, end time.Time) ([]Holiday, error) {
	q := r.db.WithContext(ctx).
		Where("(is_recurring = ? AND date BETWEEN ? AND ?) OR is_recurring = ?", false, start, end, true)
	if countryCode != "" {
		q = q.Where("country_code IN ?", []string{countryCode, ""})
	}

	var holidays []Holiday
	err := q.Order("date ASC").Find(&holidays).Error
	return holidays, err
}
