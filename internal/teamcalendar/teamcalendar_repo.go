package teamcalendar

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=teamcalendar_repo.go -destination=mock/teamcalendar_repo_mock.go -package=mock
type Repository interface {
	Upsert(ctx context.Context, e *CalendarEvent) error
	DeleteByReference(ctx context.Context, referenceID uuid.UUID) error
	FindOverlapping(ctx context.Context, start, end time.Time, departmentID *uuid.UUID) ([]CalendarEvent, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Upsert(ctx context.Context, e *CalendarEvent) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "reference_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"department_id", "title", "status", "start_at", "end_at", "updated_at"}),
		}).
		Create(e).Error
}

func (r *repository) DeleteByReference(ctx context.Context, referenceID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("reference_id = ?", referenceID).
		Delete(&CalendarEvent{}).Error
}

// FindOverlapping returns events touching [start, end]. A nil departmentID
// returns every department.
func (r *repository) FindOverlapping(ctx context.Context, start, end time.Time, departmentID *uuid.UUID) ([]CalendarEvent, error) {
	q := r.db.WithContext(ctx).
		Where("start_at <= ? AND end_at >= ?", end, start)
	if departmentID != nil {
		q = q.Where("department_id = ?", *departmentID)
	}
	var items []CalendarEvent
	err := q.Order("start_at ASC").Find(&items).Error
	return items, err
}
