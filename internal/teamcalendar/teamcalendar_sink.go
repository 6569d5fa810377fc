package teamcalendar

import (
	"context"

	"go-leave/internal/leave"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Sink mirrors leave requests into calendar_events.
type Sink struct {
	repo   Repository
	logger *zap.Logger
}

func NewSink(repo Repository, logger ...*zap.Logger) *Sink {
	l := zap.L().Named("teamcalendar.sink")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("teamcalendar.sink")
	}
	return &Sink{repo: repo, logger: l}
}

func (s *Sink) CreateEvent(ctx context.Context, entry leave.CalendarEntry) error {
	return s.upsert(ctx, entry)
}

func (s *Sink) UpdateEvent(ctx context.Context, entry leave.CalendarEntry) error {
	return s.upsert(ctx, entry)
}

func (s *Sink) DeleteEvent(ctx context.Context, requestID uuid.UUID) error {
	if err := s.repo.DeleteByReference(ctx, requestID); err != nil {
		return err
	}
	s.logger.Debug("calendar event removed", zap.String("leave_request_id", requestID.String()))
	return nil
}

func (s *Sink) upsert(ctx context.Context, entry leave.CalendarEntry) error {
	e := CalendarEvent{
		ReferenceID: entry.RequestID,
		EmployeeID:  entry.EmployeeID,
		EventType:   EventTypeLeave,
		Title:       entry.Title,
		Status:      string(entry.Status),
		StartAt:     entry.Start,
		EndAt:       entry.End,
	}
	if id, err := uuid.Parse(entry.DepartmentID); err == nil {
		e.DepartmentID = &id
	}
	if err := s.repo.Upsert(ctx, &e); err != nil {
		return err
	}
	s.logger.Debug("calendar event stored",
		zap.String("leave_request_id", entry.RequestID.String()),
		zap.String("status", e.Status),
	)
	return nil
}
