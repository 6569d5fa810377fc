package notification

import (
	"context"
	"errors"
	"time"

	"go-leave/internal/events"
	notificationerrors "go-leave/internal/notification/errors"
	"go-leave/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const listLimit = 100

//go:generate mockgen -source=notification_service.go -destination=mock/notification_service_mock.go -package=mock
type Service interface {
	Deliver(ctx context.Context, event events.LeaveNotificationEvent) (int, error)
	List(ctx context.Context, recipientID string, unreadOnly bool) ([]NotificationResponse, error)
	MarkRead(ctx context.Context, recipientID, notificationID string) error
}

type service struct {
	repo   Repository
	now    func() time.Time
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("notification.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.service")
	}
	return &service{repo: repo, now: time.Now, logger: l}
}

// Deliver writes one inbox row per recipient and returns how many were new.
// Rows already written for the same event are skipped.
func (s *service) Deliver(ctx context.Context, event events.LeaveNotificationEvent) (int, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	title, message := render(event)

	var reference *uuid.UUID
	if id, err := uuid.Parse(event.LeaveRequestID); err == nil {
		reference = &id
	}

	created := 0
	for _, r := range event.Recipients {
		recipientID, err := uuid.Parse(r.EmployeeID)
		if err != nil {
			log.Warn("notification recipient skipped",
				zap.String("event_id", event.EventID),
				zap.String("recipient_id", r.EmployeeID),
			)
			continue
		}

		n := Notification{
			EventID:     event.EventID,
			RecipientID: recipientID,
			Kind:        event.EventType,
			Title:       title,
			Message:     message,
			ReferenceID: reference,
		}
		if err := s.repo.Create(ctx, &n); err != nil {
			if isDuplicate(err) {
				log.Debug("notification already delivered",
					zap.String("event_id", event.EventID),
					zap.String("recipient_id", r.EmployeeID),
				)
				continue
			}
			return created, err
		}
		created++
	}

	log.Info("notifications delivered",
		zap.String("event_id", event.EventID),
		zap.String("kind", event.EventType),
		zap.Int("created", created),
	)
	return created, nil
}

func (s *service) List(ctx context.Context, recipientID string, unreadOnly bool) ([]NotificationResponse, error) {
	id, err := uuid.Parse(recipientID)
	if err != nil {
		return nil, notificationerrors.ErrInvalidRecipientID
	}

	items, err := s.repo.FindByRecipient(ctx, id, unreadOnly, listLimit)
	if err != nil {
		return nil, err
	}

	resp := make([]NotificationResponse, len(items))
	for i, n := range items {
		resp[i] = mapToResponse(n)
	}
	return resp, nil
}

func (s *service) MarkRead(ctx context.Context, recipientID, notificationID string) error {
	recipient, err := uuid.Parse(recipientID)
	if err != nil {
		return notificationerrors.ErrInvalidRecipientID
	}
	id, err := uuid.Parse(notificationID)
	if err != nil {
		return notificationerrors.ErrInvalidNotificationID
	}

	affected, err := s.repo.MarkRead(ctx, id, recipient, s.now().UTC())
	if err != nil {
		return err
	}
	if affected == 0 {
		return notificationerrors.ErrNotificationNotFound
	}
	return nil
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
