package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go-leave/internal/employee"
	"go-leave/internal/events"
	"go-leave/internal/leave"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/workcalendar"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NewEvent snapshots a notice for the given recipients.
func NewEvent(kind leave.NoticeKind, notice leave.Notice, recipients []employee.Contact, at time.Time) events.LeaveNotificationEvent {
	rs := make([]events.Recipient, len(recipients))
	for i, c := range recipients {
		rs[i] = events.Recipient{EmployeeID: c.ID, FullName: c.FullName, Email: c.Email}
	}
	return events.LeaveNotificationEvent{
		EventID:        uuid.NewString(),
		EventType:      string(kind),
		LeaveRequestID: notice.RequestID.String(),
		EmployeeID:     notice.EmployeeID.String(),
		EmployeeName:   notice.EmployeeName,
		LeaveTypeName:  notice.LeaveTypeName,
		StartDate:      workcalendar.FormatDate(notice.StartDate),
		EndDate:        workcalendar.FormatDate(notice.EndDate),
		TotalDays:      notice.TotalDays.String(),
		Status:         string(notice.Status),
		Comments:       notice.Comments,
		Recipients:     rs,
		OccurredAt:     at.UTC(),
	}
}

// OutboxNotifier queues notices on the outbox; the worker publishes them to
// the lifecycle topic and the consumer fills the inbox.
type OutboxNotifier struct {
	outbox kafka.OutboxRepository
	now    func() time.Time
	logger *zap.Logger
}

func NewOutboxNotifier(outbox kafka.OutboxRepository, logger ...*zap.Logger) *OutboxNotifier {
	l := zap.L().Named("notification.outbox")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.outbox")
	}
	return &OutboxNotifier{outbox: outbox, now: time.Now, logger: l}
}

func (n *OutboxNotifier) Notify(ctx context.Context, kind leave.NoticeKind, notice leave.Notice, recipients []employee.Contact) error {
	event := NewEvent(kind, notice, recipients, n.now())
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s notification: %w", kind, err)
	}

	err = n.outbox.Create(ctx, kafka.OutboxEvent{
		ID:            event.EventID,
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: events.AggregateLeaveRequest,
		AggregateID:   event.LeaveRequestID,
		EventType:     event.EventType,
		Topic:         events.LeaveLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
	if err != nil {
		return err
	}

	n.logger.Debug("notification queued",
		zap.String("outbox_id", event.EventID),
		zap.String("kind", event.EventType),
		zap.Int("recipients", len(recipients)),
	)
	return nil
}

// InboxNotifier writes straight into the inbox. It serves deployments
// without a broker.
type InboxNotifier struct {
	service Service
	now     func() time.Time
}

func NewInboxNotifier(service Service) *InboxNotifier {
	return &InboxNotifier{service: service, now: time.Now}
}

func (n *InboxNotifier) Notify(ctx context.Context, kind leave.NoticeKind, notice leave.Notice, recipients []employee.Contact) error {
	_, err := n.service.Deliver(ctx, NewEvent(kind, notice, recipients, n.now()))
	return err
}
