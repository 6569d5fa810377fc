package consumer

import (
	"context"
	"encoding/json"
	"time"

	"go-leave/internal/events"
	"go-leave/internal/shared/contextutil"

	"github.com/cenkalti/backoff/v4"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafkago.Reader the consumer needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

type NotificationDeliverer interface {
	Deliver(ctx context.Context, event events.LeaveNotificationEvent) (int, error)
}

const deliverAttempts = 3

// ConsumeLeaveNotifications fills the inbox from the lifecycle topic until
// ctx is done. Undecodable messages are committed and dropped; delivery is
// retried a few times before the message is left uncommitted.
func ConsumeLeaveNotifications(
	ctx context.Context,
	reader MessageReader,
	deliverer NotificationDeliverer,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_notification")
	log.Info("leave notification consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave notification consumer stopped")
				return
			}
			log.Error("fetch leave notification message failed", zap.Error(err))
			continue
		}

		var event events.LeaveNotificationEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode leave notification event failed",
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		msgCtx := ctx
		if rid := headerValue(msg, "request_id"); rid != "" {
			msgCtx = contextutil.WithRequestID(ctx, rid)
		}

		var created int
		err = backoff.Retry(func() error {
			var err error
			created, err = deliverer.Deliver(msgCtx, event)
			return err
		}, backoff.WithContext(backoff.WithMaxRetries(retryPolicy(), deliverAttempts-1), ctx))
		if err != nil {
			log.Error("deliver leave notification failed",
				zap.String("event_id", event.EventID),
				zap.String("event_type", event.EventType),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave notification message failed", zap.Error(err))
			continue
		}

		log.Info("leave notification delivered",
			zap.String("event_id", event.EventID),
			zap.String("event_type", event.EventType),
			zap.String("leave_request_id", event.LeaveRequestID),
			zap.Int("created", created),
		)
	}
}

func retryPolicy() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = time.Second
	return b
}

func headerValue(msg kafkago.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
