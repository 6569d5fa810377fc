package kafka_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"go-leave/internal/messaging/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEvent() kafka.OutboxEvent {
	return kafka.OutboxEvent{
		ID:            "11111111-1111-1111-1111-111111111111",
		RequestID:     "req-1",
		AggregateType: "leave_request",
		AggregateID:   "22222222-2222-2222-2222-222222222222",
		EventType:     "APPROVED",
		Topic:         "hr.leave.lifecycle.v1",
		Payload:       []byte(`{"event_type":"APPROVED"}`),
		Status:        kafka.OutboxStatusPending,
	}
}

func TestOutboxRepository_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		e := validEvent()
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO outbox_events")).
			WithArgs(e.ID, e.RequestID, e.AggregateType, e.AggregateID, e.EventType, e.Topic, e.Payload, e.Status).
			WillReturnResult(sqlmock.NewResult(1, 1))

		err = kafka.NewOutboxRepository(db).Create(context.Background(), e)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("uses the transaction", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO outbox_events")).WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		tx, err := db.Begin()
		require.NoError(t, err)
		err = kafka.NewOutboxRepository(db).WithTx(tx).Create(context.Background(), validEvent())
		require.NoError(t, err)
		require.NoError(t, tx.Commit())

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("negative invalid event is not written", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		e := validEvent()
		e.Payload = nil
		err = kafka.NewOutboxRepository(db).Create(context.Background(), e)

		assert.EqualError(t, err, "outbox payload is required")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOutboxRepository_ListPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	e := validEvent()
	next := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "request_id", "aggregate_type", "aggregate_id", "event_type", "topic", "payload", "status", "retry_count", "next_retry_at",
	}).AddRow(e.ID, e.RequestID, e.AggregateType, e.AggregateID, e.EventType, e.Topic, e.Payload, kafka.OutboxStatusFailed, 2, next)

	mock.ExpectQuery(regexp.QuoteMeta("FROM outbox_events")).
		WithArgs(kafka.OutboxStatusPending, kafka.OutboxStatusFailed, 50).
		WillReturnRows(rows)

	got, err := kafka.NewOutboxRepository(db).ListPending(context.Background(), 50)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, e.ID, got[0].ID)
	assert.Equal(t, e.Payload, got[0].Payload)
	assert.Equal(t, 2, got[0].RetryCount)
	assert.Equal(t, next, got[0].NextRetryAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_Mark(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE outbox_events")).
		WithArgs("id-1", kafka.OutboxStatusSent).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE outbox_events")).
		WithArgs("id-2", kafka.OutboxStatusFailed, kafka.OutboxStatusDead, kafka.MaxOutboxAttempts, "broker down").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := kafka.NewOutboxRepository(db)
	require.NoError(t, repo.MarkSent(context.Background(), "id-1"))
	require.NoError(t, repo.MarkFailed(context.Background(), "id-2", "broker down"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidateOutboxEvent(t *testing.T) {
	cases := map[string]func(e *kafka.OutboxEvent){
		"outbox id is required":           func(e *kafka.OutboxEvent) { e.ID = "" },
		"outbox aggregate id is required": func(e *kafka.OutboxEvent) { e.AggregateID = "" },
		"outbox topic is required":        func(e *kafka.OutboxEvent) { e.Topic = "" },
		"invalid outbox status: dead":     func(e *kafka.OutboxEvent) { e.Status = kafka.OutboxStatusDead },
	}
	for want, mutate := range cases {
		t.Run(want, func(t *testing.T) {
			e := validEvent()
			mutate(&e)
			assert.EqualError(t, kafka.ValidateOutboxEvent(e), want)
		})
	}
	assert.NoError(t, kafka.ValidateOutboxEvent(validEvent()))
}
