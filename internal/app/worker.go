package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-leave/internal/config"
	"go-leave/internal/employee"
	"go-leave/internal/leave"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/messaging/kafka/producer"
	"go-leave/internal/shared/connection"

	"go.uber.org/zap"
)

// Reminders is what the worker schedules; *leave.Reminder satisfies it.
type Reminders interface {
	Run(ctx context.Context) (int, error)
}

// RunWorker publishes the outbox (when a broker is configured) and sends the
// reminder batches until SIGINT or SIGTERM.
func RunWorker(cfg config.Config) error {
	logger := zap.L().Named("app.worker")

	in, err := Connect(cfg)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := Migrate(in.DB); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.KafkaBroker != "" {
		kafkaWriter, err := connection.ConnectKafkaWithRetry(cfg.KafkaBroker, cfg.ConnectMaxRetries)
		if err != nil {
			return err
		}
		defer kafkaWriter.Close()

		go producer.ProcessOutboxEvents(
			ctx,
			kafka.NewOutboxRepository(in.SQL),
			kafkaWriter,
			logger,
			cfg.OutboxPollInterval,
		)
	} else {
		logger.Warn("KAFKA_BROKER not set, outbox publishing disabled")
	}

	reminder := leave.NewReminder(
		leave.NewRepository(in.DB),
		employee.NewDirectory(employee.NewRepository(in.DB), in.Redis, logger),
		newNotifier(cfg, in, logger),
		logger,
	)
	go RunReminders(ctx, reminder, cfg.ReminderInterval, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("worker shutting down")
	cancel()

	return nil
}

// RunReminders runs one batch immediately and then one per interval.
func RunReminders(ctx context.Context, reminders Reminders, interval time.Duration, logger *zap.Logger) {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	log := logger.Named("reminders")

	run := func() {
		sent, err := reminders.Run(ctx)
		if err != nil {
			log.Error("reminder batch failed", zap.Error(err))
			return
		}
		log.Info("reminder batch done", zap.Int("sent", sent))
	}

	run()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info("reminders stopped")
			return
		case <-ticker.C:
			run()
		}
	}
}
