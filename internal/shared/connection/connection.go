package connection

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go-leave/internal/config"

	"github.com/cenkalti/backoff/v4"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const retryInterval = 5 * time.Second

func retryPolicy(maxRetries int) backoff.BackOff {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return backoff.WithMaxRetries(backoff.NewConstantBackOff(retryInterval), uint64(maxRetries-1))
}

// GormConfig keeps generated timestamps in UTC for every driver.
func GormConfig() *gorm.Config {
	return &gorm.Config{
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		TranslateError: true,
	}
}

func dialector(cfg config.Config) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		return postgres.Open(cfg.PostgresDSN()), nil
	case config.DriverSQLite:
		if dir := filepath.Dir(cfg.DBPath); dir != "." {
			if err := os.MkdirAll(dir, os.ModePerm); err != nil {
				return nil, err
			}
		}
		return sqlite.Open(cfg.DBPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"), nil
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.DBDriver)
	}
}

func ConnectGORMWithRetry(cfg config.Config) (*gorm.DB, error) {
	logger := zap.L().Named("connection.db")

	dial, err := dialector(cfg)
	if err != nil {
		return nil, err
	}

	var db *gorm.DB
	attempt := 0
	op := func() error {
		attempt++
		opened, err := gorm.Open(dial, GormConfig())
		if err != nil {
			logger.Warn("gorm open failed", zap.Int("attempt", attempt), zap.Error(err))
			return err
		}

		sqlDB, err := opened.DB()
		if err != nil {
			return err
		}
		if err := sqlDB.Ping(); err != nil {
			logger.Warn("db ping failed", zap.Int("attempt", attempt), zap.Error(err))
			return err
		}

		if cfg.DBDriver == config.DriverSQLite {
			// sqlite allows a single writer; one connection avoids SQLITE_BUSY.
			sqlDB.SetMaxOpenConns(1)
			sqlDB.SetMaxIdleConns(1)
		} else {
			sqlDB.SetMaxOpenConns(25)
			sqlDB.SetMaxIdleConns(10)
		}
		sqlDB.SetConnMaxLifetime(time.Hour)

		db = opened
		return nil
	}

	if err := backoff.Retry(op, retryPolicy(cfg.ConnectMaxRetries)); err != nil {
		return nil, fmt.Errorf("database connection failed after %d attempts: %w", attempt, err)
	}

	logger.Info("database connected", zap.String("driver", cfg.DBDriver))
	return db, nil
}

func ConnectRedisWithRetry(addr string, maxRetries int) (*redis.Client, error) {
	logger := zap.L().Named("connection.redis")
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	attempt := 0
	op := func() error {
		attempt++
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Int("attempt", attempt), zap.Error(err))
			return err
		}
		return nil
	}

	if err := backoff.Retry(op, retryPolicy(maxRetries)); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect redis: %w", err)
	}

	logger.Info("redis connected", zap.String("addr", addr))
	return rdb, nil
}

// ConnectKafkaWithRetry checks the broker is reachable and returns a writer.
// Topic is taken from each message.
func ConnectKafkaWithRetry(broker string, maxRetries int) (*kafkago.Writer, error) {
	logger := zap.L().Named("connection.kafka")

	attempt := 0
	op := func() error {
		attempt++
		conn, err := kafkago.Dial("tcp", broker)
		if err != nil {
			logger.Warn("kafka dial failed", zap.Int("attempt", attempt), zap.Error(err))
			return err
		}
		return conn.Close()
	}

	if err := backoff.Retry(op, retryPolicy(maxRetries)); err != nil {
		return nil, fmt.Errorf("failed to connect kafka: %w", err)
	}

	logger.Info("kafka connected", zap.String("broker", broker))
	return &kafkago.Writer{
		Addr:                   kafkago.TCP(broker),
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}, nil
}
