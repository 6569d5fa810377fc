package app

import (
	"context"
	"database/sql"
	"errors"

	"go-leave/internal/balance"
	"go-leave/internal/config"
	"go-leave/internal/employee"
	"go-leave/internal/holiday"
	"go-leave/internal/leave"
	"go-leave/internal/leavetype"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/notification"
	"go-leave/internal/rbac"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/connection"
	"go-leave/internal/teamcalendar"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Infra holds the connections shared by the api, worker and consumer.
// Redis is nil when REDIS_ADDR is empty.
type Infra struct {
	DB    *gorm.DB
	SQL   *sql.DB
	Redis *redis.Client
}

func Connect(cfg config.Config) (*Infra, error) {
	gormDB, err := connection.ConnectGORMWithRetry(cfg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}

	infra := &Infra{DB: gormDB, SQL: sqlDB}
	if cfg.RedisAddr != "" {
		rdb, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, cfg.ConnectMaxRetries)
		if err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		infra.Redis = rdb
	}
	return infra, nil
}

func (i *Infra) Close() {
	if i.Redis != nil {
		_ = i.Redis.Close()
	}
	_ = i.SQL.Close()
}

// Models lists every table the service owns, in dependency order.
func Models() []any {
	return []any{
		&employee.Department{},
		&employee.Employee{},
		&leavetype.LeaveType{},
		&holiday.Holiday{},
		&balance.LeaveBalance{},
		&balance.BalanceAdjustment{},
		&leave.LeaveRequest{},
		&notification.Notification{},
		&teamcalendar.CalendarEvent{},
		&rbac.RolePermission{},
		&kafka.OutboxRecord{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

// Seed installs the default leave types (when enabled) and role permissions.
// Both are idempotent.
func Seed(ctx context.Context, db *gorm.DB, cfg config.Config, logger *zap.Logger) error {
	if cfg.SeedLeaveTypes {
		if err := leavetype.Seed(ctx, leavetype.NewRepository(db), logger); err != nil {
			return err
		}
	}
	return rbac.Seed(ctx, rbac.NewRepository(db), logger)
}

// BuildApp connects, migrates, seeds and mounts every module on router. The
// caller closes the returned Infra.
func BuildApp(router *gin.Engine, cfg config.Config) (*Infra, error) {
	logger := zap.L().Named("app")

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	infra, err := Connect(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("infrastructure connected",
		zap.String("db_driver", cfg.DBDriver),
		zap.Bool("redis", infra.Redis != nil),
		zap.Bool("kafka", cfg.KafkaBroker != ""),
	)

	ctx := context.Background()
	if err := Migrate(infra.DB); err != nil {
		infra.Close()
		return nil, err
	}
	if err := Seed(ctx, infra.DB, cfg, logger); err != nil {
		infra.Close()
		return nil, err
	}

	apperror.Init()
	if err := registerModules(ctx, router, cfg, infra, logger); err != nil {
		infra.Close()
		return nil, err
	}
	return infra, nil
}

// NewLogger returns a production logger in production and a development
// logger everywhere else.
func NewLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
