package app

import (
	"context"
	"net/http"
	"time"

	"go-leave/internal/balance"
	"go-leave/internal/config"
	"go-leave/internal/employee"
	"go-leave/internal/holiday"
	"go-leave/internal/leave"
	"go-leave/internal/leavetype"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/middleware"
	"go-leave/internal/notification"
	"go-leave/internal/rbac"
	"go-leave/internal/rbac/infra"
	"go-leave/internal/shared/metrics"
	"go-leave/internal/teamcalendar"
	"go-leave/internal/workcalendar"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// newNotifier queues notices on the outbox when a broker is configured and
// writes the inbox directly otherwise.
func newNotifier(cfg config.Config, in *Infra, logger *zap.Logger) leave.Notifier {
	if cfg.KafkaBroker != "" {
		return notification.NewOutboxNotifier(kafka.NewOutboxRepository(in.SQL), logger)
	}
	return notification.NewInboxNotifier(notification.NewService(notification.NewRepository(in.DB), logger))
}

func registerModules(
	ctx context.Context,
	router *gin.Engine,
	cfg config.Config,
	in *Infra,
	logger *zap.Logger,
) error {
	db := in.DB

	// --- Repositories ---
	rbacRepo := rbac.NewRepository(db)
	employeeRepo := employee.NewRepository(db)
	leaveTypeRepo := leavetype.NewRepository(db)
	holidayRepo := holiday.NewRepository(db)
	balanceRepo := balance.NewRepository(db)
	leaveRepo := leave.NewRepository(db)
	notificationRepo := notification.NewRepository(db)
	calendarRepo := teamcalendar.NewRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer, logger)
	if err := rbacService.LoadPolicy(ctx); err != nil {
		return err
	}

	// --- Services ---
	directory := employee.NewDirectory(employeeRepo, in.Redis, logger)
	leaveTypeService := leavetype.NewService(leaveTypeRepo, logger)
	holidayService := holiday.NewService(holidayRepo, in.Redis, cfg.HolidayCountry, logger)
	calendar := workcalendar.New(holidayService, logger)
	ledger := balance.NewLedger(balanceRepo, leavetype.NewPolicy(cfg.StandardPTOName, cfg.StandardPTODays), logger)
	balanceService := balance.NewService(db, balanceRepo, ledger, leaveTypeService, directory, cfg.LedgerMaxRetries, logger)
	notificationService := notification.NewService(notificationRepo, logger)
	leaveService := leave.NewService(
		db,
		leaveRepo,
		ledger,
		leaveTypeService,
		calendar,
		directory,
		newNotifier(cfg, in, logger),
		leave.WithCalendarSink(teamcalendar.NewSink(calendarRepo, logger)),
		leave.WithMaxRetries(cfg.LedgerMaxRetries),
		leave.WithLogger(logger),
	)
	teamCalendarService := teamcalendar.NewService(calendarRepo, holidayService, logger)

	// --- Handlers ---
	rbacHandler := rbac.NewHandler(rbacService, logger)
	leaveTypeHandler := leavetype.NewHandler(leaveTypeService, logger)
	holidayHandler := holiday.NewHandler(holidayService, logger)
	balanceHandler := balance.NewHandler(balanceService, logger)
	leaveHandler := leave.NewHandler(leaveService, logger)
	notificationHandler := notification.NewHandler(notificationService, logger)
	teamCalendarHandler := teamcalendar.NewHandler(teamCalendarService, logger)

	// --- Global middleware ---
	router.Use(
		middleware.RequestID(),
		middleware.ContextLogger(logger),
		metrics.GinMiddleware(),
		cors.New(cors.Config{
			AllowOrigins:     cfg.CORSAllowOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader, middleware.IdempotencyHeader},
			ExposeHeaders:    []string{middleware.RequestIDHeader, "Idempotent-Replayed"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
	)
	if cfg.EnablePprof {
		pprof.Register(router)
	}
	router.GET("/metrics", metrics.Handler())
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := middleware.Auth(cfg.JWTSecret)

	leaveExtras := []gin.HandlerFunc{
		middleware.RateLimitByEmployee(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
	}
	if in.Redis != nil {
		leaveExtras = append(leaveExtras, middleware.Idempotency(in.Redis, logger))
	}

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		leavetype.RegisterRoutes(api, leaveTypeHandler, rbacService, auth)
		balance.RegisterRoutes(api, balanceHandler, rbacService, auth)
		leave.RegisterRoutes(api, leaveHandler, rbacService, auth, leaveExtras...)
		holiday.RegisterRoutes(api, holidayHandler, rbacService, auth)
		teamcalendar.RegisterRoutes(api, teamCalendarHandler, rbacService, auth)
		notification.RegisterRoutes(api, notificationHandler, rbacService, auth)
		rbac.RegisterRoutes(api, rbacHandler, rbacService, auth)
	}

	return nil
}
