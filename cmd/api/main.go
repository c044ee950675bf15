package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"hr-leave-engine/internal/adapter/attachment"
	httpadp "hr-leave-engine/internal/adapter/http"
	"hr-leave-engine/internal/adapter/repository/gormstore"
	"hr-leave-engine/internal/config"
	"hr-leave-engine/internal/i18n"
	"hr-leave-engine/internal/infrastructure/cache"
	"hr-leave-engine/internal/infrastructure/db"
	leaveuc "hr-leave-engine/internal/usecase/leave"
	policyuc "hr-leave-engine/internal/usecase/policy"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(log)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid config", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()

	gdb, err := db.OpenGorm(cfg.DBDriver, cfg.DSN())
	if err != nil {
		log.Error("db connect failed", "driver", cfg.DBDriver, "err", err)
		os.Exit(1)
	}
	if err := gormstore.AutoMigrate(gdb); err != nil {
		log.Error("migration failed", "err", err)
		os.Exit(1)
	}

	rdb, err := cache.Open(ctx, cache.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	if err != nil {
		log.Error("redis connect failed", "addr", cfg.RedisAddr, "err", err)
		os.Exit(1)
	}
	defer rdb.Close()

	i18n.Init(cfg.DefaultLocale)

	policies := gormstore.NewPolicyRepository(gdb)
	policyUC := policyuc.NewUsecase(policies, log)
	if cfg.SeedPolicies {
		if _, err := policyUC.Seed(ctx, leaveuc.SystemActor); err != nil {
			log.Error("policy seed failed", "err", err)
			os.Exit(1)
		}
	}
	leaveUC := leaveuc.NewUsecase(leaveuc.Deps{
		Policies:  policies,
		Requests:  gormstore.NewLeaveRequestRepository(gdb),
		Balances:  gormstore.NewBalanceRepository(gdb),
		Employees: gormstore.NewEmployeeDirectory(gdb),
		UoW:       gormstore.NewGormUoW(gdb),
		Logger:    log,
	})

	sqlDB, err := gdb.DB()
	if err != nil {
		log.Error("db handle", "err", err)
		os.Exit(1)
	}
	health := httpadp.NewHandler(
		httpadp.Check{Name: "db", Fn: sqlDB.PingContext},
		httpadp.Check{Name: "redis", Fn: cache.Ping(rdb)},
	)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency, "requestId", v.RequestID}
			if v.Error != nil {
				log.ErrorContext(c.Request().Context(), "request", append(attrs, "err", v.Error)...)
				return nil
			}
			log.InfoContext(c.Request().Context(), "request", attrs...)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit("25M"))
	e.Static("/files", cfg.AttachmentDir)

	httpadp.Register(e, httpadp.RouteDeps{
		Health:         health,
		Policies:       httpadp.NewPolicyHandler(policyUC),
		Leaves:         httpadp.NewLeaveHandler(leaveUC, attachment.NewDiskStore(cfg.AttachmentDir, cfg.AttachmentBaseURL, cfg.MaxUploadBytes)),
		JWTSecret:      cfg.JWTSecret,
		Redis:          rdb,
		IdempotencyTTL: cfg.IdempotencyTTL(),
	})

	go func() {
		addr := ":" + cfg.AppPort
		log.Info("listening", "addr", addr, "driver", cfg.DBDriver)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(sctx); err != nil {
		log.Error("forced shutdown", "err", err)
	}
	if err := sqlDB.Close(); err != nil {
		log.Warn("db close", "err", err)
	}
}
