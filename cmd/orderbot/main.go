package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/orderbot/internal/auth"
	"github.com/Skotchmaster/orderbot/internal/catalog"
	"github.com/Skotchmaster/orderbot/internal/config"
	"github.com/Skotchmaster/orderbot/internal/conversation"
	"github.com/Skotchmaster/orderbot/internal/db"
	"github.com/Skotchmaster/orderbot/internal/events"
	"github.com/Skotchmaster/orderbot/internal/httpserver"
	"github.com/Skotchmaster/orderbot/internal/logging"
	loggingmw "github.com/Skotchmaster/orderbot/internal/middleware/logging"
	"github.com/Skotchmaster/orderbot/internal/mykafka"
	"github.com/Skotchmaster/orderbot/internal/orders"
	"github.com/Skotchmaster/orderbot/internal/stats"
)

func main() {
	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.WebhookSecret, "WEBHOOK_JWT_SECRET")

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	allow := auth.ParseAllowList(cfg.AuthorizedUsers)
	if allow.Len() == 0 {
		logger.Warn("allow_list_empty", "reason", "AUTHORIZED_USERS is empty, every user will be rejected")
	}

	startCtx, cancelStart := context.WithTimeout(context.Background(), time.Minute)
	gdb, err := db.Open(startCtx, cfg.DatabaseURL, db.Options{
		Driver:   cfg.DatabaseDriver,
		Attempts: cfg.DBConnectAttempts,
		Backoff:  2 * time.Second,
	})
	cancelStart()
	if err != nil {
		logger.Error("db_init_failed", "error", err)
		os.Exit(1)
	}
	if err := db.Migrate(gdb); err != nil {
		logger.Error("db_migrate_failed", "error", err)
		os.Exit(1)
	}

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		prod, err := mykafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			logger.Error("kafka_init_failed", "error", err)
			os.Exit(1)
		}
		publisher = prod
	}

	orderRepo := &orders.GormRepo{DB: gdb}
	aggregator := &stats.Aggregator{Store: orderRepo}
	sessions := conversation.NewSessionStore(cfg.SessionIdleTTL)

	engine := conversation.NewEngine(conversation.Deps{
		Catalog:   &catalog.GormRepo{DB: gdb},
		Orders:    orderRepo,
		Stats:     aggregator,
		Events:    publisher,
		AllowList: allow,
		Locations: cfg.Locations,
		Sessions:  sessions,
	})

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), loggingmw.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		DB:           gdb,
		ChatHandler:  &httpserver.ChatHTTP{Engine: engine},
		StatsHandler: &httpserver.StatsHTTP{Stats: aggregator, AllowList: allow},
		JWTSecret:    cfg.WebhookSecret,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.SessionIdleTTL > 0 {
		go sweepSessions(ctx, logger, sessions, cfg.SessionIdleTTL)
	}

	go func() {
		logger.Info("server_started", "addr", srv.Addr, "locations", len(cfg.Locations))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http_server_error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting_down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_error", "error", err)
	}
	if err := db.Close(gdb); err != nil {
		logger.Error("db_close_error", "error", err)
	}
	if err := publisher.Close(); err != nil {
		logger.Error("kafka_close_error", "error", err)
	}

	logger.Info("shutdown_complete")
}

func sweepSessions(ctx context.Context, l *slog.Logger, sessions *conversation.SessionStore, ttl time.Duration) {
	interval := ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := sessions.Sweep(now); n > 0 {
				l.Info("sessions_expired", "count", n, "live", sessions.Len())
			}
		}
	}
}
