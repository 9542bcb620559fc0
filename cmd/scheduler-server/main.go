package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/rahulwaghole14/aiinterviewerbackend-sub002/internal/config"
	"github.com/rahulwaghole14/aiinterviewerbackend-sub002/internal/jobs"
	"github.com/rahulwaghole14/aiinterviewerbackend-sub002/internal/notify"
	"github.com/rahulwaghole14/aiinterviewerbackend-sub002/internal/service/linktoken"
	"github.com/rahulwaghole14/aiinterviewerbackend-sub002/internal/service/scheduling"
	"github.com/rahulwaghole14/aiinterviewerbackend-sub002/internal/store/postgres"
	httpTransport "github.com/rahulwaghole14/aiinterviewerbackend-sub002/internal/transport/http"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})).With(
		slog.String("service", "scheduler-server"),
	)
	slog.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		log.Error("config load failed", slog.Any("err", err))
		os.Exit(1)
	}

	log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)})).With(
		slog.String("service", "scheduler-server"),
	)
	slog.SetDefault(log)

	httpAddr := net.JoinHostPort(cfg.HTTPHost, strconv.Itoa(cfg.HTTPPort))
	log.Info("starting", slog.String("http_addr", httpAddr), slog.String("log_level", cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("connecting to database", databaseLogArgs(cfg.DatabaseURL)...)
	db, err := postgres.Open(ctx, cfg.DatabaseURL, postgres.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
	})
	if err != nil {
		args := append([]any{slog.Any("err", err)}, databaseLogArgs(cfg.DatabaseURL)...)
		log.Error("database connection failed", args...)
		os.Exit(1)
	}
	defer func() {
		if err := postgres.Close(db); err != nil {
			log.Warn("database close failed", slog.Any("err", err))
		}
	}()

	if err := postgres.Bootstrap(ctx, db); err != nil {
		log.Error("schema bootstrap failed", slog.Any("err", err))
		os.Exit(1)
	}

	var notifier notify.Notifier
	if cfg.NatsURL != "" {
		nc, err := notify.Connect(cfg.NatsURL)
		if err != nil {
			log.Error("nats connection failed", slog.Any("err", err), slog.String("nats_url", cfg.NatsURL))
			os.Exit(1)
		}
		defer nc.Close()
		notifier = notify.NewNatsNotifier(nc, log)
		log.Info("nats notifier enabled", slog.String("nats_url", cfg.NatsURL))
	} else {
		notifier = notify.NewLogNotifier(log)
		log.Info("no nats url configured; notification events go to the log")
	}

	repo := postgres.NewSchedulerRepo(db)
	links := linktoken.NewService([]byte(cfg.LinkSecret), cfg.LinkGraceBefore, cfg.LinkGraceAfter, repo, log)
	scheduler := scheduling.NewService(repo, links, notifier, log)

	c := cron.New()
	reminder := jobs.NewReminderJob(repo, notifier, cfg.ReminderLead, cfg.ReminderStep, log)
	if _, err := c.AddFunc(cfg.ReminderCronSpec, func() { reminder.Run(ctx) }); err != nil {
		log.Error("reminder schedule invalid", slog.Any("err", err), slog.String("cron_spec", cfg.ReminderCronSpec))
		os.Exit(1)
	}
	c.Start()
	defer c.Stop()

	server := &http.Server{
		Addr:              httpAddr,
		Handler:           httpTransport.NewServer(scheduler, links, log).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	log.Info("http server started", slog.String("http_addr", httpAddr))

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
		shutdown(log, server, cfg.ShutdownTimeout)
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server stopped with error", slog.Any("err", err))
			os.Exit(1)
		}
	}
}

func shutdown(log *slog.Logger, s *http.Server, timeout time.Duration) {
	log.Info("shutting down http server", slog.Duration("timeout", timeout))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		log.Warn("http graceful shutdown failed; forcing close", slog.Any("err", err))
		_ = s.Close()
		return
	}
	log.Info("http server stopped")
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func databaseLogArgs(databaseURL string) []any {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return []any{slog.String("db_url", "invalid")}
	}
	name := strings.TrimPrefix(u.Path, "/")
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "default"
	}
	if host == "" {
		host = "unknown"
	}
	if name == "" {
		name = "unknown"
	}
	return []any{
		slog.String("db_host", host),
		slog.String("db_port", port),
		slog.String("db_name", name),
	}
}
