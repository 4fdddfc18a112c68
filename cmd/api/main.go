// Package main is the entry point for the plann.er API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
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

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel"

	"github.com/de-freitas/rocketseat-nlw-planner/internal/config"
	"github.com/de-freitas/rocketseat-nlw-planner/internal/handler"
	"github.com/de-freitas/rocketseat-nlw-planner/internal/mailer"
	"github.com/de-freitas/rocketseat-nlw-planner/internal/middleware"
	"github.com/de-freitas/rocketseat-nlw-planner/internal/notify"
	"github.com/de-freitas/rocketseat-nlw-planner/internal/repo"
	"github.com/de-freitas/rocketseat-nlw-planner/internal/service"
	"github.com/de-freitas/rocketseat-nlw-planner/internal/telemetry"
	"github.com/de-freitas/rocketseat-nlw-planner/migrations"
)

const serviceName = "planner-api"

func main() {
	// A .env file is optional; real environment variables win over it.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("could not read .env file", "error", err)
	}

	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use the default stderr logger before ours is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	// JSON handler writes machine-readable output suitable for log aggregators.
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// run owns every resource with a lifetime, so deferred cleanups execute
// before main decides the exit code.
func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Tracing ----------------------------------------------------------
	shutdownTracing, err := telemetry.Setup(ctx, serviceName, cfg.OTelEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn("tracing shutdown", "error", err)
		}
	}()

	// --- Database ---------------------------------------------------------
	// pgxpool manages a pool of Postgres connections.
	// New() does not open connections immediately; the first query does.
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("create database pool: %w", err)
	}
	defer pool.Close()

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	logger.Info("database connection established")

	if cfg.MigrateOnStart {
		sqlDB := stdlib.OpenDBFromPool(pool)
		applied, err := migrations.Up(ctx, sqlDB)
		_ = sqlDB.Close()
		if err != nil {
			return err
		}
		logger.Info("migrations applied", "count", applied)
	}

	// --- Notifications ----------------------------------------------------
	sender, closeSender, err := newSender(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeSender(); err != nil {
			logger.Warn("mail transport close", "error", err)
		}
	}()

	dispatcher := notify.NewDispatcher(sender, logger,
		notify.WithTimeout(cfg.NotifyTimeout),
		notify.WithConcurrency(cfg.NotifyConcurrency),
	)
	composer := notify.NewComposer(cfg.MailLocale)
	logger.Info("notifications configured",
		"transport", cfg.MailTransport,
		"locale", composer.Locale().String(),
	)

	// --- Services ---------------------------------------------------------
	links := service.Links{APIBaseURL: cfg.APIBaseURL, FrontBaseURL: cfg.FrontBaseURL}
	tripSvc := service.NewTripService(repo.NewTripRepo(pool), composer, dispatcher, links,
		service.WithLogger(logger))
	participantSvc := service.NewParticipantService(repo.NewParticipantRepo(pool), links,
		service.WithLogger(logger))

	// --- Router -----------------------------------------------------------
	// RequestID generates a unique ID per request.
	// RealIP sets r.RemoteAddr from X-Forwarded-For / X-Real-IP (safe behind a proxy).
	// Tracing opens a server span so the request log can carry its trace ID.
	// SlogLogger writes one structured JSON log line per request.
	// Recoverer catches panics and returns HTTP 500 instead of crashing.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewTracing(otel.Tracer(serviceName)))
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.AllowedOrigins()))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	r.Mount("/", handler.NewServer(tripSvc, participantSvc, logger).Routes())

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second + cfg.NotifyTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}
	logger.Info("shutting down server")

	// Graceful shutdown: give in-flight requests up to 15 seconds, then let
	// detached invitation fan-outs finish within the same budget.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := dispatcher.Drain(shutdownCtx); err != nil {
		logger.Warn("pending notifications abandoned", "error", err)
	}
	return nil
}

// newSender selects the mail transport named by MAIL_TRANSPORT. The returned
// func releases the transport's connections.
func newSender(cfg config.Config, logger *slog.Logger) (notify.Sender, func() error, error) {
	noClose := func() error { return nil }

	switch cfg.MailTransport {
	case config.MailTransportSMTP:
		s, err := mailer.NewSMTP(mailer.SMTPConfig{
			Host:        cfg.SMTPHost,
			Port:        cfg.SMTPPort,
			Username:    cfg.SMTPUsername,
			Password:    cfg.SMTPPassword,
			FromName:    cfg.MailFromName,
			FromAddress: cfg.MailFromAddress,
		})
		if err != nil {
			return nil, nil, err
		}
		return s, noClose, nil
	case config.MailTransportKafka:
		k, err := mailer.NewKafka(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			return nil, nil, err
		}
		return k, k.Close, nil
	default:
		return mailer.NewLog(logger), noClose, nil
	}
}
