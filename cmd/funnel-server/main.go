// cmd/funnel-server/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"lead-funnel/internal/common/camunda"
	"lead-funnel/internal/common/config"
	"lead-funnel/internal/common/database"
	"lead-funnel/internal/common/hubspot"
	"lead-funnel/internal/common/logger"
	"lead-funnel/internal/common/notify"
	"lead-funnel/internal/common/observability"
	"lead-funnel/internal/common/ratelimit"
	"lead-funnel/internal/common/recaptcha"
	"lead-funnel/internal/server"
	quizsubmit "lead-funnel/internal/workers/intake/quiz-submit"
	callreminders "lead-funnel/internal/workers/reminders/call-reminders"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting funnel server...",
		zap.String("environment", cfg.App.Environment),
		zap.String("reminderProfile", cfg.Reminders.Profile),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	store := database.NewSubmissionStore(pg.GetDB())
	if err := store.EnsureSchema(ctx); err != nil {
		zapLog.Fatal("failed to ensure schema", zap.Error(err))
	}

	// --- Init Redis with retry ---
	redisClient := database.NewRedis(cfg.Database.Redis)
	err = retryWithBackoff(func() error {
		return redisClient.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redisClient.Close()
	zapLog.Info("Redis connected successfully")

	// --- Outbound clients ---
	directory := hubspot.NewClient(hubspot.ConfigFromApp(cfg.HubSpot), log)
	if !directory.Configured() {
		zapLog.Warn("HUBSPOT_ACCESS_TOKEN not set; reminder stages will report degraded and contact sync is skipped")
	}

	notifier, err := notify.NewFromConfig(ctx, cfg, false, log)
	if err != nil {
		zapLog.Fatal("failed to create notifier", zap.Error(err))
	}

	var limiter quizsubmit.RateLimiter
	if cfg.Security.RateLimit.Enabled {
		limiter = ratelimit.NewLimiter(redisClient.GetClient(), ratelimit.Config{
			Requests: cfg.Security.RateLimit.Requests,
			Window:   time.Duration(cfg.Security.RateLimit.Window) * time.Second,
		}, log)
	}

	verifier := recaptcha.NewVerifier(recaptcha.Config{
		SecretKey: cfg.Security.Recaptcha.SecretKey,
		VerifyURL: cfg.Security.Recaptcha.VerifyURL,
		MinScore:  cfg.Security.Recaptcha.MinScore,
		Timeout:   config.GetDuration(cfg.Security.Recaptcha.Timeout),
	}, log)

	// --- Optional Zeebe client ---
	var zeebe *camunda.Client
	if cfg.Camunda.Enabled {
		err = retryWithBackoff(func() error {
			var err error
			zeebe, err = camunda.NewClientWithConfig(camunda.ConfigFromApp(cfg.Camunda))
			return err
		}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		zapLog.Info("Zeebe client connected successfully")
	}

	// --- Reminder dispatcher ---
	reminders, err := callreminders.NewHandler(callreminders.HandlerOptions{
		AppConfig:     cfg,
		Camunda:       zeebe,
		Logger:        log,
		Directory:     directory,
		Notifier:      notifier,
		Observability: obs,
	})
	if err != nil {
		zapLog.Fatal("failed to create call-reminders handler", zap.Error(err))
	}
	if err := reminders.Register(); err != nil {
		zapLog.Fatal("failed to register call-reminders worker", zap.Error(err))
	}

	// --- Quiz intake ---
	intake := quizsubmit.NewService(quizsubmit.ServiceDependencies{
		Logger:        log,
		Limiter:       limiter,
		BotCheck:      verifier,
		Directory:     directory,
		Store:         store,
		Notifier:      notifier,
		Observability: obs,
	})

	// --- HTTP server ---
	checks := map[string]server.Pinger{
		"postgres": pg,
		"redis":    redisClient,
	}
	if zeebe != nil {
		checks["zeebe"] = server.PingFunc(zeebe.HealthCheck)
	}

	srv := server.New(server.Options{
		Address:         cfg.Server.Address,
		ReadTimeout:     config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout:    config.GetDuration(cfg.Server.WriteTimeout),
		SweepTimeout:    config.GetDuration(cfg.Camunda.Timeout),
		CronSecret:      cfg.Cron.Secret,
		MetricsPath:     cfg.Metrics.Path,
		MetricsDisabled: !cfg.Metrics.Enabled,
		Sweeper:         reminders.Service(),
		Intake:          intake,
		Checks:          checks,
		Logger:          log,
	})
	if cfg.Cron.Secret == "" {
		zapLog.Warn("CRON_SECRET not set; the reminder trigger will refuse every request")
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		zapLog.Info("Shutdown signal received, stopping server...")
	case err := <-errCh:
		if err != nil {
			zapLog.Error("HTTP server failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}

	reminders.Close()
	if zeebe != nil {
		if err := zeebe.Close(); err != nil {
			zapLog.Error("Error closing Zeebe client", zap.Error(err))
		}
	}

	zapLog.Info("Funnel server stopped gracefully")
}
