// cmd/onboarding-server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"onboarding-pipeline/internal/common/config"
	"onboarding-pipeline/internal/common/database"
	"onboarding-pipeline/internal/common/logger"
	"onboarding-pipeline/internal/common/observability"
	"onboarding-pipeline/internal/machine"
	"onboarding-pipeline/internal/notify"
	"onboarding-pipeline/internal/server"
	"onboarding-pipeline/internal/store"
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

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting onboarding server...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New("onboarding-server")
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

	if _, err := pg.GetDB().ExecContext(ctx, store.Schema); err != nil {
		zapLog.Fatal("schema bootstrap failed", zap.Error(err))
	}

	// --- Init Redis with retry ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	zapLog.Info("Redis connected successfully")

	guard := notify.NewSendGuard(rdb.GetClient(), config.GetDuration(cfg.Notifications.DedupeTTL*1000))

	// --- Init Notifiers ---
	var email notify.Notifier = notify.NopNotifier{}
	if cfg.Notifications.Email.Enabled {
		emailNotifier, err := notify.NewEmailNotifier(ctx, cfg.Notifications.AWS.Region, cfg.Notifications.Email.FromEmail)
		if err != nil {
			zapLog.Fatal("ses notifier failed", zap.Error(err))
		}
		email = emailNotifier
		zapLog.Info("SES notifier initialized", zap.String("from", cfg.Notifications.Email.FromEmail))
	} else {
		zapLog.Warn("email notifications disabled, using no-op notifier")
	}

	var sms notify.Notifier
	if cfg.Notifications.SMS.Enabled {
		smsNotifier, err := notify.NewSMSNotifier(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("sns notifier failed", zap.Error(err))
		}
		sms = smsNotifier
		zapLog.Info("SNS notifier initialized")
	}

	// --- Wire the engine ---
	eng := machine.NewEngine(machine.EngineConfig{
		Machine:       machine.New(cfg.Server.BaseURL, cfg.Payment.Amount, cfg.Payment.Currency),
		Store:         store.NewPostgresStore(pg.GetDB()),
		Email:         email,
		SMS:           sms,
		Templates:     notify.DefaultRegistry(),
		Guard:         guard,
		Logger:        log,
		Observability: obs,
	})

	srv := &http.Server{
		Addr:    cfg.Server.ListenAddress,
		Handler: server.New(eng, log).Handler(),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.ListenAddress))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Metrics & pprof Server ---
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Metrics server listening", zap.String("address", cfg.Server.MetricsAddress))
		if err := http.ListenAndServe(cfg.Server.MetricsAddress, nil); err != nil {
			zapLog.Error("Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}

	zapLog.Info("Onboarding server stopped gracefully")
}
