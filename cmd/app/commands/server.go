package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/allisson/posrecovery/internal/app"
	"github.com/allisson/posrecovery/internal/config"
	recoveryUseCase "github.com/allisson/posrecovery/internal/recovery/usecase"
)

// RunServer starts the admin HTTP server with graceful shutdown support.
// When RECOVERY_ON_STARTUP is set, one reconciliation pass runs before serving so that
// payments interrupted by the previous shutdown are resolved first. Blocks until receiving
// SIGINT/SIGTERM or encountering a fatal error.
func RunServer(ctx context.Context, version string) error {
	cfg := config.Load()

	gin.SetMode(cfg.GetGinMode())

	container := app.NewContainer(cfg)

	logger := container.Logger()
	logger.Info("starting server", slog.String("version", version))

	defer closeContainer(container, logger)

	if cfg.RecoveryOnStartup {
		reconciler, err := container.Reconciler()
		if err != nil {
			return fmt.Errorf("failed to initialize reconciler: %w", err)
		}
		if err := runStartupRecovery(ctx, reconciler, logger); err != nil {
			return err
		}
	}

	// Building the server initializes every remaining dependency
	server, err := container.HTTPServer()
	if err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}

	metricsServer, err := container.MetricsServer()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics server: %w", err)
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	serverErr := make(chan error, 2)
	go func() {
		if err := server.Start(ctx); err != nil {
			serverErr <- fmt.Errorf("api server error: %w", err)
		}
	}()

	if metricsServer != nil {
		go func() {
			if err := metricsServer.Start(ctx); err != nil {
				serverErr <- fmt.Errorf("metrics server error: %w", err)
			}
		}()
	}

	var shutdownErrors []error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		logger.Error("server error, initiating shutdown", slog.Any("error", err))
		shutdownErrors = append(shutdownErrors, err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.DBConnMaxLifetime)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		shutdownErrors = append(shutdownErrors, fmt.Errorf("api server shutdown: %w", err))
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	return errors.Join(shutdownErrors...)
}

// runStartupRecovery runs one pass. Only an unreadable store aborts startup; every other
// outcome is already captured in the result and logged by the reconciler.
func runStartupRecovery(ctx context.Context, reconciler recoveryUseCase.Reconciler, logger *slog.Logger) error {
	logger.Info("running startup recovery pass")

	result, err := reconciler.RecoverPendingTransactions(ctx)
	if err != nil {
		return fmt.Errorf("startup recovery failed: %w", err)
	}

	retained := 0
	for _, f := range result.Failed {
		if f.Retained {
			retained++
		}
	}
	if retained > 0 {
		logger.Warn("pending transactions retained for the next recovery pass",
			slog.Int("retained", retained))
	}
	return nil
}
