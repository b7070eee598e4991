package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"threecs/internal/platform/config"
	"threecs/internal/platform/httpserver"
)

const shutdownTimeout = 10 * time.Second

// Serve builds the application and serves it on cfg.Addr until ctx is
// cancelled, then drains in-flight requests.
func Serve(ctx context.Context, cfg config.Server, logger *slog.Logger) error {
	a, err := Build(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("build app: %w", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Error("failed to release resources", "error", err)
		}
	}()

	srv := httpserver.New(cfg.Addr, a.Handler)
	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting threecs", "addr", cfg.Addr, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
