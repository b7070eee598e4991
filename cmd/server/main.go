package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"threecs/internal/app"
	"threecs/internal/platform/config"
	"threecs/internal/platform/logger"
)

// main wires configuration and logging and hands the lifecycle to app.Serve.
// Business logic lives in internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Serve(ctx, cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		stop()
		os.Exit(1)
	}
}
