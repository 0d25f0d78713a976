package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Thanhnebe/hoainamprj/internal/config"
	"github.com/Thanhnebe/hoainamprj/internal/devserver"
	"github.com/Thanhnebe/hoainamprj/internal/email"
	"github.com/Thanhnebe/hoainamprj/internal/logging"
	"github.com/Thanhnebe/hoainamprj/internal/storage"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.LogFormat, cfg.LogLevel)

	emailer, err := email.NewEmailService(cfg.Dev, logger)
	if err != nil {
		logger.Error("Failed to initialize email service", "error", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(cfg.Dev.UploadDir, 0o755); err != nil {
		logger.Error("Failed to create upload directory", "dir", cfg.Dev.UploadDir, "error", err)
		os.Exit(1)
	}

	users := devserver.SeedUsers(cfg.Dev)
	if cfg.Dev.UserID == "" {
		logger.Warn("DEV_USER_ID is not set, the backend has no users")
	}
	s := devserver.New(cfg.Dev, users, storage.NewDirStore(cfg.Dev.UploadDir, cfg.Dev.MaxUploadBytes), emailer, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- s.Start() }()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("Server stopped", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
}
