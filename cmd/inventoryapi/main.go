package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"stockdash/infrastructure/audit"
	"stockdash/infrastructure/config"
	httpserver "stockdash/infrastructure/http"
	"stockdash/infrastructure/logging"
	"stockdash/infrastructure/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}
	logger := logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	db, err := sqlite.Open(cfg.API.SQLitePath)
	if err != nil {
		logger.Error("open db", slog.Any("err", err))
		os.Exit(1)
	}
	defer db.Close()

	applied, err := sqlite.Migrate(context.Background(), db, cfg.API.MigrationsDir)
	if err != nil {
		logger.Error("apply migrations", slog.Any("err", err))
		os.Exit(1)
	}
	if len(applied) > 0 {
		logger.Info("migrations applied", slog.Any("files", applied))
	}

	server := httpserver.NewAPIServer(cfg.API.Addr, db, audit.NewService())
	if err := server.Start(); err != nil {
		logger.Error("start server", slog.Any("err", err))
		os.Exit(1)
	}
	logger.Info("inventory api listening", slog.String("addr", server.ListenAddr()), slog.String("db", cfg.API.SQLitePath))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	if err := server.Stop(); err != nil {
		logger.Error("graceful shutdown error", slog.Any("err", err))
	}
}
