package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"stockdash/infrastructure/config"
	httpserver "stockdash/infrastructure/http"
	"stockdash/infrastructure/inventoryapi"
	"stockdash/infrastructure/logging"
	"stockdash/infrastructure/syncer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}
	logger := logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	opts := []syncer.Option{syncer.WithLogger(logger)}
	if cfg.Dashboard.LocalMetrics() {
		opts = append(opts, syncer.WithLocalMetrics())
	}
	client := inventoryapi.NewClient(cfg.Dashboard.RemoteURL, cfg.Dashboard.Timeout)
	ctrl := syncer.New(client, opts...)

	// An unreachable API is not fatal: the page renders empty until a refresh works.
	if err := ctrl.Refresh(context.Background()); err != nil {
		logger.Warn("initial inventory load failed", slog.String("api", client.BaseURL), slog.Any("err", err))
	}

	server := httpserver.NewServer(cfg.Dashboard.Addr, ctrl, cfg.Dashboard.PageSize)
	if err := server.Start(); err != nil {
		logger.Error("start server", slog.Any("err", err))
		os.Exit(1)
	}
	logger.Info("stockdash listening",
		slog.String("addr", server.ListenAddr()),
		slog.String("api", client.BaseURL),
		slog.Bool("local_metrics", cfg.Dashboard.LocalMetrics()),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	if err := server.Stop(); err != nil {
		logger.Error("graceful shutdown error", slog.Any("err", err))
	}
}
