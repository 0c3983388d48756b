package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"docinsight/internal/domain"
	"docinsight/internal/handler"
	"docinsight/internal/router"
	"docinsight/internal/service"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll the source prefix and process new documents until interrupted",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate(); err != nil {
			return err
		}

		a, err := buildApp(cfg)
		if err != nil {
			return err
		}

		poller := service.NewPoller(a.store, service.PollerConfig{
			SourcePrefix: cfg.Watch.SourcePrefix,
			Interval:     cfg.Watch.PollInterval(),
		}, a.stats)

		srv := startStatusServer(cfg.Health.Port, poller)
		defer shutdownStatusServer(srv)

		if err := poller.Initialize(ctx); err != nil {
			return err
		}
		zap.L().Info("watching for new documents",
			zap.String("source_prefix", cfg.Watch.SourcePrefix),
			zap.String("destination_prefix", cfg.Watch.DestinationPrefix),
			zap.Duration("interval", cfg.Watch.PollInterval()),
		)

		return poller.Run(ctx, func(ctx context.Context, obj domain.ObjectInfo) {
			a.processor.Handle(ctx, obj)
		})
	},
}

// startStatusServer serves the health and status routes. An empty addr disables it.
func startStatusServer(addr string, watcher handler.StatusProvider) *http.Server {
	if addr == "" {
		return nil
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           router.Setup(handler.NewHealthHandler(watcher)),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zap.L().Info("status server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Error("status server failed", zap.Error(err))
		}
	}()
	return srv
}

func shutdownStatusServer(srv *http.Server) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zap.L().Warn("status server shutdown", zap.Error(fmt.Errorf("shutting down: %w", err)))
	}
}
