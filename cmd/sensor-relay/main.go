// Package main runs the sensor relay: phones POST orientation readings and
// viewers receive them over WebSocket.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/kiss-anaglyph/internal/config"
	"github.com/Faultbox/kiss-anaglyph/internal/logger"
	"github.com/Faultbox/kiss-anaglyph/internal/relay"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := relay.New(cfg.Relay.ServerConfig())
	logger.Info("=== Sensor Relay ===",
		zap.String("addr", cfg.Relay.Addr),
		zap.Duration("broadcast_interval", cfg.Relay.BroadcastInterval),
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("relay error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}

	logger.Info("relay stopped")
}
