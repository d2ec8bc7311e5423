// Package main is the entry point for the anaglyph surface viewer.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/kiss-anaglyph/internal/app"
	"github.com/Faultbox/kiss-anaglyph/internal/config"
	"github.com/Faultbox/kiss-anaglyph/internal/logger"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== KISS Anaglyph Viewer ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(cfg, config.ResolvedPath())
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	defer a.Close()

	if err := a.Run(ctx); err != nil {
		logger.Error("viewer error", zap.Error(err))
		a.Close()
		logger.Sync()
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
}
