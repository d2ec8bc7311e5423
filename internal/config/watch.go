package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/kiss-anaglyph/internal/logger"
)

// reloadDelay coalesces the burst of events editors emit for one save.
const reloadDelay = 100 * time.Millisecond

// Watch reloads path whenever it changes and passes each valid result to
// onChange. Invalid files are logged and skipped. Watch blocks until ctx is
// cancelled.
//
// The parent directory is watched rather than the file so that editors which
// replace the file on save keep triggering reloads.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDelay)
			} else {
				timer.Reset(reloadDelay)
			}
			pending = timer.C

		case <-pending:
			pending = nil
			cfg, err := LoadFile(abs)
			if err != nil {
				logger.Warn("ignoring config change", zap.String("path", abs), zap.Error(err))
				continue
			}
			logger.Info("config reloaded", zap.String("path", abs))
			onChange(cfg)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("config watcher error", zap.Error(err))
		}
	}
}
