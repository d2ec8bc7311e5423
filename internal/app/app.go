// Package app runs the interactive anaglyph viewer: window, render loop,
// sensor feed, config reload and spatial audio.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/kiss-anaglyph/internal/config"
	"github.com/Faultbox/kiss-anaglyph/internal/engine/audio"
	"github.com/Faultbox/kiss-anaglyph/internal/engine/input"
	"github.com/Faultbox/kiss-anaglyph/internal/engine/orientation"
	"github.com/Faultbox/kiss-anaglyph/internal/engine/renderer"
	"github.com/Faultbox/kiss-anaglyph/internal/engine/screenshot"
	"github.com/Faultbox/kiss-anaglyph/internal/engine/window"
	"github.com/Faultbox/kiss-anaglyph/internal/logger"
	"github.com/Faultbox/kiss-anaglyph/internal/network"
	"github.com/Faultbox/kiss-anaglyph/internal/viewer"
)

const windowTitle = "KISS surface"

// App is the viewer instance.
type App struct {
	cfg     *config.Config
	cfgPath string // Watched for changes and written by save; may be empty

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	session  *viewer.Session

	sensor *network.Client
	sound  *audio.Spatializer

	capture     *screenshot.Capture
	captureNext bool

	reloads chan *config.Config
	title   string
}

// New creates the window, GL renderer and viewing session.
func New(cfg *config.Config, cfgPath string) (*App, error) {
	logger.Info("initializing viewer",
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
		zap.Int("u_segments", cfg.Surface.USegments),
		zap.Int("z_segments", cfg.Surface.ZSegments),
	)

	a := &App{
		cfg:     cfg,
		cfgPath: cfgPath,
		capture: screenshot.New(cfg.Window.ScreenshotDir, "kiss"),
		reloads: make(chan *config.Config, 1),
	}

	var err error
	a.window, err = window.New(window.Config{
		Title:      windowTitle,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	shading, err := shadingFromConfig(cfg.Shading)
	if err != nil {
		// Shade with the built-in map rather than refuse to start.
		logger.Warn("normal map unavailable", zap.String("file", cfg.Shading.NormalMapFile), zap.Error(err))
	}

	// Renderer needs the GL context the window just created.
	fbWidth, fbHeight := a.window.DrawableSize()
	a.renderer, err = renderer.New(renderer.Config{
		Width:     fbWidth,
		Height:    fbHeight,
		Wireframe: cfg.Window.Wireframe,
		Shading:   shading,
	})
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	width, height := a.window.Size()
	winCfg := cfg.Window
	winCfg.Width, winCfg.Height = width, height
	a.session, err = viewer.NewSession(a.renderer, cfg.Stereo.Params(winCfg.Aspect()), cfg.Surface.Grid(), width, height)
	if err != nil {
		a.renderer.Close()
		a.window.Close()
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	if cfg.Sensor.StartInSensor {
		a.session.Orientation.SetMode(orientation.ModeSensor)
	}

	a.input = input.New()

	if cfg.Sensor.Enabled {
		a.sensor = network.NewClient(cfg.Sensor.ClientConfig(), a.session.Orientation.Sensor)
	}
	if cfg.Audio.Enabled {
		if err := a.startAudio(); err != nil {
			// Audio is optional; the viewer runs silent.
			logger.Warn("audio disabled", zap.Error(err))
		}
	}

	logger.Info("viewer initialized")
	return a, nil
}

// Run drives the render loop until the window closes, ESC is pressed or
// ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer func() {
		cancel()
		wg.Wait()
	}()

	if a.sensor != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := a.sensor.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("sensor client stopped", zap.Error(err))
			}
		}()
	}

	if a.cfgPath != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := config.Watch(ctx, a.cfgPath, a.queueReload); err != nil {
				logger.Warn("config watch stopped", zap.Error(err))
			}
		}()
	}

	ticker := time.NewTicker(a.cfg.Window.TickInterval)
	defer ticker.Stop()

	logger.Info("starting render loop", zap.Duration("tick", a.cfg.Window.TickInterval))

	frames := 0
	statsTimer := time.Now()

	for {
		if a.input.Update() {
			return nil
		}
		if quit := a.handleEvents(a.input.Events()); quit {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil

		case cfg := <-a.reloads:
			a.applyConfig(cfg)

		case <-ticker.C:
			a.draw()

			frames++
			if time.Since(statsTimer) >= 5*time.Second {
				logger.Debug("render stats", zap.Int("frames", frames), zap.Duration("window", time.Since(statsTimer)))
				frames = 0
				statsTimer = time.Now()
			}
		}
	}
}

// Close releases audio, GL and window resources.
func (a *App) Close() {
	logger.Info("closing viewer")

	if a.sound != nil {
		a.sound.Close()
	}
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}

// handleEvents processes one batch of input. It returns true on quit.
func (a *App) handleEvents(events []input.Event) bool {
	tb := a.session.Orientation.Trackball

	for _, ev := range events {
		switch ev.Type {
		case input.EventQuit:
			return true

		case input.EventWindowResize:
			a.session.Resize(ev.Width, ev.Height)
			a.renderer.Resize(a.window.DrawableSize())

		case input.EventKeyDown:
			if a.perform(actionForKey(ev.Key, ev.Repeat)) {
				return true
			}

		case input.EventMouseDown:
			if ev.Button == sdl.BUTTON_LEFT && a.session.Orientation.Mode() == orientation.ModeTrackball {
				tb.Begin(ev.MouseX, ev.MouseY)
			}
		case input.EventMouseMove:
			if tb.Dragging() {
				tb.Drag(ev.MouseX, ev.MouseY)
			}
		case input.EventMouseUp:
			if ev.Button == sdl.BUTTON_LEFT {
				tb.End()
			}

		case input.EventMouseWheel:
			switch {
			case ev.Wheel > 0:
				a.perform(viewer.ActionConvergenceUp)
			case ev.Wheel < 0:
				a.perform(viewer.ActionConvergenceDown)
			}
		}
	}
	return false
}

// perform runs a bound action. It returns true on quit.
func (a *App) perform(act viewer.Action) bool {
	switch act {
	case viewer.ActionNone:
		return false
	case viewer.ActionQuit:
		return true
	case viewer.ActionToggleWireframe:
		a.cfg.Window.Wireframe = !a.cfg.Window.Wireframe
		a.renderer.SetWireframe(a.cfg.Window.Wireframe)
	case viewer.ActionToggleNormalMap:
		a.cfg.Shading.NormalMap = !a.cfg.Shading.NormalMap
		a.renderer.SetNormalMapping(a.cfg.Shading.NormalMap)
	case viewer.ActionToggleAudio:
		a.toggleAudio()
	case viewer.ActionToggleFilter:
		a.toggleFilter()
	case viewer.ActionSaveConfig:
		a.saveConfig()
	case viewer.ActionScreenshot:
		a.captureNext = true
	default:
		if err := a.session.Apply(act); err != nil {
			logger.Warn("action rejected", zap.Stringer("action", act), zap.Error(err))
		}
	}
	logger.Debug("action", zap.Stringer("action", act))
	return false
}

func (a *App) draw() {
	a.session.Update()
	a.session.Render()
	if a.captureNext {
		a.captureNext = false
		a.saveScreenshot()
	}
	a.window.SwapBuffers()

	status := network.StatusDisconnected
	if a.sensor != nil {
		status = a.sensor.Status()
	}
	if title := a.session.Title(status); title != a.title {
		a.title = title
		a.window.SetTitle(title)
	}
}

// queueReload hands a reloaded config to the render goroutine, replacing
// one that has not been applied yet.
func (a *App) queueReload(cfg *config.Config) {
	for {
		select {
		case a.reloads <- cfg:
			return
		default:
		}
		select {
		case <-a.reloads:
		default:
		}
	}
}

// applyConfig re-applies the live-reloadable sections.
func (a *App) applyConfig(cfg *config.Config) {
	if err := a.session.Reload(a.cfg, cfg); err != nil {
		logger.Warn("config partially applied", zap.Error(err))
	}

	if cfg.Window.Wireframe != a.cfg.Window.Wireframe {
		a.cfg.Window.Wireframe = cfg.Window.Wireframe
		a.renderer.SetWireframe(cfg.Window.Wireframe)
	}
	if cfg.Shading != a.cfg.Shading {
		if err := a.applyShading(cfg.Shading); err != nil {
			logger.Warn("shading rejected", zap.Error(err))
		} else {
			a.cfg.Shading = cfg.Shading
		}
	}

	if a.sound == nil {
		a.cfg.Audio.Volume = cfg.Audio.Volume
		a.cfg.Audio = withFilter(a.cfg.Audio, cfg.Audio)
		return
	}
	a.sound.SetVolume(cfg.Audio.Volume)
	a.cfg.Audio.Volume = a.sound.Volume()
	if err := a.sound.SetFilter(filterFromConfig(cfg.Audio)); err != nil {
		logger.Warn("audio filter rejected", zap.Error(err))
		return
	}
	a.cfg.Audio = withFilter(a.cfg.Audio, cfg.Audio)
}

// applyShading loads the normal map named by sc and hands the settings to
// the renderer. On failure the renderer keeps its current shading.
func (a *App) applyShading(sc config.ShadingConfig) error {
	sh, err := shadingFromConfig(sc)
	if err != nil {
		return err
	}
	return a.renderer.SetShading(sh)
}

func (a *App) saveConfig() {
	a.session.StoreConfig(a.cfg)

	var err error
	path := a.cfgPath
	if path != "" {
		err = a.cfg.SaveTo(path)
	} else {
		err = a.cfg.Save()
	}
	if err != nil {
		logger.Error("failed to save config", zap.Error(err))
		return
	}
	logger.Info("config saved", zap.String("path", path))
}

func (a *App) saveScreenshot() {
	pixels, width, height := a.renderer.ReadPixels()
	path, err := a.capture.SavePixels(pixels, width, height)
	if err != nil {
		logger.Error("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}

func (a *App) toggleAudio() {
	if a.sound == nil {
		if err := a.startAudio(); err != nil {
			logger.Warn("audio unavailable", zap.Error(err))
		}
		return
	}
	playing := a.sound.TogglePlayback()
	logger.Info("audio playback", zap.Bool("playing", playing))
}

func (a *App) toggleFilter() {
	if a.sound == nil {
		a.cfg.Audio.FilterEnabled = !a.cfg.Audio.FilterEnabled
	} else {
		a.cfg.Audio.FilterEnabled = a.sound.ToggleFilter()
	}
	logger.Info("audio filter", zap.Bool("enabled", a.cfg.Audio.FilterEnabled))
}

func (a *App) startAudio() error {
	ac := a.cfg.Audio
	sp := audio.New(audio.DistanceModel{
		RefDistance: ac.RefDistance,
		MaxDistance: ac.MaxDistance,
		Rolloff:     ac.Rolloff,
	}, ac.Volume)

	if err := sp.SetFilter(filterFromConfig(ac)); err != nil {
		logger.Warn("audio filter rejected", zap.Error(err))
	}
	if err := sp.Init(); err != nil {
		return err
	}

	var err error
	if ac.File != "" {
		var data []byte
		data, err = os.ReadFile(ac.File)
		if err == nil {
			err = sp.PlayWAV(data)
		}
	} else {
		err = sp.PlayTone(ac.ToneHz)
	}
	if err != nil {
		sp.Close()
		return err
	}

	a.sound = sp
	a.session.SetSound(sp)
	logger.Info("audio started", zap.String("file", ac.File), zap.Float64("tone_hz", ac.ToneHz))
	return nil
}
