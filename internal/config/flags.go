package config

import (
	"flag"
	"time"
)

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile    = flag.String("log-file", "", "Also write logs to this file")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagSensor     = flag.String("sensor", "", "Sensor WebSocket URL (enables the sensor feed)")
	flagSensorMode = flag.Bool("sensor-mode", false, "Start with the sensor driving the orientation")
	flagAddr       = flag.String("addr", "", "Relay listen address")
	flagUSegments  = flag.Int("u", 0, "Surface segments along u")
	flagZSegments  = flag.Int("z", 0, "Surface segments along z")
	flagAudio      = flag.Bool("audio", false, "Enable the spatial sound source")
	flagNormalMap  = flag.String("normal-map", "", "Normal map image (enables normal mapping)")
	flagTick       = flag.Duration("tick", 0, "Redraw interval")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via -config.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagWindowed {
		cfg.Window.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Window.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
	if *flagSensor != "" {
		cfg.Sensor.URL = *flagSensor
		cfg.Sensor.Enabled = true
	}
	if *flagSensorMode {
		cfg.Sensor.Enabled = true
		cfg.Sensor.StartInSensor = true
	}
	if *flagAddr != "" {
		cfg.Relay.Addr = *flagAddr
	}
	if *flagUSegments > 0 {
		cfg.Surface.USegments = *flagUSegments
	}
	if *flagZSegments > 0 {
		cfg.Surface.ZSegments = *flagZSegments
	}
	if *flagAudio {
		cfg.Audio.Enabled = true
	}
	if *flagNormalMap != "" {
		cfg.Shading.NormalMapFile = *flagNormalMap
		cfg.Shading.NormalMap = true
	}
	if *flagTick > time.Duration(0) {
		cfg.Window.TickInterval = *flagTick
	}
}
