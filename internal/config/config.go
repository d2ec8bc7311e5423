// Package config handles viewer and relay configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/chewxy/math32"

	"github.com/Faultbox/kiss-anaglyph/internal/engine/camera"
	"github.com/Faultbox/kiss-anaglyph/internal/network"
	"github.com/Faultbox/kiss-anaglyph/internal/relay"
	"github.com/Faultbox/kiss-anaglyph/internal/surface"
)

// Config holds all settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Stereo  StereoConfig  `yaml:"stereo"`
	Surface SurfaceConfig `yaml:"surface"`
	Shading ShadingConfig `yaml:"shading"`
	Sensor  SensorConfig  `yaml:"sensor"`
	Relay   RelayConfig   `yaml:"relay"`
	Audio   AudioConfig   `yaml:"audio"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds display and frame pacing settings.
type WindowConfig struct {
	Width         int           `yaml:"width"`
	Height        int           `yaml:"height"`
	Fullscreen    bool          `yaml:"fullscreen"`
	VSync         bool          `yaml:"vsync"`
	TickInterval  time.Duration `yaml:"tick_interval"` // Redraw period
	Wireframe     bool          `yaml:"wireframe"`     // Draw edges over the filled surface
	ScreenshotDir string        `yaml:"screenshot_dir"`
}

// StereoConfig holds the stereo camera settings. FOV is in degrees here,
// matching the on-screen controls.
type StereoConfig struct {
	EyeSeparation float32 `yaml:"eye_separation"`
	Convergence   float32 `yaml:"convergence"`
	FOVDegrees    float32 `yaml:"fov_degrees"`
	Near          float32 `yaml:"near"`
	Far           float32 `yaml:"far"`
}

// SurfaceConfig holds the tessellation grid.
type SurfaceConfig struct {
	USegments int     `yaml:"u_segments"`
	ZSegments int     `yaml:"z_segments"`
	UMin      float64 `yaml:"u_min"`
	UMax      float64 `yaml:"u_max"`
	ZMin      float64 `yaml:"z_min"`
	ZMax      float64 `yaml:"z_max"`
}

// ShadingConfig holds the surface lighting and normal map settings.
type ShadingConfig struct {
	NormalMap     bool       `yaml:"normal_map"`
	NormalMapFile string     `yaml:"normal_map_file"` // TGA, BMP, PNG or JPEG; empty selects the built-in ripple map
	Specular      float32    `yaml:"specular"`
	TexturePoint  [2]float32 `yaml:"texture_point"` // Pivot of the texture rotation in (u, z) texture space
	TextureAngle  float32    `yaml:"texture_angle"` // Degrees
	TextureTiles  [2]float32 `yaml:"texture_tiles"` // Repeats along u and z
}

// SensorConfig holds the orientation feed settings.
type SensorConfig struct {
	Enabled        bool          `yaml:"enabled"`     // Connect to the feed at startup
	StartInSensor  bool          `yaml:"start_in_sensor"`
	URL            string        `yaml:"url"`
	ReconnectDelay time.Duration `yaml:"reconnect_delay"`
}

// RelayConfig holds sensor relay server settings.
type RelayConfig struct {
	Addr              string        `yaml:"addr"`
	BroadcastInterval time.Duration `yaml:"broadcast_interval"`
}

// AudioConfig holds spatial audio settings.
type AudioConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Volume      float64 `yaml:"volume"`
	ToneHz      float64 `yaml:"tone_hz"`
	File        string  `yaml:"file"` // Optional WAV file played instead of the tone
	RefDistance float64 `yaml:"ref_distance"`
	MaxDistance float64 `yaml:"max_distance"`
	Rolloff     float64 `yaml:"rolloff"`

	// Peaking filter between the source and the volume stage
	FilterEnabled bool    `yaml:"filter_enabled"`
	FilterHz      float64 `yaml:"filter_hz"`
	FilterQ       float64 `yaml:"filter_q"`
	FilterGain    float64 `yaml:"filter_gain"` // dB
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	sensor := network.DefaultConfig()
	rel := relay.DefaultConfig()
	grid := surface.DefaultGrid(32, 32)
	stereo := camera.DefaultStereoParams(1)

	return &Config{
		Window: WindowConfig{
			Width:         1280,
			Height:        720,
			VSync:         true,
			TickInterval:  50 * time.Millisecond,
			Wireframe:     true,
			ScreenshotDir: "screenshots",
		},
		Stereo: StereoConfig{
			EyeSeparation: stereo.EyeSeparation,
			Convergence:   stereo.Convergence,
			FOVDegrees:    45,
			Near:          stereo.Near,
			Far:           stereo.Far,
		},
		Surface: SurfaceConfig{
			USegments: grid.USegments,
			ZSegments: grid.ZSegments,
			UMin:      grid.UMin,
			UMax:      grid.UMax,
			ZMin:      grid.ZMin,
			ZMax:      grid.ZMax,
		},
		Shading: ShadingConfig{
			Specular:     0.3,
			TexturePoint: [2]float32{0.5, 0.5},
			TextureTiles: [2]float32{4, 2},
		},
		Sensor: SensorConfig{
			Enabled:        false,
			URL:            sensor.URL,
			ReconnectDelay: sensor.ReconnectDelay,
		},
		Relay: RelayConfig{
			Addr:              rel.Addr,
			BroadcastInterval: rel.BroadcastInterval,
		},
		Audio: AudioConfig{
			Enabled:     false,
			Volume:      0.8,
			ToneHz:      440,
			RefDistance: 1,
			MaxDistance: 20,
			Rolloff:     1.5,

			FilterHz:   1000,
			FilterQ:    4,
			FilterGain: 15,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Validate checks the settings that would otherwise fail deep inside the viewer.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d: %w", c.Window.Width, c.Window.Height, ErrInvalid)
	}
	if c.Window.TickInterval <= 0 {
		return fmt.Errorf("tick interval %v: %w", c.Window.TickInterval, ErrInvalid)
	}
	if err := c.Stereo.Params(c.Window.Aspect()).Validate(); err != nil {
		return fmt.Errorf("stereo: %w: %w", ErrInvalid, err)
	}
	if err := c.Surface.Grid().Validate(); err != nil {
		return fmt.Errorf("surface: %w: %w", ErrInvalid, err)
	}
	if err := c.Shading.validate(); err != nil {
		return fmt.Errorf("shading: %w: %w", ErrInvalid, err)
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return fmt.Errorf("audio volume %g outside [0, 1]: %w", c.Audio.Volume, ErrInvalid)
	}
	if !(c.Audio.FilterHz > 0) || !(c.Audio.FilterQ > 0) {
		return fmt.Errorf("audio filter %g Hz, q %g: %w", c.Audio.FilterHz, c.Audio.FilterQ, ErrInvalid)
	}
	return nil
}

func (s ShadingConfig) validate() error {
	if !(s.Specular >= 0) {
		return fmt.Errorf("specular %g is negative", s.Specular)
	}
	if !(s.TextureTiles[0] > 0 && s.TextureTiles[1] > 0) {
		return fmt.Errorf("texture tiles %v must be positive", s.TextureTiles)
	}
	for _, v := range []float32{s.TexturePoint[0], s.TexturePoint[1], s.TextureAngle, s.TextureTiles[0], s.TextureTiles[1]} {
		if math32.IsNaN(v) || math32.IsInf(v, 0) {
			return fmt.Errorf("texture transform value %g is not finite", v)
		}
	}
	return nil
}

// Aspect returns width / height.
func (w WindowConfig) Aspect() float32 {
	if w.Height <= 0 {
		return 1
	}
	return float32(w.Width) / float32(w.Height)
}

// Params converts the settings to camera parameters for the given aspect ratio.
func (s StereoConfig) Params(aspect float32) camera.StereoParams {
	return camera.StereoParams{
		EyeSeparation: s.EyeSeparation,
		Convergence:   s.Convergence,
		AspectRatio:   aspect,
		FOV:           s.FOVDegrees * math32.Pi / 180,
		Near:          s.Near,
		Far:           s.Far,
	}
}

// Grid converts the settings to a tessellation grid.
func (s SurfaceConfig) Grid() surface.Grid {
	return surface.Grid{
		USegments: s.USegments,
		ZSegments: s.ZSegments,
		UMin:      s.UMin,
		UMax:      s.UMax,
		ZMin:      s.ZMin,
		ZMax:      s.ZMax,
	}
}

// ClientConfig converts the settings for the sensor client.
func (s SensorConfig) ClientConfig() network.Config {
	cfg := network.DefaultConfig()
	cfg.URL = s.URL
	if s.ReconnectDelay > 0 {
		cfg.ReconnectDelay = s.ReconnectDelay
	}
	return cfg
}

// ServerConfig converts the settings for the relay server.
func (r RelayConfig) ServerConfig() relay.Config {
	cfg := relay.DefaultConfig()
	cfg.Addr = r.Addr
	if r.BroadcastInterval > 0 {
		cfg.BroadcastInterval = r.BroadcastInterval
	}
	return cfg
}
