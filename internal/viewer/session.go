// Package viewer holds the state of one viewing session: the tessellated
// surface, the stereo camera, the orientation source and the sound source.
// It has no windowing or GL dependencies; drawing goes through frame.Backend.
package viewer

import (
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/kiss-anaglyph/internal/config"
	"github.com/Faultbox/kiss-anaglyph/internal/engine/audio"
	"github.com/Faultbox/kiss-anaglyph/internal/engine/camera"
	"github.com/Faultbox/kiss-anaglyph/internal/engine/frame"
	"github.com/Faultbox/kiss-anaglyph/internal/engine/orientation"
	"github.com/Faultbox/kiss-anaglyph/internal/logger"
	"github.com/Faultbox/kiss-anaglyph/internal/surface"
	"github.com/Faultbox/kiss-anaglyph/pkg/math"
)

// Marker sphere dimensions.
const (
	markerRadius = 0.5
	markerBands  = 16
)

// Sound receives the sound source position whenever it moves.
type Sound interface {
	SetPosition(p math.Vec3)
}

// Session owns everything that changes while the viewer runs.
// All methods must be called from the render goroutine.
type Session struct {
	backend frame.Backend
	params  camera.StereoParams
	grid    surface.Grid
	mesh    *surface.Mesh

	Orientation *orientation.Source

	sound       Sound
	soundPos    math.Vec3
	seenUpdates uint64
	showMarker  bool
}

// NewSession validates params and grid, tessellates the surface and
// uploads it together with the sound source marker.
func NewSession(backend frame.Backend, params camera.StereoParams, grid surface.Grid, width, height int) (*Session, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	s := &Session{
		backend:     backend,
		params:      params,
		Orientation: orientation.NewSource(width, height),
		soundPos:    audio.SourcePosition(orientation.Angles{}, audio.SourceRadius),
	}

	if err := s.SetGrid(grid); err != nil {
		return nil, err
	}

	marker, err := surface.Sphere(markerRadius, markerBands, markerBands)
	if err != nil {
		return nil, fmt.Errorf("marker mesh: %w", err)
	}
	if err := backend.UploadMarker(marker); err != nil {
		return nil, fmt.Errorf("upload marker: %w", err)
	}

	return s, nil
}

// SetSound attaches a sound sink and sends it the current position.
func (s *Session) SetSound(snd Sound) {
	s.sound = snd
	if snd != nil {
		snd.SetPosition(s.soundPos)
	}
}

// Params returns the current stereo parameters.
func (s *Session) Params() camera.StereoParams {
	return s.params
}

// SetParams replaces the stereo parameters. Invalid parameters are
// rejected and the current ones kept.
func (s *Session) SetParams(p camera.StereoParams) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.params = p
	return nil
}

// Grid returns the grid of the current mesh.
func (s *Session) Grid() surface.Grid {
	return s.grid
}

// Mesh returns the current mesh.
func (s *Session) Mesh() *surface.Mesh {
	return s.mesh
}

// SetGrid re-tessellates the surface and uploads the result. On any
// failure the previous mesh stays current.
func (s *Session) SetGrid(g surface.Grid) error {
	if s.mesh != nil && g == s.grid {
		return nil
	}

	mesh, err := surface.Tessellate(g)
	if err != nil {
		return fmt.Errorf("tessellate: %w", err)
	}
	if err := s.backend.UploadMesh(mesh); err != nil {
		return fmt.Errorf("upload mesh: %w", err)
	}

	s.grid = g
	s.mesh = mesh

	logger.Debug("surface rebuilt",
		zap.Int("u", g.USegments),
		zap.Int("z", g.ZSegments),
		zap.Int("vertices", len(mesh.Vertices)),
		zap.Int("triangles", mesh.TriangleCount()),
	)
	return nil
}

// Resize updates the aspect ratio and the trackball viewport.
// Sizes are window coordinates, the space mouse events arrive in.
func (s *Session) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.params.AspectRatio = float32(width) / float32(height)
	s.Orientation.Trackball.SetViewport(width, height)
}

// ShowMarker reports whether the sound source marker is drawn.
func (s *Session) ShowMarker() bool {
	return s.showMarker
}

// SoundPosition returns the current sound source position.
func (s *Session) SoundPosition() math.Vec3 {
	return s.soundPos
}

// Update runs once per tick. It moves the sound source when a new sensor
// reading has arrived since the previous tick.
func (s *Session) Update() {
	n := s.Orientation.Sensor.Updates()
	if n == s.seenUpdates {
		return
	}
	s.seenUpdates = n

	a, ok := s.Orientation.Sensor.Load()
	if !ok {
		return
	}
	s.soundPos = audio.SourcePosition(a, audio.SourceRadius)
	if s.sound != nil {
		s.sound.SetPosition(s.soundPos)
	}
}

// Frame composes the stereo pair for the current state.
func (s *Session) Frame() frame.Frame {
	f := frame.Compose(s.params, s.Orientation.Matrix())
	if s.showMarker {
		f = f.WithMarker(s.params, s.soundPos)
	}
	return f
}

// Render draws the current frame on the backend.
func (s *Session) Render() {
	s.backend.DrawFrame(s.Frame())
}

// ApplyConfig re-applies the stereo and surface sections of cfg, keeping
// the current aspect ratio. Each section is applied independently.
func (s *Session) ApplyConfig(cfg *config.Config) error {
	var err error
	if e := s.SetParams(cfg.Stereo.Params(s.params.AspectRatio)); e != nil {
		err = multierr.Append(err, fmt.Errorf("stereo: %w", e))
	}
	if e := s.SetGrid(cfg.Surface.Grid()); e != nil {
		err = multierr.Append(err, fmt.Errorf("surface: %w", e))
	}
	return err
}

// Reload applies the stereo and surface sections of next, then stores the
// resulting state into live. A rejected section leaves live holding the
// settings the session still runs with.
func (s *Session) Reload(live, next *config.Config) error {
	err := s.ApplyConfig(next)
	s.StoreConfig(live)
	return err
}

// StoreConfig writes the live stereo and surface settings into cfg.
func (s *Session) StoreConfig(cfg *config.Config) {
	cfg.Stereo.EyeSeparation = s.params.EyeSeparation
	cfg.Stereo.Convergence = s.params.Convergence
	cfg.Stereo.FOVDegrees = roundDegrees(s.params.FOV)
	cfg.Stereo.Near = s.params.Near
	cfg.Stereo.Far = s.params.Far

	cfg.Surface.USegments = s.grid.USegments
	cfg.Surface.ZSegments = s.grid.ZSegments
	cfg.Surface.UMin = s.grid.UMin
	cfg.Surface.UMax = s.grid.UMax
	cfg.Surface.ZMin = s.grid.ZMin
	cfg.Surface.ZMax = s.grid.ZMax
}
