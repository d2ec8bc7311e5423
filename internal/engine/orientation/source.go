package orientation

import "github.com/Faultbox/kiss-anaglyph/pkg/math"

// Mode selects which input drives the orientation.
type Mode int

const (
	ModeTrackball Mode = iota
	ModeSensor
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeTrackball:
		return "trackball"
	case ModeSensor:
		return "sensor"
	default:
		return "unknown"
	}
}

// Source owns both orientation inputs and exposes the active one.
type Source struct {
	mode      Mode
	Trackball *Trackball
	Sensor    *Sensor
}

// NewSource creates a source in trackball mode.
func NewSource(width, height int) *Source {
	return &Source{
		mode:      ModeTrackball,
		Trackball: NewTrackball(width, height),
		Sensor:    &Sensor{},
	}
}

// Mode returns the active mode.
func (s *Source) Mode() Mode {
	return s.mode
}

// SetMode switches the active input. Switching away from the sensor keeps
// its last reading; switching back resumes from it.
func (s *Source) SetMode(m Mode) {
	s.mode = m
	if m == ModeSensor {
		s.Trackball.End()
	}
}

// Toggle flips between trackball and sensor mode and returns the new mode.
func (s *Source) Toggle() Mode {
	if s.mode == ModeSensor {
		s.SetMode(ModeTrackball)
	} else {
		s.SetMode(ModeSensor)
	}
	return s.mode
}

// Matrix returns the rotation of the active input.
// In sensor mode with no reading yet, it is the identity.
func (s *Source) Matrix() math.Mat4 {
	if s.mode == ModeSensor {
		a, _ := s.Sensor.Load()
		return EulerMatrix(a)
	}
	return s.Trackball.Matrix()
}
