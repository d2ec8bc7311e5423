package viewer

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/kiss-anaglyph/internal/engine/orientation"
	"github.com/Faultbox/kiss-anaglyph/internal/network"
)

// Action is a user command bound to a key.
type Action int

const (
	ActionNone Action = iota
	ActionSeparationUp
	ActionSeparationDown
	ActionConvergenceUp
	ActionConvergenceDown
	ActionFOVUp
	ActionFOVDown
	ActionNearUp
	ActionNearDown
	ActionUSegmentsUp
	ActionUSegmentsDown
	ActionZSegmentsUp
	ActionZSegmentsDown
	ActionToggleSensor
	ActionResetTrackball
	ActionToggleMarker

	// Handled by the application, not the session.
	ActionToggleAudio
	ActionToggleFilter
	ActionToggleWireframe
	ActionToggleNormalMap
	ActionSaveConfig
	ActionScreenshot
	ActionQuit
)

var actionNames = map[Action]string{
	ActionNone:            "none",
	ActionSeparationUp:    "separation+",
	ActionSeparationDown:  "separation-",
	ActionConvergenceUp:   "convergence+",
	ActionConvergenceDown: "convergence-",
	ActionFOVUp:           "fov+",
	ActionFOVDown:         "fov-",
	ActionNearUp:          "near+",
	ActionNearDown:        "near-",
	ActionUSegmentsUp:     "u+",
	ActionUSegmentsDown:   "u-",
	ActionZSegmentsUp:     "z+",
	ActionZSegmentsDown:   "z-",
	ActionToggleSensor:    "toggle-sensor",
	ActionResetTrackball:  "reset-trackball",
	ActionToggleMarker:    "toggle-marker",
	ActionToggleAudio:     "toggle-audio",
	ActionToggleFilter:    "toggle-filter",
	ActionToggleWireframe: "toggle-wireframe",
	ActionToggleNormalMap: "toggle-normal-map",
	ActionSaveConfig:      "save-config",
	ActionScreenshot:      "screenshot",
	ActionQuit:            "quit",
}

// String returns the action name.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// Step sizes and limits for the interactive controls.
const (
	SeparationStep float32 = 0.01
	MinSeparation  float32 = 0.01
	MaxSeparation  float32 = 1

	ConvergenceStep float32 = 0.5
	MinConvergence  float32 = 0.5
	MaxConvergence  float32 = 90

	FOVStepDegrees float32 = 5
	MinFOVDegrees  float32 = 5
	MaxFOVDegrees  float32 = 170

	NearStep float32 = 0.1
	MinNear  float32 = 0.1

	SegmentStep = 4
	MinSegments = 4
	MaxSegments = 252
)

// Apply performs a session-level action. Actions owned by the application
// are ignored. Parameter changes are clamped to their limits; a grid change
// that fails leaves the current mesh in place and returns the error.
func (s *Session) Apply(a Action) error {
	p := s.params
	g := s.grid

	switch a {
	case ActionSeparationUp:
		p.EyeSeparation = clampf(p.EyeSeparation+SeparationStep, MinSeparation, MaxSeparation)
	case ActionSeparationDown:
		p.EyeSeparation = clampf(p.EyeSeparation-SeparationStep, MinSeparation, MaxSeparation)
	case ActionConvergenceUp:
		p.Convergence = clampf(p.Convergence+ConvergenceStep, MinConvergence, MaxConvergence)
	case ActionConvergenceDown:
		p.Convergence = clampf(p.Convergence-ConvergenceStep, MinConvergence, MaxConvergence)
	case ActionFOVUp:
		p.FOV = radians(clampf(degrees(p.FOV)+FOVStepDegrees, MinFOVDegrees, MaxFOVDegrees))
	case ActionFOVDown:
		p.FOV = radians(clampf(degrees(p.FOV)-FOVStepDegrees, MinFOVDegrees, MaxFOVDegrees))
	case ActionNearUp:
		// Near stays strictly inside the far clip.
		p.Near = clampf(p.Near+NearStep, MinNear, p.Far-NearStep)
	case ActionNearDown:
		p.Near = clampf(p.Near-NearStep, MinNear, p.Far-NearStep)

	case ActionUSegmentsUp:
		g.USegments = clampi(g.USegments+SegmentStep, MinSegments, MaxSegments)
	case ActionUSegmentsDown:
		g.USegments = clampi(g.USegments-SegmentStep, MinSegments, MaxSegments)
	case ActionZSegmentsUp:
		g.ZSegments = clampi(g.ZSegments+SegmentStep, MinSegments, MaxSegments)
	case ActionZSegmentsDown:
		g.ZSegments = clampi(g.ZSegments-SegmentStep, MinSegments, MaxSegments)

	case ActionToggleSensor:
		s.Orientation.Toggle()
		return nil
	case ActionResetTrackball:
		s.Orientation.Trackball.Reset()
		return nil
	case ActionToggleMarker:
		s.showMarker = !s.showMarker
		return nil

	default:
		return nil
	}

	if g != s.grid {
		return s.SetGrid(g)
	}
	return s.SetParams(p)
}

// Title returns the window title describing the current state.
func (s *Session) Title(status network.Status) string {
	title := fmt.Sprintf("KISS surface | %s | sep %.2f conv %.1f fov %.0f° near %.1f | %dx%d",
		s.Orientation.Mode(),
		s.params.EyeSeparation,
		s.params.Convergence,
		degrees(s.params.FOV),
		s.params.Near,
		s.grid.USegments,
		s.grid.ZSegments,
	)
	if s.Orientation.Mode() == orientation.ModeSensor {
		title += " | sensor: " + status.String()
	}
	return title
}

func degrees(rad float32) float32 {
	return rad * 180 / math32.Pi
}

func radians(deg float32) float32 {
	return deg * math32.Pi / 180
}

// roundDegrees converts to degrees rounded to a hundredth, so saved
// configs do not carry float noise from repeated conversion.
func roundDegrees(rad float32) float32 {
	return math32.Round(degrees(rad)*100) / 100
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampi(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
