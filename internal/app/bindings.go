package app

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/kiss-anaglyph/internal/viewer"
)

// keyBindings maps keys to viewer actions. Paired keys sit one above the
// other on a QWERTY layout: the upper row increases, the lower decreases.
var keyBindings = map[sdl.Scancode]viewer.Action{
	sdl.SCANCODE_E: viewer.ActionSeparationUp,
	sdl.SCANCODE_D: viewer.ActionSeparationDown,
	sdl.SCANCODE_R: viewer.ActionConvergenceUp,
	sdl.SCANCODE_F: viewer.ActionConvergenceDown,
	sdl.SCANCODE_T: viewer.ActionFOVUp,
	sdl.SCANCODE_G: viewer.ActionFOVDown,
	sdl.SCANCODE_Y: viewer.ActionNearUp,
	sdl.SCANCODE_H: viewer.ActionNearDown,
	sdl.SCANCODE_U: viewer.ActionUSegmentsUp,
	sdl.SCANCODE_J: viewer.ActionUSegmentsDown,
	sdl.SCANCODE_I: viewer.ActionZSegmentsUp,
	sdl.SCANCODE_K: viewer.ActionZSegmentsDown,

	sdl.SCANCODE_S:      viewer.ActionToggleSensor,
	sdl.SCANCODE_SPACE:  viewer.ActionResetTrackball,
	sdl.SCANCODE_M:      viewer.ActionToggleMarker,
	sdl.SCANCODE_P:      viewer.ActionToggleAudio,
	sdl.SCANCODE_L:      viewer.ActionToggleFilter,
	sdl.SCANCODE_O:      viewer.ActionToggleWireframe,
	sdl.SCANCODE_N:      viewer.ActionToggleNormalMap,
	sdl.SCANCODE_F2:     viewer.ActionSaveConfig,
	sdl.SCANCODE_F12:    viewer.ActionScreenshot,
	sdl.SCANCODE_ESCAPE: viewer.ActionQuit,
}

// actionForKey returns the action bound to key. Auto-repeat only drives
// the stepped parameters; toggles fire once per press.
func actionForKey(key sdl.Scancode, repeat bool) viewer.Action {
	a, ok := keyBindings[key]
	if !ok {
		return viewer.ActionNone
	}
	if repeat && !repeatable(a) {
		return viewer.ActionNone
	}
	return a
}

func repeatable(a viewer.Action) bool {
	return a >= viewer.ActionSeparationUp && a <= viewer.ActionZSegmentsDown
}
