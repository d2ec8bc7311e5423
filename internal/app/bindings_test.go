package app

import (
	"testing"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/kiss-anaglyph/internal/viewer"
)

func TestActionForKey(t *testing.T) {
	tests := []struct {
		name   string
		key    sdl.Scancode
		repeat bool
		want   viewer.Action
	}{
		{"separation up", sdl.SCANCODE_E, false, viewer.ActionSeparationUp},
		{"separation repeats", sdl.SCANCODE_D, true, viewer.ActionSeparationDown},
		{"segments repeat", sdl.SCANCODE_K, true, viewer.ActionZSegmentsDown},
		{"toggle sensor", sdl.SCANCODE_S, false, viewer.ActionToggleSensor},
		{"toggle ignores repeat", sdl.SCANCODE_S, true, viewer.ActionNone},
		{"toggle filter", sdl.SCANCODE_L, false, viewer.ActionToggleFilter},
		{"toggle normal map", sdl.SCANCODE_N, false, viewer.ActionToggleNormalMap},
		{"escape", sdl.SCANCODE_ESCAPE, false, viewer.ActionQuit},
		{"unbound", sdl.SCANCODE_Z, false, viewer.ActionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := actionForKey(tt.key, tt.repeat); got != tt.want {
				t.Errorf("actionForKey() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBindingsAreUnique(t *testing.T) {
	seen := make(map[viewer.Action]sdl.Scancode)
	for key, a := range keyBindings {
		if other, ok := seen[a]; ok {
			t.Errorf("%v bound to both %d and %d", a, other, key)
		}
		seen[a] = key
	}
}
