// Package input translates SDL2 events into viewer events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType identifies an Event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Repeat bool // Key event generated by auto-repeat
	Shift  bool
	Width  int
	Height int
	MouseX int
	MouseY int
	Button uint8
	Wheel  int
}

// Input collects the events of one poll.
type Input struct {
	events []Event
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// Update drains the SDL event queue. It returns true if the window was closed.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			return true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				i.events = append(i.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			ev := Event{
				Key:    e.Keysym.Scancode,
				Repeat: e.Repeat != 0,
				Shift:  e.Keysym.Mod&sdl.KMOD_SHIFT != 0,
			}
			if e.Type == sdl.KEYDOWN {
				ev.Type = EventKeyDown
			} else {
				ev.Type = EventKeyUp
			}
			i.events = append(i.events, ev)

		case *sdl.MouseMotionEvent:
			i.events = append(i.events, Event{
				Type:   EventMouseMove,
				MouseX: int(e.X),
				MouseY: int(e.Y),
			})

		case *sdl.MouseButtonEvent:
			ev := Event{
				MouseX: int(e.X),
				MouseY: int(e.Y),
				Button: e.Button,
			}
			if e.Type == sdl.MOUSEBUTTONDOWN {
				ev.Type = EventMouseDown
			} else {
				ev.Type = EventMouseUp
			}
			i.events = append(i.events, ev)

		case *sdl.MouseWheelEvent:
			i.events = append(i.events, Event{
				Type:  EventMouseWheel,
				Wheel: int(e.Y),
			})
		}
	}

	return false
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}
