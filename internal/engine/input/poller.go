package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/airbrush/internal/engine/brush"
	"github.com/Faultbox/airbrush/pkg/math"
)

// EventType classifies host events.
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
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Width  int
	Height int
	MouseX int
	MouseY int
	Button uint8
}

// heldKeys maps scancodes to keys that act while held.
var heldKeys = map[sdl.Scancode]Key{
	sdl.SCANCODE_W:     KeyZoomIn,
	sdl.SCANCODE_S:     KeyZoomOut,
	sdl.SCANCODE_LEFT:  KeyRotateLeft,
	sdl.SCANCODE_RIGHT: KeyRotateRight,
	sdl.SCANCODE_UP:    KeyRotateUp,
	sdl.SCANCODE_DOWN:  KeyRotateDown,
}

// modelKeys maps scancodes to model presets.
var modelKeys = map[sdl.Scancode]string{
	sdl.SCANCODE_1: "cube",
	sdl.SCANCODE_2: "plane",
	sdl.SCANCODE_3: "sphere",
}

// palette is cycled with the C key.
var palette = []math.Vec3{
	{X: 1, Y: 0.5, Z: 0},
	{X: 0.9, Y: 0.1, Z: 0.1},
	{X: 0.1, Y: 0.4, Z: 0.9},
	{X: 0.1, Y: 0.7, Z: 0.3},
	{X: 0.05, Y: 0.05, Z: 0.05},
}

const (
	pressureStep = 0.05
	fovStep      = 1.0 // degrees
	minFov       = 1.0
	maxFov       = 90.0
)

// Poller accumulates host events into snapshots.
type Poller struct {
	state   Snapshot
	events  []Event
	palette int
}

// NewPoller creates a poller for a canvas of the given size and initial
// brush.
func NewPoller(width, height int, b brush.Input) *Poller {
	return &Poller{
		state: Snapshot{
			CanvasWidth:  width,
			CanvasHeight: height,
			Brush:        b,
			Pointer:      math.Vec2{X: float32(width) / 2, Y: float32(height) / 2},
		},
		events: make([]Event, 0, 16),
	}
}

// Poll drains SDL events and returns the snapshot for this tick.
func (p *Poller) Poll() Snapshot {
	p.events = p.events[:0]

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			p.events = append(p.events, Event{Type: EventQuit})

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED {
				p.events = append(p.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			if e.Repeat != 0 {
				continue
			}
			if e.Type == sdl.KEYDOWN {
				p.events = append(p.events, Event{Type: EventKeyDown, Key: e.Keysym.Scancode})
			} else if e.Type == sdl.KEYUP {
				p.events = append(p.events, Event{Type: EventKeyUp, Key: e.Keysym.Scancode})
			}

		case *sdl.MouseMotionEvent:
			p.events = append(p.events, Event{
				Type:   EventMouseMove,
				MouseX: int(e.X),
				MouseY: int(e.Y),
			})

		case *sdl.MouseButtonEvent:
			t := EventMouseUp
			if e.Type == sdl.MOUSEBUTTONDOWN {
				t = EventMouseDown
			}
			p.events = append(p.events, Event{
				Type:   t,
				MouseX: int(e.X),
				MouseY: int(e.Y),
				Button: e.Button,
			})
		}
	}

	return p.Apply(p.events...)
}

// Apply folds events into the held state and returns the resulting
// snapshot. One-shot requests are cleared on the next call.
func (p *Poller) Apply(events ...Event) Snapshot {
	s := &p.state
	s.Reset, s.ChangeModel, s.ToggleMode, s.Screenshot, s.Quit = false, "", false, false, false

	for _, e := range events {
		switch e.Type {
		case EventQuit:
			s.Quit = true
		case EventWindowResize:
			s.CanvasWidth, s.CanvasHeight = e.Width, e.Height
		case EventMouseMove:
			s.Pointer = math.Vec2{X: float32(e.MouseX), Y: float32(e.MouseY)}
		case EventMouseDown, EventMouseUp:
			if e.Button == sdl.BUTTON_LEFT {
				s.PointerDown = e.Type == EventMouseDown
				s.Pointer = math.Vec2{X: float32(e.MouseX), Y: float32(e.MouseY)}
			}
		case EventKeyDown:
			p.keyDown(e.Key)
		case EventKeyUp:
			if k, ok := heldKeys[e.Key]; ok {
				s.Keys = s.Keys.With(k, false)
			}
		}
	}
	return p.state
}

func (p *Poller) keyDown(code sdl.Scancode) {
	s := &p.state
	if k, ok := heldKeys[code]; ok {
		s.Keys = s.Keys.With(k, true)
		return
	}
	if name, ok := modelKeys[code]; ok {
		s.ChangeModel = name
		return
	}

	switch code {
	case sdl.SCANCODE_ESCAPE:
		s.Quit = true
	case sdl.SCANCODE_R:
		s.Reset = true
	case sdl.SCANCODE_TAB:
		s.ToggleMode = true
	case sdl.SCANCODE_F12:
		s.Screenshot = true
	case sdl.SCANCODE_C:
		p.palette = (p.palette + 1) % len(palette)
		s.Brush.PaintColor = palette[p.palette]
	case sdl.SCANCODE_EQUALS:
		s.Brush.AirPressure = math.Clamp(s.Brush.AirPressure+pressureStep, 0, 1)
	case sdl.SCANCODE_MINUS:
		s.Brush.AirPressure = math.Clamp(s.Brush.AirPressure-pressureStep, 0, 1)
	case sdl.SCANCODE_RIGHTBRACKET:
		s.Brush.NozzleFovDegrees = math.Clamp(s.Brush.NozzleFovDegrees+fovStep, minFov, maxFov)
	case sdl.SCANCODE_LEFTBRACKET:
		s.Brush.NozzleFovDegrees = math.Clamp(s.Brush.NozzleFovDegrees-fovStep, minFov, maxFov)
	}
}
