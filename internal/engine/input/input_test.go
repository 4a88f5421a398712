package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/airbrush/internal/engine/brush"
	"github.com/Faultbox/airbrush/pkg/math"
)

func TestKeys(t *testing.T) {
	var ks Keys
	ks = ks.With(KeyZoomIn, true).With(KeyRotateUp, true)
	assert.True(t, ks.Held(KeyZoomIn))
	assert.True(t, ks.Held(KeyRotateUp))
	assert.False(t, ks.Held(KeyZoomOut))

	ks = ks.With(KeyZoomIn, false)
	assert.False(t, ks.Held(KeyZoomIn))
}

func TestApplyPointer(t *testing.T) {
	p := NewPoller(800, 600, brush.Input{AirPressure: 0.5, NozzleFovDegrees: 15})
	assert.Equal(t, math.Vec2{X: 400, Y: 300}, p.Apply().Pointer)

	s := p.Apply(
		Event{Type: EventMouseMove, MouseX: 10, MouseY: 20},
		Event{Type: EventMouseDown, MouseX: 12, MouseY: 22, Button: sdl.BUTTON_LEFT},
	)
	assert.True(t, s.PointerDown)
	assert.Equal(t, math.Vec2{X: 12, Y: 22}, s.Pointer)

	// Held state persists across polls
	assert.True(t, p.Apply().PointerDown)

	s = p.Apply(Event{Type: EventMouseUp, MouseX: 12, MouseY: 22, Button: sdl.BUTTON_LEFT})
	assert.False(t, s.PointerDown)

	s = p.Apply(Event{Type: EventMouseDown, Button: sdl.BUTTON_RIGHT})
	assert.False(t, s.PointerDown)
}

func TestApplyOneShots(t *testing.T) {
	p := NewPoller(100, 100, brush.Input{})

	s := p.Apply(
		Event{Type: EventKeyDown, Key: sdl.SCANCODE_R},
		Event{Type: EventKeyDown, Key: sdl.SCANCODE_2},
		Event{Type: EventKeyDown, Key: sdl.SCANCODE_TAB},
		Event{Type: EventKeyDown, Key: sdl.SCANCODE_F12},
	)
	assert.True(t, s.Reset)
	assert.Equal(t, "plane", s.ChangeModel)
	assert.True(t, s.ToggleMode)
	assert.True(t, s.Screenshot)

	s = p.Apply()
	assert.False(t, s.Reset)
	assert.Empty(t, s.ChangeModel)
	assert.False(t, s.ToggleMode)
	assert.False(t, s.Screenshot)
}

func TestApplyHeldKeysAndBrush(t *testing.T) {
	p := NewPoller(100, 100, brush.Input{AirPressure: 0.5, NozzleFovDegrees: 15})

	s := p.Apply(
		Event{Type: EventKeyDown, Key: sdl.SCANCODE_W},
		Event{Type: EventKeyDown, Key: sdl.SCANCODE_EQUALS},
		Event{Type: EventKeyDown, Key: sdl.SCANCODE_LEFTBRACKET},
		Event{Type: EventWindowResize, Width: 640, Height: 480},
	)
	assert.True(t, s.Keys.Held(KeyZoomIn))
	assert.InDelta(t, 0.55, s.Brush.AirPressure, 1e-6)
	assert.InDelta(t, 14, s.Brush.NozzleFovDegrees, 1e-6)
	assert.Equal(t, 640, s.CanvasWidth)
	assert.Equal(t, math.Vec2{X: 320, Y: 240}, s.Centre())

	s = p.Apply(Event{Type: EventKeyUp, Key: sdl.SCANCODE_W})
	assert.False(t, s.Keys.Held(KeyZoomIn))
}
