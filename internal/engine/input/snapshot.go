// Package input turns host events into per-tick input snapshots.
package input

import (
	"github.com/Faultbox/airbrush/internal/engine/brush"
	"github.com/Faultbox/airbrush/pkg/math"
)

// Key is a logical key the painter reacts to while held.
type Key int

const (
	KeyZoomIn Key = iota
	KeyZoomOut
	KeyRotateLeft
	KeyRotateRight
	KeyRotateUp
	KeyRotateDown
)

// Keys is the set of held keys.
type Keys uint32

// Held reports whether k is down.
func (ks Keys) Held(k Key) bool {
	return ks&(1<<uint(k)) != 0
}

// With returns the set with k held or released.
func (ks Keys) With(k Key, down bool) Keys {
	if down {
		return ks | 1<<uint(k)
	}
	return ks &^ (1 << uint(k))
}

// Snapshot is everything the painter needs from the host for one tick.
type Snapshot struct {
	PointerDown  bool
	Pointer      math.Vec2 // pixels, origin top-left
	CanvasWidth  int
	CanvasHeight int
	Brush        brush.Input
	Keys         Keys

	// One-shot requests raised since the previous snapshot.
	Reset       bool
	ChangeModel string
	ToggleMode  bool
	Screenshot  bool
	Quit        bool
}

// Centre returns the canvas centre in pixels.
func (s Snapshot) Centre() math.Vec2 {
	return math.Vec2{X: float32(s.CanvasWidth) / 2, Y: float32(s.CanvasHeight) / 2}
}
