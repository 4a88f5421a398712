// Package brush models the spray nozzle and the projector it casts onto
// the model.
package brush

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/airbrush/pkg/math"
)

// ErrInvalidBrush is returned when brush parameters are out of range.
var ErrInvalidBrush = errors.New("invalid brush")

const (
	// DefaultBaseRate scales intensity per millisecond so that a 60 Hz
	// frame lays down about one full dab.
	DefaultBaseRate = 1.0 / 16.0

	// NozzleOffset is how far in front of the ray origin the nozzle sits.
	NozzleOffset = 0.2

	projectorNear = 0.01
	projectorFar  = 100.0

	fovEpsilon = 1e-6
)

// Brush holds the user-controlled spray parameters.
type Brush struct {
	AirPressure float32
	NozzleFov   float32 // radians
	PaintColor  math.Vec3
	Viscosity   float32
	BaseRate    float32
}

// Default returns the brush used when nothing is configured.
func Default() Brush {
	return Brush{
		AirPressure: 0.5,
		NozzleFov:   math.Radians(15),
		PaintColor:  math.Vec3{X: 1, Y: 0.5, Z: 0},
		Viscosity:   0,
		BaseRate:    DefaultBaseRate,
	}
}

// Validate rejects parameters the projector cannot work with.
func (b Brush) Validate() error {
	switch {
	case b.AirPressure < 0:
		return fmt.Errorf("%w: negative air pressure %g", ErrInvalidBrush, b.AirPressure)
	case b.Viscosity < 0:
		return fmt.Errorf("%w: negative viscosity %g", ErrInvalidBrush, b.Viscosity)
	case b.NozzleFov <= 0 || b.NozzleFov >= math32.Pi:
		return fmt.Errorf("%w: nozzle fov %g out of (0, pi)", ErrInvalidBrush, b.NozzleFov)
	case b.BaseRate < 0:
		return fmt.Errorf("%w: negative base rate %g", ErrInvalidBrush, b.BaseRate)
	}
	return nil
}

// Input is the per-tick brush state coming from the UI.
type Input struct {
	AirPressure      float32
	NozzleFovDegrees float32
	PaintColor       math.Vec3
}

// WithInput returns a copy of b updated from UI values. Pressure is
// clamped to [0, 1]; a non-positive fov keeps the current one.
func (b Brush) WithInput(in Input) Brush {
	b.AirPressure = math.Clamp(in.AirPressure, 0, 1)
	if in.NozzleFovDegrees > 0 {
		b.NozzleFov = math.Radians(in.NozzleFovDegrees)
	}
	b.PaintColor = in.PaintColor
	return b
}

// Intensity is the per-fragment paint amount deposited in one tick.
// The result is clamped to [0, 1].
func Intensity(fragment, nozzle math.Vec3, b Brush, deltaMs float32) float32 {
	d := fragment.Distance(nozzle)
	distanceFactor := math32.Exp(-d * b.Viscosity)

	tanFov := math32.Tan(b.NozzleFov/2) + fovEpsilon
	fovFactor := 1 / (tanFov * tanFov)

	i := b.AirPressure * distanceFactor * fovFactor * deltaMs * b.BaseRate
	return math.Clamp(i, 0, 1)
}
