// Package camera provides the orbit camera the user paints through.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/airbrush/pkg/math"
)

const (
	// ZoomSpeed is the radius change per millisecond of held zoom.
	ZoomSpeed = 2.0 / 1000.0
	// MinRadius keeps the camera outside the model.
	MinRadius = 1.0

	near = 0.1
	far  = 100.0

	// phi is kept strictly inside (0, pi) so the basis never degenerates.
	phiMargin = 1e-3
)

// Basis is the camera frame derived from the orbit parameters.
type Basis struct {
	Position math.Vec3
	Front    math.Vec3
	Up       math.Vec3
	Right    math.Vec3
}

// OrbitCamera sits on a sphere centred at the origin and always looks at it.
// Phi is the polar angle from +Y towards +Z, Theta the azimuth from +Z
// towards +X.
type OrbitCamera struct {
	Radius float32
	Phi    float32
	Theta  float32
	Fovy   float32 // radians

	dirty bool
	basis Basis
}

// NewOrbitCamera creates a camera at the default orbit.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Radius: 3.0,
		Phi:    math32.Pi / 3,
		Theta:  math32.Pi / 4,
		Fovy:   math.Radians(55),
		dirty:  true,
	}
}

// PositionOnSphere returns r * (sin(phi) sin(theta), cos(phi), sin(phi) cos(theta)).
func PositionOnSphere(radius, phi, theta float32) math.Vec3 {
	sp, cp := math32.Sincos(phi)
	st, ct := math32.Sincos(theta)
	return math.Vec3{X: radius * sp * st, Y: radius * cp, Z: radius * sp * ct}
}

// UpOnSphere returns the tangent pointing towards decreasing phi.
func UpOnSphere(phi, theta float32) math.Vec3 {
	sp, cp := math32.Sincos(phi)
	st, ct := math32.Sincos(theta)
	return math.Vec3{X: -cp * st, Y: sp, Z: -cp * ct}
}

// Basis returns the derived frame, recomputing it only when dirty.
func (c *OrbitCamera) Basis() Basis {
	if c.dirty {
		pos := PositionOnSphere(c.Radius, c.Phi, c.Theta)
		front := pos.Negate().Normalize()
		up := UpOnSphere(c.Phi, c.Theta)
		c.basis = Basis{
			Position: pos,
			Front:    front,
			Up:       up,
			Right:    front.Cross(up).Normalize(),
		}
		c.dirty = false
	}
	return c.basis
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	return c.Basis().Position
}

// Front returns the unit view direction.
func (c *OrbitCamera) Front() math.Vec3 { return c.Basis().Front }

// Up returns the unit camera up vector.
func (c *OrbitCamera) Up() math.Vec3 { return c.Basis().Up }

// Right returns the unit camera right vector.
func (c *OrbitCamera) Right() math.Vec3 { return c.Basis().Right }

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	b := c.Basis()
	return math.LookAlong(b.Position, b.Front, b.Up)
}

// ProjectionMatrix returns the perspective projection for the given aspect.
func (c *OrbitCamera) ProjectionMatrix(aspect float32) math.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return math.Perspective(c.Fovy, aspect, near, far)
}

// Invalidate marks the derived frame stale. Call it after writing the
// exported orbit fields directly.
func (c *OrbitCamera) Invalidate() {
	c.dirty = true
}

// Dirty reports whether the frame will be recomputed on next access.
func (c *OrbitCamera) Dirty() bool {
	return c.dirty
}

// ClearDirty refreshes the cached frame so Dirty reports false.
func (c *OrbitCamera) ClearDirty() {
	c.Basis()
}

// Zoom moves the camera along its radius. direction > 0 zooms in.
func (c *OrbitCamera) Zoom(deltaMs, direction float32) {
	switch {
	case direction > 0:
		c.Radius = math32.Max(MinRadius, c.Radius-ZoomSpeed*deltaMs)
	case direction < 0:
		c.Radius += ZoomSpeed * deltaMs
	default:
		return
	}
	c.dirty = true
}

// Orbit adds to the orbit angles, keeping phi away from the poles.
func (c *OrbitCamera) Orbit(dPhi, dTheta float32) {
	if dPhi == 0 && dTheta == 0 {
		return
	}
	c.Phi = math.Clamp(c.Phi+dPhi, phiMargin, math32.Pi-phiMargin)
	c.Theta += dTheta
	c.dirty = true
}
