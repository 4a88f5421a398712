package brush

import "github.com/Faultbox/airbrush/pkg/math"

// Projector is the frustum the nozzle sprays through.
type Projector struct {
	View       math.Mat4
	Projection math.Mat4
	Position   math.Vec3
	Direction  math.Vec3
}

// NewProjector aims a projector along dir from origin. up should be the
// camera up vector so the footprint does not roll with the orbit.
func NewProjector(origin, dir, up math.Vec3, b Brush) Projector {
	dir = dir.Normalize()
	return Projector{
		View:       math.LookAlong(origin, dir, up),
		Projection: math.Perspective(b.NozzleFov, 1, projectorNear, projectorFar),
		Position:   origin.Add(dir.Scale(NozzleOffset)),
		Direction:  dir,
	}
}

// ViewProjection returns Projection * View.
func (p Projector) ViewProjection() math.Mat4 {
	return p.Projection.Mul(p.View)
}

// Clip transforms a world point into the projector's clip space.
func (p Projector) Clip(world math.Vec3) math.Vec4 {
	return p.ViewProjection().MulVec4(math.Vec4{world.X, world.Y, world.Z, 1})
}
