// Package picking provides ray casting and surface picking utilities.
package picking

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/airbrush/internal/engine/camera"
	"github.com/Faultbox/airbrush/pkg/math"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized direction
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math.Vec3
	Max math.Vec3
}

// RayFromCamera builds the world-space ray through pixel (px, py) of a
// canvas of size w x h. Pixel rows grow downwards.
func RayFromCamera(px, py, w, h float32, cam *camera.OrbitCamera) Ray {
	ndcX := 2*px/w - 1
	ndcY := 1 - 2*py/h // Flip Y

	tanHalf := math32.Tan(cam.Fovy / 2)
	aspect := w / h

	b := cam.Basis()
	dir := b.Front.
		Add(b.Right.Scale(ndcX * tanHalf * aspect)).
		Add(b.Up.Scale(ndcY * tanHalf))

	return Ray{Origin: b.Position, Direction: dir.Normalize()}
}

// ScreenToRay converts screen coordinates to a world-space ray.
// screenX, screenY are pixel coordinates, viewportW/H are viewport dimensions.
// invViewProj is the inverse of the view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj math.Mat4) Ray {
	// Convert screen coords to normalized device coords (-1 to 1)
	ndcX := 2.0*screenX/viewportW - 1.0
	ndcY := 1.0 - 2.0*screenY/viewportH // Flip Y

	nearWorld := unproject(invViewProj, math.Vec4{ndcX, ndcY, -1.0, 1.0})
	farWorld := unproject(invViewProj, math.Vec4{ndcX, ndcY, 1.0, 1.0})

	return Ray{Origin: nearWorld, Direction: farWorld.Sub(nearWorld).Normalize()}
}

func unproject(invViewProj math.Mat4, ndc math.Vec4) math.Vec3 {
	p := invViewProj.MulVec4(ndc)
	if p[3] != 0 {
		return math.Vec3{X: p[0] / p[3], Y: p[1] / p[3], Z: p[2] / p[3]}
	}
	return math.Vec3{X: p[0], Y: p[1], Z: p[2]}
}

// IntersectAABB tests ray intersection with an axis-aligned bounding box.
// Returns the distance to intersection (t) and whether intersection occurred.
// If the ray starts inside the box, returns the exit distance.
func (r Ray) IntersectAABB(box AABB) (t float32, hit bool) {
	tmin := -math32.Inf(1)
	tmax := math32.Inf(1)

	for axis := 0; axis < 3; axis++ {
		o := r.Origin.Get(axis)
		d := r.Direction.Get(axis)
		lo, hi := box.Min.Get(axis), box.Max.Get(axis)

		if d == 0 {
			if o < lo || o > hi {
				return 0, false
			}
			continue
		}

		t1 := (lo - o) / d
		t2 := (hi - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math32.Max(tmin, t1)
		tmax = math32.Min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}

	// Return entry point, or exit point if starting inside
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// Contains reports whether p lies inside or on the box.
func (b AABB) Contains(p math.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// NewAABB creates an AABB from two corners, ordering each axis.
func NewAABB(a, b math.Vec3) AABB {
	return AABB{Min: a.Min(b), Max: a.Max(b)}
}

// TransformAABB returns the world bounds of a local box under m.
func TransformAABB(local AABB, m math.Mat4) AABB {
	first := true
	var out AABB
	for i := 0; i < 8; i++ {
		corner := math.Vec3{X: local.Min.X, Y: local.Min.Y, Z: local.Min.Z}
		if i&1 != 0 {
			corner.X = local.Max.X
		}
		if i&2 != 0 {
			corner.Y = local.Max.Y
		}
		if i&4 != 0 {
			corner.Z = local.Max.Z
		}
		p := m.TransformPoint(corner)
		if first {
			out = AABB{Min: p, Max: p}
			first = false
			continue
		}
		out.Min = out.Min.Min(p)
		out.Max = out.Max.Max(p)
	}
	return out
}
