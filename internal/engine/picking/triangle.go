package picking

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/airbrush/pkg/math"
)

// Epsilon is the tolerance used by the ray/triangle test.
const Epsilon = 1e-6

// TriangleHit is the result of a ray/triangle test: the ray distance and
// the barycentric weights of v1 and v2.
type TriangleHit struct {
	T float32
	U float32
	V float32
}

// IntersectTriangle runs the Möller–Trumbore test. Both faces are hit.
func IntersectTriangle(r Ray, v0, v1, v2 math.Vec3) (TriangleHit, bool) {
	edge1 := v1.Sub(v0)
	edge2 := v2.Sub(v0)

	h := r.Direction.Cross(edge2)
	det := edge1.Dot(h)
	if math32.Abs(det) < Epsilon {
		return TriangleHit{}, false // parallel
	}

	// Barycentrics are accepted within Epsilon of the edges so a ray through
	// an edge shared by two triangles hits at least one of them.
	inv := 1 / det
	s := r.Origin.Sub(v0)
	u := inv * s.Dot(h)
	if u < -Epsilon || u > 1+Epsilon {
		return TriangleHit{}, false
	}

	q := s.Cross(edge1)
	v := inv * r.Direction.Dot(q)
	if v < -Epsilon || u+v > 1+Epsilon {
		return TriangleHit{}, false
	}

	t := inv * edge2.Dot(q)
	if t < Epsilon {
		return TriangleHit{}, false
	}
	u, v = clampBarycentric(u, v)
	return TriangleHit{T: t, U: u, V: v}, true
}

// clampBarycentric pulls (u, v) back inside the triangle.
func clampBarycentric(u, v float32) (float32, float32) {
	u = math32.Max(u, 0)
	v = math32.Max(v, 0)
	if sum := u + v; sum > 1 {
		u /= sum
		v /= sum
	}
	return u, v
}
