package picking

import (
	"github.com/Faultbox/airbrush/internal/engine/geometry"
	"github.com/Faultbox/airbrush/pkg/math"
)

// Surface is one pickable part: its local geometry and its world matrix.
type Surface struct {
	Geometry *geometry.Geometry
	World    math.Mat4
}

// Hit describes the closest intersection found by Nearest.
type Hit struct {
	Part     int // index into the surfaces slice
	Triangle int
	UV       math.Vec2
	Distance float32
	Point    math.Vec3
}

// Nearest returns the closest intersection of r with any surface. Ties keep
// the lowest part index, then the lowest triangle index. A miss is reported
// with ok == false.
func Nearest(r Ray, surfaces []Surface) (hit Hit, ok bool) {
	best := Hit{Part: -1, Triangle: -1}

	for part, s := range surfaces {
		if s.Geometry == nil || s.Geometry.TriangleCount() == 0 {
			continue
		}

		lo, hi := s.Geometry.Bounds()
		bounds := padded(TransformAABB(NewAABB(lo, hi), s.World))
		entry, inBox := r.IntersectAABB(bounds)
		if !inBox {
			continue
		}
		if bounds.Contains(r.Origin) {
			entry = 0
		}
		if ok && entry > best.Distance {
			continue
		}

		for tri := 0; tri < s.Geometry.TriangleCount(); tri++ {
			a, b, c := s.Geometry.Triangle(tri)
			th, found := IntersectTriangle(r,
				s.World.TransformPoint(a.Position),
				s.World.TransformPoint(b.Position),
				s.World.TransformPoint(c.Position),
			)
			if !found || (ok && th.T >= best.Distance) {
				continue
			}

			best = Hit{
				Part:     part,
				Triangle: tri,
				UV:       math.Barycentric(a.UV, b.UV, c.UV, 1-th.U-th.V, th.U, th.V),
				Distance: th.T,
				Point:    r.At(th.T),
			}
			ok = true
		}
	}

	if !ok {
		return Hit{}, false
	}
	return best, true
}

// padded grows flat boxes so axis-aligned planes still pass the slab test.
func padded(b AABB) AABB {
	const pad = 1e-4
	p := math.Vec3{X: pad, Y: pad, Z: pad}
	return AABB{Min: b.Min.Sub(p), Max: b.Max.Add(p)}
}
