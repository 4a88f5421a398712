package soft

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/airbrush/pkg/math"
)

// clipVertex is a vertex after the vertex stage.
type clipVertex struct {
	clip math.Vec4
	vary []float32
}

// screenVertex holds a vertex in target pixel space. Row 0 is the bottom
// row, matching texture storage.
type screenVertex struct {
	x, y, z float32
	invW    float32
	vary    []float32
}

// fragmentFunc receives the pixel, its window depth and the perspective
// corrected varyings.
type fragmentFunc func(x, y int, depth float32, vary []float32)

func toScreen(v clipVertex, width, height int) screenVertex {
	invW := 1 / v.clip[3]
	return screenVertex{
		x:    (v.clip[0]*invW + 1) * 0.5 * float32(width),
		y:    (v.clip[1]*invW + 1) * 0.5 * float32(height),
		z:    (v.clip[2]*invW)*0.5 + 0.5,
		invW: invW,
		vary: v.vary,
	}
}

// edge is the signed doubled area of (a, b, p). Endpoints are evaluated in
// a fixed order so edge(a, b) == -edge(b, a) holds exactly.
func edge(a, b screenVertex, px, py float32) float32 {
	if b.x < a.x || (b.x == a.x && b.y < a.y) {
		return -edgeOrdered(b, a, px, py)
	}
	return edgeOrdered(a, b, px, py)
}

func edgeOrdered(a, b screenVertex, px, py float32) float32 {
	return (b.x-a.x)*(py-a.y) - (b.y-a.y)*(px-a.x)
}

// ownsEdge breaks ties for pixel centres exactly on an edge. A shared
// edge runs in opposite directions in its two triangles, so exactly one
// of them claims the pixel.
func ownsEdge(a, b screenVertex) bool {
	dx, dy := b.x-a.x, b.y-a.y
	return dy > 0 || (dy == 0 && dx < 0)
}

// rasterize fills one triangle. Both windings are drawn. Triangles with a
// vertex at or behind the eye plane are skipped; there is no clipping.
func rasterize(tri [3]clipVertex, width, height int, frag fragmentFunc) {
	for _, v := range tri {
		if v.clip[3] <= 0 {
			return
		}
	}

	s0 := toScreen(tri[0], width, height)
	s1 := toScreen(tri[1], width, height)
	s2 := toScreen(tri[2], width, height)

	area := edge(s0, s1, s2.x, s2.y)
	if area == 0 {
		return
	}
	if area < 0 {
		s1, s2 = s2, s1
		area = -area
	}

	minX := clampInt(int(math32.Floor(min3(s0.x, s1.x, s2.x))), 0, width-1)
	maxX := clampInt(int(math32.Ceil(max3(s0.x, s1.x, s2.x))), 0, width-1)
	minY := clampInt(int(math32.Floor(min3(s0.y, s1.y, s2.y))), 0, height-1)
	maxY := clampInt(int(math32.Ceil(max3(s0.y, s1.y, s2.y))), 0, height-1)

	own0 := ownsEdge(s1, s2)
	own1 := ownsEdge(s2, s0)
	own2 := ownsEdge(s0, s1)

	n := len(s0.vary)
	vary := make([]float32, n)

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			px, py := float32(x)+0.5, float32(y)+0.5

			w0 := edge(s1, s2, px, py)
			w1 := edge(s2, s0, px, py)
			w2 := edge(s0, s1, px, py)
			if !inside(w0, own0) || !inside(w1, own1) || !inside(w2, own2) {
				continue
			}

			b0, b1, b2 := w0/area, w1/area, w2/area
			z := b0*s0.z + b1*s1.z + b2*s2.z

			// Perspective-correct: interpolate attr/w and 1/w
			p0, p1, p2 := b0*s0.invW, b1*s1.invW, b2*s2.invW
			oneOverW := p0 + p1 + p2
			if oneOverW == 0 {
				continue
			}
			for i := 0; i < n; i++ {
				vary[i] = (p0*s0.vary[i] + p1*s1.vary[i] + p2*s2.vary[i]) / oneOverW
			}

			frag(x, y, z, vary)
		}
	}
}

func inside(w float32, owns bool) bool {
	return w > 0 || (w == 0 && owns)
}

func min3(a, b, c float32) float32 {
	return math32.Min(a, math32.Min(b, c))
}

func max3(a, b, c float32) float32 {
	return math32.Max(a, math32.Max(b, c))
}
