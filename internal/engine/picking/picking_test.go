package picking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/airbrush/internal/engine/camera"
	"github.com/Faultbox/airbrush/internal/engine/geometry"
	"github.com/Faultbox/airbrush/pkg/math"
)

var (
	tv0 = math.Vec3{X: -1, Y: -1}
	tv1 = math.Vec3{X: 1, Y: -1}
	tv2 = math.Vec3{X: 0, Y: 1}
)

func TestIntersectTriangleCentroid(t *testing.T) {
	centroid := tv0.Add(tv1).Add(tv2).Scale(1.0 / 3.0)
	origin := centroid.Add(math.Vec3{Z: 5})
	r := Ray{Origin: origin, Direction: math.Vec3{Z: -1}}

	hit, ok := IntersectTriangle(r, tv0, tv1, tv2)
	require.True(t, ok)
	assert.InDelta(t, 5, hit.T, 1e-5)
	assert.InDelta(t, 1.0/3.0, hit.U, 1e-5)
	assert.InDelta(t, 1.0/3.0, hit.V, 1e-5)
}

func TestIntersectTriangleMisses(t *testing.T) {
	tests := []struct {
		name string
		ray  Ray
	}{
		{"outside", Ray{Origin: math.Vec3{X: 2, Y: 2, Z: 5}, Direction: math.Vec3{Z: -1}}},
		{"parallel", Ray{Origin: math.Vec3{Z: 1}, Direction: math.Vec3{X: 1}}},
		{"behind", Ray{Origin: math.Vec3{Z: 5}, Direction: math.Vec3{Z: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := IntersectTriangle(tt.ray, tv0, tv1, tv2)
			assert.False(t, ok)
		})
	}
}

func TestIntersectTriangleBackFace(t *testing.T) {
	r := Ray{Origin: math.Vec3{Z: -5}, Direction: math.Vec3{Z: 1}}
	_, ok := IntersectTriangle(r, tv0, tv1, tv2)
	assert.True(t, ok)
}

func TestIntersectTriangleAcceptsEdgeRounding(t *testing.T) {
	// Just below the v0-v1 edge, as float rounding leaves a ray aimed at it.
	r := Ray{Origin: math.Vec3{X: 0.25, Y: -1.0000002, Z: 5}, Direction: math.Vec3{Z: -1}}
	hit, ok := IntersectTriangle(r, tv0, tv1, tv2)
	require.True(t, ok)
	assert.Equal(t, float32(0), hit.V)
	assert.InDelta(t, 0.625, hit.U, 1e-5)
	assert.InDelta(t, 5, hit.T, 1e-5)

	r.Origin.Y = -1.01
	_, ok = IntersectTriangle(r, tv0, tv1, tv2)
	assert.False(t, ok)
}

func TestNearestSharedEdge(t *testing.T) {
	plane := geometry.NewPlane(0.5, 0.5, 1, 1)
	quarter := math.QuatFromAxisAngle(math.Vec3{Y: 1}, 1.5707964)
	surfaces := []Surface{
		{Geometry: plane, World: math.Compose(math.Vec3{X: 1, Y: 1, Z: 1}, quarter, math.Vec3{X: 0.5})},
		{Geometry: plane, World: math.Translate(0, 0, 0.5)},
	}

	// Through the edge x = z = 0.5 shared by both planes.
	origin := math.Vec3{X: 2, Y: 0.1, Z: 2}
	r := Ray{Origin: origin, Direction: math.Vec3{X: 0.5, Y: 0.1, Z: 0.5}.Sub(origin).Normalize()}
	hit, ok := Nearest(r, surfaces)
	require.True(t, ok)
	assert.InDelta(t, origin.Distance(math.Vec3{X: 0.5, Y: 0.1, Z: 0.5}), hit.Distance, 1e-4)
	assert.GreaterOrEqual(t, hit.UV.X, float32(0))
	assert.LessOrEqual(t, hit.UV.X, float32(1))
}

func TestNearestFromInsideBounds(t *testing.T) {
	plane := geometry.NewPlane(0.5, 0.5, 1, 1)
	tilt := math.QuatFromAxisAngle(math.Vec3{X: 1}, 0.7853982)
	surfaces := []Surface{
		{Geometry: plane, World: math.Translate(0, 0, -1.5)},
		// Its bounds contain the ray origin and reach past the first plane.
		{Geometry: plane, World: math.Compose(math.Vec3{X: 4, Y: 4, Z: 4}, tilt, math.Vec3{Z: -1})},
	}

	r := Ray{Direction: math.Vec3{Z: -1}}
	hit, ok := Nearest(r, surfaces)
	require.True(t, ok)
	assert.Equal(t, 1, hit.Part)
	assert.InDelta(t, 1, hit.Distance, 1e-4)
}

func TestNearestInterpolatesUV(t *testing.T) {
	plane := geometry.NewPlane(0.5, 0.5, 1, 1)
	surfaces := []Surface{{Geometry: plane, World: math.Identity()}}

	r := Ray{Origin: math.Vec3{X: 0.2, Y: -0.3, Z: 2}, Direction: math.Vec3{Z: -1}}
	hit, ok := Nearest(r, surfaces)
	require.True(t, ok)

	assert.Equal(t, 0, hit.Part)
	assert.InDelta(t, 0.7, hit.UV.X, 1e-5)
	assert.InDelta(t, 0.2, hit.UV.Y, 1e-5)
	assert.InDelta(t, 2, hit.Distance, 1e-5)
	assert.InDelta(t, 0, hit.Point.Z, 1e-5)
}

func TestNearestPicksClosestPart(t *testing.T) {
	plane := geometry.NewPlane(0.5, 0.5, 1, 1)
	surfaces := []Surface{
		{Geometry: plane, World: math.Translate(0, 0, -1)},
		{Geometry: plane, World: math.Identity()},
	}

	r := Ray{Origin: math.Vec3{Z: 3}, Direction: math.Vec3{Z: -1}}
	hit, ok := Nearest(r, surfaces)
	require.True(t, ok)
	assert.Equal(t, 1, hit.Part)
	assert.InDelta(t, 3, hit.Distance, 1e-5)
}

func TestNearestTieKeepsLowestPart(t *testing.T) {
	plane := geometry.NewPlane(0.5, 0.5, 1, 1)
	surfaces := []Surface{
		{Geometry: plane, World: math.Identity()},
		{Geometry: plane, World: math.Identity()},
	}

	r := Ray{Origin: math.Vec3{X: 0.2, Y: 0.1, Z: 1}, Direction: math.Vec3{Z: -1}}
	hit, ok := Nearest(r, surfaces)
	require.True(t, ok)
	assert.Equal(t, 0, hit.Part)
}

func TestNearestMiss(t *testing.T) {
	plane := geometry.NewPlane(0.5, 0.5, 1, 1)
	surfaces := []Surface{{Geometry: plane, World: math.Identity()}}

	r := Ray{Origin: math.Vec3{X: 3, Z: 1}, Direction: math.Vec3{Z: -1}}
	_, ok := Nearest(r, surfaces)
	assert.False(t, ok)

	_, ok = Nearest(r, nil)
	assert.False(t, ok)
}

func TestRayFromCameraCentre(t *testing.T) {
	cam := camera.NewOrbitCamera()
	r := RayFromCamera(400, 300, 800, 600, cam)

	assert.InDelta(t, 1, r.Direction.Dot(cam.Front()), 1e-5)
	assert.Equal(t, cam.Position(), r.Origin)
}

func TestRayFromCameraMatchesScreenToRay(t *testing.T) {
	cam := camera.NewOrbitCamera()
	w, h := float32(800), float32(600)
	invViewProj := cam.ProjectionMatrix(w / h).Mul(cam.ViewMatrix()).Inverse()

	for _, px := range [][2]float32{{0, 0}, {100, 500}, {799, 20}} {
		a := RayFromCamera(px[0], px[1], w, h, cam)
		b := ScreenToRay(px[0], px[1], w, h, invViewProj)
		assert.InDelta(t, 1, a.Direction.Dot(b.Direction), 1e-4)
	}
}

func TestIntersectAABB(t *testing.T) {
	box := NewAABB(math.Vec3{X: 1, Y: 1, Z: 1}, math.Vec3{X: -1, Y: -1, Z: -1})
	assert.Equal(t, float32(-1), box.Min.X)

	d, ok := Ray{Origin: math.Vec3{Z: 5}, Direction: math.Vec3{Z: -1}}.IntersectAABB(box)
	require.True(t, ok)
	assert.InDelta(t, 4, d, 1e-5)

	d, ok = Ray{Direction: math.Vec3{X: 1}}.IntersectAABB(box)
	require.True(t, ok)
	assert.InDelta(t, 1, d, 1e-5)

	_, ok = Ray{Origin: math.Vec3{X: 3, Z: 5}, Direction: math.Vec3{Z: -1}}.IntersectAABB(box)
	assert.False(t, ok)
}

func TestAABBContains(t *testing.T) {
	box := NewAABB(math.Vec3{X: -1, Y: -1, Z: -1}, math.Vec3{X: 1, Y: 1, Z: 1})
	assert.True(t, box.Contains(math.Vec3{}))
	assert.True(t, box.Contains(math.Vec3{X: 1, Y: -1}))
	assert.False(t, box.Contains(math.Vec3{Z: 1.5}))
}
