package paint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/airbrush/internal/engine/brush"
	"github.com/Faultbox/airbrush/pkg/math"
)

func assertVec4InDelta(t *testing.T, want, got math.Vec4, delta float64) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], delta, "component %d", i)
	}
}

func TestOverZeroAlphaIsIdentity(t *testing.T) {
	prevs := []math.Vec4{
		{0, 0, 0, 0},
		{1, 0.5, 0, 0.3},
		{0.2, 0.4, 0.6, 1},
	}
	for _, prev := range prevs {
		got := Over(prev, math.Vec4{0.9, 0.1, 0.7, 0})
		assertVec4InDelta(t, prev, got, 1e-6)
	}
}

func TestOverOntoEmpty(t *testing.T) {
	got := Over(math.Vec4{}, math.Vec4{1, 0.5, 0, 0.4})
	assertVec4InDelta(t, math.Vec4{1, 0.5, 0, 0.4}, got, 1e-6)
}

func TestOverAccumulatesAlpha(t *testing.T) {
	got := Over(math.Vec4{0, 0, 1, 0.5}, math.Vec4{1, 0, 0, 0.5})
	assert.InDelta(t, 0.75, got[3], 1e-6)
	// m = 0.5 / (0.25 + 0.5)
	assert.InDelta(t, 2.0/3.0, got[0], 1e-6)
	assert.InDelta(t, 1.0/3.0, got[2], 1e-6)

	full := Over(math.Vec4{0, 0, 1, 1}, math.Vec4{1, 0, 0, 1})
	assertVec4InDelta(t, math.Vec4{1, 0, 0, 1}, full, 1e-6)
}

func TestNonOverlappingDecalsMatchSingleOver(t *testing.T) {
	const n = 8
	paint := math.Vec4{1, 0.5, 0, 0.6}

	var a, b, combined [n]math.Vec4
	for i := 0; i < n; i++ {
		if i < n/2 {
			a[i] = paint
			combined[i] = paint
		} else {
			b[i] = math.Vec4{0, 0, 1, 0.35}
			combined[i] = b[i]
		}
	}

	base := math.Vec4{0.1, 0.1, 0.1, 0.2}
	for i := 0; i < n; i++ {
		seq := Over(Over(base, a[i]), b[i])
		once := Over(base, combined[i])
		assert.InDelta(t, once[3], seq[3], 1e-6, "texel %d", i)
	}
}

func TestProjectorCoords(t *testing.T) {
	uv, depth, ok := ProjectorCoords(math.Vec4{0, 0, 0, 2})
	require.True(t, ok)
	assert.Equal(t, math.Vec2{X: 0.5, Y: 0.5}, uv)
	assert.InDelta(t, 0.5, depth, 1e-6)

	_, _, ok = ProjectorCoords(math.Vec4{0, 0, 0, -1})
	assert.False(t, ok, "behind the nozzle")

	// Inside the NDC square but outside the unit circle
	_, _, ok = ProjectorCoords(math.Vec4{0.8, 0.8, 0, 1})
	assert.False(t, ok)

	uv, _, ok = ProjectorCoords(math.Vec4{1, 0, 0, 1})
	require.True(t, ok)
	assert.InDelta(t, 1, uv.X, 1e-6)
}

func TestDecalCoverageOcclusion(t *testing.T) {
	b := brush.Default()
	clip := math.Vec4{0, 0, 0.2, 1} // window depth 0.6

	got, ok := DecalCoverage(math.Vec3{}, clip, 0.6, math.Vec3{Z: 1}, b, 16, DefaultDepthTolerance)
	require.True(t, ok)
	assert.Greater(t, got, float32(0))

	_, ok = DecalCoverage(math.Vec3{}, clip, 0.5, math.Vec3{Z: 1}, b, 16, DefaultDepthTolerance)
	assert.False(t, ok, "fragment behind the stored depth")

	_, ok = DecalCoverage(math.Vec3{}, clip, 0.6-1e-5, math.Vec3{Z: 1}, b, 16, DefaultDepthTolerance)
	assert.True(t, ok, "within tolerance")
}
