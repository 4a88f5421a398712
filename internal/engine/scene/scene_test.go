package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/airbrush/internal/engine/camera"
	"github.com/Faultbox/airbrush/internal/engine/gpu"
	"github.com/Faultbox/airbrush/internal/engine/gpu/soft"
	"github.com/Faultbox/airbrush/internal/engine/picking"
	"github.com/Faultbox/airbrush/pkg/math"
)

func smallOptions() Options {
	opts := DefaultOptions()
	opts.MapSize = 16
	opts.DirtMapSize = 8
	return opts
}

func TestCubeFacesPointOutwards(t *testing.T) {
	d := soft.NewDevice(4, 4)
	m, err := NewModel(d, PresetCube, smallOptions())
	require.NoError(t, err)
	defer m.Release()

	require.Len(t, m.Parts, 6)

	want := map[string]math.Vec3{
		"front":  {Z: 1},
		"back":   {Z: -1},
		"left":   {X: -1},
		"right":  {X: 1},
		"top":    {Y: 1},
		"bottom": {Y: -1},
	}
	for i, p := range m.Parts {
		n := m.FaceNormal(i, 0)
		assert.InDelta(t, 1, n.Dot(want[p.Name]), 1e-5, p.Name)

		center := m.World(i).TransformPoint(math.Vec3{})
		assert.InDelta(t, 0.5, center.Dot(want[p.Name]), 1e-5, p.Name)
	}
}

func TestCentreRayHitsNearEdge(t *testing.T) {
	d := soft.NewDevice(4, 4)
	m, err := NewModel(d, PresetCube, smallOptions())
	require.NoError(t, err)
	defer m.Release()
	m.Update()

	// The default orbit looks at the edge shared by the front and right faces.
	cam := camera.NewOrbitCamera()
	ray := picking.RayFromCamera(320, 240, 640, 480, cam)
	hit, ok := picking.Nearest(ray, m.Surfaces())
	require.True(t, ok)

	assert.Contains(t, []string{"front", "right"}, m.Parts[hit.Part].Name)
	assert.InDelta(t, 2.1835, hit.Distance, 1e-3)
	assert.Less(t, m.FaceNormal(hit.Part, hit.Triangle).Dot(cam.Front()), float32(0))
}

func TestUnknownPreset(t *testing.T) {
	_, err := NewModel(soft.NewDevice(1, 1), Preset("teapot"), DefaultOptions())
	assert.ErrorIs(t, err, ErrInvalidPreset)

	_, err = ParsePreset("teapot")
	assert.ErrorIs(t, err, ErrInvalidPreset)

	p, err := ParsePreset("sphere")
	require.NoError(t, err)
	assert.Equal(t, PresetSphere, p)
}

func TestReleaseFreesEverything(t *testing.T) {
	d := soft.NewDevice(4, 4)
	opts := smallOptions()
	opts.Washable = true

	for _, preset := range Presets() {
		m, err := NewModel(d, preset, opts)
		require.NoError(t, err, preset)
		assert.True(t, m.Washable())
		assert.Greater(t, d.Live(), 0)

		m.Release()
		assert.Equal(t, 0, d.Live(), preset)
	}
}

func TestFailedFramebufferIsFatal(t *testing.T) {
	d := soft.NewDevice(4, 4)
	d.FailFramebuffers = true

	_, err := NewModel(d, PresetCube, smallOptions())
	assert.ErrorIs(t, err, gpu.ErrIncompleteFramebuffer)
	assert.Equal(t, 0, d.Live())
}

func TestRotateMovesParts(t *testing.T) {
	d := soft.NewDevice(4, 4)
	m, err := NewModel(d, PresetCube, smallOptions())
	require.NoError(t, err)
	defer m.Release()

	m.Rotate(math.Vec3{Y: 1}, 3.14159265/2)
	changed := m.Update()
	assert.Len(t, changed, 7)

	// The front face now points along +X
	n := m.FaceNormal(0, 0)
	assert.InDelta(t, 1, n.X, 1e-5)

	surfaces := m.Surfaces()
	require.Len(t, surfaces, 6)
	assert.Equal(t, m.World(0), surfaces[0].World)
	assert.Equal(t, m.Parts[3].Mesh, m.Targets()[3].Mesh)
}

func TestRenderDrawsModel(t *testing.T) {
	d := soft.NewDevice(32, 24)
	m, err := NewModel(d, PresetCube, smallOptions())
	require.NoError(t, err)
	defer m.Release()

	r, err := NewRenderer(d, soft.Shaders{})
	require.NoError(t, err)
	require.NoError(t, r.Render(m, camera.NewOrbitCamera(), 32, 24))

	px, w, h := d.ReadDisplay()
	centre := ((h/2)*w + w/2) * 4
	assert.NotEqual(t, px[0], px[centre], "cube covers the centre of the view")
}
