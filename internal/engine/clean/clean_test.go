package clean

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/airbrush/internal/engine/gpu"
	"github.com/Faultbox/airbrush/internal/engine/gpu/soft"
	"github.com/Faultbox/airbrush/internal/engine/picking"
	"github.com/Faultbox/airbrush/pkg/math"
)

func TestCleanDecrementsInsideRadius(t *testing.T) {
	dirt := NewDirtMap(DefaultMapSize, DefaultMapSize, 255)
	dirt.NeedsUpload = false

	c, err := NewCleaner(0.1, DefaultStep)
	require.NoError(t, err)

	marks := Marks{{UV: math.Vec2{X: 0.5, Y: 0.5}, Radius: 0.1}}
	c.Clean(&marks, dirt)

	assert.Empty(t, marks)
	assert.True(t, dirt.NeedsUpload)

	r := float32(0.1)
	for y := 0; y < dirt.Height; y++ {
		for x := 0; x < dirt.Width; x++ {
			dx := float32(x)/float32(dirt.Width) - 0.5
			dy := float32(y)/float32(dirt.Height) - 0.5
			want := uint8(255)
			if dx*dx+dy*dy < r*r {
				want = 251
			}
			require.Equal(t, want, dirt.At(x, y), "texel %d,%d", x, y)
		}
	}
	assert.Equal(t, uint8(251), dirt.At(100, 100))
	assert.Equal(t, uint8(255), dirt.At(0, 0))
}

func TestCleanFloorsAtZero(t *testing.T) {
	dirt := NewDirtMap(4, 4, 3)
	c, err := NewCleaner(1, DefaultStep)
	require.NoError(t, err)

	marks := Marks{{UV: math.Vec2{}, Radius: 1}}
	c.Clean(&marks, dirt)
	assert.Equal(t, uint8(0), dirt.At(0, 0))
}

func TestCleanEmptyIsNoop(t *testing.T) {
	dirt := NewDirtMap(4, 4, 200)
	dirt.NeedsUpload = false
	c, err := NewCleaner(DefaultHitRadius, DefaultStep)
	require.NoError(t, err)

	var marks Marks
	c.Clean(&marks, dirt)
	assert.False(t, dirt.NeedsUpload)
	assert.Equal(t, uint8(200), dirt.At(2, 2))
}

func TestNewCleanerRejectsNegativeRadius(t *testing.T) {
	_, err := NewCleaner(-0.1, DefaultStep)
	assert.ErrorIs(t, err, ErrInvalidRadius)
}

func TestMarkToClean(t *testing.T) {
	c, err := NewCleaner(DefaultHitRadius, DefaultStep)
	require.NoError(t, err)

	marks := make([]Marks, 3)
	c.MarkToClean(picking.Hit{Part: 1, UV: math.Vec2{X: 0.3, Y: 0.7}}, marks)
	c.MarkToClean(picking.Hit{Part: 7}, marks)

	assert.Empty(t, marks[0])
	require.Len(t, marks[1], 1)
	assert.Equal(t, Mark{UV: math.Vec2{X: 0.3, Y: 0.7}, Radius: DefaultHitRadius}, marks[1][0])
}

func TestUploadClearsFlag(t *testing.T) {
	d := soft.NewDevice(1, 1)
	tex, err := d.CreateTexture(gpu.TextureDesc{Width: 2, Height: 2, Format: gpu.FormatR8})
	require.NoError(t, err)

	dirt := NewDirtMap(2, 2, 255)
	require.NoError(t, dirt.Upload(d, tex))
	assert.False(t, dirt.NeedsUpload)

	px, err := d.ReadPixels(tex)
	require.NoError(t, err)
	assert.InDelta(t, 1, px[3], 1e-6)
}

func TestFillAndCoverage(t *testing.T) {
	dirt := NewDirtMap(2, 2, 255)
	dirt.NeedsUpload = false
	assert.InDelta(t, 1, dirt.Coverage(), 1e-6)

	dirt.Levels[0] = 0
	assert.InDelta(t, 0.75, dirt.Coverage(), 1e-6)

	dirt.Fill(255)
	assert.True(t, dirt.NeedsUpload)
	assert.InDelta(t, 1, dirt.Coverage(), 1e-6)

	assert.Zero(t, (&DirtMap{}).Coverage())
}
