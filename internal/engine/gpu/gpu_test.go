package gpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/airbrush/pkg/math"
)

func TestFormatInfo(t *testing.T) {
	tests := []struct {
		format   Format
		channels int
		depth    bool
	}{
		{FormatR8, 1, false},
		{FormatRGBA8, 4, false},
		{FormatRGBA16F, 4, false},
		{FormatDepth16, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			info, err := tt.format.Info()
			require.NoError(t, err)
			assert.Equal(t, tt.channels, info.Channels)
			assert.Equal(t, tt.depth, info.Depth)
		})
	}

	_, err := Format(42).Info()
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestTextureDescValidate(t *testing.T) {
	assert.NoError(t, TextureDesc{Width: 4, Height: 4, Format: FormatR8}.Validate())
	assert.Error(t, TextureDesc{Width: 0, Height: 4, Format: FormatR8}.Validate())
	assert.ErrorIs(t, TextureDesc{Width: 4, Height: 4, Format: Format(-1)}.Validate(), ErrInvalidFormat)
}

func TestBlendAccumulate(t *testing.T) {
	s, err := BlendAccumulate.State()
	require.NoError(t, err)

	out := s.Apply([4]float32{1, 0, 0, 0.25}, [4]float32{0, 1, 0, 0.5})
	assert.Equal(t, [4]float32{1, 0, 0, 0.75}, out)

	none, err := BlendNone.State()
	require.NoError(t, err)
	assert.Equal(t, [4]float32{1, 0, 0, 0.25}, none.Apply([4]float32{1, 0, 0, 0.25}, [4]float32{0, 1, 0, 0.5}))

	_, err = BlendMode(9).State()
	assert.Error(t, err)
}

func TestUniforms(t *testing.T) {
	u := NewUniforms().
		SetFloat(UniformDeltaMs, 16).
		SetVec3(UniformPaintColor, math.Vec3{X: 1}).
		SetInt(SamplerDepth, UnitDepth)

	assert.Equal(t, float32(16), u.Float(UniformDeltaMs))
	assert.Equal(t, math.Vec3{X: 1}, u.Vec3(UniformPaintColor))
	assert.Equal(t, math.Identity(), u.Mat4(UniformModel))
	assert.Equal(t, []string{UniformDeltaMs, SamplerDepth, UniformPaintColor}, u.Names())
}

func TestNewProgramDeclaresInputs(t *testing.T) {
	for _, pass := range Passes() {
		p := NewProgram(pass, 1)
		assert.Equal(t, pass, p.Pass)
		assert.NotEmpty(t, append(p.Uniforms, p.Samplers...), pass.String())
	}
}
