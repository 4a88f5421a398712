package gldevice

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/airbrush/internal/engine/gpu"
)

// These checks need no GL context.

func TestEveryFormatMapped(t *testing.T) {
	for _, f := range []gpu.Format{gpu.FormatR8, gpu.FormatRGBA8, gpu.FormatRGBA16F, gpu.FormatDepth16} {
		_, ok := glFormats[f]
		assert.True(t, ok, "format %s", f)
	}
}

func TestEveryPassHasSources(t *testing.T) {
	for _, pass := range gpu.Passes() {
		src, ok := sources[pass]
		if !assert.True(t, ok, "pass %s", pass) {
			continue
		}
		assert.True(t, strings.HasPrefix(src[0], "#version 410 core"), "%s vertex", pass)
		assert.True(t, strings.HasPrefix(src[1], "#version 410 core"), "%s fragment", pass)
	}
}

func TestShadersDeclareProgramInputs(t *testing.T) {
	for pass, in := range gpu.ProgramInputs {
		src := sources[pass][0] + sources[pass][1]
		for _, name := range append(append([]string{}, in.Uniforms...), in.Samplers...) {
			assert.Contains(t, src, "uniform", "%s", pass)
			assert.Contains(t, src, " "+name+";", "%s declares %s", pass, name)
		}
	}
}

func TestBlendFactorsMapped(t *testing.T) {
	s, err := gpu.BlendAccumulate.State()
	assert.NoError(t, err)
	for _, f := range []gpu.BlendFactor{s.SrcColor, s.DstColor, s.SrcAlpha, s.DstAlpha} {
		_, ok := glFactors[f]
		assert.True(t, ok)
	}
}
