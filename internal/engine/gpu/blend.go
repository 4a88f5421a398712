package gpu

import "fmt"

// BlendFactor is a source or destination blend weight.
type BlendFactor int

const (
	FactorZero BlendFactor = iota
	FactorOne
)

// BlendMode selects a blend state from the table below.
type BlendMode int

const (
	// BlendNone writes the fragment unchanged.
	BlendNone BlendMode = iota
	// BlendAccumulate replaces color and adds alpha: the stroke buffer
	// keeps the latest paint color and sums coverage.
	BlendAccumulate
)

// BlendState is the fixed-function configuration for a mode.
type BlendState struct {
	Enabled  bool
	SrcColor BlendFactor
	DstColor BlendFactor
	SrcAlpha BlendFactor
	DstAlpha BlendFactor
}

var blendStates = map[BlendMode]BlendState{
	BlendNone: {},
	BlendAccumulate: {
		Enabled:  true,
		SrcColor: FactorOne,
		DstColor: FactorZero,
		SrcAlpha: FactorOne,
		DstAlpha: FactorOne,
	},
}

// State returns the blend state for m.
func (m BlendMode) State() (BlendState, error) {
	s, ok := blendStates[m]
	if !ok {
		return BlendState{}, fmt.Errorf("unknown blend mode %d", m)
	}
	return s, nil
}

func (f BlendFactor) weight() float32 {
	if f == FactorOne {
		return 1
	}
	return 0
}

// Apply blends src over dst with this state. Results are not clamped;
// the storage format does that.
func (s BlendState) Apply(src, dst [4]float32) [4]float32 {
	if !s.Enabled {
		return src
	}
	var out [4]float32
	for i := 0; i < 3; i++ {
		out[i] = src[i]*s.SrcColor.weight() + dst[i]*s.DstColor.weight()
	}
	out[3] = src[3]*s.SrcAlpha.weight() + dst[3]*s.DstAlpha.weight()
	return out
}
