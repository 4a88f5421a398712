package gpu

import "fmt"

// Pass identifies one stage of the painting pipeline.
type Pass int

const (
	PassDepth Pass = iota
	PassDecal
	PassBlend
	PassDisplay
)

var passNames = map[Pass]string{
	PassDepth:   "depth",
	PassDecal:   "decal",
	PassBlend:   "blend",
	PassDisplay: "display",
}

// Passes lists every pass in pipeline order.
func Passes() []Pass {
	return []Pass{PassDepth, PassDecal, PassBlend, PassDisplay}
}

func (p Pass) String() string {
	if name, ok := passNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Pass(%d)", p)
}

// PassState is the fixed-function state a pass draws with.
type PassState struct {
	DepthTest bool // LESS, with depth writes
}

var passStates = map[Pass]PassState{
	PassDepth:   {DepthTest: true},
	PassDecal:   {},
	PassBlend:   {},
	PassDisplay: {DepthTest: true},
}

// State returns the draw state for p.
func (p Pass) State() PassState {
	return passStates[p]
}

// Program is a compiled shader program and the inputs it declares.
type Program struct {
	Pass     Pass
	Handle   Handle
	Uniforms []string
	Samplers []string
}

// Uniform and sampler names shared by every program.
const (
	UniformModel      = "u_model"
	UniformView       = "u_view"
	UniformProjection = "u_projection"
	UniformEye        = "u_eye"

	UniformBrushView       = "u_brush_view"
	UniformBrushProjection = "u_brush_projection"
	UniformBrushPosition   = "u_brush_position"
	UniformAirPressure     = "u_air_pressure"
	UniformNozzleFov       = "u_nozzle_fov"
	UniformViscosity       = "u_viscosity"
	UniformPaintColor      = "u_paint_color"
	UniformDeltaMs         = "u_delta_ms"
	UniformBaseRate        = "u_base_rate"
	UniformDepthTolerance  = "u_depth_tolerance"
	UniformHasDirt         = "u_has_dirt"
	UniformAmbient         = "u_ambient"
	UniformLightDir        = "u_light_dir"
	UniformLightColor      = "u_light_color"

	SamplerDepth    = "u_depth_map"
	SamplerPrevious = "u_previous"
	SamplerStroke   = "u_stroke"
	SamplerPaint    = "u_paint"
	SamplerDirt     = "u_dirt"
)

// Texture units used by the pipeline.
const (
	UnitDepth = iota
	UnitPrevious
	UnitStroke
	UnitPaint
	UnitDirt
)

// ProgramInputs lists the uniforms and samplers each pass reads.
var ProgramInputs = map[Pass]struct {
	Uniforms []string
	Samplers []string
}{
	PassDepth: {
		Uniforms: []string{UniformModel, UniformView, UniformProjection},
	},
	PassDecal: {
		Uniforms: []string{
			UniformModel, UniformBrushView, UniformBrushProjection, UniformBrushPosition,
			UniformAirPressure, UniformNozzleFov, UniformViscosity, UniformPaintColor,
			UniformDeltaMs, UniformBaseRate, UniformDepthTolerance,
		},
		Samplers: []string{SamplerDepth},
	},
	PassBlend: {
		Samplers: []string{SamplerPrevious, SamplerStroke},
	},
	PassDisplay: {
		Uniforms: []string{
			UniformModel, UniformView, UniformProjection, UniformEye, UniformHasDirt,
			UniformAmbient, UniformLightDir, UniformLightColor,
		},
		Samplers: []string{SamplerPaint, SamplerDirt},
	},
}

// NewProgram fills in the declared inputs for pass.
func NewProgram(pass Pass, handle Handle) Program {
	in := ProgramInputs[pass]
	return Program{Pass: pass, Handle: handle, Uniforms: in.Uniforms, Samplers: in.Samplers}
}
