package soft

import (
	"fmt"

	"github.com/Faultbox/airbrush/internal/engine/geometry"
	"github.com/Faultbox/airbrush/internal/engine/gpu"
	"github.com/Faultbox/airbrush/internal/engine/lighting"
	"github.com/Faultbox/airbrush/internal/engine/paint"
	"github.com/Faultbox/airbrush/pkg/math"
)

// sampler reads the texture bound to the unit named by a sampler uniform.
type sampler func(name string, uv math.Vec2) [4]float32

// program is the Go rendition of one pass's shaders.
type program interface {
	vertex(v geometry.Vertex, u *gpu.Uniforms) clipVertex
	fragment(vary []float32, u *gpu.Uniforms, sample sampler) (color [4]float32, keep bool)
}

var programs = map[gpu.Pass]program{
	gpu.PassDepth:   depthProgram{},
	gpu.PassDecal:   decalProgram{},
	gpu.PassBlend:   blendProgram{},
	gpu.PassDisplay: displayProgram{},
}

// Shaders is the ShaderProvider paired with Device.
type Shaders struct{}

// Program returns the built-in program for pass.
func (Shaders) Program(pass gpu.Pass) (gpu.Program, error) {
	if _, ok := programs[pass]; !ok {
		return gpu.Program{}, fmt.Errorf("%w: no program for %s", gpu.ErrShaderCompile, pass)
	}
	return gpu.NewProgram(pass, gpu.Handle(pass)+1), nil
}

func worldClip(v geometry.Vertex, u *gpu.Uniforms) (math.Vec4, math.Vec4) {
	world := u.Mat4(gpu.UniformModel).MulVec4(math.Vec4{v.Position.X, v.Position.Y, v.Position.Z, 1})
	clip := u.Mat4(gpu.UniformProjection).Mul(u.Mat4(gpu.UniformView)).MulVec4(world)
	return world, clip
}

type depthProgram struct{}

func (depthProgram) vertex(v geometry.Vertex, u *gpu.Uniforms) clipVertex {
	_, clip := worldClip(v, u)
	return clipVertex{clip: clip}
}

func (depthProgram) fragment([]float32, *gpu.Uniforms, sampler) ([4]float32, bool) {
	return [4]float32{}, true
}

// decalProgram rasterizes in texture space: position is uv*2-1.
type decalProgram struct{}

func (decalProgram) vertex(v geometry.Vertex, u *gpu.Uniforms) clipVertex {
	world := u.Mat4(gpu.UniformModel).MulVec4(math.Vec4{v.Position.X, v.Position.Y, v.Position.Z, 1})
	proj := u.Mat4(gpu.UniformBrushProjection).Mul(u.Mat4(gpu.UniformBrushView)).MulVec4(world)
	return clipVertex{
		clip: math.Vec4{v.UV.X*2 - 1, v.UV.Y*2 - 1, 0, 1},
		vary: []float32{world[0], world[1], world[2], proj[0], proj[1], proj[2], proj[3]},
	}
}

func (decalProgram) fragment(vary []float32, u *gpu.Uniforms, sample sampler) ([4]float32, bool) {
	world := math.Vec3{X: vary[0], Y: vary[1], Z: vary[2]}
	clip := math.Vec4{vary[3], vary[4], vary[5], vary[6]}

	uv, _, ok := paint.ProjectorCoords(clip)
	if !ok {
		return [4]float32{}, false
	}
	stored := sample(gpu.SamplerDepth, uv)[0]

	b := paint.BrushFromUniforms(u)
	intensity, keep := paint.DecalCoverage(world, clip, stored,
		u.Vec3(gpu.UniformBrushPosition), b,
		u.Float(gpu.UniformDeltaMs), u.Float(gpu.UniformDepthTolerance))
	if !keep {
		return [4]float32{}, false
	}
	return [4]float32{b.PaintColor.X, b.PaintColor.Y, b.PaintColor.Z, intensity}, true
}

// blendProgram draws the full-screen quad and applies Over.
type blendProgram struct{}

func (blendProgram) vertex(v geometry.Vertex, _ *gpu.Uniforms) clipVertex {
	return clipVertex{
		clip: math.Vec4{v.Position.X, v.Position.Y, 0, 1},
		vary: []float32{v.UV.X, v.UV.Y},
	}
}

func (blendProgram) fragment(vary []float32, _ *gpu.Uniforms, sample sampler) ([4]float32, bool) {
	uv := math.Vec2{X: vary[0], Y: vary[1]}
	prev := sample(gpu.SamplerPrevious, uv)
	stroke := sample(gpu.SamplerStroke, uv)
	return [4]float32(paint.Over(math.Vec4(prev), math.Vec4(stroke))), true
}

// displayProgram shades the model with the light rig, darkened by dirt
// and covered by paint.
type displayProgram struct{}

func (displayProgram) vertex(v geometry.Vertex, u *gpu.Uniforms) clipVertex {
	world, clip := worldClip(v, u)
	n := u.Mat4(gpu.UniformModel).TransformDirection(v.Normal).Normalize()
	return clipVertex{
		clip: clip,
		vary: []float32{world[0], world[1], world[2], n.X, n.Y, n.Z, v.UV.X, v.UV.Y},
	}
}

func (displayProgram) fragment(vary []float32, u *gpu.Uniforms, sample sampler) ([4]float32, bool) {
	pos := math.Vec3{X: vary[0], Y: vary[1], Z: vary[2]}
	n := math.Vec3{X: vary[3], Y: vary[4], Z: vary[5]}
	uv := math.Vec2{X: vary[6], Y: vary[7]}

	var dirt float32
	if u.Int(gpu.UniformHasDirt) != 0 {
		dirt = sample(gpu.SamplerDirt, uv)[0]
	}
	paint := math.Vec4(sample(gpu.SamplerPaint, uv))
	out := lighting.FromUniforms(u).Shade(n, pos, u.Vec3(gpu.UniformEye), dirt, paint)
	return [4]float32{out.X, out.Y, out.Z, 1}, true
}

// Draw runs the pass's program over every triangle of mesh into the bound
// target.
func (d *Device) Draw(prog gpu.Program, mesh gpu.Handle, u *gpu.Uniforms) error {
	impl, ok := programs[prog.Pass]
	if !ok {
		return fmt.Errorf("%w: pass %s", gpu.ErrShaderCompile, prog.Pass)
	}
	g, ok := d.meshes[mesh]
	if !ok {
		return fmt.Errorf("%w: mesh %d", gpu.ErrUnknownHandle, mesh)
	}

	fb := d.target
	state := prog.Pass.State()
	sample := func(name string, uv math.Vec2) [4]float32 {
		t, ok := d.units[int(u.Int(name))]
		if !ok {
			return [4]float32{}
		}
		return t.sample(uv)
	}

	verts := make([]clipVertex, len(g.Vertices))
	for i, v := range g.Vertices {
		verts[i] = impl.vertex(v, u)
	}

	frag := func(x, y int, depth float32, vary []float32) {
		if state.DepthTest && fb.depth != nil {
			if depth >= fb.depth.load(x, y)[0] {
				return
			}
		}
		color, keep := impl.fragment(vary, u, sample)
		if !keep {
			return
		}
		if state.DepthTest && fb.depth != nil {
			fb.depth.store(x, y, [4]float32{depth})
		}
		if fb.color != nil {
			fb.color.store(x, y, d.blend.Apply(color, fb.color.load(x, y)))
		}
	}

	for i := 0; i+2 < len(g.Indices); i += 3 {
		tri := [3]clipVertex{verts[g.Indices[i]], verts[g.Indices[i+1]], verts[g.Indices[i+2]]}
		rasterize(tri, fb.width, fb.height, frag)
	}
	d.Draws++
	return nil
}
