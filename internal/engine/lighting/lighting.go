// Package lighting describes the light rig the display pass shades the
// model with: an ambient term and one directional ceiling light.
package lighting

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/airbrush/internal/engine/gpu"
	"github.com/Faultbox/airbrush/pkg/math"
)

// Material constants shared with display.frag.
const (
	MaterialDiffuse  = 0.5
	MaterialSpecular = 0.5
	Shininess        = 64
)

// DirtColor is the albedo of a fully dirty texel.
var DirtColor = math.Vec3{X: 0.40, Y: 0.26, Z: 0.13}

// DirectionalLight shines along Direction.
type DirectionalLight struct {
	Direction math.Vec3 // normalized, pointing away from the light
	Color     math.Vec3
}

// Rig is every light the display pass reads.
type Rig struct {
	Ambient math.Vec3
	Ceiling DirectionalLight
}

// DefaultRig is a warm ambient under a white light pointing straight down.
func DefaultRig() Rig {
	return Rig{
		Ambient: math.Vec3{X: 0.8, Y: 0.8, Z: 0.75}.Scale(0.3),
		Ceiling: DirectionalLight{
			Direction: math.Vec3{Y: -1},
			Color:     math.Vec3{X: 1, Y: 1, Z: 0.95}.Scale(0.8),
		},
	}
}

// Apply writes the rig into a display draw's uniforms.
func (r Rig) Apply(u *gpu.Uniforms) *gpu.Uniforms {
	return u.SetVec3(gpu.UniformAmbient, r.Ambient).
		SetVec3(gpu.UniformLightDir, r.Ceiling.Direction).
		SetVec3(gpu.UniformLightColor, r.Ceiling.Color)
}

// FromUniforms reads back a rig written by Apply.
func FromUniforms(u *gpu.Uniforms) Rig {
	return Rig{
		Ambient: u.Vec3(gpu.UniformAmbient),
		Ceiling: DirectionalLight{
			Direction: u.Vec3(gpu.UniformLightDir),
			Color:     u.Vec3(gpu.UniformLightColor),
		},
	}
}

// Shade lights a surface point. dirt in [0,1] darkens the albedo and
// kills the highlight; paint covers the lit color by its alpha.
func (r Rig) Shade(normal, pos, eye math.Vec3, dirt float32, paint math.Vec4) math.Vec3 {
	n := normal.Normalize()
	base := math.Vec3{X: 1, Y: 1, Z: 1}.Lerp(DirtColor, dirt)

	light := r.Ceiling.Direction.Negate()
	diffuse := math32.Max(n.Dot(light), 0) * MaterialDiffuse
	view := eye.Sub(pos).Normalize()
	reflected := reflect(light.Negate(), n)
	specular := math32.Pow(math32.Max(reflected.Dot(view), 0), Shininess) * MaterialSpecular * (1 - dirt)

	c := r.Ceiling.Color
	lit := math.Vec3{
		X: base.X * (r.Ambient.X*MaterialDiffuse + c.X*diffuse),
		Y: base.Y * (r.Ambient.Y*MaterialDiffuse + c.Y*diffuse),
		Z: base.Z * (r.Ambient.Z*MaterialDiffuse + c.Z*diffuse),
	}.Add(c.Scale(specular))

	return lit.Lerp(math.Vec3{X: paint[0], Y: paint[1], Z: paint[2]}, paint[3])
}

// reflect mirrors the incident vector i about n, like GLSL reflect.
func reflect(i, n math.Vec3) math.Vec3 {
	return i.Sub(n.Scale(2 * n.Dot(i)))
}
