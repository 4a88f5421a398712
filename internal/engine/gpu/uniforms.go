package gpu

import (
	"sort"

	"github.com/Faultbox/airbrush/pkg/math"
)

// UniformKind is the GLSL type of a uniform value.
type UniformKind int

const (
	KindFloat UniformKind = iota
	KindInt
	KindVec3
	KindVec4
	KindMat4
)

// Uniform is one typed value.
type Uniform struct {
	Kind  UniformKind
	Float float32
	Int   int32
	Vec3  math.Vec3
	Vec4  math.Vec4
	Mat4  math.Mat4
}

// Uniforms is a typed bag of named uniform values for one draw.
type Uniforms struct {
	values map[string]Uniform
}

// NewUniforms returns an empty bag.
func NewUniforms() *Uniforms {
	return &Uniforms{values: make(map[string]Uniform)}
}

func (u *Uniforms) set(name string, v Uniform) *Uniforms {
	if u.values == nil {
		u.values = make(map[string]Uniform)
	}
	u.values[name] = v
	return u
}

func (u *Uniforms) SetFloat(name string, v float32) *Uniforms {
	return u.set(name, Uniform{Kind: KindFloat, Float: v})
}

func (u *Uniforms) SetInt(name string, v int32) *Uniforms {
	return u.set(name, Uniform{Kind: KindInt, Int: v})
}

func (u *Uniforms) SetVec3(name string, v math.Vec3) *Uniforms {
	return u.set(name, Uniform{Kind: KindVec3, Vec3: v})
}

func (u *Uniforms) SetVec4(name string, v math.Vec4) *Uniforms {
	return u.set(name, Uniform{Kind: KindVec4, Vec4: v})
}

func (u *Uniforms) SetMat4(name string, v math.Mat4) *Uniforms {
	return u.set(name, Uniform{Kind: KindMat4, Mat4: v})
}

// Get returns the named value.
func (u *Uniforms) Get(name string) (Uniform, bool) {
	if u == nil {
		return Uniform{}, false
	}
	v, ok := u.values[name]
	return v, ok
}

// Float returns a float uniform or 0.
func (u *Uniforms) Float(name string) float32 {
	v, _ := u.Get(name)
	return v.Float
}

// Int returns an int uniform or 0.
func (u *Uniforms) Int(name string) int32 {
	v, _ := u.Get(name)
	return v.Int
}

// Vec3 returns a vec3 uniform or the zero vector.
func (u *Uniforms) Vec3(name string) math.Vec3 {
	v, _ := u.Get(name)
	return v.Vec3
}

// Mat4 returns a mat4 uniform or identity when unset.
func (u *Uniforms) Mat4(name string) math.Mat4 {
	v, ok := u.Get(name)
	if !ok || v.Kind != KindMat4 {
		return math.Identity()
	}
	return v.Mat4
}

// Names returns the set uniform names in sorted order.
func (u *Uniforms) Names() []string {
	if u == nil {
		return nil
	}
	names := make([]string, 0, len(u.values))
	for name := range u.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
