package scene

import (
	"errors"
	"fmt"

	"github.com/Faultbox/airbrush/internal/engine/clean"
	"github.com/Faultbox/airbrush/internal/engine/geometry"
	"github.com/Faultbox/airbrush/internal/engine/gpu"
	"github.com/Faultbox/airbrush/internal/engine/paint"
	"github.com/Faultbox/airbrush/internal/engine/picking"
	"github.com/Faultbox/airbrush/internal/engine/transform"
	"github.com/Faultbox/airbrush/pkg/math"
)

// ErrInvalidPreset is returned for an unknown model preset.
var ErrInvalidPreset = errors.New("invalid model preset")

// Preset names a built-in model.
type Preset string

const (
	PresetCube   Preset = "cube"
	PresetPlane  Preset = "plane"
	PresetSphere Preset = "sphere"
)

type partSpec struct {
	name     string
	geometry geometry.Preset
	local    transform.Transform
}

func face(name string, pitchDeg, yawDeg float32, at math.Vec3) partSpec {
	local := transform.Identity()
	local.Rotation = math.QuatFromEuler(math.Radians(pitchDeg), math.Radians(yawDeg), 0)
	local.Translation = at
	return partSpec{name: name, geometry: geometry.PresetPlane, local: local}
}

var presets = map[Preset][]partSpec{
	PresetCube: {
		face("front", 0, 0, math.Vec3{Z: 0.5}),
		face("back", 0, 180, math.Vec3{Z: -0.5}),
		face("left", 0, -90, math.Vec3{X: -0.5}),
		face("right", 0, 90, math.Vec3{X: 0.5}),
		face("top", -90, 0, math.Vec3{Y: 0.5}),
		face("bottom", 90, 0, math.Vec3{Y: -0.5}),
	},
	PresetPlane: {
		face("upper", -90, 0, math.Vec3{}),
		face("lower", 90, 0, math.Vec3{Y: -0.0001}),
	},
	PresetSphere: {
		{name: "sphere", geometry: geometry.PresetSphere, local: transform.Identity()},
	},
}

// Presets lists the known model presets.
func Presets() []Preset {
	return []Preset{PresetCube, PresetPlane, PresetSphere}
}

// ParsePreset validates a preset name.
func ParsePreset(name string) (Preset, error) {
	p := Preset(name)
	if _, ok := presets[p]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidPreset, name)
	}
	return p, nil
}

// Options sizes the per-part GPU resources.
type Options struct {
	MapSize     int
	Washable    bool
	DirtMapSize int
	DirtLevel   uint8
}

// DefaultOptions returns the default paint and dirt map sizes.
func DefaultOptions() Options {
	return Options{
		MapSize:     paint.DefaultMapSize,
		DirtMapSize: clean.DefaultMapSize,
		DirtLevel:   255,
	}
}

// Part is one paintable surface of a model. It owns every GPU resource
// listed here.
type Part struct {
	Name     string
	Geometry *geometry.Geometry
	Node     transform.NodeID
	Mesh     gpu.Handle

	Stroke paint.Layer
	Paint  *paint.PingPong

	Dirt        *clean.DirtMap
	DirtTexture gpu.Handle
}

func (p *Part) release(device gpu.Device) {
	if p.Paint != nil {
		p.Paint.Release(device)
		p.Paint = nil
	}
	p.Stroke.Release(device)
	if p.DirtTexture != 0 {
		device.Release(p.DirtTexture)
		p.DirtTexture = 0
	}
	if p.Mesh != 0 {
		device.Release(p.Mesh)
		p.Mesh = 0
	}
}

// Model is a set of parts under one root transform.
type Model struct {
	Preset Preset
	Parts  []*Part
	Tree   *transform.Tree
	Root   transform.NodeID

	device gpu.Device
}

// NewModel builds preset and allocates its GPU resources. On failure
// everything created so far is released.
func NewModel(device gpu.Device, preset Preset, opts Options) (*Model, error) {
	specs, ok := presets[preset]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPreset, preset)
	}

	tree := transform.NewTree()
	root, err := tree.Add(transform.NoParent, transform.Identity())
	if err != nil {
		return nil, err
	}
	m := &Model{Preset: preset, Tree: tree, Root: root, device: device}

	for _, spec := range specs {
		part, err := m.newPart(spec, opts)
		if err != nil {
			m.Release()
			return nil, fmt.Errorf("part %s: %w", spec.name, err)
		}
		m.Parts = append(m.Parts, part)
	}

	m.Tree.Update()
	return m, nil
}

func (m *Model) newPart(spec partSpec, opts Options) (*Part, error) {
	g, err := geometry.FromPreset(spec.geometry)
	if err != nil {
		return nil, err
	}
	node, err := m.Tree.Add(m.Root, spec.local)
	if err != nil {
		return nil, err
	}

	part := &Part{Name: spec.name, Geometry: g, Node: node}
	if part.Mesh, err = m.device.CreateMesh(g); err != nil {
		return nil, fmt.Errorf("create mesh: %w", err)
	}

	size := opts.MapSize
	if size <= 0 {
		size = paint.DefaultMapSize
	}
	part.Stroke, err = paint.NewLayer(m.device, gpu.TextureDesc{Width: size, Height: size, Format: gpu.FormatRGBA8})
	if err != nil {
		part.release(m.device)
		return nil, fmt.Errorf("stroke layer: %w", err)
	}
	if part.Paint, err = paint.NewPingPong(m.device, size); err != nil {
		part.release(m.device)
		return nil, fmt.Errorf("paint maps: %w", err)
	}

	if opts.Washable {
		dsize := opts.DirtMapSize
		if dsize <= 0 {
			dsize = clean.DefaultMapSize
		}
		part.Dirt = clean.NewDirtMap(dsize, dsize, opts.DirtLevel)
		part.DirtTexture, err = m.device.CreateTexture(gpu.TextureDesc{Width: dsize, Height: dsize, Format: gpu.FormatR8})
		if err != nil {
			part.release(m.device)
			return nil, fmt.Errorf("dirt texture: %w", err)
		}
		if err := part.Dirt.Upload(m.device, part.DirtTexture); err != nil {
			part.release(m.device)
			return nil, err
		}
	}
	return part, nil
}

// Release frees every part's resources.
func (m *Model) Release() {
	for _, p := range m.Parts {
		p.release(m.device)
	}
	m.Parts = nil
}

// Update refreshes world matrices and returns the ids that changed.
func (m *Model) Update() []transform.NodeID {
	return m.Tree.Update()
}

// Rotate spins the whole model around a world axis.
func (m *Model) Rotate(axis math.Vec3, angle float32) {
	if angle == 0 || axis.Length() == 0 {
		return
	}
	m.Tree.Rotate(m.Root, math.QuatFromAxisAngle(axis.Normalize(), angle))
}

// World returns the world matrix of part i.
func (m *Model) World(i int) math.Mat4 {
	return m.Tree.World(m.Parts[i].Node)
}

// Surfaces returns a picking snapshot indexed like Parts.
func (m *Model) Surfaces() []picking.Surface {
	out := make([]picking.Surface, len(m.Parts))
	for i, p := range m.Parts {
		out[i] = picking.Surface{Geometry: p.Geometry, World: m.World(i)}
	}
	return out
}

// Targets returns a draw snapshot indexed like Parts.
func (m *Model) Targets() []paint.Target {
	out := make([]paint.Target, len(m.Parts))
	for i, p := range m.Parts {
		out[i] = paint.Target{Mesh: p.Mesh, World: m.World(i)}
	}
	return out
}

// Washable reports whether the parts carry dirt maps.
func (m *Model) Washable() bool {
	return len(m.Parts) > 0 && m.Parts[0].Dirt != nil
}

// FaceNormal returns the world-space normal of a part's triangle.
func (m *Model) FaceNormal(part, triangle int) math.Vec3 {
	a, b, c := m.Parts[part].Geometry.Triangle(triangle)
	w := m.World(part)
	pa, pb, pc := w.TransformPoint(a.Position), w.TransformPoint(b.Position), w.TransformPoint(c.Position)
	n := pb.Sub(pa).Cross(pc.Sub(pa))
	if n.Length() < 1e-12 {
		return math.Vec3{}
	}
	return n.Normalize()
}
