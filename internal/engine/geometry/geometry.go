// Package geometry holds static per-part mesh data used both for ray
// intersection on the CPU and for GPU upload.
package geometry

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/airbrush/pkg/math"
)

// ErrInvalidPreset is returned for a preset that has no builder.
var ErrInvalidPreset = errors.New("invalid geometry preset")

// Vertex is the interleaved vertex layout shared with the GPU:
// position (3 floats), normal (3 floats), texture coordinate (2 floats).
type Vertex struct {
	Position math.Vec3
	Normal   math.Vec3
	UV       math.Vec2
}

// VertexStride is the size of one Vertex in bytes.
const VertexStride = 8 * 4

// Geometry is an indexed triangle list.
type Geometry struct {
	Vertices []Vertex
	Indices  []uint32
}

// TriangleCount returns the number of triangles.
func (g *Geometry) TriangleCount() int {
	return len(g.Indices) / 3
}

// Triangle returns the vertices of triangle i.
func (g *Geometry) Triangle(i int) (Vertex, Vertex, Vertex) {
	return g.Vertices[g.Indices[i*3]], g.Vertices[g.Indices[i*3+1]], g.Vertices[g.Indices[i*3+2]]
}

// Bounds returns the local-space axis-aligned bounds.
func (g *Geometry) Bounds() (minP, maxP math.Vec3) {
	if len(g.Vertices) == 0 {
		return math.Vec3{}, math.Vec3{}
	}
	minP, maxP = g.Vertices[0].Position, g.Vertices[0].Position
	for _, v := range g.Vertices[1:] {
		minP = minP.Min(v.Position)
		maxP = maxP.Max(v.Position)
	}
	return minP, maxP
}

// Preset names a built-in geometry.
type Preset int

const (
	PresetPlane Preset = iota
	PresetQuad
	PresetSphere
)

var presets = map[Preset]func() *Geometry{
	PresetPlane:  func() *Geometry { return NewPlane(0.5, 0.5, 1, 1) },
	PresetQuad:   func() *Geometry { return NewPlane(1, 1, 1, 1) },
	PresetSphere: func() *Geometry { return NewSphere(0.5, 64, 32) },
}

// FromPreset builds the geometry for a preset.
func FromPreset(p Preset) (*Geometry, error) {
	build, ok := presets[p]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPreset, p)
	}
	return build(), nil
}

// NewPlane builds a plane on the XY axes facing +Z, subdivided into
// segX by segY quads. UV (0,0) sits at (-halfW, -halfH).
func NewPlane(halfW, halfH float32, segX, segY int) *Geometry {
	if segX < 1 {
		segX = 1
	}
	if segY < 1 {
		segY = 1
	}

	normal := math.Vec3{Z: 1}
	g := &Geometry{
		Vertices: make([]Vertex, 0, (segX+1)*(segY+1)),
		Indices:  make([]uint32, 0, segX*segY*6),
	}

	for j := 0; j <= segY; j++ {
		for i := 0; i <= segX; i++ {
			u := float32(i) / float32(segX)
			v := float32(j) / float32(segY)
			g.Vertices = append(g.Vertices, Vertex{
				Position: math.Vec3{X: halfW * 2 * (u - 0.5), Y: halfH * 2 * (v - 0.5)},
				Normal:   normal,
				UV:       math.Vec2{X: u, Y: v},
			})
		}
	}

	row := uint32(segX + 1)
	for j := 0; j < segY; j++ {
		for i := 0; i < segX; i++ {
			lb := uint32(j)*row + uint32(i)
			rb := lb + 1
			lt := lb + row
			rt := lt + 1
			g.Indices = append(g.Indices, lb, rb, lt, rb, rt, lt)
		}
	}
	return g
}

// NewSphere builds a UV sphere centred on the origin.
func NewSphere(radius float32, widthSegments, heightSegments int) *Geometry {
	if widthSegments < 3 {
		widthSegments = 3
	}
	if heightSegments < 2 {
		heightSegments = 2
	}

	g := &Geometry{}
	polarStep := math32.Pi / float32(heightSegments)
	azimuthStep := 2 * math32.Pi / float32(widthSegments)

	for j := 0; j <= heightSegments; j++ {
		polar := polarStep*float32(j) + math32.Pi/2
		for i := 0; i <= widthSegments; i++ {
			azimuth := azimuthStep * float32(i)
			p := math.Vec3{
				X: radius * math32.Cos(polar) * math32.Cos(azimuth),
				Y: radius * math32.Sin(polar),
				Z: radius * math32.Cos(polar) * math32.Sin(azimuth),
			}
			g.Vertices = append(g.Vertices, Vertex{
				Position: p,
				Normal:   p.Normalize(),
				UV:       math.Vec2{X: float32(i) / float32(widthSegments), Y: float32(j) / float32(heightSegments)},
			})
		}
	}

	row := uint32(widthSegments + 1)
	for j := 0; j < heightSegments; j++ {
		for i := 0; i < widthSegments; i++ {
			tl := uint32(j)*row + uint32(i)
			tr := tl + 1
			bl := tl + row
			br := bl + 1
			switch j {
			case 0:
				g.Indices = append(g.Indices, tl, br, bl)
			case heightSegments - 1:
				g.Indices = append(g.Indices, bl, tl, tr)
			default:
				g.Indices = append(g.Indices, tl, tr, bl, bl, tr, br)
			}
		}
	}
	return g
}

// Floats flattens the vertices into the interleaved layout used for upload.
func (g *Geometry) Floats() []float32 {
	out := make([]float32, 0, len(g.Vertices)*8)
	for _, v := range g.Vertices {
		out = append(out,
			v.Position.X, v.Position.Y, v.Position.Z,
			v.Normal.X, v.Normal.Y, v.Normal.Z,
			v.UV.X, v.UV.Y,
		)
	}
	return out
}
