// Package clean erodes per-part dirt maps where the cleaner hits.
package clean

import (
	"errors"
	"fmt"

	"github.com/Faultbox/airbrush/internal/engine/gpu"
	"github.com/Faultbox/airbrush/internal/engine/picking"
	"github.com/Faultbox/airbrush/pkg/math"
)

// ErrInvalidRadius is returned for a negative hit radius.
var ErrInvalidRadius = errors.New("invalid clean radius")

const (
	// DefaultHitRadius is the mark radius in texture space.
	DefaultHitRadius = 0.05
	// DefaultStep is how much dirt one mark removes per texel.
	DefaultStep = 4
	// DefaultMapSize is the side of each dirt map.
	DefaultMapSize = 200
)

// DirtMap is a CPU-side R8 bitmap. Row 0 is v = 0.
type DirtMap struct {
	Width       int
	Height      int
	Levels      []uint8
	NeedsUpload bool
}

// NewDirtMap creates a map filled with level. It starts out needing upload.
func NewDirtMap(width, height int, level uint8) *DirtMap {
	levels := make([]uint8, width*height)
	for i := range levels {
		levels[i] = level
	}
	return &DirtMap{Width: width, Height: height, Levels: levels, NeedsUpload: true}
}

// At returns the level of texel (x, y).
func (m *DirtMap) At(x, y int) uint8 {
	return m.Levels[y*m.Width+x]
}

// Fill sets every texel to level and flags the map for upload.
func (m *DirtMap) Fill(level uint8) {
	for i := range m.Levels {
		m.Levels[i] = level
	}
	m.NeedsUpload = true
}

// Coverage returns the mean dirt level in [0, 1].
func (m *DirtMap) Coverage() float32 {
	if len(m.Levels) == 0 {
		return 0
	}
	var sum int
	for _, l := range m.Levels {
		sum += int(l)
	}
	return float32(sum) / float32(len(m.Levels)*255)
}

// Upload pushes the levels into texture if they changed.
func (m *DirtMap) Upload(device gpu.Device, texture gpu.Handle) error {
	if !m.NeedsUpload {
		return nil
	}
	if err := device.Upload(texture, m.Levels); err != nil {
		return fmt.Errorf("upload dirt map: %w", err)
	}
	m.NeedsUpload = false
	return nil
}

// Mark is a pending clean at uv with the given radius.
type Mark struct {
	UV     math.Vec2
	Radius float32
}

// Marks collects pending marks for one part.
type Marks []Mark

// Cleaner turns ray hits into marks.
type Cleaner struct {
	HitRadius float32
	Step      uint8
}

// NewCleaner validates the radius and returns a cleaner.
func NewCleaner(radius float32, step uint8) (*Cleaner, error) {
	if radius < 0 {
		return nil, fmt.Errorf("%w: %g", ErrInvalidRadius, radius)
	}
	if step == 0 {
		step = DefaultStep
	}
	return &Cleaner{HitRadius: radius, Step: step}, nil
}

// MarkToClean appends a mark for hit to the hit part's list.
func (c *Cleaner) MarkToClean(hit picking.Hit, marks []Marks) {
	if hit.Part < 0 || hit.Part >= len(marks) {
		return
	}
	marks[hit.Part] = append(marks[hit.Part], Mark{UV: hit.UV, Radius: c.HitRadius})
}

// Clean applies and clears the marks. Texels strictly inside a mark's
// radius lose Step levels, floored at zero. An empty list leaves the map
// untouched.
func (c *Cleaner) Clean(marks *Marks, dirt *DirtMap) {
	if len(*marks) == 0 {
		return
	}

	w, h := float32(dirt.Width), float32(dirt.Height)
	for _, mark := range *marks {
		r2 := mark.Radius * mark.Radius
		for y := 0; y < dirt.Height; y++ {
			dy := float32(y)/h - mark.UV.Y
			for x := 0; x < dirt.Width; x++ {
				dx := float32(x)/w - mark.UV.X
				if dx*dx+dy*dy >= r2 {
					continue
				}
				i := y*dirt.Width + x
				if dirt.Levels[i] > c.Step {
					dirt.Levels[i] -= c.Step
				} else {
					dirt.Levels[i] = 0
				}
			}
		}
	}

	dirt.NeedsUpload = true
	*marks = (*marks)[:0]
}
