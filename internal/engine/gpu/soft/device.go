// Package soft is a CPU implementation of the gpu contracts. It renders
// deterministically and is used by tests and by the headless binary.
package soft

import (
	"fmt"

	"github.com/Faultbox/airbrush/internal/engine/geometry"
	"github.com/Faultbox/airbrush/internal/engine/gpu"
	"github.com/Faultbox/airbrush/pkg/math"
)

type texture struct {
	desc gpu.TextureDesc
	info gpu.FormatInfo
	data []float32 // Channels floats per texel, bottom row first
}

func (t *texture) index(x, y int) int {
	return (y*t.desc.Width + x) * t.info.Channels
}

func (t *texture) store(x, y int, v [4]float32) {
	i := t.index(x, y)
	for c := 0; c < t.info.Channels; c++ {
		t.data[i+c] = t.quantize(v[c])
	}
}

func (t *texture) load(x, y int) [4]float32 {
	var v [4]float32
	i := t.index(x, y)
	for c := 0; c < t.info.Channels; c++ {
		v[c] = t.data[i+c]
	}
	if t.info.Channels == 1 {
		v[3] = 1
	}
	return v
}

// quantize emulates normalized storage for fixed-point formats.
func (t *texture) quantize(v float32) float32 {
	if t.desc.Format == gpu.FormatRGBA16F {
		return v
	}
	v = math.Clamp(v, 0, 1)
	if t.desc.Format == gpu.FormatDepth16 {
		return v
	}
	return float32(int(v*255+0.5)) / 255
}

// sample reads the nearest texel with clamp-to-edge addressing.
func (t *texture) sample(uv math.Vec2) [4]float32 {
	x := int(uv.X * float32(t.desc.Width))
	y := int(uv.Y * float32(t.desc.Height))
	x = clampInt(x, 0, t.desc.Width-1)
	y = clampInt(y, 0, t.desc.Height-1)
	return t.load(x, y)
}

type framebuffer struct {
	color, depth  *texture
	width, height int
}

// Device is the software gpu.Device.
type Device struct {
	// FailFramebuffers makes every CreateFramebuffer call fail as incomplete.
	FailFramebuffers bool

	next         gpu.Handle
	textures     map[gpu.Handle]*texture
	framebuffers map[gpu.Handle]*framebuffer
	meshes       map[gpu.Handle]*geometry.Geometry

	display *framebuffer
	target  *framebuffer
	units   map[int]*texture
	blend   gpu.BlendState

	// Draws counts Draw calls since creation.
	Draws int
}

// NewDevice creates a device whose display is width x height.
func NewDevice(width, height int) *Device {
	d := &Device{
		textures:     make(map[gpu.Handle]*texture),
		framebuffers: make(map[gpu.Handle]*framebuffer),
		meshes:       make(map[gpu.Handle]*geometry.Geometry),
		units:        make(map[int]*texture),
	}
	if width <= 0 || height <= 0 {
		width, height = 1, 1
	}
	d.display = &framebuffer{
		color:  newTexture(gpu.TextureDesc{Width: width, Height: height, Format: gpu.FormatRGBA8}),
		depth:  newTexture(gpu.TextureDesc{Width: width, Height: height, Format: gpu.FormatDepth16}),
		width:  width,
		height: height,
	}
	d.target = d.display
	return d
}

func newTexture(desc gpu.TextureDesc) *texture {
	info, _ := desc.Format.Info()
	return &texture{
		desc: desc,
		info: info,
		data: make([]float32, desc.Width*desc.Height*info.Channels),
	}
}

func (d *Device) handle() gpu.Handle {
	d.next++
	return d.next
}

// CreateTexture allocates a zeroed texture.
func (d *Device) CreateTexture(desc gpu.TextureDesc) (gpu.Handle, error) {
	if err := desc.Validate(); err != nil {
		return 0, err
	}
	h := d.handle()
	d.textures[h] = newTexture(desc)
	return h, nil
}

// CreateFramebuffer checks that the attachments have matching sizes and
// suitable formats.
func (d *Device) CreateFramebuffer(color, depth gpu.Handle) (gpu.Handle, error) {
	if d.FailFramebuffers {
		return 0, fmt.Errorf("%w: forced failure", gpu.ErrIncompleteFramebuffer)
	}

	fb := &framebuffer{}
	if color != 0 {
		t, ok := d.textures[color]
		if !ok || t.info.Depth {
			return 0, fmt.Errorf("%w: bad color attachment %d", gpu.ErrIncompleteFramebuffer, color)
		}
		fb.color = t
		fb.width, fb.height = t.desc.Width, t.desc.Height
	}
	if depth != 0 {
		t, ok := d.textures[depth]
		if !ok || !t.info.Depth {
			return 0, fmt.Errorf("%w: bad depth attachment %d", gpu.ErrIncompleteFramebuffer, depth)
		}
		if fb.color != nil && (t.desc.Width != fb.width || t.desc.Height != fb.height) {
			return 0, fmt.Errorf("%w: attachment sizes differ", gpu.ErrIncompleteFramebuffer)
		}
		fb.depth = t
		fb.width, fb.height = t.desc.Width, t.desc.Height
	}
	if fb.color == nil && fb.depth == nil {
		return 0, fmt.Errorf("%w: no attachments", gpu.ErrIncompleteFramebuffer)
	}

	h := d.handle()
	d.framebuffers[h] = fb
	return h, nil
}

// CreateMesh stores a private copy of g.
func (d *Device) CreateMesh(g *geometry.Geometry) (gpu.Handle, error) {
	if g == nil || len(g.Indices)%3 != 0 {
		return 0, fmt.Errorf("invalid mesh")
	}
	cp := &geometry.Geometry{
		Vertices: append([]geometry.Vertex(nil), g.Vertices...),
		Indices:  append([]uint32(nil), g.Indices...),
	}
	h := d.handle()
	d.meshes[h] = cp
	return h, nil
}

// Upload replaces 8-bit texture contents, one byte per channel.
func (d *Device) Upload(h gpu.Handle, data []byte) error {
	t, ok := d.textures[h]
	if !ok {
		return fmt.Errorf("%w: texture %d", gpu.ErrUnknownHandle, h)
	}
	if t.desc.Format != gpu.FormatR8 && t.desc.Format != gpu.FormatRGBA8 {
		return fmt.Errorf("upload to %s texture not supported", t.desc.Format)
	}
	if len(data) != len(t.data) {
		return fmt.Errorf("upload size %d, want %d", len(data), len(t.data))
	}
	for i, b := range data {
		t.data[i] = float32(b) / 255
	}
	return nil
}

// BindAsRenderTarget selects the framebuffer later draws and clears use.
func (d *Device) BindAsRenderTarget(h gpu.Handle) error {
	if h == gpu.Display {
		d.target = d.display
		return nil
	}
	fb, ok := d.framebuffers[h]
	if !ok {
		return fmt.Errorf("%w: framebuffer %d", gpu.ErrUnknownHandle, h)
	}
	d.target = fb
	return nil
}

// BindAsSampler attaches a texture to a sampler unit.
func (d *Device) BindAsSampler(h gpu.Handle, unit int) error {
	t, ok := d.textures[h]
	if !ok {
		return fmt.Errorf("%w: texture %d", gpu.ErrUnknownHandle, h)
	}
	d.units[unit] = t
	return nil
}

// Clear fills the selected attachments of the bound target.
func (d *Device) Clear(opts gpu.ClearOptions) error {
	fb := d.target
	if opts.Color && fb.color != nil {
		v := [4]float32(opts.ColorValue)
		for y := 0; y < fb.height; y++ {
			for x := 0; x < fb.width; x++ {
				fb.color.store(x, y, v)
			}
		}
	}
	if opts.Depth && fb.depth != nil {
		for i := range fb.depth.data {
			fb.depth.data[i] = opts.DepthValue
		}
	}
	return nil
}

// SetBlend selects the blend state for later draws.
func (d *Device) SetBlend(mode gpu.BlendMode) error {
	s, err := mode.State()
	if err != nil {
		return err
	}
	d.blend = s
	return nil
}

// Blend returns the blend state later draws will use.
func (d *Device) Blend() gpu.BlendState {
	return d.blend
}

// ReadPixels copies a texture's contents.
func (d *Device) ReadPixels(h gpu.Handle) ([]float32, error) {
	t, ok := d.textures[h]
	if !ok {
		return nil, fmt.Errorf("%w: texture %d", gpu.ErrUnknownHandle, h)
	}
	return append([]float32(nil), t.data...), nil
}

// ReadDisplay copies the display color buffer as RGBA floats.
func (d *Device) ReadDisplay() (pixels []float32, width, height int) {
	return append([]float32(nil), d.display.color.data...), d.display.width, d.display.height
}

// TextureDesc returns the description of a live texture.
func (d *Device) TextureDesc(h gpu.Handle) (gpu.TextureDesc, bool) {
	t, ok := d.textures[h]
	if !ok {
		return gpu.TextureDesc{}, false
	}
	return t.desc, true
}

// Release frees any resource kind. Unknown handles are ignored.
func (d *Device) Release(h gpu.Handle) {
	if t, ok := d.textures[h]; ok {
		for unit, bound := range d.units {
			if bound == t {
				delete(d.units, unit)
			}
		}
	}
	if fb, ok := d.framebuffers[h]; ok && d.target == fb {
		d.target = d.display
	}
	delete(d.textures, h)
	delete(d.framebuffers, h)
	delete(d.meshes, h)
}

// Live returns the number of resources not yet released.
func (d *Device) Live() int {
	return len(d.textures) + len(d.framebuffers) + len(d.meshes)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
