package paint

import (
	"fmt"

	"github.com/Faultbox/airbrush/internal/engine/geometry"
	"github.com/Faultbox/airbrush/internal/engine/gpu"
)

// DefaultMapSize is the side of each paint map.
const DefaultMapSize = 400

// PingPong is a pair of paint maps. One is the current (readable) result,
// the other the previous one that the next composite reads from.
type PingPong struct {
	ping, pong    Layer
	currentIsPing bool
}

// NewPingPong allocates both RGBA16F maps of the given size.
func NewPingPong(device gpu.Device, size int) (*PingPong, error) {
	if size <= 0 {
		size = DefaultMapSize
	}
	desc := gpu.TextureDesc{Width: size, Height: size, Format: gpu.FormatRGBA16F}

	ping, err := NewLayer(device, desc)
	if err != nil {
		return nil, fmt.Errorf("ping: %w", err)
	}
	pong, err := NewLayer(device, desc)
	if err != nil {
		ping.Release(device)
		return nil, fmt.Errorf("pong: %w", err)
	}
	pp := &PingPong{ping: ping, pong: pong, currentIsPing: true}

	for _, l := range []Layer{ping, pong} {
		if err := l.Clear(device, [4]float32{}); err != nil {
			pp.Release(device)
			return nil, err
		}
	}
	return pp, nil
}

// Current returns the map holding the latest result.
func (pp *PingPong) Current() Layer {
	if pp.currentIsPing {
		return pp.ping
	}
	return pp.pong
}

// Previous returns the other map.
func (pp *PingPong) Previous() Layer {
	if pp.currentIsPing {
		return pp.pong
	}
	return pp.ping
}

// Swap exchanges the current and previous tags.
func (pp *PingPong) Swap() {
	pp.currentIsPing = !pp.currentIsPing
}

// Release frees both maps.
func (pp *PingPong) Release(device gpu.Device) {
	pp.ping.Release(device)
	pp.pong.Release(device)
}

// Compositor folds a stroke layer into a ping-pong pair with Over.
type Compositor struct {
	device  gpu.Device
	program gpu.Program
	quad    gpu.Handle
}

// NewCompositor uploads the full-screen quad and fetches the blend program.
func NewCompositor(device gpu.Device, shaders gpu.ShaderProvider) (*Compositor, error) {
	program, err := shaders.Program(gpu.PassBlend)
	if err != nil {
		return nil, fmt.Errorf("blend program: %w", err)
	}
	g, err := geometry.FromPreset(geometry.PresetQuad)
	if err != nil {
		return nil, err
	}
	quad, err := device.CreateMesh(g)
	if err != nil {
		return nil, fmt.Errorf("create quad: %w", err)
	}
	return &Compositor{device: device, program: program, quad: quad}, nil
}

// Composite swaps the pair, then renders Over(previous, stroke) into the
// new current map.
func (c *Compositor) Composite(pp *PingPong, stroke Layer) error {
	pp.Swap()

	if err := c.device.BindAsRenderTarget(pp.Current().Framebuffer); err != nil {
		return fmt.Errorf("bind paint target: %w", err)
	}
	if err := c.device.SetBlend(gpu.BlendNone); err != nil {
		return err
	}
	if err := c.device.BindAsSampler(pp.Previous().Texture, gpu.UnitPrevious); err != nil {
		return err
	}
	if err := c.device.BindAsSampler(stroke.Texture, gpu.UnitStroke); err != nil {
		return err
	}

	u := gpu.NewUniforms().
		SetInt(gpu.SamplerPrevious, gpu.UnitPrevious).
		SetInt(gpu.SamplerStroke, gpu.UnitStroke)
	if err := c.device.Draw(c.program, c.quad, u); err != nil {
		return fmt.Errorf("composite draw: %w", err)
	}
	return nil
}

// Reset clears the current paint map to transparent.
func (c *Compositor) Reset(pp *PingPong) error {
	return pp.Current().Clear(c.device, [4]float32{})
}

// Release frees the quad.
func (c *Compositor) Release() {
	c.device.Release(c.quad)
	c.quad = 0
}
