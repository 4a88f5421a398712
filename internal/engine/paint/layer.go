package paint

import (
	"fmt"

	"github.com/Faultbox/airbrush/internal/engine/gpu"
)

// Layer is a color texture together with the framebuffer that renders
// into it.
type Layer struct {
	Texture     gpu.Handle
	Framebuffer gpu.Handle
	Desc        gpu.TextureDesc
}

// NewLayer creates a renderable color texture.
func NewLayer(device gpu.Device, desc gpu.TextureDesc) (Layer, error) {
	tex, err := device.CreateTexture(desc)
	if err != nil {
		return Layer{}, fmt.Errorf("create %s texture: %w", desc.Format, err)
	}
	fb, err := device.CreateFramebuffer(tex, 0)
	if err != nil {
		device.Release(tex)
		return Layer{}, fmt.Errorf("create %s framebuffer: %w", desc.Format, err)
	}
	return Layer{Texture: tex, Framebuffer: fb, Desc: desc}, nil
}

// Clear fills the layer with v.
func (l Layer) Clear(device gpu.Device, v [4]float32) error {
	if err := device.BindAsRenderTarget(l.Framebuffer); err != nil {
		return err
	}
	return device.Clear(gpu.ClearColor(v))
}

// Release frees the framebuffer and texture.
func (l *Layer) Release(device gpu.Device) {
	if l.Framebuffer != 0 {
		device.Release(l.Framebuffer)
	}
	if l.Texture != 0 {
		device.Release(l.Texture)
	}
	*l = Layer{}
}
