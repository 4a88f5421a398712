package paint

import (
	"fmt"

	"github.com/Faultbox/airbrush/internal/engine/brush"
	"github.com/Faultbox/airbrush/internal/engine/gpu"
	"github.com/Faultbox/airbrush/pkg/math"
)

// DefaultDepthResolution is the side of the square nozzle depth map.
const DefaultDepthResolution = 1024

// Target is one drawable part: its uploaded mesh and world matrix.
type Target struct {
	Mesh  gpu.Handle
	World math.Mat4
}

// DepthPass renders the nearest surface depth as seen from the nozzle.
type DepthPass struct {
	device  gpu.Device
	program gpu.Program

	Texture     gpu.Handle
	Framebuffer gpu.Handle
	Resolution  int
}

// NewDepthPass allocates the depth map and its depth-only framebuffer.
func NewDepthPass(device gpu.Device, shaders gpu.ShaderProvider, resolution int) (*DepthPass, error) {
	if resolution <= 0 {
		resolution = DefaultDepthResolution
	}

	program, err := shaders.Program(gpu.PassDepth)
	if err != nil {
		return nil, fmt.Errorf("depth program: %w", err)
	}

	tex, err := device.CreateTexture(gpu.TextureDesc{Width: resolution, Height: resolution, Format: gpu.FormatDepth16})
	if err != nil {
		return nil, fmt.Errorf("create depth texture: %w", err)
	}
	fb, err := device.CreateFramebuffer(0, tex)
	if err != nil {
		device.Release(tex)
		return nil, fmt.Errorf("create depth framebuffer: %w", err)
	}

	return &DepthPass{
		device:      device,
		program:     program,
		Texture:     tex,
		Framebuffer: fb,
		Resolution:  resolution,
	}, nil
}

// Run clears the depth map to far and draws every target from the
// projector.
func (p *DepthPass) Run(proj brush.Projector, targets []Target) error {
	if err := p.device.BindAsRenderTarget(p.Framebuffer); err != nil {
		return fmt.Errorf("bind depth target: %w", err)
	}
	if err := p.device.Clear(gpu.ClearDepth()); err != nil {
		return fmt.Errorf("clear depth: %w", err)
	}
	if err := p.device.SetBlend(gpu.BlendNone); err != nil {
		return err
	}

	u := gpu.NewUniforms().
		SetMat4(gpu.UniformView, proj.View).
		SetMat4(gpu.UniformProjection, proj.Projection)
	for i, t := range targets {
		u.SetMat4(gpu.UniformModel, t.World)
		if err := p.device.Draw(p.program, t.Mesh, u); err != nil {
			return fmt.Errorf("depth draw part %d: %w", i, err)
		}
	}
	return nil
}

// Release frees the depth map.
func (p *DepthPass) Release() {
	p.device.Release(p.Framebuffer)
	p.device.Release(p.Texture)
	p.Framebuffer, p.Texture = 0, 0
}
