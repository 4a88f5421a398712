// Package scene owns the paintable model and draws it to the display.
package scene

import (
	"fmt"

	"github.com/Faultbox/airbrush/internal/engine/camera"
	"github.com/Faultbox/airbrush/internal/engine/gpu"
	"github.com/Faultbox/airbrush/internal/engine/lighting"
	"github.com/Faultbox/airbrush/pkg/math"
)

// Background is the display clear color.
var Background = math.Vec4{0.2, 0.2, 0.25, 1}

// Renderer draws a model lit, dirtied and painted onto the display.
type Renderer struct {
	device  gpu.Device
	program gpu.Program
	Lights  lighting.Rig
}

// NewRenderer fetches the display program.
func NewRenderer(device gpu.Device, shaders gpu.ShaderProvider) (*Renderer, error) {
	program, err := shaders.Program(gpu.PassDisplay)
	if err != nil {
		return nil, fmt.Errorf("display program: %w", err)
	}
	return &Renderer{device: device, program: program, Lights: lighting.DefaultRig()}, nil
}

// Render draws every part of m as seen by cam into a width x height display.
func (r *Renderer) Render(m *Model, cam *camera.OrbitCamera, width, height int) error {
	if err := r.device.BindAsRenderTarget(gpu.Display); err != nil {
		return err
	}
	if err := r.device.Clear(gpu.ClearOptions{
		Color: true, ColorValue: Background,
		Depth: true, DepthValue: 1,
	}); err != nil {
		return err
	}
	if err := r.device.SetBlend(gpu.BlendNone); err != nil {
		return err
	}

	aspect := float32(1)
	if height > 0 {
		aspect = float32(width) / float32(height)
	}

	hasDirt := int32(0)
	if m.Washable() {
		hasDirt = 1
	}

	u := r.Lights.Apply(gpu.NewUniforms()).
		SetMat4(gpu.UniformView, cam.ViewMatrix()).
		SetMat4(gpu.UniformProjection, cam.ProjectionMatrix(aspect)).
		SetVec3(gpu.UniformEye, cam.Position()).
		SetInt(gpu.UniformHasDirt, hasDirt).
		SetInt(gpu.SamplerPaint, gpu.UnitPaint).
		SetInt(gpu.SamplerDirt, gpu.UnitDirt)

	for i, part := range m.Parts {
		if err := r.device.BindAsSampler(part.Paint.Current().Texture, gpu.UnitPaint); err != nil {
			return fmt.Errorf("bind paint map %s: %w", part.Name, err)
		}
		if part.DirtTexture != 0 {
			if err := r.device.BindAsSampler(part.DirtTexture, gpu.UnitDirt); err != nil {
				return fmt.Errorf("bind dirt map %s: %w", part.Name, err)
			}
		}
		u.SetMat4(gpu.UniformModel, m.World(i))
		if err := r.device.Draw(r.program, part.Mesh, u); err != nil {
			return fmt.Errorf("draw %s: %w", part.Name, err)
		}
	}
	return nil
}
