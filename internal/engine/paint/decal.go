package paint

import (
	"fmt"

	"github.com/Faultbox/airbrush/internal/engine/brush"
	"github.com/Faultbox/airbrush/internal/engine/gpu"
)

// DecalPass accumulates the nozzle footprint into a part's stroke layer.
// The part is rasterized in texture space so every texel is visited once.
type DecalPass struct {
	device    gpu.Device
	program   gpu.Program
	depth     *DepthPass
	Tolerance float32
}

// NewDecalPass creates a decal pass reading the given depth map.
func NewDecalPass(device gpu.Device, shaders gpu.ShaderProvider, depth *DepthPass) (*DecalPass, error) {
	program, err := shaders.Program(gpu.PassDecal)
	if err != nil {
		return nil, fmt.Errorf("decal program: %w", err)
	}
	return &DecalPass{
		device:    device,
		program:   program,
		depth:     depth,
		Tolerance: DefaultDepthTolerance,
	}, nil
}

// BeginStroke clears the stroke layers. Call it once when the pointer goes
// down, not every tick, so coverage builds while the button is held.
func (p *DecalPass) BeginStroke(strokes ...Layer) error {
	for _, l := range strokes {
		if err := l.Clear(p.device, [4]float32{}); err != nil {
			return fmt.Errorf("clear stroke: %w", err)
		}
	}
	return nil
}

// Run sprays one tick of paint onto target, accumulating into stroke.
func (p *DecalPass) Run(proj brush.Projector, b brush.Brush, deltaMs float32, target Target, stroke Layer) error {
	if err := p.device.BindAsRenderTarget(stroke.Framebuffer); err != nil {
		return fmt.Errorf("bind stroke target: %w", err)
	}
	if err := p.device.SetBlend(gpu.BlendAccumulate); err != nil {
		return err
	}
	if err := p.device.BindAsSampler(p.depth.Texture, gpu.UnitDepth); err != nil {
		return fmt.Errorf("bind depth map: %w", err)
	}

	u := gpu.NewUniforms().
		SetMat4(gpu.UniformModel, target.World).
		SetMat4(gpu.UniformBrushView, proj.View).
		SetMat4(gpu.UniformBrushProjection, proj.Projection).
		SetVec3(gpu.UniformBrushPosition, proj.Position).
		SetFloat(gpu.UniformAirPressure, b.AirPressure).
		SetFloat(gpu.UniformNozzleFov, b.NozzleFov).
		SetFloat(gpu.UniformViscosity, b.Viscosity).
		SetVec3(gpu.UniformPaintColor, b.PaintColor).
		SetFloat(gpu.UniformDeltaMs, deltaMs).
		SetFloat(gpu.UniformBaseRate, b.BaseRate).
		SetFloat(gpu.UniformDepthTolerance, p.Tolerance).
		SetInt(gpu.SamplerDepth, gpu.UnitDepth)

	if err := p.device.Draw(p.program, target.Mesh, u); err != nil {
		return fmt.Errorf("decal draw: %w", err)
	}
	if err := p.device.SetBlend(gpu.BlendNone); err != nil {
		return fmt.Errorf("reset blend: %w", err)
	}
	return nil
}

// BrushFromUniforms rebuilds the brush a decal draw was issued with.
func BrushFromUniforms(u *gpu.Uniforms) brush.Brush {
	return brush.Brush{
		AirPressure: u.Float(gpu.UniformAirPressure),
		NozzleFov:   u.Float(gpu.UniformNozzleFov),
		PaintColor:  u.Vec3(gpu.UniformPaintColor),
		Viscosity:   u.Float(gpu.UniformViscosity),
		BaseRate:    u.Float(gpu.UniformBaseRate),
	}
}
