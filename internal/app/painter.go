// Package app runs one painting or cleaning tick over a model: camera and
// model controls, targeting, the paint passes and the display.
package app

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/airbrush/internal/config"
	"github.com/Faultbox/airbrush/internal/engine/brush"
	"github.com/Faultbox/airbrush/internal/engine/camera"
	"github.com/Faultbox/airbrush/internal/engine/clean"
	"github.com/Faultbox/airbrush/internal/engine/gpu"
	"github.com/Faultbox/airbrush/internal/engine/input"
	"github.com/Faultbox/airbrush/internal/engine/paint"
	"github.com/Faultbox/airbrush/internal/engine/picking"
	"github.com/Faultbox/airbrush/internal/engine/scene"
	"github.com/Faultbox/airbrush/internal/logger"
	"github.com/Faultbox/airbrush/pkg/math"
)

// RotationSpeed is how fast held arrow keys spin the model, in radians per
// millisecond.
const RotationSpeed = math32.Pi / 1000

// ErrInvalidMode is returned for an unknown tool mode.
var ErrInvalidMode = errors.New("invalid mode")

// Mode selects what the pointer does.
type Mode int

const (
	ModePaint Mode = iota
	ModeClean
)

var modeNames = map[Mode]string{
	ModePaint: config.ModePaint,
	ModeClean: config.ModeClean,
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mode(%d)", m)
}

// ParseMode resolves a mode name.
func ParseMode(name string) (Mode, error) {
	for m, n := range modeNames {
		if n == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidMode, name)
}

// Options configures a Painter.
type Options struct {
	Preset          scene.Preset
	Mode            Mode
	Brush           brush.Brush
	Camera          CameraOptions
	Scene           scene.Options
	DepthResolution int
	DepthTolerance  float32
	HitRadius       float32
	Step            uint8
	Display         bool // render the lit model each tick
}

// CameraOptions is the initial orbit.
type CameraOptions struct {
	Radius float32
	Phi    float32 // radians
	Theta  float32 // radians
	Fovy   float32 // radians
}

// DefaultOptions paints the cube with the default brush and camera.
func DefaultOptions() Options {
	cam := camera.NewOrbitCamera()
	return Options{
		Preset:          scene.PresetCube,
		Mode:            ModePaint,
		Brush:           brush.Default(),
		Camera:          CameraOptions{Radius: cam.Radius, Phi: cam.Phi, Theta: cam.Theta, Fovy: cam.Fovy},
		Scene:           scene.DefaultOptions(),
		DepthResolution: paint.DefaultDepthResolution,
		DepthTolerance:  paint.DefaultDepthTolerance,
		HitRadius:       clean.DefaultHitRadius,
		Step:            clean.DefaultStep,
		Display:         true,
	}
}

// OptionsFromConfig converts a loaded configuration.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	preset, err := scene.ParsePreset(cfg.Scene.Model)
	if err != nil {
		return Options{}, err
	}
	mode, err := ParseMode(cfg.Scene.Mode)
	if err != nil {
		return Options{}, err
	}
	return Options{
		Preset: preset,
		Mode:   mode,
		Brush:  cfg.BrushParams(),
		Camera: CameraOptions{
			Radius: cfg.Camera.Radius,
			Phi:    math.Radians(cfg.Camera.PhiDegrees),
			Theta:  math.Radians(cfg.Camera.ThetaDegrees),
			Fovy:   math.Radians(cfg.Camera.FovyDegrees),
		},
		Scene:           cfg.SceneOptions(),
		DepthResolution: cfg.Paint.DepthResolution,
		DepthTolerance:  cfg.Paint.DepthTolerance,
		HitRadius:       cfg.Clean.HitRadius,
		Step:            cfg.Clean.Step,
		Display:         true,
	}, nil
}

// TickResult reports what one tick did. Misses and empty strokes are
// results, not errors.
type TickResult struct {
	Hit       bool
	Target    picking.Hit
	Painted   bool // decals and composite ran
	Cleaned   bool // marks were applied to a dirt map
	NewStroke bool
	Changed   int // transform nodes recomputed
	Reloaded  bool
	Rendered  bool
}

// Painter owns the whole pipeline for one model.
type Painter struct {
	device  gpu.Device
	shaders gpu.ShaderProvider
	opts    Options

	Camera *camera.OrbitCamera
	Brush  brush.Brush
	Model  *scene.Model
	Mode   Mode

	depth      *paint.DepthPass
	decal      *paint.DecalPass
	compositor *paint.Compositor
	renderer   *scene.Renderer
	cleaner    *clean.Cleaner
	marks      []clean.Marks

	pointerWasDown bool
	log            *zap.Logger
}

// New builds every pass and loads the initial model. Any failure releases
// what was already created.
func New(device gpu.Device, shaders gpu.ShaderProvider, opts Options) (p *Painter, err error) {
	if err := opts.Brush.Validate(); err != nil {
		return nil, err
	}
	cleaner, err := clean.NewCleaner(opts.HitRadius, opts.Step)
	if err != nil {
		return nil, err
	}

	cam := camera.NewOrbitCamera()
	if opts.Camera.Radius > 0 {
		cam.Radius, cam.Phi, cam.Theta, cam.Fovy = opts.Camera.Radius, opts.Camera.Phi, opts.Camera.Theta, opts.Camera.Fovy
		cam.Invalidate()
	}

	p = &Painter{
		device:  device,
		shaders: shaders,
		opts:    opts,
		Camera:  cam,
		Brush:   opts.Brush,
		Mode:    opts.Mode,
		cleaner: cleaner,
		log:     logger.Named("painter"),
	}
	defer func() {
		if err != nil {
			p.Release()
			p = nil
		}
	}()

	if p.depth, err = paint.NewDepthPass(device, shaders, opts.DepthResolution); err != nil {
		return nil, err
	}
	if p.decal, err = paint.NewDecalPass(device, shaders, p.depth); err != nil {
		return nil, err
	}
	if opts.DepthTolerance > 0 {
		p.decal.Tolerance = opts.DepthTolerance
	}
	if p.compositor, err = paint.NewCompositor(device, shaders); err != nil {
		return nil, err
	}
	if p.renderer, err = scene.NewRenderer(device, shaders); err != nil {
		return nil, err
	}
	if err = p.load(opts.Preset); err != nil {
		return nil, err
	}
	return p, nil
}

// load replaces the model. The old model is released only after the new
// one exists.
func (p *Painter) load(preset scene.Preset) error {
	opts := p.opts.Scene
	opts.Washable = p.Mode == ModeClean

	m, err := scene.NewModel(p.device, preset, opts)
	if err != nil {
		return fmt.Errorf("load %s: %w", preset, err)
	}
	if p.Model != nil {
		p.Model.Release()
	}
	p.Model = m
	p.opts.Preset = preset
	p.marks = make([]clean.Marks, len(m.Parts))
	p.pointerWasDown = false

	p.log.Info("model loaded",
		zap.String("preset", string(preset)),
		zap.Int("parts", len(m.Parts)),
		zap.Stringer("mode", p.Mode))
	return nil
}

// Release frees the model and every pass.
func (p *Painter) Release() {
	if p.Model != nil {
		p.Model.Release()
		p.Model = nil
	}
	if p.compositor != nil {
		p.compositor.Release()
		p.compositor = nil
	}
	if p.depth != nil {
		p.depth.Release()
		p.depth = nil
	}
}

// Reset clears the painting, or refills the dirt in clean mode.
func (p *Painter) Reset() error {
	for _, part := range p.Model.Parts {
		if part.Dirt != nil {
			part.Dirt.Fill(p.opts.Scene.DirtLevel)
			if err := part.Dirt.Upload(p.device, part.DirtTexture); err != nil {
				return err
			}
		}
		if err := p.compositor.Reset(part.Paint); err != nil {
			return fmt.Errorf("reset %s: %w", part.Name, err)
		}
	}
	p.log.Info("painting reset")
	return nil
}

// Tick runs one step with the pipeline stages in fixed order.
func (p *Painter) Tick(s input.Snapshot, deltaMs float32) (TickResult, error) {
	var res TickResult

	if err := p.handleEvents(s, &res); err != nil {
		return res, err
	}

	p.applyKeys(s.Keys, deltaMs)
	res.Changed = len(p.Model.Update())
	p.Brush = p.Brush.WithInput(s.Brush)

	pressed := s.PointerDown && !p.pointerWasDown
	p.pointerWasDown = s.PointerDown

	if s.PointerDown && s.CanvasWidth > 0 && s.CanvasHeight > 0 {
		if err := p.act(s, deltaMs, pressed, &res); err != nil {
			return res, err
		}
	}

	if p.opts.Display {
		if err := p.renderer.Render(p.Model, p.Camera, s.CanvasWidth, s.CanvasHeight); err != nil {
			return res, fmt.Errorf("display: %w", err)
		}
		res.Rendered = true
	}
	return res, nil
}

func (p *Painter) handleEvents(s input.Snapshot, res *TickResult) error {
	if s.ToggleMode {
		if p.Mode == ModePaint {
			p.Mode = ModeClean
		} else {
			p.Mode = ModePaint
		}
		if err := p.load(p.opts.Preset); err != nil {
			return err
		}
		res.Reloaded = true
	}
	if s.ChangeModel != "" {
		preset, err := scene.ParsePreset(s.ChangeModel)
		if err != nil {
			return err
		}
		if err := p.load(preset); err != nil {
			return err
		}
		res.Reloaded = true
	}
	if s.Reset {
		return p.Reset()
	}
	return nil
}

func (p *Painter) applyKeys(keys input.Keys, deltaMs float32) {
	switch {
	case keys.Held(input.KeyZoomIn) && !keys.Held(input.KeyZoomOut):
		p.Camera.Zoom(deltaMs, 1)
	case keys.Held(input.KeyZoomOut) && !keys.Held(input.KeyZoomIn):
		p.Camera.Zoom(deltaMs, -1)
	}

	angle := RotationSpeed * deltaMs
	basis := p.Camera.Basis()
	switch {
	case keys.Held(input.KeyRotateUp) && !keys.Held(input.KeyRotateDown):
		p.Model.Rotate(basis.Right, angle)
	case keys.Held(input.KeyRotateDown) && !keys.Held(input.KeyRotateUp):
		p.Model.Rotate(basis.Right, -angle)
	}
	switch {
	case keys.Held(input.KeyRotateLeft) && !keys.Held(input.KeyRotateRight):
		p.Model.Rotate(basis.Up, angle)
	case keys.Held(input.KeyRotateRight) && !keys.Held(input.KeyRotateLeft):
		p.Model.Rotate(basis.Up, -angle)
	}
}

// act aims at the pointer and paints or cleans.
func (p *Painter) act(s input.Snapshot, deltaMs float32, pressed bool, res *TickResult) error {
	ray := picking.RayFromCamera(s.Pointer.X, s.Pointer.Y,
		float32(s.CanvasWidth), float32(s.CanvasHeight), p.Camera)

	if p.Mode == ModeClean {
		return p.clean(ray, res)
	}

	if pressed {
		strokes := make([]paint.Layer, len(p.Model.Parts))
		for i, part := range p.Model.Parts {
			strokes[i] = part.Stroke
		}
		if err := p.decal.BeginStroke(strokes...); err != nil {
			return err
		}
		res.NewStroke = true
		p.log.Debug("stroke started", zap.Float32("pressure", p.Brush.AirPressure))
	}

	hit, ok := picking.Nearest(ray, p.Model.Surfaces())
	if !ok {
		p.log.Debug("ray missed model")
		return nil
	}
	res.Hit, res.Target = true, hit

	proj := brush.NewProjector(ray.Origin, ray.Direction, p.Camera.Up(), p.Brush)
	targets := p.Model.Targets()
	if err := p.depth.Run(proj, targets); err != nil {
		return fmt.Errorf("depth prepass: %w", err)
	}
	for i, part := range p.Model.Parts {
		if err := p.decal.Run(proj, p.Brush, deltaMs, targets[i], part.Stroke); err != nil {
			return fmt.Errorf("decal %s: %w", part.Name, err)
		}
		if err := p.compositor.Composite(part.Paint, part.Stroke); err != nil {
			return fmt.Errorf("composite %s: %w", part.Name, err)
		}
	}
	res.Painted = true
	return nil
}

func (p *Painter) clean(ray picking.Ray, res *TickResult) error {
	hit, ok := picking.Nearest(ray, p.Model.Surfaces())
	if ok {
		res.Hit, res.Target = true, hit
		p.cleaner.MarkToClean(hit, p.marks)
	}
	for i, part := range p.Model.Parts {
		if part.Dirt == nil || len(p.marks[i]) == 0 {
			continue
		}
		p.cleaner.Clean(&p.marks[i], part.Dirt)
		if err := part.Dirt.Upload(p.device, part.DirtTexture); err != nil {
			return err
		}
		res.Cleaned = true
	}
	return nil
}
