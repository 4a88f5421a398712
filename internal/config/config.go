// Package config handles painter configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/airbrush/internal/engine/brush"
	"github.com/Faultbox/airbrush/internal/engine/clean"
	"github.com/Faultbox/airbrush/internal/engine/scene"
	"github.com/Faultbox/airbrush/pkg/math"
)

// Config holds all settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Brush    BrushConfig    `yaml:"brush"`
	Camera   CameraConfig   `yaml:"camera"`
	Paint    PaintConfig    `yaml:"paint"`
	Clean    CleanConfig    `yaml:"clean"`
	Scene    SceneConfig    `yaml:"scene"`
	Headless HeadlessConfig `yaml:"headless"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
}

// BrushConfig holds the initial spray parameters.
type BrushConfig struct {
	AirPressure      float32    `yaml:"air_pressure"`
	NozzleFovDegrees float32    `yaml:"nozzle_fov_degrees"`
	PaintColor       [3]float32 `yaml:"paint_color,flow"`
	Viscosity        float32    `yaml:"viscosity"`
	BaseRate         float32    `yaml:"base_rate"`
}

// CameraConfig holds the initial orbit.
type CameraConfig struct {
	Radius       float32 `yaml:"radius"`
	PhiDegrees   float32 `yaml:"phi_degrees"`
	ThetaDegrees float32 `yaml:"theta_degrees"`
	FovyDegrees  float32 `yaml:"fovy_degrees"`
}

// PaintConfig sizes the paint pipeline.
type PaintConfig struct {
	MapSize         int     `yaml:"map_size"`
	DepthResolution int     `yaml:"depth_resolution"`
	DepthTolerance  float32 `yaml:"depth_tolerance"`
}

// CleanConfig holds cleaner settings.
type CleanConfig struct {
	DirtMapSize int     `yaml:"dirt_map_size"`
	DirtLevel   uint8   `yaml:"dirt_level"`
	HitRadius   float32 `yaml:"hit_radius"`
	Step        uint8   `yaml:"step"`
}

// SceneConfig selects the model and tool.
type SceneConfig struct {
	Model string `yaml:"model"`
	Mode  string `yaml:"mode"` // paint or clean
}

// HeadlessConfig drives the scripted stroke of the headless renderer.
type HeadlessConfig struct {
	Ticks     int     `yaml:"ticks"`
	DeltaMs   float32 `yaml:"delta_ms"`
	OutputDir string  `yaml:"output_dir"`
	Scale     int     `yaml:"scale"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Modes accepted by SceneConfig.Mode.
const (
	ModePaint = "paint"
	ModeClean = "clean"
)

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Brush: BrushConfig{
			AirPressure:      0.5,
			NozzleFovDegrees: 15,
			PaintColor:       [3]float32{1, 0.5, 0},
			Viscosity:        0,
			BaseRate:         brush.DefaultBaseRate,
		},
		Camera: CameraConfig{
			Radius:       3,
			PhiDegrees:   60,
			ThetaDegrees: 45,
			FovyDegrees:  55,
		},
		Paint: PaintConfig{
			MapSize:         400,
			DepthResolution: 1024,
			DepthTolerance:  2e-5,
		},
		Clean: CleanConfig{
			DirtMapSize: clean.DefaultMapSize,
			DirtLevel:   255,
			HitRadius:   clean.DefaultHitRadius,
			Step:        clean.DefaultStep,
		},
		Scene: SceneConfig{
			Model: string(scene.PresetCube),
			Mode:  ModePaint,
		},
		Headless: HeadlessConfig{
			Ticks:     60,
			DeltaMs:   16,
			OutputDir: "out",
			Scale:     1,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// BrushParams converts the brush section.
func (c *Config) BrushParams() brush.Brush {
	b := c.Brush
	return brush.Brush{
		AirPressure: b.AirPressure,
		NozzleFov:   math.Radians(b.NozzleFovDegrees),
		PaintColor:  math.Vec3{X: b.PaintColor[0], Y: b.PaintColor[1], Z: b.PaintColor[2]},
		Viscosity:   b.Viscosity,
		BaseRate:    b.BaseRate,
	}
}

// SceneOptions converts the paint and clean sections for scene.NewModel.
func (c *Config) SceneOptions() scene.Options {
	return scene.Options{
		MapSize:     c.Paint.MapSize,
		Washable:    c.Scene.Mode == ModeClean,
		DirtMapSize: c.Clean.DirtMapSize,
		DirtLevel:   c.Clean.DirtLevel,
	}
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		errs = append(errs, fmt.Errorf("graphics: invalid size %dx%d", c.Graphics.Width, c.Graphics.Height))
	}
	if err := c.BrushParams().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("brush: %w", err))
	}
	if c.Camera.Radius <= 0 || c.Camera.FovyDegrees <= 0 || c.Camera.FovyDegrees >= 180 {
		errs = append(errs, fmt.Errorf("camera: invalid radius %g or fovy %g", c.Camera.Radius, c.Camera.FovyDegrees))
	}
	if c.Clean.HitRadius < 0 {
		errs = append(errs, fmt.Errorf("clean: %w: %g", clean.ErrInvalidRadius, c.Clean.HitRadius))
	}
	if _, err := scene.ParsePreset(c.Scene.Model); err != nil {
		errs = append(errs, fmt.Errorf("scene: %w", err))
	}
	if c.Scene.Mode != ModePaint && c.Scene.Mode != ModeClean {
		errs = append(errs, fmt.Errorf("scene: unknown mode %q", c.Scene.Mode))
	}
	return errors.Join(errs...)
}
