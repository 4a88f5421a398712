// Package main sprays a scripted stroke with the software device and
// writes the resulting maps as PNG files.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/airbrush/internal/app"
	"github.com/Faultbox/airbrush/internal/config"
	"github.com/Faultbox/airbrush/internal/engine/brush"
	"github.com/Faultbox/airbrush/internal/engine/gpu/soft"
	"github.com/Faultbox/airbrush/internal/engine/input"
	"github.com/Faultbox/airbrush/internal/engine/snapshot"
	"github.com/Faultbox/airbrush/internal/logger"
	"github.com/Faultbox/airbrush/pkg/math"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Error("headless run failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	opts, err := app.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}

	w, h := cfg.Graphics.Width, cfg.Graphics.Height
	device := soft.NewDevice(w, h)
	p, err := app.New(device, soft.Shaders{}, opts)
	if err != nil {
		return err
	}
	defer p.Release()

	s := input.Snapshot{
		PointerDown:  true,
		CanvasWidth:  w,
		CanvasHeight: h,
		Brush: brush.Input{
			AirPressure:      cfg.Brush.AirPressure,
			NozzleFovDegrees: cfg.Brush.NozzleFovDegrees,
			PaintColor:       math.Vec3{X: cfg.Brush.PaintColor[0], Y: cfg.Brush.PaintColor[1], Z: cfg.Brush.PaintColor[2]},
		},
	}

	s.Pointer = s.Centre()

	hits := 0
	for i := 0; i < cfg.Headless.Ticks; i++ {
		res, err := p.Tick(s, cfg.Headless.DeltaMs)
		if err != nil {
			return fmt.Errorf("tick %d: %w", i, err)
		}
		if res.Hit {
			hits++
		}
	}
	logger.Info("stroke finished",
		zap.Int("ticks", cfg.Headless.Ticks),
		zap.Int("hits", hits),
		zap.Stringer("mode", p.Mode))

	return export(cfg, p, device)
}

// export writes the display, every current paint map and, in clean mode,
// every dirt map.
func export(cfg *config.Config, p *app.Painter, device *soft.Device) error {
	capture := snapshot.NewCapture(cfg.Headless.OutputDir, string(p.Model.Preset))
	scale := cfg.Headless.Scale

	pixels, w, h := device.ReadDisplay()
	path, err := capture.SavePixels("display", pixels, w, h, 4, 1)
	if err != nil {
		return err
	}
	logger.Info("wrote display", zap.String("path", path))

	for _, part := range p.Model.Parts {
		tex := part.Paint.Current().Texture
		desc, _ := device.TextureDesc(tex)
		pixels, err := device.ReadPixels(tex)
		if err != nil {
			return fmt.Errorf("read paint map %s: %w", part.Name, err)
		}
		path, err := capture.SavePixels("paint_"+part.Name, pixels, desc.Width, desc.Height, 4, scale)
		if err != nil {
			return err
		}
		logger.Info("wrote paint map", zap.String("part", part.Name), zap.String("path", path))

		if part.Dirt == nil {
			continue
		}
		levels := make([]float32, len(part.Dirt.Levels))
		for i, l := range part.Dirt.Levels {
			levels[i] = float32(l) / 255
		}
		path, err = capture.SavePixels("dirt_"+part.Name, levels, part.Dirt.Width, part.Dirt.Height, 1, scale)
		if err != nil {
			return err
		}
		logger.Info("wrote dirt map",
			zap.String("part", part.Name),
			zap.String("path", path),
			zap.Float32("remaining", part.Dirt.Coverage()))
	}
	return nil
}
