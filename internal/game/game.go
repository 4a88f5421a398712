// Package game hosts the painter in an SDL2 window: it polls input, ticks
// the pipeline and presents frames.
package game

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/airbrush/internal/app"
	"github.com/Faultbox/airbrush/internal/config"
	"github.com/Faultbox/airbrush/internal/engine/brush"
	"github.com/Faultbox/airbrush/internal/engine/gpu/gldevice"
	"github.com/Faultbox/airbrush/internal/engine/input"
	"github.com/Faultbox/airbrush/internal/engine/snapshot"
	"github.com/Faultbox/airbrush/internal/engine/window"
	"github.com/Faultbox/airbrush/internal/logger"
	"github.com/Faultbox/airbrush/pkg/math"
)

const title = "Airbrush"

// maxDeltaMs caps a tick after a stall so one frame cannot flood the
// stroke buffer.
const maxDeltaMs = 100

// Game is the interactive painter.
type Game struct {
	running bool
	window  *window.Window
	device  *gldevice.Device
	shaders *gldevice.Shaders
	poller  *input.Poller
	painter *app.Painter
	capture *snapshot.Capture
	log     *zap.Logger
}

// New opens the window and builds the pipeline on its context.
func New(cfg *config.Config) (g *Game, err error) {
	opts, err := app.OptionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	g = &Game{
		capture: snapshot.NewCapture(cfg.Headless.OutputDir, "screenshot"),
		log:     logger.Named("game"),
	}
	defer func() {
		if err != nil {
			g.Close()
			g = nil
		}
	}()

	// Create window (this also creates OpenGL context)
	g.window, err = window.New(window.Config{
		Title:      title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	dw, dh := g.window.DrawableSize()
	if g.device, err = gldevice.New(dw, dh); err != nil {
		return nil, err
	}
	if g.shaders, err = gldevice.NewShaders(); err != nil {
		return nil, err
	}
	if g.painter, err = app.New(g.device, g.shaders, opts); err != nil {
		return nil, err
	}

	w, h := g.window.Size()
	g.poller = input.NewPoller(w, h, brush.Input{
		AirPressure:      cfg.Brush.AirPressure,
		NozzleFovDegrees: cfg.Brush.NozzleFovDegrees,
		PaintColor:       math.Vec3{X: cfg.Brush.PaintColor[0], Y: cfg.Brush.PaintColor[1], Z: cfg.Brush.PaintColor[2]},
	})

	g.log.Info("game initialized", zap.Stringer("mode", opts.Mode), zap.String("model", string(opts.Preset)))
	return g, nil
}

// Run ticks until the window closes or Escape is pressed.
func (g *Game) Run() error {
	g.running = true

	lastTicks := g.window.Ticks()
	frameCount := 0
	fpsTimer := time.Now()

	g.log.Info("starting main loop")

	for g.running {
		now := g.window.Ticks()
		deltaMs := float32(min(now-lastTicks, maxDeltaMs))
		lastTicks = now

		// 1. Process input
		s := g.poller.Poll()
		if s.Quit {
			g.running = false
			break
		}

		// 2. Tick the pipeline onto the display
		dw, dh := g.window.DrawableSize()
		g.device.SetDisplaySize(dw, dh)
		res, err := g.painter.Tick(s, deltaMs)
		if err != nil {
			return fmt.Errorf("tick: %w", err)
		}
		if res.Reloaded {
			g.window.SetTitle(fmt.Sprintf("%s - %s (%s)", title, g.painter.Model.Preset, g.painter.Mode))
		}

		if s.Screenshot {
			g.screenshot()
		}

		// 3. Present
		g.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			g.log.Debug("fps", zap.Int("count", frameCount), zap.Float32("deltaMs", deltaMs))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (g *Game) screenshot() {
	pixels, w, h := g.device.ReadDisplay()
	path, err := g.capture.SavePixels(snapshot.Timestamped(), pixels, w, h, 4, 1)
	if err != nil {
		g.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	g.log.Info("screenshot saved", zap.String("path", path))
}

// Close releases the pipeline, then the context.
func (g *Game) Close() {
	g.log.Info("closing game")

	if g.painter != nil {
		g.painter.Release()
		g.painter = nil
	}
	if g.shaders != nil {
		g.shaders.Release()
		g.shaders = nil
	}
	if g.window != nil {
		g.window.Close()
		g.window = nil
	}
}
