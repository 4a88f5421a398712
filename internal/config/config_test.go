package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/airbrush/internal/engine/brush"
	"github.com/Faultbox/airbrush/internal/engine/clean"
	"github.com/Faultbox/airbrush/internal/engine/scene"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 1280, cfg.Graphics.Width)
	assert.Equal(t, 720, cfg.Graphics.Height)
	assert.False(t, cfg.Graphics.Fullscreen)
	assert.True(t, cfg.Graphics.VSync)

	assert.Equal(t, float32(0.5), cfg.Brush.AirPressure)
	assert.Equal(t, float32(15), cfg.Brush.NozzleFovDegrees)
	assert.Equal(t, float32(brush.DefaultBaseRate), cfg.Brush.BaseRate)

	assert.Equal(t, float32(3), cfg.Camera.Radius)
	assert.Equal(t, 400, cfg.Paint.MapSize)
	assert.Equal(t, 1024, cfg.Paint.DepthResolution)
	assert.Equal(t, clean.DefaultMapSize, cfg.Clean.DirtMapSize)
	assert.Equal(t, "cube", cfg.Scene.Model)
	assert.Equal(t, ModePaint, cfg.Scene.Mode)
	assert.Equal(t, "info", cfg.Logging.Level)

	require.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	yamlContent := `
graphics:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false

brush:
  air_pressure: 0.8
  nozzle_fov_degrees: 5
  paint_color: [0.1, 0.2, 0.3]

scene:
  model: sphere
  mode: clean

logging:
  level: debug
  log_file: /tmp/airbrush.log
`
	require.NoError(t, os.WriteFile(configPath, []byte(yamlContent), 0644))

	cfg, err := LoadFile(configPath)
	require.NoError(t, err)

	assert.Equal(t, 1920, cfg.Graphics.Width)
	assert.True(t, cfg.Graphics.Fullscreen)
	assert.False(t, cfg.Graphics.VSync)
	assert.Equal(t, float32(0.8), cfg.Brush.AirPressure)
	assert.Equal(t, [3]float32{0.1, 0.2, 0.3}, cfg.Brush.PaintColor)
	assert.Equal(t, "sphere", cfg.Scene.Model)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Unset sections keep their defaults
	assert.Equal(t, float32(3), cfg.Camera.Radius)
	assert.Equal(t, 400, cfg.Paint.MapSize)

	opts := cfg.SceneOptions()
	assert.True(t, opts.Washable)
	assert.Equal(t, 400, opts.MapSize)
}

func TestLoadFromFileInvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("graphics: [unclosed"), 0644))

	_, err := LoadFile(configPath)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		target error
	}{
		{"negative pressure", func(c *Config) { c.Brush.AirPressure = -1 }, brush.ErrInvalidBrush},
		{"zero nozzle", func(c *Config) { c.Brush.NozzleFovDegrees = 0 }, brush.ErrInvalidBrush},
		{"unknown model", func(c *Config) { c.Scene.Model = "teapot" }, scene.ErrInvalidPreset},
		{"negative radius", func(c *Config) { c.Clean.HitRadius = -0.1 }, clean.ErrInvalidRadius},
		{"unknown mode", func(c *Config) { c.Scene.Mode = "polish" }, nil},
		{"zero width", func(c *Config) { c.Graphics.Width = 0 }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
		})
	}
}

func TestBrushParams(t *testing.T) {
	b := Default().BrushParams()
	assert.InDelta(t, 0.2618, b.NozzleFov, 1e-4)
	assert.Equal(t, float32(1), b.PaintColor.X)
	require.NoError(t, b.Validate())
}

func TestSaveTo(t *testing.T) {
	savePath := filepath.Join(t.TempDir(), "subdir", "config.yaml")

	cfg := Default()
	cfg.Graphics.Width = 2560
	cfg.Scene.Model = "plane"
	cfg.Brush.PaintColor = [3]float32{0, 1, 0}

	require.NoError(t, cfg.SaveTo(savePath))

	loaded, err := LoadFile(savePath)
	require.NoError(t, err)
	assert.Equal(t, 2560, loaded.Graphics.Width)
	assert.Equal(t, "plane", loaded.Scene.Model)
	assert.Equal(t, [3]float32{0, 1, 0}, loaded.Brush.PaintColor)
}

func TestApplyFlags(t *testing.T) {
	require.NoError(t, flag.Set("model", "sphere"))
	require.NoError(t, flag.Set("pressure", "0.25"))
	require.NoError(t, flag.Set("width", "640"))
	t.Cleanup(func() {
		_ = flag.Set("model", "")
		_ = flag.Set("pressure", "-1")
		_ = flag.Set("width", "0")
	})

	cfg := Default()
	applyFlags(cfg)

	assert.Equal(t, "sphere", cfg.Scene.Model)
	assert.Equal(t, float32(0.25), cfg.Brush.AirPressure)
	assert.Equal(t, 640, cfg.Graphics.Width)
	assert.Equal(t, 720, cfg.Graphics.Height)
}

func TestConfigDir(t *testing.T) {
	assert.NotEmpty(t, ConfigDir())
}
