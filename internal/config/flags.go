package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile    = flag.String("log-file", "", "Write logs to this file as well")
	flagModel      = flag.String("model", "", "Model preset: cube, plane or sphere")
	flagMode       = flag.String("mode", "", "Tool: paint or clean")
	flagPressure   = flag.Float64("pressure", -1, "Brush air pressure in [0,1]")
	flagFov        = flag.Float64("fov", 0, "Nozzle field of view in degrees")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagTicks      = flag.Int("ticks", 0, "Headless: number of ticks to spray")
	flagOut        = flag.String("out", "", "Headless: output directory")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagModel != "" {
		cfg.Scene.Model = *flagModel
	}
	if *flagMode != "" {
		cfg.Scene.Mode = *flagMode
	}
	if *flagPressure >= 0 {
		cfg.Brush.AirPressure = float32(*flagPressure)
	}
	if *flagFov > 0 {
		cfg.Brush.NozzleFovDegrees = float32(*flagFov)
	}
	if *flagWindowed {
		cfg.Graphics.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
	if *flagTicks > 0 {
		cfg.Headless.Ticks = *flagTicks
	}
	if *flagOut != "" {
		cfg.Headless.OutputDir = *flagOut
	}
}
