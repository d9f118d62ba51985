package config

import (
	_ "embed"
	"fmt"
)

// Default configuration values.
const (
	DefaultExecutable     = "./ospBenchmark"
	DefaultImageDir       = "bench_output"
	DefaultWidth          = 1024
	DefaultHeight         = 1024
	DefaultBenchFrames    = 100
	DefaultWarmupFrames   = 50
	DefaultScoreTolerance = 0.15
	DefaultPixelTolerance = 0
)

//go:embed scenes.yaml
var defaultScenes []byte

// Default returns the built-in configuration: default settings plus the
// standard scene table.
func Default() (*Config, error) {
	cfg, _, err := Parse(defaultScenes, FormatYAML)
	if err != nil {
		return nil, fmt.Errorf("built-in scene table: %w", err)
	}
	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("built-in scene table: %w", err)
	}
	return cfg, nil
}

// Resolve loads the configuration file at path (if any) over the built-in
// configuration, applies defaults and validates the result.
func Resolve(path string) (*Config, []string, error) {
	base, err := Default()
	if err != nil {
		return nil, nil, err
	}
	if path == "" {
		return base, nil, nil
	}

	override, warnings, err := Load(path)
	if err != nil {
		return nil, nil, err
	}

	cfg := Merge(base, override)
	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, warnings, err
	}
	return cfg, warnings, nil
}

// Merge returns base with every field set in override replacing it. A scene
// table in override replaces the base table as a whole.
func Merge(base, override *Config) *Config {
	merged := *base
	if override.Executable != "" {
		merged.Executable = override.Executable
	}
	if override.ImageDir != "" {
		merged.ImageDir = override.ImageDir
	}
	if override.Width != 0 {
		merged.Width = override.Width
	}
	if override.Height != 0 {
		merged.Height = override.Height
	}
	if override.BenchFrames != 0 {
		merged.BenchFrames = override.BenchFrames
	}
	if override.WarmupFrames != 0 {
		merged.WarmupFrames = override.WarmupFrames
	}
	if override.Timeout != "" {
		merged.Timeout = override.Timeout
	}
	if override.Tolerance != nil {
		tol := ToleranceConfig{}
		if base.Tolerance != nil {
			tol = *base.Tolerance
		}
		if override.Tolerance.Score != nil {
			tol.Score = override.Tolerance.Score
		}
		if override.Tolerance.Pixel != nil {
			tol.Pixel = override.Tolerance.Pixel
		}
		merged.Tolerance = &tol
	}
	if len(override.Scenes) > 0 {
		merged.Scenes = override.Scenes
	}
	return &merged
}

// applyDefaults fills in default values for unset configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Executable == "" {
		cfg.Executable = DefaultExecutable
	}
	if cfg.ImageDir == "" {
		cfg.ImageDir = DefaultImageDir
	}
	if cfg.Width == 0 {
		cfg.Width = DefaultWidth
	}
	if cfg.Height == 0 {
		cfg.Height = DefaultHeight
	}
	if cfg.BenchFrames == 0 {
		cfg.BenchFrames = DefaultBenchFrames
	}
	if cfg.WarmupFrames == 0 {
		cfg.WarmupFrames = DefaultWarmupFrames
	}
	if cfg.Tolerance == nil {
		cfg.Tolerance = &ToleranceConfig{}
	}
	if cfg.Tolerance.Score == nil {
		score := DefaultScoreTolerance
		cfg.Tolerance.Score = &score
	}
	if cfg.Tolerance.Pixel == nil {
		pixel := DefaultPixelTolerance
		cfg.Tolerance.Pixel = &pixel
	}
}

// ScoreTolerance returns the configured relative score tolerance.
func (c *Config) ScoreTolerance() float64 {
	if c.Tolerance == nil || c.Tolerance.Score == nil {
		return DefaultScoreTolerance
	}
	return *c.Tolerance.Score
}

// PixelTolerance returns the configured per-byte image tolerance.
func (c *Config) PixelTolerance() int {
	if c.Tolerance == nil || c.Tolerance.Pixel == nil {
		return DefaultPixelTolerance
	}
	return *c.Tolerance.Pixel
}
