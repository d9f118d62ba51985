package config

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"time"
)

// Scene name: letters, digits and underscores, starting with a letter. Names
// end up in file names and CSV rows, so nothing else is allowed.
var sceneNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a configuration with defaults applied.
func Validate(cfg *Config) error {
	if err := validatePositive("width", cfg.Width); err != nil {
		return err
	}
	if err := validatePositive("height", cfg.Height); err != nil {
		return err
	}
	if err := validatePositive("bench_frames", cfg.BenchFrames); err != nil {
		return err
	}
	if err := validatePositive("warmup_frames", cfg.WarmupFrames); err != nil {
		return err
	}
	if _, err := cfg.TimeoutDuration(); err != nil {
		return &ValidationError{Field: "timeout", Message: err.Error()}
	}
	if err := validateTolerance(cfg.Tolerance); err != nil {
		return err
	}
	return validateScenes(cfg.Scenes)
}

func validatePositive(field string, v int) error {
	if v <= 0 {
		return &ValidationError{Field: field, Message: fmt.Sprintf("must be positive, got %d", v)}
	}
	return nil
}

func validateTolerance(tol *ToleranceConfig) error {
	if tol == nil {
		return nil
	}
	if tol.Score != nil {
		s := *tol.Score
		if math.IsNaN(s) || s < 0 || s >= 1 {
			return &ValidationError{Field: "tolerance.score", Message: fmt.Sprintf("must be in [0, 1), got %v", s)}
		}
	}
	if tol.Pixel != nil {
		p := *tol.Pixel
		if p < 0 || p > 255 {
			return &ValidationError{Field: "tolerance.pixel", Message: fmt.Sprintf("must be in [0, 255], got %d", p)}
		}
	}
	return nil
}

func validateScenes(scenes map[string]SceneConfig) error {
	if len(scenes) == 0 {
		return &ValidationError{Field: "scenes", Message: "at least one scene is required"}
	}

	// Sorted for a deterministic first error.
	names := make([]string, 0, len(scenes))
	for name := range scenes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if !sceneNamePattern.MatchString(name) {
			return &ValidationError{
				Field:   fmt.Sprintf("scenes.%s", name),
				Message: "scene name must match pattern ^[A-Za-z][A-Za-z0-9_]*$",
			}
		}
		sc := scenes[name]
		if sc.File == "" {
			return &ValidationError{Field: fmt.Sprintf("scenes.%s.file", name), Message: "is required"}
		}
		if sc.Camera.Up == [3]float64{} {
			return &ValidationError{Field: fmt.Sprintf("scenes.%s.camera.up", name), Message: "must not be the zero vector"}
		}
	}
	return nil
}

// TimeoutDuration parses the configured timeout. Zero means no timeout.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" || c.Timeout == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", c.Timeout)
	}
	if d < 0 {
		return 0, fmt.Errorf("must not be negative, got %s", c.Timeout)
	}
	return d, nil
}
