// Package config provides configuration loading and validation for benchcheck.
//
// Configuration files may be written in JSON, YAML or TOML; the format is
// chosen by file extension. Whatever the format, the document is normalized
// to JSON, validated against the embedded JSON schema and then decoded, so
// all three formats share one set of field names.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/AndreyAkinshin/benchcheck/internal/schema"
)

// Config represents the complete benchcheck configuration.
type Config struct {
	Executable   string                 `json:"executable,omitempty"`
	ImageDir     string                 `json:"image_dir,omitempty"`
	Width        int                    `json:"width,omitempty"`
	Height       int                    `json:"height,omitempty"`
	BenchFrames  int                    `json:"bench_frames,omitempty"`
	WarmupFrames int                    `json:"warmup_frames,omitempty"`
	Timeout      string                 `json:"timeout,omitempty"` // Go duration; empty or "0" disables it
	Tolerance    *ToleranceConfig       `json:"tolerance,omitempty"`
	Scenes       map[string]SceneConfig `json:"scenes,omitempty"`
}

// ToleranceConfig configures the regression checks. Nil fields keep their
// defaults so an explicit zero can be told apart from an absent value.
type ToleranceConfig struct {
	Score *float64 `json:"score,omitempty"` // relative band around the baseline score
	Pixel *int     `json:"pixel,omitempty"` // per-byte image difference
}

// SceneConfig defines one benchmark scene.
type SceneConfig struct {
	File   string       `json:"file"`
	Camera CameraConfig `json:"camera"`
	Params []string     `json:"params,omitempty"`
}

// CameraConfig holds the camera of a scene as three numeric triples.
type CameraConfig struct {
	Position [3]float64 `json:"position"`
	Up       [3]float64 `json:"up"`
	Focus    [3]float64 `json:"focus"`
}

// Format is a configuration file syntax.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// DetectFormat returns the format implied by the file extension of path.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported config file extension %q (use .json, .yaml, .yml or .toml)", filepath.Ext(path))
	}
}

// Load reads a configuration file and returns it without defaults applied,
// together with warnings about ignored fields.
func Load(path string) (*Config, []string, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, warnings, err := Parse(data, format)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, warnings, nil
}

// Parse decodes configuration data in the given format.
func Parse(data []byte, format Format) (*Config, []string, error) {
	normalized, err := normalize(data, format)
	if err != nil {
		return nil, nil, err
	}

	if err := schema.ValidateConfig(normalized); err != nil {
		return nil, nil, err
	}

	var cfg Config
	if err := json.Unmarshal(normalized, &cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, detectUnknownFields(normalized), nil
}

// normalize converts a document of any supported format to JSON.
func normalize(data []byte, format Format) ([]byte, error) {
	var doc interface{}
	switch format {
	case FormatJSON:
		if len(bytes.TrimSpace(data)) == 0 {
			return []byte("{}"), nil
		}
		return data, nil
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
	case FormatTOML:
		var table map[string]interface{}
		if _, err := toml.Decode(string(data), &table); err != nil {
			return nil, fmt.Errorf("invalid TOML: %w", err)
		}
		doc = table
	default:
		return nil, fmt.Errorf("unsupported config format %q", format)
	}

	if doc == nil {
		return []byte("{}"), nil
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize %s config: %w", format, err)
	}
	return out, nil
}
