package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}

	if cfg.Executable != DefaultExecutable {
		t.Errorf("Executable = %q, want %q", cfg.Executable, DefaultExecutable)
	}
	if cfg.Width != DefaultWidth || cfg.Height != DefaultHeight {
		t.Errorf("size = %dx%d, want %dx%d", cfg.Width, cfg.Height, DefaultWidth, DefaultHeight)
	}
	if cfg.ScoreTolerance() != DefaultScoreTolerance {
		t.Errorf("ScoreTolerance() = %v, want %v", cfg.ScoreTolerance(), DefaultScoreTolerance)
	}
	if cfg.PixelTolerance() != DefaultPixelTolerance {
		t.Errorf("PixelTolerance() = %v, want %v", cfg.PixelTolerance(), DefaultPixelTolerance)
	}
	if len(cfg.Scenes) != 12 {
		t.Errorf("len(Scenes) = %d, want 12", len(cfg.Scenes))
	}

	fiu1, ok := cfg.Scenes["fiu1"]
	if !ok {
		t.Fatal("default scenes should contain fiu1")
	}
	if fiu1.File != "test_data/fiu-groundwater.xml" {
		t.Errorf("fiu1.File = %q", fiu1.File)
	}
	if fiu1.Camera.Position != [3]float64{500.804565, 277.327850, -529.199829} {
		t.Errorf("fiu1.Camera.Position = %v", fiu1.Camera.Position)
	}
}

func TestParse_Formats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		format Format
		data   string
	}{
		{"json", FormatJSON, `{
			"executable": "/opt/bin/ospBenchmark",
			"width": 640,
			"tolerance": {"score": 0.1},
			"scenes": {"cube": {"file": "cube.obj", "camera": {"position": [1, 2, 3], "up": [0, 1, 0], "focus": [0, 0, 0]}, "params": ["-sg"]}}
		}`},
		{"yaml", FormatYAML, `
executable: /opt/bin/ospBenchmark
width: 640
tolerance:
  score: 0.1
scenes:
  cube:
    file: cube.obj
    camera:
      position: [1, 2, 3]
      up: [0, 1, 0]
      focus: [0, 0, 0]
    params: ["-sg"]
`},
		{"toml", FormatTOML, `
executable = "/opt/bin/ospBenchmark"
width = 640

[tolerance]
score = 0.1

[scenes.cube]
file = "cube.obj"
params = ["-sg"]

[scenes.cube.camera]
position = [1, 2, 3]
up = [0, 1, 0]
focus = [0, 0, 0]
`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg, warnings, err := Parse([]byte(tt.data), tt.format)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if len(warnings) != 0 {
				t.Errorf("warnings = %v, want none", warnings)
			}
			if cfg.Executable != "/opt/bin/ospBenchmark" {
				t.Errorf("Executable = %q", cfg.Executable)
			}
			if cfg.Width != 640 {
				t.Errorf("Width = %d, want 640", cfg.Width)
			}
			if cfg.ScoreTolerance() != 0.1 {
				t.Errorf("ScoreTolerance() = %v, want 0.1", cfg.ScoreTolerance())
			}
			cube := cfg.Scenes["cube"]
			if cube.File != "cube.obj" || cube.Camera.Position != [3]float64{1, 2, 3} {
				t.Errorf("cube = %+v", cube)
			}
			if len(cube.Params) != 1 || cube.Params[0] != "-sg" {
				t.Errorf("cube.Params = %v", cube.Params)
			}
		})
	}
}

func TestParse_EmptyDocuments(t *testing.T) {
	t.Parallel()

	for _, format := range []Format{FormatJSON, FormatYAML, FormatTOML} {
		cfg, _, err := Parse([]byte(""), format)
		if err != nil {
			t.Errorf("Parse(empty %s) error = %v", format, err)
			continue
		}
		if cfg.Width != 0 || len(cfg.Scenes) != 0 {
			t.Errorf("Parse(empty %s) = %+v, want zero config", format, cfg)
		}
	}
}

func TestParse_SchemaViolation(t *testing.T) {
	t.Parallel()

	_, _, err := Parse([]byte("width: -5\n"), FormatYAML)
	if err == nil {
		t.Fatal("Parse() expected schema error")
	}
	if !strings.Contains(err.Error(), "config validation failed") {
		t.Errorf("error = %v, want schema validation failure", err)
	}
}

func TestParse_Syntax(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format Format
		data   string
		want   string
	}{
		{FormatYAML, "width: [", "invalid YAML"},
		{FormatTOML, "width = ", "invalid TOML"},
		{FormatJSON, "{", "invalid JSON"},
	}

	for _, tt := range tests {
		_, _, err := Parse([]byte(tt.data), tt.format)
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("Parse(%s) error = %v, want %q", tt.format, err, tt.want)
		}
	}
}

func TestParse_UnknownFieldWarnings(t *testing.T) {
	t.Parallel()

	data := `{
		"colour": "blue",
		"scenes": {"cube": {"file": "c.obj", "camera": {"position": [1,2,3], "up": [0,1,0], "focus": [0,0,0]}, "lights": 3}}
	}`
	_, warnings, err := Parse([]byte(data), FormatJSON)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := []string{
		`unknown field "colour" at root level (ignored)`,
		`unknown field "lights" in scene "cube" (ignored)`,
	}
	if strings.Join(warnings, "\n") != strings.Join(want, "\n") {
		t.Errorf("warnings = %q, want %q", warnings, want)
	}
}

func TestDetectFormat(t *testing.T) {
	t.Parallel()

	tests := map[string]Format{
		"bench.json": FormatJSON,
		"bench.yaml": FormatYAML,
		"bench.YML":  FormatYAML,
		"bench.toml": FormatTOML,
	}
	for path, want := range tests {
		got, err := DetectFormat(path)
		if err != nil || got != want {
			t.Errorf("DetectFormat(%q) = %q, %v; want %q", path, got, err, want)
		}
	}

	if _, err := DetectFormat("bench.ini"); err == nil {
		t.Error("DetectFormat(.ini) expected error")
	}
}

func TestResolve_NoFile(t *testing.T) {
	t.Parallel()

	cfg, warnings, err := Resolve("")
	if err != nil {
		t.Fatalf("Resolve(\"\") error = %v", err)
	}
	if warnings != nil {
		t.Errorf("warnings = %v, want nil", warnings)
	}
	if len(cfg.Scenes) == 0 {
		t.Error("Resolve(\"\") should include the default scenes")
	}
}

func TestResolve_OverridesDefaults(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "bench.yaml", `
height: 512
timeout: 30m
tolerance:
  pixel: 2
`)
	cfg, _, err := Resolve(path)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cfg.Height != 512 {
		t.Errorf("Height = %d, want 512", cfg.Height)
	}
	if cfg.Width != DefaultWidth {
		t.Errorf("Width = %d, want default %d", cfg.Width, DefaultWidth)
	}
	if cfg.PixelTolerance() != 2 {
		t.Errorf("PixelTolerance() = %d, want 2", cfg.PixelTolerance())
	}
	if cfg.ScoreTolerance() != DefaultScoreTolerance {
		t.Errorf("ScoreTolerance() = %v, want default", cfg.ScoreTolerance())
	}
	if d, _ := cfg.TimeoutDuration(); d.Minutes() != 30 {
		t.Errorf("TimeoutDuration() = %v, want 30m", d)
	}
	if _, ok := cfg.Scenes["fiu1"]; !ok {
		t.Error("default scenes should be kept when the file defines none")
	}
}

func TestResolve_ReplacesScenes(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "bench.json", `{"scenes": {"cube": {"file": "c.obj", "camera": {"position": [1,2,3], "up": [0,1,0], "focus": [0,0,0]}}}}`)
	cfg, _, err := Resolve(path)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(cfg.Scenes) != 1 {
		t.Errorf("len(Scenes) = %d, want 1", len(cfg.Scenes))
	}
}

func TestResolve_ExplicitZeroScoreTolerance(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "bench.json", `{"tolerance": {"score": 0}}`)
	cfg, _, err := Resolve(path)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cfg.ScoreTolerance() != 0 {
		t.Errorf("ScoreTolerance() = %v, want explicit 0", cfg.ScoreTolerance())
	}
}

func TestResolve_Errors(t *testing.T) {
	t.Parallel()

	if _, _, err := Resolve(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Resolve() expected error for missing file")
	}

	path := writeConfig(t, "bench.yaml", "timeout: soon\n")
	_, _, err := Resolve(path)
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "timeout" {
		t.Errorf("Resolve() error = %v, want timeout validation error", err)
	}

	path = writeConfig(t, "bench.yaml", "scenes:\n  9lives:\n    file: x\n    camera: {position: [1,2,3], up: [0,1,0], focus: [0,0,0]}\n")
	_, _, err = Resolve(path)
	if !errors.As(err, &verr) || verr.Field != "scenes.9lives" {
		t.Errorf("Resolve() error = %v, want scene name validation error", err)
	}
}
