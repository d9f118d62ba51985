package integration

import (
	"errors"
	"strings"
	"testing"

	"github.com/AndreyAkinshin/benchcheck/internal/baseline"
	"github.com/AndreyAkinshin/benchcheck/internal/config"
	bcerrors "github.com/AndreyAkinshin/benchcheck/internal/errors"
	"github.com/AndreyAkinshin/benchcheck/internal/scenes"
)

func TestInvalidSchemaConfig(t *testing.T) {
	t.Parallel()

	_, _, err := config.Resolve(fixture("config", "invalid-schema.yaml"))
	if err == nil {
		t.Fatal("Resolve() expected error for schema violation")
	}
	if !strings.Contains(err.Error(), "config validation failed") {
		t.Errorf("error = %q, want schema validation failure", err)
	}
}

func TestUnknownFieldsWarn(t *testing.T) {
	t.Parallel()

	cfg, warnings, err := config.Resolve(fixture("config", "unknown-fields.json"))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	want := []string{
		`unknown field "renderer" at root level (ignored)`,
		`unknown field "spp" in scene "fiu1" (ignored)`,
	}
	if len(warnings) != len(want) {
		t.Fatalf("warnings = %v, want %v", warnings, want)
	}
	for i := range want {
		if warnings[i] != want[i] {
			t.Errorf("warnings[%d] = %q, want %q", i, warnings[i], want[i])
		}
	}
	if _, ok := cfg.Scenes["fiu1"]; !ok {
		t.Error("scene fiu1 should still be loaded")
	}
}

func TestMissingConfigFile(t *testing.T) {
	t.Parallel()

	_, _, err := config.Resolve(fixture("config", "does-not-exist.yaml"))
	if err == nil {
		t.Fatal("Resolve() expected error for missing file")
	}
	if !strings.Contains(err.Error(), "failed to read config file") {
		t.Errorf("error = %q", err)
	}
}

func TestMalformedBaselines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		file string
		want string
	}{
		{"short-row.csv", ":3: malformed baseline row: expected at least 6 columns, got 3"},
		{"bad-score.csv", `:2: malformed baseline row: score column "fast" is not numeric`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.file, func(t *testing.T) {
			t.Parallel()
			_, err := baseline.Load(fixture("baseline", tt.file))
			if err == nil {
				t.Fatal("Load() expected error")
			}
			if !errors.Is(err, bcerrors.ErrMalformedBaseline) {
				t.Errorf("error kind = %v, want malformed baseline", bcerrors.KindOf(err))
			}
			if !strings.HasSuffix(err.Error(), tt.want) {
				t.Errorf("error = %q, want suffix %q", err, tt.want)
			}
		})
	}
}

func TestMissingBaselineFile(t *testing.T) {
	t.Parallel()

	_, err := baseline.Load(fixture("baseline", "missing.csv"))
	if err == nil {
		t.Fatal("Load() expected error for missing file")
	}
	if bcerrors.KindOf(err).PerTest() {
		t.Errorf("missing baseline should abort the run, got kind %v", bcerrors.KindOf(err))
	}
}

func TestUnknownSceneSelection(t *testing.T) {
	t.Parallel()

	cfg, _, err := config.Resolve(fixture("config", "bench.yaml"))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	reg, err := scenes.FromConfig(cfg)
	if err != nil {
		t.Fatalf("FromConfig() error = %v", err)
	}

	_, err = reg.Select(scenes.ParseSelection("fiu1,9lives"))
	if err == nil {
		t.Fatal("Select() expected error for unknown scene")
	}
	if !errors.Is(err, bcerrors.ErrConfig) {
		t.Errorf("error kind = %v, want configuration error", bcerrors.KindOf(err))
	}
	if !strings.Contains(err.Error(), "9lives") {
		t.Errorf("error = %q, want unknown name", err)
	}
}
