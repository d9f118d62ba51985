package report

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Summary is the machine-readable record of a whole run.
type Summary struct {
	RunID      string    `yaml:"run_id"`
	Executable string    `yaml:"executable"`
	Width      int       `yaml:"width"`
	Height     int       `yaml:"height"`
	Baseline   string    `yaml:"baseline,omitempty"`
	Reference  string    `yaml:"reference,omitempty"`
	StartedAt  time.Time `yaml:"started_at"`
	Duration   string    `yaml:"duration"`
	Total      int       `yaml:"total"`
	Passed     int       `yaml:"passed"`
	Failed     int       `yaml:"failed"`
	Tests      []Entry   `yaml:"tests"`
}

// Entry is the record of one test run.
type Entry struct {
	ID       string   `yaml:"id"`
	Scene    string   `yaml:"scene"`
	Mode     string   `yaml:"mode"`
	Status   string   `yaml:"status"`
	Kind     string   `yaml:"kind,omitempty"`
	Reason   string   `yaml:"reason,omitempty"`
	Score    *float64 `yaml:"score,omitempty"`
	Expected *float64 `yaml:"expected,omitempty"`
	Ratio    *float64 `yaml:"ratio,omitempty"`
	Duration string   `yaml:"duration"`
}

// MarshalSummary encodes s as YAML.
func MarshalSummary(s Summary) ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshalling summary: %w", err)
	}
	return data, nil
}

// WriteSummary writes s as YAML to path.
func WriteSummary(path string, s Summary) error {
	data, err := MarshalSummary(s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}

// ReadSummary loads a summary written by WriteSummary.
func ReadSummary(path string) (Summary, error) {
	var s Summary
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("failed to read summary: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("invalid summary %s: %w", path, err)
	}
	return s, nil
}

// FormatDuration formats a duration in a human-readable way.
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm%ds", m, s)
}
