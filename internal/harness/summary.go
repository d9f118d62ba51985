package harness

import (
	"time"

	"github.com/AndreyAkinshin/benchcheck/internal/errors"
	"github.com/AndreyAkinshin/benchcheck/internal/report"
	"github.com/AndreyAkinshin/benchcheck/internal/scenes"
	"github.com/AndreyAkinshin/benchcheck/internal/stats"
)

// Status is the state of a test run.
type Status int

const (
	StatusPending Status = iota
	StatusRunning
	StatusPassed
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "PENDING"
	case StatusRunning:
		return "RUNNING"
	case StatusPassed:
		return "PASSED"
	case StatusFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// TestRun is one scene rendered in one mode.
type TestRun struct {
	ID       string
	Scene    scenes.Scene
	Mode     scenes.Mode
	Status   Status
	Reason   string        // failure reason, empty unless FAILED
	Err      error         // typed failure, nil unless FAILED
	Record   *stats.Record // nil if no statistics were parsed
	Expected *float64      // baseline score, if any
	Ratio    float64       // score/expected, zero if not computed
	Duration time.Duration
}

func (r *TestRun) fail(err error) {
	r.Status = StatusFailed
	r.Err = err
	r.Reason = errors.Reason(err)
}

// Summary aggregates the test runs of a benchmark run.
type Summary struct {
	RunID     string // unique per Run call
	Runs      []*TestRun
	Passed    int
	Failed    int
	StartedAt time.Time
	Duration  time.Duration
}

func (s *Summary) add(run *TestRun) {
	s.Runs = append(s.Runs, run)
	if run.Status == StatusPassed {
		s.Passed++
	} else {
		s.Failed++
	}
}

// Total returns the number of finished test runs.
func (s *Summary) Total() int {
	return len(s.Runs)
}

// FailedRuns returns the failed test runs in execution order.
func (s *Summary) FailedRuns() []*TestRun {
	var failed []*TestRun
	for _, r := range s.Runs {
		if r.Status == StatusFailed {
			failed = append(failed, r)
		}
	}
	return failed
}

// Report converts the summary to its serializable form. Run-level fields
// such as the executable are left for the caller to fill in.
func (s *Summary) Report() report.Summary {
	rs := report.Summary{
		RunID:     s.RunID,
		StartedAt: s.StartedAt,
		Duration:  report.FormatDuration(s.Duration),
		Total:     s.Total(),
		Passed:    s.Passed,
		Failed:    s.Failed,
	}
	for _, r := range s.Runs {
		e := report.Entry{
			ID:       r.ID,
			Scene:    r.Scene.Name,
			Mode:     r.Mode.Name(),
			Status:   r.Status.String(),
			Reason:   r.Reason,
			Expected: r.Expected,
			Duration: report.FormatDuration(r.Duration),
		}
		if r.Err != nil {
			e.Kind = errors.KindOf(r.Err).String()
		}
		if r.Record != nil {
			score := r.Record.Score()
			e.Score = &score
		}
		if r.Ratio != 0 {
			ratio := r.Ratio
			e.Ratio = &ratio
		}
		rs.Tests = append(rs.Tests, e)
	}
	return rs
}
