// Package regress decides whether a benchmark score regressed against its
// baseline.
//
// Unless the rendering algorithm itself changes, the score reached by a
// benchmark should stay consistent across builds. The check is two-sided: a
// score that improved beyond the tolerance fails just like one that got
// worse, since both mean the baseline no longer describes the build.
package regress

import (
	"fmt"
	"math"

	"github.com/AndreyAkinshin/benchcheck/internal/baseline"
	"github.com/AndreyAkinshin/benchcheck/internal/errors"
	"github.com/AndreyAkinshin/benchcheck/internal/stats"
)

// DefaultScoreTolerance is the relative band around the baseline score
// accepted as unchanged, in both directions.
const DefaultScoreTolerance = 0.15

// ZeroTolerance is the absolute difference accepted when either score is zero
// and a ratio cannot be formed.
const ZeroTolerance = 1.0

const tooHigh = "the difference between the expected and actual score is too high"

// Outcome is the verdict of a single comparison.
type Outcome struct {
	Passed bool
	Reason string
	Ratio  float64 // frame/target; zero when no ratio was computed
}

// Pass is the outcome of a comparison that makes no claim or succeeded.
var Pass = Outcome{Passed: true}

// Err converts a failed outcome into a score regression error for test id.
// It returns nil for passing outcomes.
func (o Outcome) Err(id string) error {
	if o.Passed {
		return nil
	}
	return errors.ScoreRegression(id, o.Reason)
}

// Comparator compares scores against a baseline with a fixed tolerance.
type Comparator struct {
	Tolerance float64
}

// NewComparator returns a comparator with the given relative tolerance.
func NewComparator(tolerance float64) Comparator {
	return Comparator{Tolerance: tolerance}
}

// Compare checks the score of rec against the baseline entry for id. An id
// without a baseline entry always passes.
func (c Comparator) Compare(rec *stats.Record, table baseline.Table, id string) Outcome {
	target, ok := table.Lookup(id)
	if !ok {
		return Pass
	}
	return c.CompareScores(rec.Score(), target)
}

// CompareScores checks frame against target.
func (c Comparator) CompareScores(frame, target float64) Outcome {
	if frame == 0 || target == 0 {
		if math.Abs(frame-target) > ZeroTolerance {
			return Outcome{Reason: tooHigh}
		}
		return Pass
	}

	ratio := frame / target
	if ratio > 1+c.Tolerance || ratio < 1-c.Tolerance {
		return Outcome{
			Reason: fmt.Sprintf("%s (%.2f ratio)", tooHigh, ratio),
			Ratio:  ratio,
		}
	}
	return Outcome{Passed: true, Ratio: ratio}
}
