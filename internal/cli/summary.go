package cli

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/AndreyAkinshin/benchcheck/internal/errors"
	"github.com/AndreyAkinshin/benchcheck/internal/harness"
	"github.com/AndreyAkinshin/benchcheck/internal/output"
	"github.com/AndreyAkinshin/benchcheck/internal/report"
)

var (
	numbers = message.NewPrinter(language.English)
	title   = cases.Title(language.English)
)

// printSummary prints the result table and the final verdict. The table is
// skipped in quiet mode; the verdict is always printed.
func printSummary(w *output.Writer, s *harness.Summary) {
	if s.Total() == 0 {
		w.FinalFailure("No tests were run")
		return
	}

	if !w.Quiet() {
		w.SummaryHeader("Summary")
		w.Table(
			[]string{"TEST", "STATUS", "SCORE", "EXPECTED", "RATIO", "TIME", "FAILURE"},
			summaryRows(s),
		)
	}

	if s.Failed == 0 {
		w.FinalSuccess("All %d tests passed", s.Total())
		return
	}
	w.FinalFailure("%d of %d tests failed", s.Failed, s.Total())
	for _, r := range s.FailedRuns() {
		w.Println("  %s: %s", r.ID, r.Reason)
	}
}

func summaryRows(s *harness.Summary) [][]string {
	rows := make([][]string, 0, s.Total())
	for _, r := range s.Runs {
		score, expected, ratio, failure := "-", "-", "-", ""
		if r.Record != nil {
			score = numbers.Sprintf("%.2f", r.Record.Score())
		}
		if r.Expected != nil {
			expected = numbers.Sprintf("%.2f", *r.Expected)
		}
		if r.Ratio != 0 {
			ratio = numbers.Sprintf("%.2f", r.Ratio)
		}
		if r.Err != nil {
			failure = title.String(errors.KindOf(r.Err).String())
		}
		rows = append(rows, []string{
			r.ID,
			r.Status.String(),
			score,
			expected,
			ratio,
			report.FormatDuration(r.Duration),
			failure,
		})
	}
	return rows
}
