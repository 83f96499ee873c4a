package output

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/AndreyAkinshin/colorparity/internal/compare"
	"github.com/AndreyAkinshin/colorparity/internal/report"
)

var titleCase = cases.Title(language.English)

// RunReport prints the human-readable summary of a finished run.
func (w *Writer) RunReport(rep *report.Report, reportPath string) {
	s := rep.Summary

	w.SummaryHeader("Parity Run " + rep.RunID)
	w.SummaryItem("Corpus", rep.CorpusVersion)
	w.SummaryItem("Cases", fmt.Sprintf("%d", s.TotalCases))
	w.SummaryPassed("Passed", fmt.Sprintf("%d", s.Passed))
	if s.Failed > 0 {
		w.SummaryFailed("Failed", fmt.Sprintf("%d", s.Failed))
	}
	w.SummaryItem("Pass rate", FormatPercent(rep.PassRate))
	w.SummaryItem("Duration", FormatDuration(rep.DurationMs))
	w.SummaryItem("ΔE p50/p95/p99/max", fmt.Sprintf("%.6f / %.6f / %.6f / %.6f",
		s.DeltaE.P50, s.DeltaE.P95, s.DeltaE.P99, s.DeltaE.Max))
	if reportPath != "" {
		w.SummaryItem("Report", reportPath)
	}

	if len(rep.Cases) > 0 {
		w.Println("")
		w.SummarySectionLabel("Cases:")
		for i := range rep.Cases {
			c := &rep.Cases[i]
			w.SummaryAction(c.CaseID, c.Passed, fmt.Sprintf("ΔE %.6f", c.MaxDeltaE), mismatchNote(c.Mismatch))
		}
	}

	w.ContributorTable(rep.Cases)

	if rep.WithinPassGate && rep.WithinDuration {
		w.FinalSuccess("Parity run passed: %d of %d cases within tolerance.", s.Passed, s.TotalCases)
		return
	}
	var reasons []string
	if !rep.WithinPassGate {
		reasons = append(reasons, "pass rate "+FormatPercent(rep.PassRate)+" below gate")
	}
	if !rep.WithinDuration {
		reasons = append(reasons, "duration "+FormatDuration(rep.DurationMs)+" over limit")
	}
	w.FinalFailure("Parity run failed: %s.", strings.Join(reasons, "; "))
}

// ContributorTable prints the top contributors of every failed case.
// Nothing is printed when all cases passed.
func (w *Writer) ContributorTable(caseReports []report.CaseReport) {
	var rows [][]string
	for i := range caseReports {
		c := &caseReports[i]
		if c.Passed {
			continue
		}
		for _, k := range c.Contributors {
			rows = append(rows, []string{
				c.CaseID,
				k.Label,
				fmt.Sprintf("%.6f", k.Magnitude),
				fmt.Sprintf("%.2f", k.ZScore),
				titleCase.String(k.Direction),
				k.Stage,
				k.Parameter,
			})
		}
	}
	if len(rows) == 0 {
		return
	}
	w.Println("")
	w.SummarySectionLabel("Top Contributors:")
	w.Table([]string{"Case", "Metric", "Magnitude", "Z", "Direction", "Stage", "Parameter"}, rows)
}

// FormatPercent renders a ratio in [0, 1] as a percentage.
func FormatPercent(ratio float64) string {
	return fmt.Sprintf("%.2f%%", ratio*100)
}

// FormatDuration renders milliseconds, switching to seconds past one second.
func FormatDuration(ms float64) string {
	if ms < 1000 {
		return fmt.Sprintf("%.0fms", ms)
	}
	return fmt.Sprintf("%.2fs", ms/1000)
}

func mismatchNote(m *compare.Mismatch) string {
	if m == nil {
		return ""
	}
	return fmt.Sprintf("count mismatch: expected %d, canonical %d, alternate %d", m.Expected, m.Canonical, m.Alternate)
}
