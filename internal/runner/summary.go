package runner

import (
	"github.com/AndreyAkinshin/colorparity/internal/compare"
	"github.com/AndreyAkinshin/colorparity/internal/stats"
)

// Default gate thresholds.
const (
	DefaultPassGate      = 0.95
	DefaultMaxDurationMs = 600000
)

// Summary is the run-level outcome handed to reporting and gating.
type Summary struct {
	TotalCases int            `json:"totalCases"`
	Passed     int            `json:"passed"`
	Failed     int            `json:"failed"`
	Mismatched int            `json:"mismatched"`
	DurationMs float64        `json:"durationMs"`
	PassRate   float64        `json:"passRate"`
	Stats      stats.RunStats `json:"stats"`
}

// Summarize counts verdicts over results. PassRate is zero for an empty run.
func Summarize(results []*compare.Result, durationMs float64, runStats stats.RunStats) Summary {
	s := Summary{
		TotalCases: len(results),
		DurationMs: durationMs,
		Stats:      runStats,
	}
	for _, r := range results {
		if r.Passed {
			s.Passed++
		} else {
			s.Failed++
		}
		if r.Mismatch != nil {
			s.Mismatched++
		}
	}
	if s.TotalCases > 0 {
		s.PassRate = float64(s.Passed) / float64(s.TotalCases)
	}
	return s
}

// Gate holds the thresholds a run must meet to exit successfully.
type Gate struct {
	PassGate      float64
	MaxDurationMs float64
}

// DefaultGate returns the standard thresholds.
func DefaultGate() Gate {
	return Gate{PassGate: DefaultPassGate, MaxDurationMs: DefaultMaxDurationMs}
}

// Verdict is the result of evaluating a Gate.
type Verdict struct {
	WithinPassGate bool
	WithinDuration bool
}

// OK reports whether both thresholds were met.
func (v Verdict) OK() bool {
	return v.WithinPassGate && v.WithinDuration
}

// Evaluate checks s against the gate.
func (g Gate) Evaluate(s Summary) Verdict {
	return Verdict{
		WithinPassGate: s.PassRate >= g.PassGate,
		WithinDuration: s.DurationMs <= g.MaxDurationMs,
	}
}
