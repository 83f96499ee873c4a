package report

import (
	"github.com/AndreyAkinshin/colorparity/internal/color"
	"github.com/AndreyAkinshin/colorparity/internal/compare"
	"github.com/AndreyAkinshin/colorparity/internal/stats"
	"github.com/AndreyAkinshin/colorparity/internal/tolerance"
)

// Report is the run-level report.json document.
type Report struct {
	RunID          string       `json:"runId"`
	CorpusVersion  string       `json:"corpusVersion"`
	DurationMs     float64      `json:"durationMs"`
	PassRate       float64      `json:"passRate"`
	WithinPassGate bool         `json:"withinPassGate"`
	WithinDuration bool         `json:"withinDuration"`
	ArtifactPolicy Policy       `json:"artifactPolicy"`
	Provenance     Provenance   `json:"provenance"`
	Summary        Summary      `json:"summary"`
	Cases          []CaseReport `json:"cases"`
}

// Provenance records what was compared and under which tolerances.
type Provenance struct {
	CanonicalCommit     string             `json:"cCommit"`
	AlternateCommit     string             `json:"wasmCommit"`
	Platform            string             `json:"platform"`
	ArtifactsRoot       string             `json:"artifactsRoot"`
	CanonicalBuildFlags string             `json:"cBuildFlags,omitempty"`
	AlternateBuildFlags string             `json:"altBuildFlags,omitempty"`
	AppliedTolerances   *AppliedTolerances `json:"appliedTolerances,omitempty"`
}

// AppliedTolerances is the effective tolerance set after overrides.
type AppliedTolerances struct {
	Version string              `json:"toleranceVersion,omitempty"`
	Abs     tolerance.AbsBounds `json:"abs"`
	Rel     tolerance.RelBounds `json:"rel"`
}

// NewAppliedTolerances copies the bounds out of cfg. A nil cfg yields nil.
func NewAppliedTolerances(cfg *tolerance.Config) *AppliedTolerances {
	if cfg == nil {
		return nil
	}
	return &AppliedTolerances{Version: cfg.Version, Abs: cfg.Abs, Rel: cfg.Rel}
}

// Summary holds the case counts and the run-wide statistics.
type Summary struct {
	TotalCases int `json:"totalCases"`
	Passed     int `json:"passed"`
	Failed     int `json:"failed"`
	stats.RunStats
}

// CaseReport is the serialized form of one case result. It is also the
// content of a case's diff.json.
type CaseReport struct {
	CaseID        string                `json:"inputCaseId"`
	Passed        bool                  `json:"passed"`
	MaxDeltaE     float64               `json:"maxDeltaE"`
	SampleCount   int                   `json:"sampleCount"`
	ExpectedCount int                   `json:"expectedCount"`
	Mismatch      *compare.Mismatch     `json:"mismatch,omitempty"`
	Samples       []SampleReport        `json:"samples"`
	Contributors  []compare.Contributor `json:"contributors,omitempty"`
}

// SampleReport is one sample delta with OKLab endpoints.
type SampleReport struct {
	Index     int         `json:"index"`
	Delta     color.OKLab `json:"delta"`
	DeltaE    float64     `json:"deltaE"`
	RGBDelta  color.SRGB  `json:"rgbDelta"`
	Canonical color.OKLab `json:"canonical"`
	Alternate color.OKLab `json:"alternate"`
}

// NewCaseReport converts a comparison result.
func NewCaseReport(r *compare.Result) CaseReport {
	cr := CaseReport{
		CaseID:        r.CaseID,
		Passed:        r.Passed,
		MaxDeltaE:     r.MaxDeltaE,
		SampleCount:   r.SampleCount,
		ExpectedCount: r.ExpectedCount,
		Mismatch:      r.Mismatch,
		Samples:       make([]SampleReport, len(r.Samples)),
		Contributors:  r.Contributors,
	}
	for i, s := range r.Samples {
		cr.Samples[i] = SampleReport{
			Index:     s.Index,
			Delta:     color.OKLab{L: s.Delta.L, A: s.Delta.A, B: s.Delta.B},
			DeltaE:    s.Delta.DeltaE,
			RGBDelta:  s.RGBDelta,
			Canonical: s.Canonical.OKLab,
			Alternate: s.Alternate.OKLab,
		}
	}
	return cr
}

// Metadata is the per-case metadata.json document.
type Metadata struct {
	CaseID          string                `json:"inputCaseId"`
	Passed          bool                  `json:"passed"`
	MaxDeltaE       float64               `json:"maxDeltaE"`
	Input           MetadataInput         `json:"input"`
	Artifacts       map[string]string     `json:"artifacts"`
	TopContributors []compare.Contributor `json:"topContributors,omitempty"`
}

// MetadataInput echoes the corpus inputs a case was generated from.
type MetadataInput struct {
	CorpusVersion string   `json:"corpusVersion"`
	Seed          int64    `json:"seed"`
	Count         int      `json:"count"`
	Tags          []string `json:"tags,omitempty"`
}
