// Package compare computes per-sample deltas between a canonical and an
// alternate engine and aggregates them into a per-case result.
package compare

import (
	"github.com/AndreyAkinshin/colorparity/internal/color"
	"github.com/AndreyAkinshin/colorparity/internal/tolerance"
)

// Delta is the OKLab difference of one sample.
type Delta = tolerance.Delta

// SampleDelta is the comparison of one sample index.
type SampleDelta struct {
	Index     int               `json:"index"`
	Canonical color.EngineColor `json:"canonical"`
	Alternate color.EngineColor `json:"alternate"`
	Delta     Delta             `json:"delta"`
	RGBDelta  color.SRGB        `json:"rgbDelta"`
}

// NewSampleDelta compares one pair of samples. Channel deltas are signed
// canonical minus alternate; DeltaE is the unsigned OKLab distance.
func NewSampleDelta(index int, canonical, alternate color.EngineColor) SampleDelta {
	lab := canonical.OKLab.Sub(alternate.OKLab)
	return SampleDelta{
		Index:     index,
		Canonical: canonical,
		Alternate: alternate,
		Delta: Delta{
			L:      lab.L,
			A:      lab.A,
			B:      lab.B,
			DeltaE: color.Distance(canonical.OKLab, alternate.OKLab),
		},
		RGBDelta: canonical.SRGB.Sub(alternate.SRGB),
	}
}

// Mismatch describes a disagreement between the declared sample count and
// what the engines produced. It is reported next to the tolerance verdict,
// not folded into it.
type Mismatch struct {
	Expected  int `json:"expected"`
	Canonical int `json:"canonical"`
	Alternate int `json:"alternate"`
	Compared  int `json:"compared"`
	Dropped   int `json:"dropped"` // samples beyond the overlap, summed over both engines
}

// Contributor ranks one tracked metric as an explanation for a case's divergence.
type Contributor struct {
	Metric      string  `json:"metric"`
	Label       string  `json:"label"`
	Magnitude   float64 `json:"magnitude"`
	ZScore      float64 `json:"zScore"`
	Direction   string  `json:"direction"`
	Significant bool    `json:"significant"`
	Stage       string  `json:"stage"`
	Parameter   string  `json:"parameter"`
}

// Result is the comparison of one corpus case.
// Only Contributors is filled after Compare returns.
type Result struct {
	CaseID         string        `json:"inputCaseId"`
	Samples        []SampleDelta `json:"samples"`
	SampleCount    int           `json:"sampleCount"`
	ExpectedCount  int           `json:"expectedCount"`
	CanonicalCount int           `json:"canonicalCount"`
	AlternateCount int           `json:"alternateCount"`
	Passed         bool          `json:"passed"`
	Mismatch       *Mismatch     `json:"mismatch,omitempty"`

	// ToleranceFailures counts samples outside the tolerance policy.
	ToleranceFailures int `json:"toleranceFailures"`

	MaxDeltaE float64 `json:"maxDeltaE"`
	MaxL      float64 `json:"maxL"`
	MaxA      float64 `json:"maxA"`
	MaxB      float64 `json:"maxB"`
	MaxR      float64 `json:"maxRgbR"`
	MaxG      float64 `json:"maxRgbG"`
	MaxBlue   float64 `json:"maxRgbB"`

	Contributors []Contributor `json:"contributors"`
}

// WithinTolerance reports whether every compared sample met the tolerance
// policy, ignoring any count mismatch.
func (r *Result) WithinTolerance() bool {
	return r.SampleCount > 0 && r.ToleranceFailures == 0
}
