package compare

import (
	stderrors "errors"
	"fmt"
	"math"

	"github.com/AndreyAkinshin/colorparity/internal/color"
	"github.com/AndreyAkinshin/colorparity/internal/engine"
	"github.com/AndreyAkinshin/colorparity/internal/errors"
	"github.com/AndreyAkinshin/colorparity/internal/tolerance"
)

// MaxSamples bounds the number of samples compared for a single case.
const MaxSamples = 1 << 20

// Sentinel errors returned (wrapped) by Compare.
var (
	ErrInvalidArgument = stderrors.New("invalid argument")
	ErrAllocation      = stderrors.New("allocation limit exceeded")
)

// Input is one engine's samples for a case.
type Input struct {
	Engine string
	Colors []color.EngineColor
}

// Count returns the number of samples the engine produced.
func (in *Input) Count() int {
	return len(in.Colors)
}

// FromOutput adapts an engine output. A nil output yields a nil input.
func FromOutput(out *engine.Output) *Input {
	if out == nil {
		return nil
	}
	return &Input{Engine: out.Engine, Colors: out.Colors}
}

// Compare compares the overlapping samples of two engines for one case.
//
// A count disagreement (between the engines, or with expected) marks the
// result failed and sets Mismatch, but deltas are still computed for every
// overlapping sample. With no overlap or expected == 0 the result has no
// samples. Errors are reserved for nil arguments and oversized inputs.
func Compare(caseID string, canonical, alternate *Input, policy *tolerance.Policy, expected int) (*Result, error) {
	if canonical == nil || alternate == nil || policy == nil {
		return nil, invalidArgument(caseID, "canonical, alternate and policy are required")
	}
	if expected < 0 {
		return nil, invalidArgument(caseID, fmt.Sprintf("expected count must not be negative, got %d", expected))
	}

	canonicalCount := canonical.Count()
	alternateCount := alternate.Count()
	sampleCount := min(canonicalCount, alternateCount)

	result := &Result{
		CaseID:         caseID,
		ExpectedCount:  expected,
		CanonicalCount: canonicalCount,
		AlternateCount: alternateCount,
		Contributors:   []Contributor{},
	}

	if sampleCount == 0 || expected == 0 {
		result.Mismatch = newMismatch(expected, canonicalCount, alternateCount, 0)
		result.Samples = []SampleDelta{}
		return result, nil
	}

	if sampleCount > MaxSamples {
		err := errors.Allocation(fmt.Sprintf("%d samples exceed the limit of %d", sampleCount, MaxSamples))
		err.Case = caseID
		err.Cause = ErrAllocation
		return nil, err
	}

	passed := true
	if sampleCount != expected || canonicalCount != alternateCount {
		passed = false
		result.Mismatch = newMismatch(expected, canonicalCount, alternateCount, sampleCount)
	}

	result.SampleCount = sampleCount
	result.Samples = make([]SampleDelta, sampleCount)

	for i := 0; i < sampleCount; i++ {
		s := NewSampleDelta(i, canonical.Colors[i], alternate.Colors[i])
		result.Samples[i] = s

		if !policy.Within(s.Delta) {
			passed = false
			result.ToleranceFailures++
		}

		result.MaxDeltaE = math.Max(result.MaxDeltaE, s.Delta.DeltaE)
		result.MaxL = math.Max(result.MaxL, math.Abs(s.Delta.L))
		result.MaxA = math.Max(result.MaxA, math.Abs(s.Delta.A))
		result.MaxB = math.Max(result.MaxB, math.Abs(s.Delta.B))
		result.MaxR = math.Max(result.MaxR, math.Abs(s.RGBDelta.R))
		result.MaxG = math.Max(result.MaxG, math.Abs(s.RGBDelta.G))
		result.MaxBlue = math.Max(result.MaxBlue, math.Abs(s.RGBDelta.B))
	}

	result.Passed = passed
	return result, nil
}

func newMismatch(expected, canonical, alternate, compared int) *Mismatch {
	return &Mismatch{
		Expected:  expected,
		Canonical: canonical,
		Alternate: alternate,
		Compared:  compared,
		Dropped:   canonical + alternate - 2*compared,
	}
}

func invalidArgument(caseID, msg string) error {
	err := errors.InvalidArgument(msg)
	err.Case = caseID
	err.Cause = ErrInvalidArgument
	return err
}
