// Package analysis ranks the metrics that best explain why a case diverged.
package analysis

import (
	stderrors "errors"
	"math"
	"sort"

	"github.com/AndreyAkinshin/colorparity/internal/compare"
	"github.com/AndreyAkinshin/colorparity/internal/errors"
	"github.com/AndreyAkinshin/colorparity/internal/stats"
)

// Contributor is one ranked metric of a case.
type Contributor = compare.Contributor

// Direction values.
const (
	DirectionHigher        = "higher"
	DirectionLower         = "lower"
	DirectionFlat          = "flat"
	DirectionNotApplicable = "n/a"
)

const (
	metricCount = 7

	// directionEpsilon separates a real signed deviation from rounding noise.
	directionEpsilon = 1e-12

	// SignificanceThreshold is the |z| at and above which a contributor is
	// flagged significant.
	SignificanceThreshold = 2.0
)

// ErrInvalidArgument is wrapped by ComputeContributors for nil inputs.
var ErrInvalidArgument = stderrors.New("invalid argument")

type rawContributor struct {
	metric    string
	magnitude float64
	signed    float64
	unsigned  bool
	zScore    float64
}

// ComputeContributors ranks the seven tracked metrics of result by their
// largest absolute deviation and scores each against the run distribution.
//
// The signed value behind Direction is alternate minus canonical, so
// "higher" means the alternate engine produced the larger value. deltaE has
// no sign and always reports "n/a". topN of 0 or above seven returns all.
func ComputeContributors(result *compare.Result, runStats *stats.RunStats, topN int) ([]Contributor, error) {
	if result == nil || runStats == nil {
		err := errors.InvalidArgument("result and run statistics are required")
		err.Cause = ErrInvalidArgument
		return nil, err
	}
	if topN < 0 {
		err := errors.InvalidArgument("topN must not be negative")
		err.Cause = ErrInvalidArgument
		return nil, err
	}
	if len(result.Samples) == 0 {
		return []Contributor{}, nil
	}

	raw := [metricCount]rawContributor{
		{metric: "deltaE", unsigned: true},
		{metric: "oklab.l"},
		{metric: "oklab.a"},
		{metric: "oklab.b"},
		{metric: "srgb.r"},
		{metric: "srgb.g"},
		{metric: "srgb.b"},
	}

	for _, s := range result.Samples {
		raw[0].observe(s.Delta.DeltaE)
		raw[1].observe(-s.Delta.L)
		raw[2].observe(-s.Delta.A)
		raw[3].observe(-s.Delta.B)
		raw[4].observe(-s.RGBDelta.R)
		raw[5].observe(-s.RGBDelta.G)
		raw[6].observe(-s.RGBDelta.B)
	}

	for i := range raw {
		ms, _ := runStats.ForMetric(raw[i].metric)
		raw[i].zScore = zScore(raw[i].magnitude, ms)
	}

	ranked := raw[:]
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].magnitude > ranked[j].magnitude
	})

	if topN == 0 || topN > metricCount {
		topN = metricCount
	}

	out := make([]Contributor, 0, topN)
	for _, rc := range ranked[:topN] {
		hint, _ := LookupStageHint(rc.metric)
		out = append(out, Contributor{
			Metric:      rc.metric,
			Label:       hint.Label,
			Magnitude:   rc.magnitude,
			ZScore:      rc.zScore,
			Direction:   rc.direction(),
			Significant: IsSignificant(rc.zScore),
			Stage:       hint.Stage,
			Parameter:   hint.Parameter,
		})
	}
	return out, nil
}

// observe keeps the largest absolute deviation seen so far. Ties keep the
// earlier sample.
func (rc *rawContributor) observe(signed float64) {
	if m := math.Abs(signed); m > rc.magnitude {
		rc.magnitude = m
		rc.signed = signed
	}
}

func (rc *rawContributor) direction() string {
	switch {
	case rc.unsigned:
		return DirectionNotApplicable
	case rc.signed > directionEpsilon:
		return DirectionHigher
	case rc.signed < -directionEpsilon:
		return DirectionLower
	default:
		return DirectionFlat
	}
}

func zScore(magnitude float64, ms stats.MetricStats) float64 {
	if ms.StdDev <= 0 {
		return 0
	}
	return (magnitude - ms.Mean) / ms.StdDev
}

// IsSignificant reports whether a z-score reaches SignificanceThreshold.
func IsSignificant(z float64) bool {
	return math.Abs(z) >= SignificanceThreshold
}

// Annotate computes contributors for every result in place.
// It must only run once runStats covers the whole run.
func Annotate(results []*compare.Result, runStats *stats.RunStats, topN int) error {
	for _, r := range results {
		cs, err := ComputeContributors(r, runStats, topN)
		if err != nil {
			return err
		}
		r.Contributors = cs
	}
	return nil
}
