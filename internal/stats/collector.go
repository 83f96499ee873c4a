package stats

import (
	"math"

	"github.com/AndreyAkinshin/colorparity/internal/compare"
)

// DefaultBuckets is the deltaE histogram resolution used by the runner.
const DefaultBuckets = 20

// RunStats is the run-wide distribution of every tracked metric.
// It is built once after all cases are compared and is read-only afterwards.
type RunStats struct {
	DeltaE MetricStats `json:"deltaE"`
	L      MetricStats `json:"l"`
	A      MetricStats `json:"a"`
	B      MetricStats `json:"b"`
	R      MetricStats `json:"rgbR"`
	G      MetricStats `json:"rgbG"`
	Blue   MetricStats `json:"rgbB"`

	DeltaEHistogram Histogram `json:"deltaEHistogram"`
}

// Collector pools absolute deltas from every sample of every case.
type Collector struct {
	deltaE, l, a, b, r, g, blue []float64
	maxDeltaE                   float64
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Add pools the samples of one case result. A nil result is ignored.
func (c *Collector) Add(result *compare.Result) {
	if result == nil {
		return
	}
	for _, s := range result.Samples {
		de := math.Abs(s.Delta.DeltaE)
		c.deltaE = append(c.deltaE, de)
		c.l = append(c.l, math.Abs(s.Delta.L))
		c.a = append(c.a, math.Abs(s.Delta.A))
		c.b = append(c.b, math.Abs(s.Delta.B))
		c.r = append(c.r, math.Abs(s.RGBDelta.R))
		c.g = append(c.g, math.Abs(s.RGBDelta.G))
		c.blue = append(c.blue, math.Abs(s.RGBDelta.B))
		c.maxDeltaE = math.Max(c.maxDeltaE, de)
	}
}

// Len returns the number of pooled samples.
func (c *Collector) Len() int {
	return len(c.deltaE)
}

// Build computes the run statistics. The deltaE histogram spans
// [0, max deltaE], widened to [0, 1] when every deltaE is zero.
// A non-positive bucket count selects DefaultBuckets.
func (c *Collector) Build(buckets int) RunStats {
	if buckets <= 0 {
		buckets = DefaultBuckets
	}
	upper := c.maxDeltaE
	if upper <= 0 {
		upper = 1
	}
	// The range and bucket count are valid by construction.
	hist, _ := NewHistogram(0, upper, buckets)
	for _, v := range c.deltaE {
		hist.Record(v)
	}

	return RunStats{
		DeltaE:          ComputeMetricStats(c.deltaE),
		L:               ComputeMetricStats(c.l),
		A:               ComputeMetricStats(c.a),
		B:               ComputeMetricStats(c.b),
		R:               ComputeMetricStats(c.r),
		G:               ComputeMetricStats(c.g),
		Blue:            ComputeMetricStats(c.blue),
		DeltaEHistogram: *hist,
	}
}

// Build pools every result and computes the run statistics in one step.
func Build(results []*compare.Result, buckets int) RunStats {
	c := NewCollector()
	for _, r := range results {
		c.Add(r)
	}
	return c.Build(buckets)
}

// ForMetric returns the statistics for a contributor metric name.
func (s *RunStats) ForMetric(metric string) (MetricStats, bool) {
	switch metric {
	case "deltaE":
		return s.DeltaE, true
	case "oklab.l":
		return s.L, true
	case "oklab.a":
		return s.A, true
	case "oklab.b":
		return s.B, true
	case "srgb.r":
		return s.R, true
	case "srgb.g":
		return s.G, true
	case "srgb.b":
		return s.Blue, true
	}
	return MetricStats{}, false
}
