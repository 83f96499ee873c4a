// Package stats aggregates absolute sample deltas across a whole run.
package stats

import (
	"fmt"
	"math"
	"sort"
)

// MetricStats summarizes one metric's absolute deltas over a run.
type MetricStats struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
	P50    float64 `json:"p50"`
	P95    float64 `json:"p95"`
	P99    float64 `json:"p99"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// ComputeMetricStats returns the mean, sample standard deviation (n-1),
// nearest-rank percentiles and range of values. Empty input yields the
// zero value. values is not modified.
func ComputeMetricStats(values []float64) MetricStats {
	n := len(values)
	if n == 0 {
		return MetricStats{}
	}

	out := MetricStats{Min: values[0], Max: values[0]}
	sum := 0.0
	for _, v := range values {
		sum += v
		out.Min = math.Min(out.Min, v)
		out.Max = math.Max(out.Max, v)
	}
	out.Mean = sum / float64(n)

	if n > 1 {
		variance := 0.0
		for _, v := range values {
			d := v - out.Mean
			variance += d * d
		}
		out.StdDev = math.Sqrt(variance / float64(n-1))
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	out.P50 = sorted[percentileIndex(0.50, n)]
	out.P95 = sorted[percentileIndex(0.95, n)]
	out.P99 = sorted[percentileIndex(0.99, n)]
	return out
}

// percentileIndex is floor(p*(n-1)+0.5) clamped to [0, n-1].
func percentileIndex(p float64, n int) int {
	idx := int(math.Floor(p*float64(n-1) + 0.5))
	if idx < 0 {
		return 0
	}
	if idx > n-1 {
		return n - 1
	}
	return idx
}

// Histogram counts values in uniform buckets over [Min, Max].
type Histogram struct {
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	BucketSize float64 `json:"bucketSize"`
	Counts     []int   `json:"counts"`
}

// NewHistogram creates a histogram with buckets of equal width.
func NewHistogram(lo, hi float64, buckets int) (*Histogram, error) {
	if buckets <= 0 {
		return nil, fmt.Errorf("histogram needs at least one bucket, got %d", buckets)
	}
	if !(hi > lo) {
		return nil, fmt.Errorf("histogram range [%g, %g] is empty", lo, hi)
	}
	return &Histogram{
		Min:        lo,
		Max:        hi,
		BucketSize: (hi - lo) / float64(buckets),
		Counts:     make([]int, buckets),
	}, nil
}

// Record counts v. Values outside the range land in the nearest edge bucket,
// and Max itself lands in the last bucket.
func (h *Histogram) Record(v float64) {
	h.Counts[h.Bucket(v)]++
}

// Bucket returns the index Record would use for v.
func (h *Histogram) Bucket(v float64) int {
	v = math.Max(h.Min, math.Min(h.Max, v))
	return min(int(math.Floor((v-h.Min)/h.BucketSize)), len(h.Counts)-1)
}

// Total returns the number of recorded values.
func (h *Histogram) Total() int {
	total := 0
	for _, c := range h.Counts {
		total += c
	}
	return total
}

// UpperBound returns the inclusive upper edge of bucket i.
func (h *Histogram) UpperBound(i int) float64 {
	if i == len(h.Counts)-1 {
		return h.Max
	}
	return h.Min + float64(i+1)*h.BucketSize
}
