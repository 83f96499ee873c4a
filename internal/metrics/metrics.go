// Package metrics exports a finished run as Prometheus metrics in the
// node-exporter textfile format.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/AndreyAkinshin/colorparity/internal/compare"
	"github.com/AndreyAkinshin/colorparity/internal/runner"
	"github.com/AndreyAkinshin/colorparity/internal/stats"
)

const namespace = "colorparity"

// Collector exposes one run summary as gauges plus a deltaE histogram.
type Collector struct {
	summary runner.Summary
	results []*compare.Result

	cases      *prometheus.Desc
	passRate   *prometheus.Desc
	duration   *prometheus.Desc
	delta      *prometheus.Desc
	caseDeltaE *prometheus.Desc
	deltaE     *prometheus.Desc
}

// NewCollector creates a collector for one run. constLabels (for example
// run_id) are attached to every metric.
func NewCollector(summary runner.Summary, results []*compare.Result, constLabels prometheus.Labels) *Collector {
	desc := func(name, help string, labels ...string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "", name), help, labels, constLabels)
	}
	return &Collector{
		summary:    summary,
		results:    results,
		cases:      desc("cases", "Number of compared cases by result.", "result"),
		passRate:   desc("pass_rate", "Fraction of cases that passed."),
		duration:   desc("duration_ms", "Wall-clock duration of the comparison phase in milliseconds."),
		delta:      desc("delta", "Run-wide statistics of absolute per-sample deltas.", "metric", "stat"),
		caseDeltaE: desc("case_max_deltae", "Largest deltaE observed in a case.", "case", "passed"),
		deltaE:     desc("deltae", "Distribution of per-sample deltaE across the run."),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.cases
	ch <- c.passRate
	ch <- c.duration
	ch <- c.delta
	ch <- c.caseDeltaE
	ch <- c.deltaE
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.summary
	ch <- prometheus.MustNewConstMetric(c.cases, prometheus.GaugeValue, float64(s.Passed), "passed")
	ch <- prometheus.MustNewConstMetric(c.cases, prometheus.GaugeValue, float64(s.Failed), "failed")
	ch <- prometheus.MustNewConstMetric(c.cases, prometheus.GaugeValue, float64(s.Mismatched), "mismatched")
	ch <- prometheus.MustNewConstMetric(c.passRate, prometheus.GaugeValue, s.PassRate)
	ch <- prometheus.MustNewConstMetric(c.duration, prometheus.GaugeValue, s.DurationMs)

	for _, m := range metricStats(&s.Stats) {
		for _, st := range m.values() {
			ch <- prometheus.MustNewConstMetric(c.delta, prometheus.GaugeValue, st.value, m.name, st.name)
		}
	}

	for _, r := range c.results {
		ch <- prometheus.MustNewConstMetric(c.caseDeltaE, prometheus.GaugeValue, r.MaxDeltaE, r.CaseID, fmt.Sprint(r.Passed))
	}

	h := s.Stats.DeltaEHistogram
	if len(h.Counts) > 0 {
		count, buckets := cumulative(h)
		sum := s.Stats.DeltaE.Mean * float64(count)
		ch <- prometheus.MustNewConstHistogram(c.deltaE, count, sum, buckets)
	}
}

// cumulative converts per-bucket counts into Prometheus' cumulative form
// keyed by upper bound.
func cumulative(h stats.Histogram) (uint64, map[float64]uint64) {
	buckets := make(map[float64]uint64, len(h.Counts))
	var running uint64
	for i, n := range h.Counts {
		running += uint64(n)
		buckets[h.UpperBound(i)] = running
	}
	return running, buckets
}

type namedStats struct {
	name string
	ms   stats.MetricStats
}

type statValue struct {
	name  string
	value float64
}

func (n namedStats) values() []statValue {
	return []statValue{
		{"mean", n.ms.Mean},
		{"stddev", n.ms.StdDev},
		{"p50", n.ms.P50},
		{"p95", n.ms.P95},
		{"p99", n.ms.P99},
		{"min", n.ms.Min},
		{"max", n.ms.Max},
	}
}

func metricStats(rs *stats.RunStats) []namedStats {
	return []namedStats{
		{"deltaE", rs.DeltaE},
		{"oklab.l", rs.L},
		{"oklab.a", rs.A},
		{"oklab.b", rs.B},
		{"srgb.r", rs.R},
		{"srgb.g", rs.G},
		{"srgb.b", rs.Blue},
	}
}

// Registry returns a fresh registry holding only this run's collector.
func Registry(summary runner.Summary, results []*compare.Result, constLabels prometheus.Labels) (*prometheus.Registry, error) {
	reg := prometheus.NewRegistry()
	if err := reg.Register(NewCollector(summary, results, constLabels)); err != nil {
		return nil, fmt.Errorf("register run metrics: %w", err)
	}
	return reg, nil
}

// Export writes the run's metrics to path in the textfile format.
// The file is replaced atomically.
func Export(path string, summary runner.Summary, results []*compare.Result, constLabels prometheus.Labels) error {
	reg, err := Registry(summary, results, constLabels)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("metrics: create directory: %w", err)
		}
	}
	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("metrics: write %s: %w", path, err)
	}
	return nil
}
