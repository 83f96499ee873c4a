// Package runner drives a parity run: it executes both engines for every
// selected case, compares their outputs, and produces the run report.
package runner

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/AndreyAkinshin/colorparity/internal/analysis"
	"github.com/AndreyAkinshin/colorparity/internal/compare"
	"github.com/AndreyAkinshin/colorparity/internal/corpus"
	"github.com/AndreyAkinshin/colorparity/internal/engine"
	"github.com/AndreyAkinshin/colorparity/internal/errors"
	"github.com/AndreyAkinshin/colorparity/internal/report"
	"github.com/AndreyAkinshin/colorparity/internal/stats"
	"github.com/AndreyAkinshin/colorparity/internal/tolerance"
)

// DefaultTopContributors is how many contributors each case keeps.
const DefaultTopContributors = 3

const unknown = "unknown"

// Provenance identifies the run and the engine builds being compared.
// Empty commits fall back to the first commit each engine reports.
type Provenance struct {
	RunID           string
	CanonicalCommit string
	AlternateCommit string
	Platform        string
}

// Options configures a Runner.
type Options struct {
	Corpus     *corpus.Corpus
	CaseIDs    []string
	Tags       []string
	Tolerances *tolerance.Config

	Canonical engine.Runner
	Alternate engine.Runner

	// Writer receives artifacts and the report. Nil disables all file output.
	Writer *report.Writer

	Gate             Gate
	TopContributors  int
	HistogramBuckets int
	Provenance       Provenance
	Logger           *zap.Logger
}

// Outcome is everything a finished run produced.
type Outcome struct {
	Summary    Summary
	Verdict    Verdict
	Results    []*compare.Result
	Report     *report.Report
	ReportPath string
}

// Runner executes parity runs. Cases run one at a time.
type Runner struct {
	opts   Options
	policy tolerance.Policy
	log    *zap.Logger
	now    func() time.Time
}

// New validates opts and creates a Runner.
func New(opts Options) (*Runner, error) {
	if opts.Corpus == nil {
		return nil, errors.InvalidArgument("runner: corpus is required")
	}
	if opts.Tolerances == nil {
		return nil, errors.InvalidArgument("runner: tolerances are required")
	}
	if opts.Canonical == nil || opts.Alternate == nil {
		return nil, errors.InvalidArgument("runner: both engine runners are required")
	}
	if opts.TopContributors <= 0 {
		opts.TopContributors = DefaultTopContributors
	}
	if opts.HistogramBuckets <= 0 {
		opts.HistogramBuckets = stats.DefaultBuckets
	}
	if opts.Gate == (Gate{}) {
		opts.Gate = DefaultGate()
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Runner{
		opts:   opts,
		policy: opts.Tolerances.Compile(),
		log:    log,
		now:    time.Now,
	}, nil
}

// caseRun pairs a selected case with its comparison result.
type caseRun struct {
	input  corpus.Case
	result *compare.Result
}

// Run executes the three phases in order: compare every case, build the
// run-wide statistics, then attribute contributors against them. An engine
// failure or an oversized case aborts the run.
func (r *Runner) Run(ctx context.Context) (*Outcome, error) {
	selected := r.opts.Corpus.Select(r.opts.CaseIDs, r.opts.Tags)
	if len(selected) == 0 {
		return nil, errors.Config("no cases selected for execution")
	}

	r.log.Info("parity run started",
		zap.String("runId", r.opts.Provenance.RunID),
		zap.String("corpusVersion", r.opts.Corpus.Version),
		zap.Int("cases", len(selected)),
		zap.String("deltaE", r.policy.DeltaE.String()),
	)

	var builds engineBuilds
	collector := stats.NewCollector()
	runs := make([]caseRun, 0, len(selected))

	start := r.now()
	for _, tc := range selected {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, "run cancelled")
		}

		result, err := r.compareCase(ctx, tc, &builds)
		if err != nil {
			return nil, err
		}
		collector.Add(result)
		runs = append(runs, caseRun{input: tc, result: result})
	}
	durationMs := float64(r.now().Sub(start)) / float64(time.Millisecond)

	r.log.Debug("building run statistics", zap.Int("samples", collector.Len()))
	runStats := collector.Build(r.opts.HistogramBuckets)

	results := make([]*compare.Result, len(runs))
	for i, cr := range runs {
		contributors, err := analysis.ComputeContributors(cr.result, &runStats, r.opts.TopContributors)
		if err != nil {
			return nil, errors.Wrap(err, "failed to compute contributors")
		}
		cr.result.Contributors = contributors
		results[i] = cr.result

		if r.opts.Writer != nil {
			tc := cr.input
			if _, err := r.opts.Writer.WriteCaseMetadata(&tc, cr.result); err != nil {
				r.log.Warn("failed to write case metadata", zap.String("case", tc.ID), zap.Error(err))
			}
		}
	}

	summary := Summarize(results, durationMs, runStats)
	verdict := r.opts.Gate.Evaluate(summary)
	outcome := &Outcome{
		Summary: summary,
		Verdict: verdict,
		Results: results,
		Report:  r.buildReport(summary, verdict, results, builds),
	}

	if r.opts.Writer != nil {
		path, err := r.opts.Writer.WriteReport(outcome.Report)
		if err != nil {
			return nil, errors.Wrap(err, "failed to write run report")
		}
		outcome.ReportPath = path
	}

	r.log.Info("parity run finished",
		zap.Int("total", summary.TotalCases),
		zap.Int("passed", summary.Passed),
		zap.Int("failed", summary.Failed),
		zap.Float64("passRate", summary.PassRate),
		zap.Float64("durationMs", summary.DurationMs),
		zap.Bool("withinPassGate", verdict.WithinPassGate),
		zap.Bool("withinDuration", verdict.WithinDuration),
	)
	return outcome, nil
}

// compareCase runs both engines for one case and compares their outputs.
// Artifacts are written here because the raw outputs are not kept.
func (r *Runner) compareCase(ctx context.Context, tc corpus.Case, builds *engineBuilds) (*compare.Result, error) {
	log := r.log.With(zap.String("case", tc.ID))

	canonical, err := r.opts.Canonical.Run(ctx, tc.ID)
	if err != nil {
		log.Error("canonical engine failed", zap.Error(err))
		return nil, errors.EngineError(tc.ID, r.opts.Canonical.Name(), err)
	}
	alternate, err := r.opts.Alternate.Run(ctx, tc.ID)
	if err != nil {
		log.Error("alternate engine failed", zap.Error(err))
		return nil, errors.EngineError(tc.ID, r.opts.Alternate.Name(), err)
	}
	builds.observe(canonical, alternate)

	result, err := compare.Compare(tc.ID, compare.FromOutput(canonical), compare.FromOutput(alternate), &r.policy, tc.Config.Count)
	if err != nil {
		return nil, err
	}

	if result.Mismatch != nil {
		log.Warn("sample count mismatch",
			zap.Int("expected", result.Mismatch.Expected),
			zap.Int("canonical", result.Mismatch.Canonical),
			zap.Int("alternate", result.Mismatch.Alternate),
		)
	}
	log.Debug("case compared",
		zap.Bool("passed", result.Passed),
		zap.Int("samples", result.SampleCount),
		zap.Float64("maxDeltaE", result.MaxDeltaE),
		zap.Int("toleranceFailures", result.ToleranceFailures),
	)

	if r.opts.Writer != nil {
		if _, err := r.opts.Writer.WriteCaseArtifacts(tc.ID, canonical, alternate, result); err != nil {
			log.Warn("failed to write case artifacts", zap.Error(err))
		}
	}
	return result, nil
}

// engineBuilds keeps the first commit and build flags each engine reports.
type engineBuilds struct {
	canonicalCommit string
	alternateCommit string
	canonicalFlags  string
	alternateFlags  string
}

func (b *engineBuilds) observe(canonical, alternate *engine.Output) {
	firstOf(&b.canonicalCommit, canonical.Commit)
	firstOf(&b.alternateCommit, alternate.Commit)
	firstOf(&b.canonicalFlags, canonical.BuildFlags)
	firstOf(&b.alternateFlags, alternate.BuildFlags)
}

func firstOf(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

func (r *Runner) buildReport(s Summary, v Verdict, results []*compare.Result, builds engineBuilds) *report.Report {
	p := r.opts.Provenance
	rep := &report.Report{
		RunID:          orDefault(p.RunID, "local-run"),
		CorpusVersion:  orDefault(r.opts.Corpus.Version, unknown),
		DurationMs:     s.DurationMs,
		PassRate:       s.PassRate,
		WithinPassGate: v.WithinPassGate,
		WithinDuration: v.WithinDuration,
		ArtifactPolicy: report.PolicyNone,
		Provenance: report.Provenance{
			CanonicalCommit:     orDefault(p.CanonicalCommit, orDefault(builds.canonicalCommit, unknown)),
			AlternateCommit:     orDefault(p.AlternateCommit, orDefault(builds.alternateCommit, unknown)),
			Platform:            orDefault(p.Platform, unknown),
			CanonicalBuildFlags: builds.canonicalFlags,
			AlternateBuildFlags: builds.alternateFlags,
			AppliedTolerances:   report.NewAppliedTolerances(r.opts.Tolerances),
		},
		Summary: report.Summary{
			TotalCases: s.TotalCases,
			Passed:     s.Passed,
			Failed:     s.Failed,
			RunStats:   s.Stats,
		},
		Cases: make([]report.CaseReport, len(results)),
	}
	if w := r.opts.Writer; w != nil {
		rep.ArtifactPolicy = w.Policy()
		rep.Provenance.ArtifactsRoot = w.Root()
	}
	for i, res := range results {
		rep.Cases[i] = report.NewCaseReport(res)
	}
	return rep
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
