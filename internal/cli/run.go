package cli

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AndreyAkinshin/colorparity/internal/config"
	"github.com/AndreyAkinshin/colorparity/internal/corpus"
	"github.com/AndreyAkinshin/colorparity/internal/engine"
	"github.com/AndreyAkinshin/colorparity/internal/errors"
	"github.com/AndreyAkinshin/colorparity/internal/logging"
	"github.com/AndreyAkinshin/colorparity/internal/metrics"
	"github.com/AndreyAkinshin/colorparity/internal/report"
	"github.com/AndreyAkinshin/colorparity/internal/runner"
	"github.com/AndreyAkinshin/colorparity/internal/tolerance"
)

// Engine names used in logs, errors and artifacts.
const (
	canonicalEngine = "canonical"
	alternateEngine = "alternate"
)

func newRunCmd(opts *GlobalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run both engines over the corpus and compare their output",
		Long: `Run both engines over every selected corpus case, compare the produced
colors sample by sample, and write per-case artifacts plus report.json.

Exits 1 when the pass rate falls below --pass-gate or the run takes longer
than --max-duration-ms.`,
		Example: `  colorparity run --corpus corpus.json --tolerances tolerances.yaml \
    --canonical-runner ./build/engine-c --alternate-runner "node dist/runner.js"
  colorparity run -c colorparity.yaml --tags smoke --artifact-policy failures`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, warnings, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			for _, w := range warnings {
				out.Warning("%s", w)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runParity(ctx, cfg)
		},
	}
	addRunFlags(cmd.Flags())
	return cmd
}

// loadConfig resolves the run configuration from file, environment and flags.
func loadConfig(cmd *cobra.Command, opts *GlobalOptions) (*config.Config, []string, error) {
	v := config.NewViper()
	if err := bindFlags(v, cmd.Flags(), globalBindings); err != nil {
		return nil, nil, errors.Wrap(err, "flag binding")
	}
	if err := bindFlags(v, cmd.Flags(), runBindings); err != nil {
		return nil, nil, errors.Wrap(err, "flag binding")
	}
	cfg, warnings, err := config.Load(v, opts.ConfigPath)
	if err != nil {
		return nil, nil, errors.Validation(err, "invalid configuration")
	}
	return cfg, warnings, nil
}

// runParity loads inputs, executes the run and reports the outcome.
func runParity(ctx context.Context, cfg *config.Config) error {
	log, err := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return errors.Validation(err, "invalid logging configuration")
	}
	defer func() { _ = log.Sync() }()

	corp, err := corpus.Load(cfg.Corpus)
	if err != nil {
		return errors.Validation(err, "invalid corpus")
	}
	if unknown := corp.UnknownIDs(cfg.Cases); len(unknown) > 0 {
		return errors.Configf("unknown case id(s) in corpus %s: %s", corp.Version, strings.Join(unknown, ", "))
	}
	for _, w := range corp.CheckAnchors() {
		log.Warn("inconsistent anchor", zap.String("detail", w))
	}

	tol, warnings, err := tolerance.Load(cfg.Tolerances)
	if err != nil {
		return errors.Validation(err, "invalid tolerances")
	}
	for _, w := range warnings {
		out.Warning("%s: %s", cfg.Tolerances, w)
	}
	cfg.Override.Tolerances().Apply(tol)

	policy, err := report.ParsePolicy(cfg.ArtifactPolicy)
	if err != nil {
		return errors.Validation(err, "invalid artifact policy")
	}

	canonical, err := newEngine(canonicalEngine, cfg.CanonicalRunner, cfg.Corpus)
	if err != nil {
		return err
	}
	alternate, err := newEngine(alternateEngine, cfg.AlternateRunner, cfg.Corpus)
	if err != nil {
		return err
	}

	r, err := runner.New(runner.Options{
		Corpus:           corp,
		CaseIDs:          cfg.Cases,
		Tags:             cfg.Tags,
		Tolerances:       tol,
		Canonical:        canonical,
		Alternate:        alternate,
		Writer:           report.NewWriter(cfg.Artifacts, policy),
		Gate:             runner.Gate{PassGate: cfg.PassGate, MaxDurationMs: cfg.MaxDurationMs},
		TopContributors:  cfg.TopContributors,
		HistogramBuckets: cfg.HistogramBuckets,
		Provenance: runner.Provenance{
			RunID:           cfg.RunID,
			CanonicalCommit: cfg.CanonicalCommit,
			AlternateCommit: cfg.AlternateCommit,
			Platform:        cfg.Platform,
		},
		Logger: log,
	})
	if err != nil {
		return err
	}

	out.Info("Running %d-case corpus %s (run %s)", len(corp.Cases), corp.Version, cfg.RunID)
	outcome, err := r.Run(ctx)
	if err != nil {
		return err
	}

	out.RunReport(outcome.Report, outcome.ReportPath)

	if cfg.MetricsFile != "" {
		labels := prometheus.Labels{"run_id": cfg.RunID, "corpus_version": corp.Version}
		if err := metrics.Export(cfg.MetricsFile, outcome.Summary, outcome.Results, labels); err != nil {
			return errors.Wrap(err, "failed to write metrics")
		}
		out.Success("Metrics written to %s", cfg.MetricsFile)
	}

	if !outcome.Verdict.OK() {
		if outcome.ReportPath != "" {
			out.Hint("Per-case diffs are under %s.", filepath.Join(filepath.Dir(outcome.ReportPath), report.CasesDir))
		}
		return errGateFailed
	}
	return nil
}

// newEngine builds a subprocess engine and checks that its executable exists.
func newEngine(name, command, corpusPath string) (*engine.Command, error) {
	c, err := engine.NewCommand(name, command, corpusPath)
	if err != nil {
		return nil, errors.Validation(err, "invalid engine command")
	}
	if err := c.LookPath(); err != nil {
		return nil, &errors.ParityError{
			Kind:    errors.KindEnvironment,
			Engine:  name,
			Message: "engine not available",
			Cause:   err,
		}
	}
	return c, nil
}
