package cli

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/AndreyAkinshin/colorparity/internal/config"
)

// flagBinding ties a command-line flag to a configuration key.
type flagBinding struct {
	flag string
	key  string
}

var globalBindings = []flagBinding{
	{"log-level", "log.level"},
	{"log-format", "log.format"},
}

var runBindings = []flagBinding{
	{"corpus", "corpus"},
	{"tolerances", "tolerances"},
	{"artifacts", "artifacts"},
	{"canonical-runner", "canonical_runner"},
	{"alternate-runner", "alternate_runner"},
	{"run-id", "run_id"},
	{"canonical-commit", "canonical_commit"},
	{"alternate-commit", "alternate_commit"},
	{"platform", "platform"},
	{"cases", "cases"},
	{"tags", "tags"},
	{"pass-gate", "pass_gate"},
	{"max-duration-ms", "max_duration_ms"},
	{"artifact-policy", "artifact_policy"},
	{"top-contributors", "top_contributors"},
	{"histogram-buckets", "histogram_buckets"},
	{"metrics-file", "metrics_file"},
	{"override-deltae", "override.deltae"},
	{"override-l", "override.l"},
	{"override-a", "override.a"},
	{"override-b", "override.b"},
}

// addRunFlags registers the run configuration flags on fs. Defaults mirror
// the config package so help output matches the effective values.
func addRunFlags(fs *pflag.FlagSet) {
	fs.String("corpus", "", "corpus JSON file")
	fs.String("tolerances", "", "tolerance file (JSON or YAML)")
	fs.String("artifacts", "", "artifacts root (default artifacts/<run-id>)")
	fs.String("canonical-runner", "", "canonical engine command")
	fs.String("alternate-runner", "", "alternate engine command")
	fs.String("run-id", "", "run identifier (default run-<random>)")
	fs.String("canonical-commit", "", "canonical engine commit for provenance")
	fs.String("alternate-commit", "", "alternate engine commit for provenance")
	fs.String("platform", "", "platform label (default GOOS/GOARCH)")
	fs.StringSlice("cases", nil, "only run these case ids")
	fs.StringSlice("tags", nil, "only run cases carrying any of these tags")
	fs.Float64("pass-gate", config.DefaultPassGate, "minimum pass rate for a successful exit")
	fs.Float64("max-duration-ms", config.DefaultMaxDurationMs, "maximum run duration in milliseconds")
	fs.String("artifact-policy", config.DefaultArtifactPolicy, "which cases keep artifacts: all, failures, none")
	fs.Int("top-contributors", config.DefaultTopContributors, "contributors kept per case")
	fs.Int("histogram-buckets", config.DefaultHistogramBuckets, "ΔE histogram bucket count")
	fs.String("metrics-file", "", "write Prometheus textfile metrics to this path")
	fs.Float64("override-deltae", -1, "override absolute ΔE tolerance")
	fs.Float64("override-l", -1, "override absolute OKLab L tolerance")
	fs.Float64("override-a", -1, "override absolute OKLab a tolerance")
	fs.Float64("override-b", -1, "override absolute OKLab b tolerance")
}

// bindFlags binds every listed flag present in fs onto v.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet, bindings []flagBinding) error {
	for _, b := range bindings {
		f := fs.Lookup(b.flag)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(b.key, f); err != nil {
			return fmt.Errorf("failed to bind --%s: %w", b.flag, err)
		}
	}
	return nil
}
