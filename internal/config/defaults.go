package config

import (
	"path/filepath"
	"runtime"

	"github.com/google/uuid"
	"github.com/spf13/viper"
)

// Default configuration values.
const (
	DefaultPassGate         = 0.95
	DefaultMaxDurationMs    = 600000
	DefaultArtifactPolicy   = "all"
	DefaultTopContributors  = 3
	DefaultHistogramBuckets = 20
	DefaultArtifactsDir     = "artifacts"
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "console"
)

// knownKeys lists every key Config reads, in viper's lowercase form.
var knownKeys = []string{
	"corpus", "tolerances", "artifacts",
	"canonical_runner", "alternate_runner",
	"run_id", "canonical_commit", "alternate_commit", "platform",
	"cases", "tags",
	"pass_gate", "max_duration_ms", "artifact_policy",
	"top_contributors", "histogram_buckets", "metrics_file",
	"log.level", "log.format",
	"override.deltae", "override.l", "override.a", "override.b",
}

func setDefaults(v *viper.Viper) {
	for _, k := range knownKeys {
		v.SetDefault(k, "")
	}
	v.SetDefault("cases", []string{})
	v.SetDefault("tags", []string{})
	v.SetDefault("pass_gate", DefaultPassGate)
	v.SetDefault("max_duration_ms", DefaultMaxDurationMs)
	v.SetDefault("artifact_policy", DefaultArtifactPolicy)
	v.SetDefault("top_contributors", DefaultTopContributors)
	v.SetDefault("histogram_buckets", DefaultHistogramBuckets)
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
	v.SetDefault("override.deltae", -1.0)
	v.SetDefault("override.l", -1.0)
	v.SetDefault("override.a", -1.0)
	v.SetDefault("override.b", -1.0)
}

// applyDefaults fills in values that depend on other settings.
func applyDefaults(cfg *Config) {
	if cfg.RunID == "" {
		cfg.RunID = NewRunID()
	}
	if cfg.Artifacts == "" {
		cfg.Artifacts = filepath.Join(DefaultArtifactsDir, cfg.RunID)
	}
	if cfg.Platform == "" {
		cfg.Platform = runtime.GOOS + "/" + runtime.GOARCH
	}
	if cfg.ArtifactPolicy == "" {
		cfg.ArtifactPolicy = DefaultArtifactPolicy
	}
}

// NewRunID returns a short random run identifier.
func NewRunID() string {
	return "run-" + uuid.NewString()[:8]
}
