package config

import (
	"fmt"
	"regexp"

	"github.com/AndreyAkinshin/colorparity/internal/report"
)

// Run IDs become directory names.
var runIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a configuration for errors.
func Validate(cfg *Config) error {
	required := []struct {
		field string
		value string
	}{
		{"corpus", cfg.Corpus},
		{"tolerances", cfg.Tolerances},
		{"canonical_runner", cfg.CanonicalRunner},
		{"alternate_runner", cfg.AlternateRunner},
	}
	for _, r := range required {
		if r.value == "" {
			return &ValidationError{Field: r.field, Message: "is required"}
		}
	}

	if !runIDPattern.MatchString(cfg.RunID) {
		return &ValidationError{Field: "run_id", Message: fmt.Sprintf("%q must match %s", cfg.RunID, runIDPattern)}
	}
	if cfg.PassGate < 0 || cfg.PassGate > 1 {
		return &ValidationError{Field: "pass_gate", Message: fmt.Sprintf("must be within [0, 1], got %g", cfg.PassGate)}
	}
	if cfg.MaxDurationMs <= 0 {
		return &ValidationError{Field: "max_duration_ms", Message: "must be positive"}
	}
	if _, err := report.ParsePolicy(cfg.ArtifactPolicy); err != nil {
		return &ValidationError{Field: "artifact_policy", Message: err.Error()}
	}
	if cfg.TopContributors < 1 || cfg.TopContributors > 7 {
		return &ValidationError{Field: "top_contributors", Message: fmt.Sprintf("must be within [1, 7], got %d", cfg.TopContributors)}
	}
	if cfg.HistogramBuckets <= 0 {
		return &ValidationError{Field: "histogram_buckets", Message: "must be positive"}
	}
	switch cfg.Log.Format {
	case "json", "console":
	default:
		return &ValidationError{Field: "log.format", Message: fmt.Sprintf("must be json or console, got %q", cfg.Log.Format)}
	}
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Field: "log.level", Message: fmt.Sprintf("unknown level %q", cfg.Log.Level)}
	}
	return nil
}
