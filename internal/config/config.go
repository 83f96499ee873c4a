// Package config provides loading, defaults, and validation for run configuration.
//
// Values come from (lowest to highest precedence) built-in defaults, an
// optional colorparity.yaml, COLORPARITY_* environment variables, and
// command-line flags bound by the CLI.
package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/viper"

	"github.com/AndreyAkinshin/colorparity/internal/tolerance"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "COLORPARITY"

// DefaultConfigName is the file searched for when no path is given.
const DefaultConfigName = "colorparity"

// Config is the complete run configuration.
type Config struct {
	Corpus          string   `mapstructure:"corpus"`
	Tolerances      string   `mapstructure:"tolerances"`
	Artifacts       string   `mapstructure:"artifacts"`
	CanonicalRunner string   `mapstructure:"canonical_runner"`
	AlternateRunner string   `mapstructure:"alternate_runner"`
	RunID           string   `mapstructure:"run_id"`
	CanonicalCommit string   `mapstructure:"canonical_commit"`
	AlternateCommit string   `mapstructure:"alternate_commit"`
	Platform        string   `mapstructure:"platform"`
	Cases           []string `mapstructure:"cases"`
	Tags            []string `mapstructure:"tags"`

	PassGate         float64 `mapstructure:"pass_gate"`
	MaxDurationMs    float64 `mapstructure:"max_duration_ms"`
	ArtifactPolicy   string  `mapstructure:"artifact_policy"`
	TopContributors  int     `mapstructure:"top_contributors"`
	HistogramBuckets int     `mapstructure:"histogram_buckets"`
	MetricsFile      string  `mapstructure:"metrics_file"`

	Log      LogConfig      `mapstructure:"log"`
	Override OverrideConfig `mapstructure:"override"`
}

// LogConfig configures diagnostic logging.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// OverrideConfig replaces absolute tolerance bounds. Negative means unset.
type OverrideConfig struct {
	DeltaE float64 `mapstructure:"deltae"`
	L      float64 `mapstructure:"l"`
	A      float64 `mapstructure:"a"`
	B      float64 `mapstructure:"b"`
}

// Tolerances converts the override settings into tolerance overrides.
func (o OverrideConfig) Tolerances() tolerance.Overrides {
	pick := func(v float64) *float64 {
		if v < 0 {
			return nil
		}
		return &v
	}
	return tolerance.Overrides{
		DeltaE: pick(o.DeltaE),
		L:      pick(o.L),
		A:      pick(o.A),
		B:      pick(o.B),
	}
}

// NewViper returns a viper instance with defaults and environment binding
// configured. Flags may be bound onto it before Load is called.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// Load reads the config file (path, or colorparity.yaml in the working
// directory when path is empty and the file exists), applies defaults and
// validates the result. Unknown keys in the file are returned as warnings.
func Load(v *viper.Viper, path string) (*Config, []string, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName(DefaultConfigName)
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, nil, err
	}
	return &cfg, unknownKeys(v), nil
}

// unknownKeys lists keys present in viper that no Config field reads.
func unknownKeys(v *viper.Viper) []string {
	known := make(map[string]bool, len(knownKeys))
	for _, k := range knownKeys {
		known[k] = true
	}
	var warnings []string
	keys := v.AllKeys()
	sort.Strings(keys)
	for _, k := range keys {
		if !known[k] {
			warnings = append(warnings, fmt.Sprintf("unknown config key %q (ignored)", k))
		}
	}
	return warnings
}
