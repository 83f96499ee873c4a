package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndreyAkinshin/colorparity/internal/color"
	"github.com/AndreyAkinshin/colorparity/internal/compare"
	"github.com/AndreyAkinshin/colorparity/internal/corpus"
	"github.com/AndreyAkinshin/colorparity/internal/engine"
	"github.com/AndreyAkinshin/colorparity/internal/stats"
	"github.com/AndreyAkinshin/colorparity/internal/tolerance"
)

func TestParsePolicy(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{"", PolicyAll, false},
		{"all", PolicyAll, false},
		{"failures", PolicyFailures, false},
		{"none", PolicyNone, false},
		{"some", "", true},
	}
	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestPolicy_Keep(t *testing.T) {
	t.Parallel()
	assert.True(t, PolicyAll.Keep(true))
	assert.True(t, PolicyAll.Keep(false))
	assert.False(t, PolicyFailures.Keep(true))
	assert.True(t, PolicyFailures.Keep(false))
	assert.False(t, PolicyNone.Keep(false))
}

func fixture() (*engine.Output, *engine.Output, *compare.Result) {
	c := color.EngineColor{OKLab: color.OKLab{L: 0.5}, SRGB: color.SRGB{R: 0.4, G: 0.4, B: 0.4}}
	a := color.EngineColor{OKLab: color.OKLab{L: 0.45}, SRGB: color.SRGB{R: 0.38, G: 0.4, B: 0.4}}
	canonical := &engine.Output{Engine: "c", Count: 1, Colors: []color.EngineColor{c}, BuildFlags: "-O2"}
	alternate := &engine.Output{Engine: "wasm", Count: 1, Colors: []color.EngineColor{a}}
	s := compare.NewSampleDelta(0, c, a)
	result := &compare.Result{
		CaseID:        "warm-1",
		Samples:       []compare.SampleDelta{s},
		SampleCount:   1,
		ExpectedCount: 1,
		Passed:        false,
		MaxDeltaE:     s.Delta.DeltaE,
		Contributors: []compare.Contributor{
			{Metric: "oklab.l", Magnitude: 0.05, Direction: "lower", Stage: "OKLab normalization", Parameter: "lightness"},
		},
	}
	return canonical, alternate, result
}

func TestWriter_WriteCaseArtifacts(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	w := NewWriter(root, PolicyAll)
	canonical, alternate, result := fixture()

	written, err := w.WriteCaseArtifacts("warm-1", canonical, alternate, result)
	require.NoError(t, err)
	assert.True(t, written)

	dir := filepath.Join(root, "cases", "warm-1")
	for _, name := range []string{CanonicalFile, AlternateFile, DiffFile} {
		assert.FileExists(t, filepath.Join(dir, name))
	}

	data, err := os.ReadFile(filepath.Join(dir, CanonicalFile))
	require.NoError(t, err)
	out, err := engine.Parse(data)
	require.NoError(t, err, "canonical artifact must round-trip as engine output")
	assert.Equal(t, "-O2", out.BuildFlags)

	var diff map[string]any
	data, err = os.ReadFile(filepath.Join(dir, DiffFile))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &diff))
	assert.Equal(t, "warm-1", diff["inputCaseId"])
	samples := diff["samples"].([]any)
	require.Len(t, samples, 1)
	first := samples[0].(map[string]any)
	assert.InDelta(t, 0.05, first["deltaE"].(float64), 1e-12)
	assert.Contains(t, first, "rgbDelta")
}

func TestWriter_PolicySkipsPassingCases(t *testing.T) {
	t.Parallel()
	canonical, alternate, result := fixture()
	result.Passed = true

	for _, policy := range []Policy{PolicyFailures, PolicyNone} {
		root := t.TempDir()
		w := NewWriter(root, policy)

		written, err := w.WriteCaseArtifacts("warm-1", canonical, alternate, result)
		require.NoError(t, err)
		assert.False(t, written)

		written, err = w.WriteCaseMetadata(&corpus.Case{ID: "warm-1"}, result)
		require.NoError(t, err)
		assert.False(t, written)

		assert.NoDirExists(t, filepath.Join(root, "cases"))
	}
}

func TestWriter_WriteCaseMetadata(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	w := NewWriter(root, PolicyFailures)
	_, _, result := fixture()
	tc := &corpus.Case{ID: "warm-1", Version: "v20250101.1", Seed: 9, Config: corpus.Config{Count: 1}, Tags: []string{"warm"}}

	written, err := w.WriteCaseMetadata(tc, result)
	require.NoError(t, err)
	require.True(t, written)

	data, err := os.ReadFile(filepath.Join(w.CaseDir("warm-1"), MetadataFile))
	require.NoError(t, err)
	var meta Metadata
	require.NoError(t, json.Unmarshal(data, &meta))

	assert.Equal(t, "warm-1", meta.CaseID)
	assert.Equal(t, int64(9), meta.Input.Seed)
	assert.Equal(t, []string{"warm"}, meta.Input.Tags)
	assert.Equal(t, DiffFile, meta.Artifacts["diff"])
	require.Len(t, meta.TopContributors, 1)
	assert.Equal(t, "oklab.l", meta.TopContributors[0].Metric)
}

func TestWriter_RejectsUnsafeCaseID(t *testing.T) {
	t.Parallel()
	w := NewWriter(t.TempDir(), PolicyAll)
	canonical, alternate, result := fixture()

	for _, id := range []string{"", "..", "a/b", `a\b`} {
		_, err := w.WriteCaseArtifacts(id, canonical, alternate, result)
		assert.Error(t, err, "id %q", id)
	}
}

func TestWriter_WriteReport(t *testing.T) {
	t.Parallel()
	root := filepath.Join(t.TempDir(), "artifacts", "run-1")
	w := NewWriter(root, PolicyFailures)
	_, _, result := fixture()

	rs := stats.Build([]*compare.Result{result}, 20)
	rep := &Report{
		RunID:          "run-1",
		CorpusVersion:  "v20250101.1",
		DurationMs:     12.5,
		PassRate:       0,
		WithinPassGate: false,
		WithinDuration: true,
		ArtifactPolicy: w.Policy(),
		Provenance: Provenance{
			CanonicalCommit:   "abc",
			AlternateCommit:   "def",
			Platform:          "linux",
			ArtifactsRoot:     w.Root(),
			AppliedTolerances: NewAppliedTolerances(&tolerance.Config{Abs: tolerance.AbsBounds{DeltaE: 0.02}}),
		},
		Summary: Summary{TotalCases: 1, Failed: 1, RunStats: rs},
		Cases:   []CaseReport{NewCaseReport(result)},
	}

	path, err := w.WriteReport(rep)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, ReportFile), path)

	var raw map[string]any
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &raw))
	summary := raw["summary"].(map[string]any)
	assert.Contains(t, summary, "deltaE")
	assert.Contains(t, summary, "rgbB")
	assert.Contains(t, summary, "deltaEHistogram")
	assert.Equal(t, "failures", raw["artifactPolicy"])

	back, err := ReadReport(path)
	require.NoError(t, err)
	assert.Equal(t, "run-1", back.RunID)
	assert.Equal(t, 1, back.Summary.Failed)
	assert.Equal(t, 0.02, back.Provenance.AppliedTolerances.Abs.DeltaE)
	require.Len(t, back.Cases, 1)
	assert.Equal(t, "oklab.l", back.Cases[0].Contributors[0].Metric)
}

func TestNewAppliedTolerances_Nil(t *testing.T) {
	assert.Nil(t, NewAppliedTolerances(nil))
}
