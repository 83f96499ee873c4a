package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndreyAkinshin/colorparity/internal/errors"
	"github.com/AndreyAkinshin/colorparity/internal/output"
	"github.com/AndreyAkinshin/colorparity/internal/report"
)

const testCorpus = `{
  "corpusVersion": "v20250101.1",
  "cases": [
    {"id": "warm-1", "corpusVersion": "v20250101.1", "anchors": [{"oklab": {"l": 0.7, "a": 0.1, "b": 0.05}}],
     "config": {"count": 2}, "seed": 1, "tags": ["smoke"]},
    {"id": "cool-2", "corpusVersion": "v20250101.1", "anchors": [{"oklab": {"l": 0.5, "a": -0.02, "b": -0.15}}],
     "config": {"count": 2}, "seed": 2}
  ]
}`

const testTolerances = `toleranceVersion: "v1"
abs:
  deltaE: 0.01
rel: {}
`

const engineOutput = `{"engine":"%s","durationMs":1,"count":2,"commit":"c0ffee","colors":[
{"oklab":{"l":0.5,"a":0.1,"b":-0.1},"rgb":{"r":0.6,"g":0.4,"b":0.5}},
{"oklab":{"l":0.7,"a":0.0,"b":0.0},"rgb":{"r":0.65,"g":0.65,"b":0.65}}]}`

const driftedOutput = `{"engine":"alt","durationMs":1,"count":2,"colors":[
{"oklab":{"l":0.6,"a":0.1,"b":-0.1},"rgb":{"r":0.7,"g":0.4,"b":0.5}},
{"oklab":{"l":0.7,"a":0.0,"b":0.0},"rgb":{"r":0.65,"g":0.65,"b":0.65}}]}`

// fixture is a temporary project with a corpus, tolerances and two engines.
type fixture struct {
	dir        string
	corpus     string
	tolerances string
	canonical  string
	alternate  string
	artifacts  string
}

func newFixture(t *testing.T, driftCase string) *fixture {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported on Windows")
	}
	dir := t.TempDir()
	f := &fixture{
		dir:        dir,
		corpus:     filepath.Join(dir, "corpus.json"),
		tolerances: filepath.Join(dir, "tolerances.yaml"),
		canonical:  filepath.Join(dir, "canonical.sh"),
		alternate:  filepath.Join(dir, "alternate.sh"),
		artifacts:  filepath.Join(dir, "artifacts"),
	}
	writeFile(t, f.corpus, testCorpus, 0o644)
	writeFile(t, f.tolerances, testTolerances, 0o644)
	writeFile(t, f.canonical, "#!/bin/sh\ncat <<'JSON'\n"+strings.Replace(engineOutput, "%s", "c", 1)+"\nJSON\n", 0o755)

	alt := "#!/bin/sh\ncat <<'JSON'\n" + strings.Replace(engineOutput, "%s", "alt", 1) + "\nJSON\n"
	if driftCase != "" {
		alt = "#!/bin/sh\nif [ \"$4\" = \"" + driftCase + "\" ]; then\ncat <<'JSON'\n" + driftedOutput +
			"\nJSON\nelse\ncat <<'JSON'\n" + strings.Replace(engineOutput, "%s", "alt", 1) + "\nJSON\nfi\n"
	}
	writeFile(t, f.alternate, alt, 0o755)
	return f
}

func (f *fixture) runArgs(extra ...string) []string {
	args := []string{
		"run",
		"--corpus", f.corpus,
		"--tolerances", f.tolerances,
		"--canonical-runner", f.canonical,
		"--alternate-runner", f.alternate,
		"--artifacts", f.artifacts,
		"--run-id", "test-run",
		"--log-level", "error",
	}
	return append(args, extra...)
}

func writeFile(t *testing.T, path, content string, mode os.FileMode) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), mode))
}

// captureOutput redirects the shared writer for the duration of a test.
func captureOutput(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	prev := out
	out = output.NewWithWriters(stdout, stderr, false)
	t.Cleanup(func() { out = prev })
	return stdout, stderr
}

func TestRun_AllCasesPass(t *testing.T) {
	f := newFixture(t, "")
	stdout, _ := captureOutput(t)
	metricsPath := filepath.Join(f.dir, "metrics", "parity.prom")

	code := Run(f.runArgs("--metrics-file", metricsPath))

	require.Equal(t, errors.ExitSuccess, code, stdout.String())
	assert.Contains(t, stdout.String(), "Parity run passed: 2 of 2 cases within tolerance.")

	rep, err := report.ReadReport(filepath.Join(f.artifacts, report.ReportFile))
	require.NoError(t, err)
	assert.Equal(t, "test-run", rep.RunID)
	assert.Equal(t, 2, rep.Summary.TotalCases)
	assert.Equal(t, 1.0, rep.PassRate)
	assert.Equal(t, "c0ffee", rep.Provenance.CanonicalCommit)
	require.NotNil(t, rep.Provenance.AppliedTolerances)
	assert.Equal(t, 0.01, rep.Provenance.AppliedTolerances.Abs.DeltaE)

	assert.FileExists(t, filepath.Join(f.artifacts, report.CasesDir, "warm-1", report.DiffFile))

	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `colorparity_pass_rate{corpus_version="v20250101.1",run_id="test-run"} 1`)
	assert.Contains(t, stdout.String(), "Metrics written to "+metricsPath)
}

func TestRun_GateFailure(t *testing.T) {
	f := newFixture(t, "cool-2")
	stdout, _ := captureOutput(t)

	code := Run(f.runArgs())

	assert.Equal(t, errors.ExitRuntimeError, code)
	assert.Contains(t, stdout.String(), "x cool-2")
	assert.Contains(t, stdout.String(), "Top Contributors:")
	assert.Contains(t, stdout.String(), "Parity run failed: pass rate 50.00% below gate.")
	assert.Contains(t, stdout.String(), "Per-case diffs are under "+filepath.Join(f.artifacts, report.CasesDir)+".")
}

func TestRun_LoweredGatePasses(t *testing.T) {
	f := newFixture(t, "cool-2")
	captureOutput(t)

	code := Run(f.runArgs("--pass-gate", "0.5"))

	assert.Equal(t, errors.ExitSuccess, code)
}

func TestRun_ToleranceOverride(t *testing.T) {
	f := newFixture(t, "cool-2")
	captureOutput(t)

	code := Run(f.runArgs("--override-deltae", "1", "--override-l", "1"))

	assert.Equal(t, errors.ExitSuccess, code)
	rep, err := report.ReadReport(filepath.Join(f.artifacts, report.ReportFile))
	require.NoError(t, err)
	assert.Equal(t, 1.0, rep.Provenance.AppliedTolerances.Abs.DeltaE)
}

func TestRun_ArtifactPolicyFailures(t *testing.T) {
	f := newFixture(t, "cool-2")
	captureOutput(t)

	Run(f.runArgs("--artifact-policy", "failures"))

	assert.NoDirExists(t, filepath.Join(f.artifacts, report.CasesDir, "warm-1"))
	assert.FileExists(t, filepath.Join(f.artifacts, report.CasesDir, "cool-2", report.DiffFile))
}

func TestRun_CaseSelection(t *testing.T) {
	f := newFixture(t, "cool-2")
	stdout, _ := captureOutput(t)

	code := Run(f.runArgs("--tags", "smoke"))

	assert.Equal(t, errors.ExitSuccess, code)
	assert.Contains(t, stdout.String(), "1 of 1 cases")
}

func TestRun_NoCasesSelected(t *testing.T) {
	f := newFixture(t, "")
	_, stderr := captureOutput(t)

	code := Run(f.runArgs("--tags", "missing"))

	assert.Equal(t, errors.ExitConfigError, code)
	assert.Contains(t, stderr.String(), "no cases selected")
}

func TestRun_UnknownCaseID(t *testing.T) {
	f := newFixture(t, "")
	_, stderr := captureOutput(t)

	code := Run(f.runArgs("--cases", "warm-1,missing,gone"))

	assert.Equal(t, errors.ExitConfigError, code)
	assert.Contains(t, stderr.String(), "unknown case id(s) in corpus v20250101.1: missing, gone")
	assert.NoDirExists(t, f.artifacts)
}

func TestRun_MissingEngine(t *testing.T) {
	f := newFixture(t, "")
	_, stderr := captureOutput(t)

	args := f.runArgs("--alternate-runner", filepath.Join(f.dir, "does-not-exist"))
	code := Run(args)

	assert.Equal(t, errors.ExitEnvironmentError, code)
	assert.Contains(t, stderr.String(), "engine not available")
}

func TestRun_EngineFailure(t *testing.T) {
	f := newFixture(t, "")
	writeFile(t, f.alternate, "#!/bin/sh\necho boom >&2\nexit 2\n", 0o755)
	_, stderr := captureOutput(t)

	code := Run(f.runArgs())

	assert.Equal(t, errors.ExitRuntimeError, code)
	assert.Contains(t, stderr.String(), "boom")
}

func TestRun_InvalidCorpus(t *testing.T) {
	f := newFixture(t, "")
	writeFile(t, f.corpus, `{"corpusVersion": "2025", "cases": []}`, 0o644)
	captureOutput(t)

	assert.Equal(t, errors.ExitConfigError, Run(f.runArgs()))
}

func TestRun_MissingRequiredConfig(t *testing.T) {
	_, stderr := captureOutput(t)

	code := Run([]string{"run", "--corpus", "corpus.json"})

	assert.Equal(t, errors.ExitConfigError, code)
	assert.Contains(t, stderr.String(), "tolerances: is required")
}

func TestRun_ConfigFile(t *testing.T) {
	f := newFixture(t, "")
	captureOutput(t)
	cfgPath := filepath.Join(f.dir, "colorparity.yaml")
	writeFile(t, cfgPath, strings.Join([]string{
		"corpus: " + f.corpus,
		"tolerances: " + f.tolerances,
		"canonical_runner: " + f.canonical,
		"alternate_runner: " + f.alternate,
		"artifacts: " + f.artifacts,
		"run_id: from-file",
		"log:",
		"  level: error",
	}, "\n"), 0o644)

	code := Run([]string{"run", "--config", cfgPath})

	require.Equal(t, errors.ExitSuccess, code)
	rep, err := report.ReadReport(filepath.Join(f.artifacts, report.ReportFile))
	require.NoError(t, err)
	assert.Equal(t, "from-file", rep.RunID)
}

func TestRun_UnknownCommand(t *testing.T) {
	_, stderr := captureOutput(t)

	assert.Equal(t, errors.ExitConfigError, Run([]string{"frobnicate"}))
	assert.Contains(t, stderr.String(), "unknown command")
}

func TestRun_UnknownFlag(t *testing.T) {
	captureOutput(t)
	assert.Equal(t, errors.ExitConfigError, Run([]string{"run", "--no-such-flag"}))
}

func TestVersionCommand(t *testing.T) {
	root := newRootCmd()
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	assert.Equal(t, "colorparity dev\n", buf.String())
}

func TestValidateCommands(t *testing.T) {
	f := newFixture(t, "")
	badCorpus := filepath.Join(f.dir, "bad.json")
	writeFile(t, badCorpus, `{"cases": "nope"}`, 0o644)
	badTolerances := filepath.Join(f.dir, "bad.yaml")
	writeFile(t, badTolerances, "abs: [1, 2]\n", 0o644)

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"valid corpus", []string{"validate", "corpus", f.corpus}, errors.ExitSuccess},
		{"invalid corpus", []string{"validate", "corpus", badCorpus}, errors.ExitConfigError},
		{"missing corpus", []string{"validate", "corpus", filepath.Join(f.dir, "nope.json")}, errors.ExitConfigError},
		{"valid tolerances", []string{"validate", "tolerances", f.tolerances}, errors.ExitSuccess},
		{"invalid tolerances", []string{"validate", "tolerances", badTolerances}, errors.ExitConfigError},
		{"missing argument", []string{"validate", "corpus"}, errors.ExitConfigError},
		{"valid config", append([]string{"validate", "config"}, f.runArgs()[1:]...), errors.ExitSuccess},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			captureOutput(t)
			assert.Equal(t, tt.want, Run(tt.args))
		})
	}
}

func TestValidateCorpus_PrintsSummary(t *testing.T) {
	f := newFixture(t, "")
	stdout, _ := captureOutput(t)

	require.Equal(t, errors.ExitSuccess, Run([]string{"validate", "corpus", f.corpus}))
	assert.Contains(t, stdout.String(), "corpus v20250101.1 with 2 cases is valid")
	assert.Contains(t, stdout.String(), "=== Tags ===\n  - smoke\n")
}

func TestValidateCorpus_WarnsOnInconsistentAnchor(t *testing.T) {
	f := newFixture(t, "")
	path := filepath.Join(f.dir, "anchors.json")
	writeFile(t, path, strings.Replace(testCorpus,
		`"anchors": [{"oklab": {"l": 0.7, "a": 0.1, "b": 0.05}}]`,
		`"anchors": [{"oklab": {"l": 0.7, "a": 0.1, "b": 0.05}, "rgb": {"r": 0.1, "g": 0.3, "b": 0.8}}]`, 1), 0o644)
	stdout, stderr := captureOutput(t)

	require.Equal(t, errors.ExitSuccess, Run([]string{"validate", "corpus", path}))
	assert.Contains(t, stdout.String(), "with 2 cases is valid")
	assert.Contains(t, stderr.String(), `warning: case "warm-1": anchors[0]: oklab and rgb differ by ΔE`)
}

func TestSummaryCommand(t *testing.T) {
	f := newFixture(t, "cool-2")
	captureOutput(t)
	require.Equal(t, errors.ExitRuntimeError, Run(f.runArgs()))
	reportPath := filepath.Join(f.artifacts, report.ReportFile)

	stdout, _ := captureOutput(t)
	code := Run([]string{"summary", reportPath})

	assert.Equal(t, errors.ExitRuntimeError, code)
	assert.Contains(t, stdout.String(), "=== Parity Run test-run ===")
	assert.Contains(t, stdout.String(), "Report: "+reportPath)
}

func TestSummaryCommand_MissingReport(t *testing.T) {
	captureOutput(t)
	assert.Equal(t, errors.ExitConfigError, Run([]string{"summary", filepath.Join(t.TempDir(), "report.json")}))
}

func TestExitCode(t *testing.T) {
	captureOutput(t)
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, errors.ExitSuccess},
		{"gate", errGateFailed, errors.ExitRuntimeError},
		{"runtime", errors.New("boom"), errors.ExitRuntimeError},
		{"config", errors.Config("bad"), errors.ExitConfigError},
		{"environment", errors.Environment("missing"), errors.ExitEnvironmentError},
		{"usage", os.ErrInvalid, errors.ExitConfigError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, exitCode(tt.err), tt.name)
	}
}
