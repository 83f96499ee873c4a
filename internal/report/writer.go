// Package report writes per-case artifacts and the run report to disk.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AndreyAkinshin/colorparity/internal/compare"
	"github.com/AndreyAkinshin/colorparity/internal/corpus"
	"github.com/AndreyAkinshin/colorparity/internal/engine"
)

// File names inside an artifacts root.
const (
	ReportFile    = "report.json"
	CasesDir      = "cases"
	CanonicalFile = "canonical.json"
	AlternateFile = "alternate.json"
	DiffFile      = "diff.json"
	MetadataFile  = "metadata.json"
)

// Writer writes artifacts under a single root directory.
type Writer struct {
	root   string
	policy Policy
}

// NewWriter creates a writer rooted at root.
func NewWriter(root string, policy Policy) *Writer {
	return &Writer{root: root, policy: policy}
}

// Root returns the artifacts root.
func (w *Writer) Root() string {
	return w.root
}

// Policy returns the retention policy.
func (w *Writer) Policy() Policy {
	return w.policy
}

// CaseDir returns the directory holding a case's artifacts.
func (w *Writer) CaseDir(caseID string) string {
	return filepath.Join(w.root, CasesDir, caseID)
}

// WriteCaseArtifacts writes both engine outputs and the diff for one case,
// if the retention policy keeps it. It reports whether anything was written.
func (w *Writer) WriteCaseArtifacts(caseID string, canonical, alternate *engine.Output, result *compare.Result) (bool, error) {
	if canonical == nil || alternate == nil || result == nil {
		return false, fmt.Errorf("case %q: invalid artifacts arguments", caseID)
	}
	if !w.policy.Keep(result.Passed) {
		return false, nil
	}

	dir, err := w.ensureCaseDir(caseID)
	if err != nil {
		return false, err
	}
	if err := writeJSON(filepath.Join(dir, CanonicalFile), canonical, false); err != nil {
		return false, fmt.Errorf("failed to write canonical artifact: %w", err)
	}
	if err := writeJSON(filepath.Join(dir, AlternateFile), alternate, false); err != nil {
		return false, fmt.Errorf("failed to write alternate artifact: %w", err)
	}
	if err := writeJSON(filepath.Join(dir, DiffFile), NewCaseReport(result), false); err != nil {
		return false, fmt.Errorf("failed to write diff artifact: %w", err)
	}
	return true, nil
}

// WriteCaseMetadata writes metadata.json for one case, if the retention
// policy keeps it. Contributors must already be attached to result.
func (w *Writer) WriteCaseMetadata(tc *corpus.Case, result *compare.Result) (bool, error) {
	if tc == nil || result == nil {
		return false, fmt.Errorf("invalid metadata arguments")
	}
	if !w.policy.Keep(result.Passed) {
		return false, nil
	}

	dir, err := w.ensureCaseDir(tc.ID)
	if err != nil {
		return false, err
	}

	meta := Metadata{
		CaseID:    tc.ID,
		Passed:    result.Passed,
		MaxDeltaE: result.MaxDeltaE,
		Input: MetadataInput{
			CorpusVersion: tc.Version,
			Seed:          tc.Seed,
			Count:         tc.Config.Count,
			Tags:          tc.Tags,
		},
		Artifacts: map[string]string{
			"canonical": CanonicalFile,
			"alternate": AlternateFile,
			"diff":      DiffFile,
		},
		TopContributors: result.Contributors,
	}
	if err := writeJSON(filepath.Join(dir, MetadataFile), meta, true); err != nil {
		return false, fmt.Errorf("failed to write case metadata: %w", err)
	}
	return true, nil
}

// WriteReport writes report.json and returns its path.
func (w *Writer) WriteReport(rep *Report) (string, error) {
	if rep == nil {
		return "", fmt.Errorf("invalid report arguments")
	}
	if err := os.MkdirAll(w.root, 0755); err != nil {
		return "", fmt.Errorf("failed to create artifacts directory: %w", err)
	}
	path := filepath.Join(w.root, ReportFile)
	if err := writeJSON(path, rep, true); err != nil {
		return "", fmt.Errorf("failed to write run report: %w", err)
	}
	return path, nil
}

// ReadReport loads a report.json written by WriteReport.
func ReadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}
	var rep Report
	if err := json.Unmarshal(data, &rep); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	return &rep, nil
}

func (w *Writer) ensureCaseDir(caseID string) (string, error) {
	if err := validateCaseID(caseID); err != nil {
		return "", err
	}
	dir := w.CaseDir(caseID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create case directory: %w", err)
	}
	return dir, nil
}

// validateCaseID rejects IDs that would escape the cases directory.
func validateCaseID(id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("case id %q cannot be used as a directory name", id)
	}
	return nil
}

func writeJSON(path string, v any, indent bool) error {
	var data []byte
	var err error
	if indent {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}
