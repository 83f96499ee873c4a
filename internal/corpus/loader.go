package corpus

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/AndreyAkinshin/colorparity/internal/schema"
	"github.com/AndreyAkinshin/colorparity/internal/version"
)

// MaxCaseIDLength is the longest accepted case ID.
const MaxCaseIDLength = 127

// ValidationError describes a semantic problem in a corpus file.
type ValidationError struct {
	Case    string
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Case != "" {
		return fmt.Sprintf("case %q: %s: %s", e.Case, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Load reads, schema-validates and decodes a corpus file.
func Load(path string) (*Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus file: %w", err)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, err
	}
	c.Path = path
	return c, nil
}

// Parse validates and decodes corpus JSON.
func Parse(data []byte) (*Corpus, error) {
	if err := schema.ValidateCorpus(data); err != nil {
		return nil, err
	}

	var c Corpus
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse corpus file: %w", err)
	}

	if err := Validate(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the rules the schema cannot express: unique IDs and
// well-formed versions on every case.
func Validate(c *Corpus) error {
	if err := version.Validate(c.Version); err != nil {
		return &ValidationError{Field: "corpusVersion", Message: err.Error()}
	}
	if len(c.Cases) == 0 {
		return &ValidationError{Field: "cases", Message: "at least one case is required"}
	}

	seen := make(map[string]bool, len(c.Cases))
	for _, tc := range c.Cases {
		if tc.ID == "" {
			return &ValidationError{Field: "id", Message: "is required"}
		}
		if len(tc.ID) > MaxCaseIDLength {
			return &ValidationError{Case: tc.ID, Field: "id", Message: fmt.Sprintf("longer than %d characters", MaxCaseIDLength)}
		}
		if seen[tc.ID] {
			return &ValidationError{Case: tc.ID, Field: "id", Message: "duplicate case id"}
		}
		seen[tc.ID] = true

		if err := version.Validate(tc.Version); err != nil {
			return &ValidationError{Case: tc.ID, Field: "corpusVersion", Message: err.Error()}
		}
		if len(tc.Anchors) == 0 {
			return &ValidationError{Case: tc.ID, Field: "anchors", Message: "at least one anchor is required"}
		}
		for i, a := range tc.Anchors {
			if a.OKLab == nil && a.SRGB == nil {
				return &ValidationError{Case: tc.ID, Field: fmt.Sprintf("anchors[%d]", i), Message: "needs oklab or rgb"}
			}
		}
		if tc.Config.Count <= 0 {
			return &ValidationError{Case: tc.ID, Field: "config.count", Message: "must be positive"}
		}
		if tc.Seed < 0 {
			return &ValidationError{Case: tc.ID, Field: "seed", Message: "must not be negative"}
		}
	}
	return nil
}
