// Package engine runs color engines as subprocesses and decodes their output.
package engine

import (
	"encoding/json"
	"fmt"

	"github.com/AndreyAkinshin/colorparity/internal/color"
	"github.com/AndreyAkinshin/colorparity/internal/schema"
)

// Output is the document an engine prints for one case.
type Output struct {
	Engine     string              `json:"engine"`
	DurationMs float64             `json:"durationMs"`
	Count      int                 `json:"count"`
	Colors     []color.EngineColor `json:"colors"`
	Commit     string              `json:"commit,omitempty"`
	BuildFlags string              `json:"buildFlags,omitempty"`
	Platform   string              `json:"platform,omitempty"`
}

// Len returns the number of samples actually produced.
// Count is what the engine claims; Len is what it delivered.
func (o *Output) Len() int {
	if o == nil {
		return 0
	}
	return len(o.Colors)
}

// Parse validates data against the engine output schema and decodes it.
func Parse(data []byte) (*Output, error) {
	if err := schema.ValidateEngineOutput(data); err != nil {
		return nil, err
	}

	var out Output
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse engine output: %w", err)
	}
	if len(out.Colors) == 0 {
		return nil, fmt.Errorf("engine output contains no colors")
	}
	return &out, nil
}
