// Package schema validates colorparity input documents against the embedded JSON schemas.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	schemafs "github.com/AndreyAkinshin/colorparity/schema"
)

// Schema file names within the embedded FS.
const (
	CorpusSchema       = "corpus.schema.json"
	TolerancesSchema   = "tolerances.schema.json"
	EngineOutputSchema = "engine-output.schema.json"
)

var (
	compiled    map[string]*jsonschema.Schema
	compileOnce sync.Once
	compileErr  error
)

// compileSchemas compiles all embedded schemas once.
func compileSchemas() error {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		names := []string{CorpusSchema, TolerancesSchema, EngineOutputSchema}

		for _, name := range names {
			data, err := schemafs.FS.ReadFile(name)
			if err != nil {
				compileErr = fmt.Errorf("read %s: %w", name, err)
				return
			}
			doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
			if err != nil {
				compileErr = fmt.Errorf("unmarshal %s: %w", name, err)
				return
			}
			if err := compiler.AddResource(name, doc); err != nil {
				compileErr = fmt.Errorf("add %s resource: %w", name, err)
				return
			}
		}

		compiled = make(map[string]*jsonschema.Schema, len(names))
		for _, name := range names {
			sch, err := compiler.Compile(name)
			if err != nil {
				compileErr = fmt.Errorf("compile %s: %w", name, err)
				return
			}
			compiled[name] = sch
		}
	})

	return compileErr
}

func validate(name, what string, data []byte) error {
	if err := compileSchemas(); err != nil {
		return err
	}

	v, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	if err := compiled[name].Validate(v); err != nil {
		return fmt.Errorf("%s validation failed: %w", what, err)
	}

	return nil
}

// ValidateCorpus validates JSON data against the corpus schema.
func ValidateCorpus(data []byte) error {
	return validate(CorpusSchema, "corpus", data)
}

// ValidateTolerances validates JSON data against the tolerances schema.
func ValidateTolerances(data []byte) error {
	return validate(TolerancesSchema, "tolerances", data)
}

// ValidateEngineOutput validates JSON data against the engine output schema.
func ValidateEngineOutput(data []byte) error {
	return validate(EngineOutputSchema, "engine output", data)
}

// ValidateValue validates an already-decoded document (for example one read
// from YAML) by round-tripping it through JSON first.
func ValidateValue(name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	switch name {
	case CorpusSchema:
		return ValidateCorpus(data)
	case TolerancesSchema:
		return ValidateTolerances(data)
	case EngineOutputSchema:
		return ValidateEngineOutput(data)
	}
	return fmt.Errorf("unknown schema %q", name)
}
