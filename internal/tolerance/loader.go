package tolerance

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/AndreyAkinshin/colorparity/internal/schema"
)

// Load reads a tolerance file, validates it against the tolerances schema and
// returns warnings for fields it does not recognize. Files ending in .yaml or
// .yml are decoded as YAML, everything else as JSON.
func Load(path string) (*Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read tolerances file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return parseYAML(data)
	default:
		return parseJSON(data)
	}
}

func parseJSON(data []byte) (*Config, []string, error) {
	if err := schema.ValidateTolerances(data); err != nil {
		return nil, nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to parse tolerances file: %w", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("failed to parse tolerances file: %w", err)
	}

	return &cfg, detectUnknownFields(raw), nil
}

func parseYAML(data []byte) (*Config, []string, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("failed to parse tolerances file: %w", err)
	}
	if err := schema.ValidateValue(schema.TolerancesSchema, raw); err != nil {
		return nil, nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to parse tolerances file: %w", err)
	}

	return &cfg, detectUnknownFields(raw), nil
}

// detectUnknownFields lists keys that do not map onto Config, at the root and
// inside the abs/rel/policy/provenance objects.
func detectUnknownFields(raw map[string]any) []string {
	var warnings []string

	known := getJSONFields(reflect.TypeOf(Config{}))
	for _, key := range sortedKeys(raw) {
		if key == "$schema" {
			continue
		}
		if !known[key] {
			warnings = append(warnings, fmt.Sprintf("unknown field %q at root level (ignored)", key))
		}
	}

	nested := map[string]reflect.Type{
		"abs":        reflect.TypeOf(AbsBounds{}),
		"rel":        reflect.TypeOf(RelBounds{}),
		"policy":     reflect.TypeOf(PolicyMeta{}),
		"provenance": reflect.TypeOf(Provenance{}),
	}
	for _, section := range []string{"abs", "rel", "policy", "provenance"} {
		obj, ok := raw[section].(map[string]any)
		if !ok {
			continue
		}
		fields := getJSONFields(nested[section])
		for _, key := range sortedKeys(obj) {
			if !fields[key] {
				warnings = append(warnings, fmt.Sprintf("unknown field %q in %s (ignored)", key, section))
			}
		}
	}

	return warnings
}

// getJSONFields returns a map of known JSON field names for a struct type.
func getJSONFields(t reflect.Type) map[string]bool {
	fields := make(map[string]bool)
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		if tag == "" || tag == "-" {
			continue
		}
		if name := strings.Split(tag, ",")[0]; name != "" {
			fields[name] = true
		}
	}
	return fields
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
