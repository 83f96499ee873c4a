// Package tolerance defines parity tolerance configuration and the per-sample
// tolerance evaluator.
package tolerance

// Delta is the per-sample OKLab difference between two engines.
// L, A and B are signed (canonical - alternate); DeltaE is the unsigned
// Euclidean distance.
type Delta struct {
	L      float64 `json:"l"`
	A      float64 `json:"a"`
	B      float64 `json:"b"`
	DeltaE float64 `json:"deltaE"`
}

// Config is the tolerance file as written on disk. Any bound that is zero or
// negative leaves its channel unconstrained.
type Config struct {
	Version     string      `json:"toleranceVersion" yaml:"toleranceVersion"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Abs         AbsBounds   `json:"abs" yaml:"abs"`
	Rel         RelBounds   `json:"rel" yaml:"rel"`
	Policy      *PolicyMeta `json:"policy,omitempty" yaml:"policy,omitempty"`
	Provenance  *Provenance `json:"provenance,omitempty" yaml:"provenance,omitempty"`
}

// AbsBounds holds absolute per-channel bounds.
type AbsBounds struct {
	L      float64 `json:"l" yaml:"l"`
	A      float64 `json:"a" yaml:"a"`
	B      float64 `json:"b" yaml:"b"`
	DeltaE float64 `json:"deltaE" yaml:"deltaE"`
}

// RelBounds holds relative per-channel bounds. DeltaE has no relative bound.
type RelBounds struct {
	L float64 `json:"l" yaml:"l"`
	A float64 `json:"a" yaml:"a"`
	B float64 `json:"b" yaml:"b"`
}

// PolicyMeta carries the failure policy attached to a tolerance set.
type PolicyMeta struct {
	FailThreshold float64 `json:"failThreshold,omitempty" yaml:"failThreshold,omitempty"`
	Notes         string  `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Provenance records where a tolerance set came from.
type Provenance struct {
	Source  string `json:"source,omitempty" yaml:"source,omitempty"`
	Updated string `json:"updated,omitempty" yaml:"updated,omitempty"`
}

// Overrides replaces absolute bounds from the command line.
// A nil field keeps the value from the file.
type Overrides struct {
	L      *float64
	A      *float64
	B      *float64
	DeltaE *float64
}

// Apply writes the non-nil overrides into cfg.
func (o Overrides) Apply(cfg *Config) {
	if o.L != nil {
		cfg.Abs.L = *o.L
	}
	if o.A != nil {
		cfg.Abs.A = *o.A
	}
	if o.B != nil {
		cfg.Abs.B = *o.B
	}
	if o.DeltaE != nil {
		cfg.Abs.DeltaE = *o.DeltaE
	}
}
