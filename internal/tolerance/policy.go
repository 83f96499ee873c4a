package tolerance

import (
	"fmt"
	"math"
)

// BoundKind tags how a channel is constrained.
type BoundKind int

const (
	Unbounded BoundKind = iota
	Absolute
	Relative
)

// String returns the lowercase name of the kind.
func (k BoundKind) String() string {
	switch k {
	case Absolute:
		return "absolute"
	case Relative:
		return "relative"
	default:
		return "unbounded"
	}
}

// Bound is one explicit channel constraint. Limit is meaningful only when
// Kind is Absolute or Relative.
type Bound struct {
	Kind  BoundKind
	Limit float64
}

// NoBound returns an unbounded constraint.
func NoBound() Bound { return Bound{Kind: Unbounded} }

// AbsoluteBound constrains |v| to at most limit.
func AbsoluteBound(limit float64) Bound { return Bound{Kind: Absolute, Limit: limit} }

// RelativeBound constrains |v| to at most limit, where limit is already the
// effective product of the relative factor and its anchor.
func RelativeBound(limit float64) Bound { return Bound{Kind: Relative, Limit: limit} }

// Exceeds reports whether v violates the bound.
func (b Bound) Exceeds(v float64) bool {
	if b.Kind == Unbounded {
		return false
	}
	return math.Abs(v) > b.Limit
}

func (b Bound) String() string {
	if b.Kind == Unbounded {
		return "unbounded"
	}
	return fmt.Sprintf("%s(%g)", b.Kind, b.Limit)
}

// Channel is the pair of constraints applied to one OKLab channel.
type Channel struct {
	Abs Bound
	Rel Bound
}

func (c Channel) exceeds(v float64) bool {
	return c.Abs.Exceeds(v) || c.Rel.Exceeds(v)
}

// Policy is the compiled, tagged form of a Config.
type Policy struct {
	L      Channel
	A      Channel
	B      Channel
	DeltaE Bound
}

// Compile converts the sentinel-valued file form into explicit bounds.
// The relative limit is anchored at |abs + 1| so that a zero absolute bound
// still yields a usable scale.
func (c *Config) Compile() Policy {
	return Policy{
		L:      compileChannel(c.Abs.L, c.Rel.L),
		A:      compileChannel(c.Abs.A, c.Rel.A),
		B:      compileChannel(c.Abs.B, c.Rel.B),
		DeltaE: compileAbs(c.Abs.DeltaE),
	}
}

func compileChannel(abs, rel float64) Channel {
	ch := Channel{Abs: compileAbs(abs), Rel: NoBound()}
	if rel > 0 {
		ch.Rel = RelativeBound(rel * math.Abs(abs+1.0))
	}
	return ch
}

func compileAbs(abs float64) Bound {
	if abs > 0 {
		return AbsoluteBound(abs)
	}
	return NoBound()
}

// Within reports whether delta satisfies every bound in the policy.
func (p Policy) Within(delta Delta) bool {
	if p.L.exceeds(delta.L) || p.A.exceeds(delta.A) || p.B.exceeds(delta.B) {
		return false
	}
	return !p.DeltaE.Exceeds(delta.DeltaE)
}

// Within evaluates delta against a compiled policy.
func Within(delta Delta, policy Policy) bool {
	return policy.Within(delta)
}

// WithinConfig compiles cfg and evaluates delta against it.
func WithinConfig(delta Delta, cfg *Config) bool {
	if cfg == nil {
		return false
	}
	return cfg.Compile().Within(delta)
}
