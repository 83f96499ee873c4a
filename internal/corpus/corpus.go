// Package corpus loads the parity test corpus and selects cases from it.
package corpus

import (
	"fmt"

	"github.com/AndreyAkinshin/colorparity/internal/color"
	"github.com/AndreyAkinshin/colorparity/internal/version"
)

// Corpus is a versioned set of input cases.
type Corpus struct {
	Version     string `json:"corpusVersion"`
	Description string `json:"description,omitempty"`
	Cases       []Case `json:"cases"`

	// Path is the file the corpus was loaded from.
	Path string `json:"-"`
}

// Case is one engine input. Every engine is expected to produce
// Config.Count samples for it.
type Case struct {
	ID      string   `json:"id"`
	Version string   `json:"corpusVersion"`
	Anchors []Anchor `json:"anchors"`
	Config  Config   `json:"config"`
	Seed    int64    `json:"seed"`
	Notes   string   `json:"notes,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

// Config is the generation configuration passed through to the engines.
type Config struct {
	Count         int     `json:"count"`
	LoopMode      string  `json:"loopMode,omitempty"`
	VariationSeed int64   `json:"variationSeed,omitempty"`
	Lightness     float64 `json:"lightness,omitempty"`
	Chroma        float64 `json:"chroma,omitempty"`
	Contrast      float64 `json:"contrast,omitempty"`
	Vibrancy      float64 `json:"vibrancy,omitempty"`
	Temperature   float64 `json:"temperature,omitempty"`
}

// Anchor is a reference color given in OKLab, sRGB, or both.
type Anchor struct {
	OKLab *color.OKLab `json:"oklab,omitempty"`
	SRGB  *color.SRGB  `json:"rgb,omitempty"`
}

// Resolve returns the anchor with both representations filled in.
// A missing side is derived from the other.
func (a Anchor) Resolve() color.EngineColor {
	switch {
	case a.OKLab != nil && a.SRGB != nil:
		return color.EngineColor{OKLab: *a.OKLab, SRGB: *a.SRGB}
	case a.OKLab != nil:
		return color.EngineColor{OKLab: *a.OKLab, SRGB: a.OKLab.ToSRGB()}
	case a.SRGB != nil:
		return color.EngineColor{OKLab: a.SRGB.ToOKLab(), SRGB: *a.SRGB}
	}
	return color.EngineColor{}
}

// AnchorTolerance is the largest ΔE accepted between an anchor's OKLab
// value and its sRGB value converted back to OKLab.
const AnchorTolerance = 0.01

// CheckAnchors resolves every anchor and reports the ones whose two
// representations disagree. That happens when a given OKLab/sRGB pair does
// not describe the same color, or an OKLab-only anchor lies outside the
// sRGB gamut.
func (c *Corpus) CheckAnchors() []string {
	var warnings []string
	for _, tc := range c.Cases {
		for i, a := range tc.Anchors {
			resolved := a.Resolve()
			d := color.Distance(resolved.OKLab, resolved.SRGB.ToOKLab())
			if d > AnchorTolerance {
				warnings = append(warnings, fmt.Sprintf("case %q: anchors[%d]: oklab and rgb differ by ΔE %.4f", tc.ID, i, d))
			}
		}
	}
	return warnings
}

// HasTag reports whether the case carries any of tags.
// An empty tag list matches every case.
func (c *Case) HasTag(tags []string) bool {
	if len(tags) == 0 {
		return true
	}
	for _, have := range c.Tags {
		for _, want := range tags {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Find returns the case with the given ID.
func (c *Corpus) Find(id string) (*Case, bool) {
	for i := range c.Cases {
		if c.Cases[i].ID == id {
			return &c.Cases[i], true
		}
	}
	return nil, false
}

// UnknownIDs returns the entries of ids that name no case, in input order.
func (c *Corpus) UnknownIDs(ids []string) []string {
	var unknown []string
	for _, id := range ids {
		if _, ok := c.Find(id); !ok {
			unknown = append(unknown, id)
		}
	}
	return unknown
}

// Select returns the cases matching both filters, in corpus order. An empty
// ids list selects every ID; an empty tags list selects every tag set.
func (c *Corpus) Select(ids, tags []string) []Case {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}

	var selected []Case
	for _, tc := range c.Cases {
		if len(want) > 0 && !want[tc.ID] {
			continue
		}
		if !tc.HasTag(tags) {
			continue
		}
		selected = append(selected, tc)
	}
	return selected
}

// Tags returns every tag used in the corpus, in first-seen order.
func (c *Corpus) Tags() []string {
	seen := make(map[string]bool)
	var tags []string
	for _, tc := range c.Cases {
		for _, t := range tc.Tags {
			if !seen[t] {
				seen[t] = true
				tags = append(tags, t)
			}
		}
	}
	return tags
}

// CaseVersions returns the oldest and newest case versions. Cases with
// malformed versions are skipped; both results are empty when none parse.
func (c *Corpus) CaseVersions() (oldest, newest string) {
	for _, tc := range c.Cases {
		if version.Validate(tc.Version) != nil {
			continue
		}
		if oldest == "" {
			oldest, newest = tc.Version, tc.Version
			continue
		}
		if cmp, _ := version.Compare(tc.Version, oldest); cmp < 0 {
			oldest = tc.Version
		}
		if cmp, _ := version.Compare(tc.Version, newest); cmp > 0 {
			newest = tc.Version
		}
	}
	return oldest, newest
}
