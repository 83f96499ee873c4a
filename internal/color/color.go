// Package color provides the OKLab and sRGB value types exchanged with color engines.
package color

import "math"

// OKLab is a perceptual color with lightness L and chroma axes A and B.
type OKLab struct {
	L float64 `json:"l"`
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// SRGB is an sRGB color with channels in [0, 1].
type SRGB struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// EngineColor is one sample produced by an engine.
type EngineColor struct {
	OKLab OKLab `json:"oklab"`
	SRGB  SRGB  `json:"rgb"`
}

// Distance returns the Euclidean distance between two OKLab colors (deltaE).
// The result is symmetric, never negative, and zero only for equal colors.
func Distance(a, b OKLab) float64 {
	dl := a.L - b.L
	da := a.A - b.A
	db := a.B - b.B
	return math.Sqrt(dl*dl + da*da + db*db)
}

// Sub returns the channel-wise difference c - o.
func (c OKLab) Sub(o OKLab) OKLab {
	return OKLab{L: c.L - o.L, A: c.A - o.A, B: c.B - o.B}
}

// Sub returns the channel-wise difference c - o.
func (c SRGB) Sub(o SRGB) SRGB {
	return SRGB{R: c.R - o.R, G: c.G - o.G, B: c.B - o.B}
}
