package color

import "math"

// ToOKLab converts an sRGB color to OKLab.
func (c SRGB) ToOKLab() OKLab {
	lr := srgbToLinear(c.R)
	lg := srgbToLinear(c.G)
	lb := srgbToLinear(c.B)

	// M1: linear RGB → LMS
	l := 0.4122214708*lr + 0.5363325363*lg + 0.0514459929*lb
	m := 0.2119034982*lr + 0.6806995451*lg + 0.1073969566*lb
	s := 0.0883024619*lr + 0.2817188376*lg + 0.6299787005*lb

	lp := math.Cbrt(l)
	mp := math.Cbrt(m)
	sp := math.Cbrt(s)

	// M2: LMS' → Lab
	return OKLab{
		L: 0.2104542553*lp + 0.7936177850*mp - 0.0040720468*sp,
		A: 1.9779984951*lp - 2.4285922050*mp + 0.4505937099*sp,
		B: 0.0259040371*lp + 0.7827717662*mp - 0.8086757660*sp,
	}
}

// ToSRGB converts an OKLab color to sRGB, clamping out-of-gamut channels to [0, 1].
func (c OKLab) ToSRGB() SRGB {
	lp := c.L + 0.3963377774*c.A + 0.2158037573*c.B
	mp := c.L - 0.1055613458*c.A - 0.0638541728*c.B
	sp := c.L - 0.0894841775*c.A - 1.2914855480*c.B

	l := lp * lp * lp
	m := mp * mp * mp
	s := sp * sp * sp

	r := +4.0767416621*l - 3.3077115913*m + 0.2309699292*s
	g := -1.2684380046*l + 2.6097574011*m - 0.3413193965*s
	b := -0.0041960863*l - 0.7034186147*m + 1.7076147010*s

	return SRGB{
		R: linearToSRGB(clamp01(r)),
		G: linearToSRGB(clamp01(g)),
		B: linearToSRGB(clamp01(b)),
	}
}

func srgbToLinear(v float64) float64 {
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

func linearToSRGB(v float64) float64 {
	if v <= 0.0031308 {
		return v * 12.92
	}
	return 1.055*math.Pow(v, 1.0/2.4) - 0.055
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
