package color

import "math"

// OKLCH is a color in the perceptually-uniform OKLCH space with alpha.
// L is lightness [0, 1], C is chroma [0, ~0.37], H is hue in degrees
// [0, 360), A is alpha [0, 1].
type OKLCH struct {
	L, C, H, A float64
}

// ToOKLCH converts an sRGB Color to OKLCH.
func (c Color) ToOKLCH() OKLCH {
	// sRGB → linear RGB
	lr := srgbToLinear(clamp01(c.R))
	lg := srgbToLinear(clamp01(c.G))
	lb := srgbToLinear(clamp01(c.B))

	// linear RGB → OKLAB
	L, a, b := linearRGBToOKLAB(lr, lg, lb)

	// OKLAB → OKLCH
	chroma := math.Sqrt(a*a + b*b)
	hue := math.Atan2(b, a) * (180.0 / math.Pi)
	if hue < 0 {
		hue += 360.0
	}

	return OKLCH{L: L, C: chroma, H: hue, A: c.A}
}

// ToRGB converts an OKLCH value back to sRGB. Out-of-gamut results are
// clipped per channel to [0, 1], which is why extreme lightness edits on
// chromatic colors do not collapse to pure black or white.
func (o OKLCH) ToRGB() Color {
	// OKLCH → OKLAB
	hRad := o.H * (math.Pi / 180.0)
	a := o.C * math.Cos(hRad)
	b := o.C * math.Sin(hRad)

	// OKLAB → linear RGB
	lr, lg, lb := oklabToLinearRGB(o.L, a, b)

	// linear RGB → sRGB, clamped
	return Color{
		R: linearToSRGB(clamp01(lr)),
		G: linearToSRGB(clamp01(lg)),
		B: linearToSRGB(clamp01(lb)),
		A: clamp01(o.A),
	}
}

// srgbToLinear converts a single sRGB component [0,1] to linear RGB.
func srgbToLinear(v float64) float64 {
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// linearToSRGB converts a single linear RGB component [0,1] to sRGB.
func linearToSRGB(v float64) float64 {
	if v <= 0.0031308 {
		return v * 12.92
	}
	return 1.055*math.Pow(v, 1.0/2.4) - 0.055
}

// linearRGBToOKLAB converts linear RGB to OKLAB (L, a, b).
func linearRGBToOKLAB(r, g, b float64) (float64, float64, float64) {
	// M1: linear RGB → LMS
	l := 0.4122214708*r + 0.5363325363*g + 0.0514459929*b
	m := 0.2119034982*r + 0.6806995451*g + 0.1073969566*b
	s := 0.0883024619*r + 0.2817188376*g + 0.6299787005*b

	// Cube root (preserving sign)
	lp := math.Cbrt(l)
	mp := math.Cbrt(m)
	sp := math.Cbrt(s)

	// M2: LMS' → Lab
	L := 0.2104542553*lp + 0.7936177850*mp - 0.0040720468*sp
	A := 1.9779984951*lp - 2.4285922050*mp + 0.4505937099*sp
	B := 0.0259040371*lp + 0.7827717662*mp - 0.8086757660*sp

	return L, A, B
}

// oklabToLinearRGB converts OKLAB (L, a, b) to linear RGB.
func oklabToLinearRGB(L, a, b float64) (float64, float64, float64) {
	// Inverse M2: Lab → LMS'
	lp := L + 0.3963377774*a + 0.2158037573*b
	mp := L - 0.1055613458*a - 0.0638541728*b
	sp := L - 0.0894841775*a - 1.2914855480*b

	// Cube: LMS' → LMS
	l := lp * lp * lp
	m := mp * mp * mp
	s := sp * sp * sp

	// Inverse M1: LMS → linear RGB
	r := +4.0767416621*l - 3.3077115913*m + 0.2309699292*s
	g := -1.2684380046*l + 2.6097574011*m - 0.3413193965*s
	bl := -0.0041960863*l - 0.7034186147*m + 1.7076147010*s

	return r, g, bl
}
