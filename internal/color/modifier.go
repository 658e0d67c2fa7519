package color

import (
	"fmt"
	"math"
)

// OpKind identifies a single color modifier operation.
type OpKind int

const (
	OpAlpha OpKind = iota
	OpLighten
	OpDarken
	OpSaturate
	OpDesaturate
	OpHueShift
)

// opNames maps OpKind to its name in the theme markup.
var opNames = map[OpKind]string{
	OpAlpha:      "alpha",
	OpLighten:    "lighten",
	OpDarken:     "darken",
	OpSaturate:   "saturate",
	OpDesaturate: "desaturate",
	OpHueShift:   "hue_shift",
}

// OpKindFromName returns the OpKind for a markup attribute name.
func OpKindFromName(name string) (OpKind, bool) {
	for kind, n := range opNames {
		if n == name {
			return kind, true
		}
	}
	return 0, false
}

func (k OpKind) String() string {
	if name, ok := opNames[k]; ok {
		return name
	}
	return fmt.Sprintf("OpKind(%d)", int(k))
}

// Op is a single modifier operation with its parameter. Out-of-range
// parameters are never rejected; results are clamped instead.
type Op struct {
	Kind  OpKind
	Value float64
}

// apply performs the operation on an OKLCH value. Lightness is kept in
// [0, 1] and chroma is kept non-negative; alpha is clamped to [0, 1].
// Hue wraps modulo 360.
func (o Op) apply(lch OKLCH) OKLCH {
	switch o.Kind {
	case OpAlpha:
		lch.A = clamp01(lch.A * o.Value)
	case OpLighten:
		lch.L = clamp01(lch.L * (1 + o.Value))
	case OpDarken:
		lch.L = clamp01(lch.L * (1 - o.Value))
	case OpSaturate:
		lch.C = math.Max(0, lch.C*(1+o.Value))
	case OpDesaturate:
		lch.C = math.Max(0, lch.C*(1-o.Value))
	case OpHueShift:
		lch.H = math.Mod(lch.H+o.Value, 360.0)
		if lch.H < 0 {
			lch.H += 360.0
		}
	}
	return lch
}

// Apply runs a modifier chain on a color. The color is converted to OKLCH
// once, the ops are applied strictly in order (chains are order-sensitive:
// darken-then-desaturate differs from desaturate-then-darken), and the
// result is converted back to sRGB with per-channel gamut clipping.
// An empty chain is the identity.
func Apply(c Color, ops []Op) Color {
	if len(ops) == 0 {
		return c
	}
	lch := c.ToOKLCH()
	for _, op := range ops {
		lch = op.apply(lch)
	}
	return lch.ToRGB()
}
