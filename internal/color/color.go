package color

import (
	"fmt"
	"math"
	"strings"
)

// Color is an sRGB color with alpha. All channels are in [0, 1]; the float
// channels are the source of truth and are only quantized to 8 bits when
// formatting for output.
type Color struct {
	R, G, B, A float64
}

// FromBytes builds a Color from 8-bit channel values.
func FromBytes(r, g, b, a uint8) Color {
	return Color{
		R: float64(r) / 255.0,
		G: float64(g) / 255.0,
		B: float64(b) / 255.0,
		A: float64(a) / 255.0,
	}
}

// Bytes quantizes the color to 8-bit channels, clamping each to [0, 1] first.
func (c Color) Bytes() (r, g, b, a uint8) {
	quant := func(v float64) uint8 {
		return uint8(math.Round(clamp01(v) * 255.0))
	}
	return quant(c.R), quant(c.G), quant(c.B), quant(c.A)
}

// ParseHex parses a hex color string like "#eb6f92" or "#eb6f9280" into a
// Color. The alpha digits are optional and default to full opacity. Letters
// are case insensitive; the leading # may be omitted.
func ParseHex(s string) (Color, error) {
	trimmed := strings.TrimPrefix(s, "#")
	var r, g, b uint8
	a := uint8(0xff)
	switch len(trimmed) {
	case 6:
		if _, err := fmt.Sscanf(strings.ToLower(trimmed), "%02x%02x%02x", &r, &g, &b); err != nil {
			return Color{}, fmt.Errorf("invalid hex color %q: %w", s, err)
		}
	case 8:
		if _, err := fmt.Sscanf(strings.ToLower(trimmed), "%02x%02x%02x%02x", &r, &g, &b, &a); err != nil {
			return Color{}, fmt.Errorf("invalid hex color %q: %w", s, err)
		}
	default:
		return Color{}, fmt.Errorf("invalid hex color %q: must be 6 or 8 hex digits", s)
	}
	return FromBytes(r, g, b, a), nil
}

// IsHex reports whether s looks like a parseable hex color. Used to decide
// whether a color string is a literal or a palette reference.
func IsHex(s string) bool {
	_, err := ParseHex(s)
	return err == nil
}

// Hex returns the color as a hex string with leading # and alpha channel,
// e.g. "#eb6f92ff". This is the wire format of the JSON schema.
func (c Color) Hex() string {
	r, g, b, a := c.Bytes()
	return fmt.Sprintf("#%02x%02x%02x%02x", r, g, b, a)
}

// HexRGB returns the color as a 6-digit hex string with leading #, dropping
// the alpha channel, e.g. "#eb6f92".
func (c Color) HexRGB() string {
	r, g, b, _ := c.Bytes()
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// Opaque returns the color with the alpha channel forced to full opacity.
func (c Color) Opaque() Color {
	c.A = 1
	return c
}

// Equal reports whether two colors quantize to the same 8-bit channels.
func (c Color) Equal(other Color) bool {
	r1, g1, b1, a1 := c.Bytes()
	r2, g2, b2, a2 := other.Bytes()
	return r1 == r2 && g1 == g2 && b1 == b2 && a1 == a2
}

// clamp01 clamps a value to the [0, 1] range.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
