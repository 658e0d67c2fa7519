package migrate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jsvensson/hueforge/internal/color"
	"github.com/jsvensson/hueforge/internal/palette"
)

// rgbKey identifies a color by its quantized opaque channels. Colors that
// differ only in alpha share one palette entry and diverge through an
// alpha modifier at the use site.
type rgbKey [3]uint8

func keyOf(c color.Color) rgbKey {
	r, g, b, _ := c.Bytes()
	return rgbKey{r, g, b}
}

// Generator deduplicates colors into a named palette as they are fed in.
// Feed order determines declaration order and name suffixing, so callers
// must feed deterministically.
type Generator struct {
	namer  Namer
	names  map[rgbKey]string
	colors map[rgbKey]color.Color
	used   map[string]bool
	order  []rgbKey
}

// NewGenerator returns an empty generator using the given naming strategy.
func NewGenerator(namer Namer) *Generator {
	return &Generator{
		namer:  namer,
		names:  make(map[rgbKey]string),
		colors: make(map[rgbKey]color.Color),
		used:   make(map[string]bool),
	}
}

// Expr registers the color (if new) and returns the use-site expression
// for it: a reference to the palette entry, with an alpha modifier when
// the color is translucent.
func (g *Generator) Expr(c color.Color) palette.Expr {
	key := keyOf(c)
	name, ok := g.names[key]
	if !ok {
		name = g.assign(key, c)
	}

	expr := palette.Ref(name)
	if _, _, _, a := c.Bytes(); a != 255 {
		expr.Ops = []color.Op{{Kind: color.OpAlpha, Value: c.A}}
	}
	return expr
}

// assign picks a unique name for a new color and records it.
func (g *Generator) assign(key rgbKey, c color.Color) string {
	base := sanitizeName(g.namer(c))
	if base == "" {
		base = HexNamer(c)
	}

	name := base
	for n := 2; g.used[name]; n++ {
		name = fmt.Sprintf("%s-%d", base, n)
	}

	g.names[key] = name
	g.colors[key] = c.Opaque()
	g.used[name] = true
	g.order = append(g.order, key)
	return name
}

// Palette builds the palette of all registered colors, in feed order.
func (g *Generator) Palette() *palette.Palette {
	p := palette.New()
	for _, key := range g.order {
		// Names are unique by construction, Add cannot fail.
		_ = p.Add(g.names[key], palette.Lit(g.colors[key]))
	}
	return p
}

// sanitizeName lowercases and strips characters that are not valid in a
// palette identifier.
func sanitizeName(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}

// exprKey returns a canonical string identity for a color expression, used
// to group equal actions and to compare player lists.
func exprKey(e *palette.Expr) string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	if e.IsRef() {
		b.WriteString("ref:")
		b.WriteString(e.Ref)
	} else {
		b.WriteString("lit:")
		b.WriteString(e.Lit.Hex())
	}
	for _, op := range e.Ops {
		b.WriteByte('/')
		b.WriteString(op.Kind.String())
		b.WriteByte('=')
		b.WriteString(strconv.FormatFloat(op.Value, 'g', -1, 64))
	}
	return b.String()
}
