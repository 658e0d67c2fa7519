// Package palette holds the named color collection of a theme family and
// resolves it to concrete colors. Palette entries may reference each other
// by name; the reference graph must be acyclic.
package palette

import (
	"fmt"
	"sort"

	"github.com/jsvensson/hueforge/internal/color"
)

// Expr is a color expression: either a literal color or a reference to a
// palette name, plus an ordered modifier chain applied after the base
// resolves. Ref is empty for literals.
type Expr struct {
	Ref string
	Lit color.Color
	Ops []color.Op
}

// Lit builds a literal expression with no modifiers.
func Lit(c color.Color) Expr {
	return Expr{Lit: c}
}

// Ref builds a reference expression with no modifiers.
func Ref(name string) Expr {
	return Expr{Ref: name}
}

// IsRef reports whether the expression references a palette name.
func (e Expr) IsRef() bool {
	return e.Ref != ""
}

// ParseBase parses a color string into a literal (hex) or reference (any
// other name) expression.
func ParseBase(s string) (Expr, error) {
	if color.IsHex(s) {
		c, err := color.ParseHex(s)
		if err != nil {
			return Expr{}, err
		}
		return Lit(c), nil
	}
	return Ref(s), nil
}

// Palette maps unique names to color expressions. Declaration order is
// retained for error reporting and serialization, but has no effect on
// resolved values.
type Palette struct {
	entries map[string]Expr
	names   []string
}

// New returns an empty palette.
func New() *Palette {
	return &Palette{entries: make(map[string]Expr)}
}

// Add inserts a named entry. Duplicate names are an error.
func (p *Palette) Add(name string, expr Expr) error {
	if _, ok := p.entries[name]; ok {
		return fmt.Errorf("duplicate palette entry %q", name)
	}
	p.entries[name] = expr
	p.names = append(p.names, name)
	return nil
}

// Get returns the entry for name and whether it exists.
func (p *Palette) Get(name string) (Expr, bool) {
	e, ok := p.entries[name]
	return e, ok
}

// Names returns the entry names in declaration order.
func (p *Palette) Names() []string {
	out := make([]string, len(p.names))
	copy(out, p.names)
	return out
}

// Len returns the number of entries.
func (p *Palette) Len() int {
	return len(p.entries)
}

// Resolved is a fully resolved palette: every name mapped to a concrete
// color.
type Resolved map[string]color.Color

// Names returns the resolved names sorted alphabetically.
func (r Resolved) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Eval evaluates a use-site color expression against the resolved palette:
// the base is looked up (or taken literally), then the expression's own
// modifier chain is applied.
func (r Resolved) Eval(e Expr) (color.Color, error) {
	base := e.Lit
	if e.IsRef() {
		var ok bool
		base, ok = r[e.Ref]
		if !ok {
			return color.Color{}, &UnknownReferenceError{Name: e.Ref}
		}
	}
	return color.Apply(base, e.Ops), nil
}
