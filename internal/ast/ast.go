// Package ast defines the typed theme family model and the validating
// builder that produces it from a generic document tree. All shape errors
// are raised here, before resolution; later stages can assume a
// well-formed model.
package ast

import (
	"fmt"

	"github.com/jsvensson/hueforge/internal/palette"
)

// Meta holds family metadata.
type Meta struct {
	Name   string
	Author string
}

// Appearance classifies a theme as light or dark.
type Appearance int

const (
	Light Appearance = iota
	Dark
)

func (a Appearance) String() string {
	if a == Light {
		return "light"
	}
	return "dark"
}

// ParseAppearance parses "light" or "dark".
func ParseAppearance(s string) (Appearance, error) {
	switch s {
	case "light":
		return Light, nil
	case "dark":
		return Dark, nil
	default:
		return 0, fmt.Errorf("invalid appearance %q: expected \"light\" or \"dark\"", s)
	}
}

// PathKind distinguishes the two modifier target namespaces.
type PathKind int

const (
	StylePath PathKind = iota
	SyntaxPath
)

func (k PathKind) String() string {
	if k == StylePath {
		return "style"
	}
	return "syntax"
}

// Path is a modifier target: a key in either the style or the syntax
// namespace.
type Path struct {
	Kind PathKind
	Key  string
}

func (p Path) String() string {
	return p.Kind.String() + "." + p.Key
}

// Action is a bundle of optional visual attributes. A nil field means "not
// specified" and leaves the previous value at a target path untouched.
// Background, FontWeight and FontStyle have no effect on style paths.
type Action struct {
	Color      *palette.Expr
	Background *palette.Expr
	FontWeight *uint16
	FontStyle  *string
}

// IsEmpty reports whether the action specifies nothing.
func (a Action) IsEmpty() bool {
	return a.Color == nil && a.Background == nil && a.FontWeight == nil && a.FontStyle == nil
}

// Modifier applies an action to an ordered set of target paths.
type Modifier struct {
	Action  Action
	Targets []Path
}

// Player is one entry of the collaborator color list.
type Player struct {
	Cursor     *palette.Expr
	Background *palette.Expr
	Selection  *palette.Expr
}

// Theme is a single theme declaration: modifiers apply in declaration
// order on top of the family's common theme.
type Theme struct {
	Name       string
	Appearance Appearance
	Modifiers  []Modifier
	Players    []Player
}

// ThemeFamily is the fully typed theme document.
type ThemeFamily struct {
	Meta    Meta
	Palette *palette.Palette
	Common  *Theme
	Themes  []Theme
}
