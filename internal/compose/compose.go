// Package compose turns a typed theme family into final per-theme style,
// syntax and player maps. Each theme starts from the composed result of
// the family's common theme, then applies its own modifiers in declaration
// order with partial-override semantics.
package compose

import (
	"fmt"

	"github.com/jsvensson/hueforge/internal/ast"
	"github.com/jsvensson/hueforge/internal/color"
	"github.com/jsvensson/hueforge/internal/palette"
)

// SyntaxStyle is the composed result at a syntax path. Nil fields were
// never specified by any modifier.
type SyntaxStyle struct {
	Color      *color.Color
	Background *color.Color
	FontWeight *uint16
	FontStyle  *string
}

// PlayerColors is one resolved entry of the player list.
type PlayerColors struct {
	Cursor     *color.Color
	Background *color.Color
	Selection  *color.Color
}

// Theme is a fully composed theme: every path mapped to concrete values.
type Theme struct {
	Name       string
	Appearance ast.Appearance
	Style      map[string]color.Color
	Syntax     map[string]*SyntaxStyle
	Players    []PlayerColors
}

// Family is the composed output of the whole pipeline, ready for
// serialization.
type Family struct {
	Meta   ast.Meta
	Themes []Theme
}

// Compose resolves the family's palette and composes every theme.
func Compose(family *ast.ThemeFamily) (*Family, error) {
	resolved, err := family.Palette.Resolve()
	if err != nil {
		return nil, err
	}
	return ComposeResolved(family, resolved)
}

// ComposeResolved composes every theme against an already resolved
// palette.
func ComposeResolved(family *ast.ThemeFamily, resolved palette.Resolved) (*Family, error) {
	var base *Theme
	if family.Common != nil {
		composed, err := composeTheme(family.Common, nil, resolved)
		if err != nil {
			return nil, fmt.Errorf("composing common theme: %w", err)
		}
		base = &composed
	}

	out := &Family{Meta: family.Meta}
	for i := range family.Themes {
		theme := &family.Themes[i]
		composed, err := composeTheme(theme, base, resolved)
		if err != nil {
			return nil, fmt.Errorf("composing theme %q: %w", theme.Name, err)
		}
		out.Themes = append(out.Themes, composed)
	}
	return out, nil
}

// composeTheme seeds the working maps from base (the composed common
// theme, nil for the common theme itself) and applies the theme's own
// modifiers. Only fields present in an action overwrite the current entry;
// everything else set by an earlier modifier survives.
func composeTheme(theme *ast.Theme, base *Theme, resolved palette.Resolved) (Theme, error) {
	out := Theme{
		Name:       theme.Name,
		Appearance: theme.Appearance,
		Style:      make(map[string]color.Color),
		Syntax:     make(map[string]*SyntaxStyle),
	}
	if base != nil {
		for key, c := range base.Style {
			out.Style[key] = c
		}
		for key, entry := range base.Syntax {
			out.Syntax[key] = entry.clone()
		}
		out.Players = append(out.Players, base.Players...)
	}

	for _, mod := range theme.Modifiers {
		for _, target := range mod.Targets {
			if err := applyAction(&out, mod.Action, target, resolved); err != nil {
				return Theme{}, fmt.Errorf("%s: %w", target, err)
			}
		}
	}

	// A theme's own player list replaces the inherited one wholesale.
	if len(theme.Players) > 0 {
		out.Players = nil
		for _, player := range theme.Players {
			resolvedPlayer, err := resolvePlayer(player, resolved)
			if err != nil {
				return Theme{}, fmt.Errorf("player: %w", err)
			}
			out.Players = append(out.Players, resolvedPlayer)
		}
	}

	return out, nil
}

func applyAction(theme *Theme, action ast.Action, target ast.Path, resolved palette.Resolved) error {
	switch target.Kind {
	case ast.StylePath:
		// Style entries hold a single color; background and font fields
		// have no effect here even when the action carries them.
		if action.Color != nil {
			c, err := resolved.Eval(*action.Color)
			if err != nil {
				return err
			}
			theme.Style[target.Key] = c
		}
		return nil

	case ast.SyntaxPath:
		entry := theme.Syntax[target.Key]
		if entry == nil {
			entry = &SyntaxStyle{}
			theme.Syntax[target.Key] = entry
		}
		if action.Color != nil {
			c, err := resolved.Eval(*action.Color)
			if err != nil {
				return err
			}
			entry.Color = &c
		}
		if action.Background != nil {
			c, err := resolved.Eval(*action.Background)
			if err != nil {
				return err
			}
			entry.Background = &c
		}
		if action.FontWeight != nil {
			weight := *action.FontWeight
			entry.FontWeight = &weight
		}
		if action.FontStyle != nil {
			style := *action.FontStyle
			entry.FontStyle = &style
		}
		return nil
	}
	return fmt.Errorf("unknown path kind %v", target.Kind)
}

func resolvePlayer(player ast.Player, resolved palette.Resolved) (PlayerColors, error) {
	eval := func(expr *palette.Expr) (*color.Color, error) {
		if expr == nil {
			return nil, nil
		}
		c, err := resolved.Eval(*expr)
		if err != nil {
			return nil, err
		}
		return &c, nil
	}

	var out PlayerColors
	var err error
	if out.Cursor, err = eval(player.Cursor); err != nil {
		return PlayerColors{}, err
	}
	if out.Background, err = eval(player.Background); err != nil {
		return PlayerColors{}, err
	}
	if out.Selection, err = eval(player.Selection); err != nil {
		return PlayerColors{}, err
	}
	return out, nil
}

func (s *SyntaxStyle) clone() *SyntaxStyle {
	out := &SyntaxStyle{}
	if s.Color != nil {
		c := *s.Color
		out.Color = &c
	}
	if s.Background != nil {
		c := *s.Background
		out.Background = &c
	}
	if s.FontWeight != nil {
		w := *s.FontWeight
		out.FontWeight = &w
	}
	if s.FontStyle != nil {
		fs := *s.FontStyle
		out.FontStyle = &fs
	}
	return out
}
