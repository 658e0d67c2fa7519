// Package migrate turns an existing JSON theme family back into the
// editable source model: it extracts a deduplicated named palette,
// regroups per-path values into modifiers, and hoists what all themes
// share into a common theme.
package migrate

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/jsvensson/hueforge/internal/ast"
	"github.com/jsvensson/hueforge/internal/color"
	"github.com/jsvensson/hueforge/internal/palette"
	"github.com/jsvensson/hueforge/internal/schema"
)

// Migrate converts a JSON theme family into a source model using the
// default naming strategy.
func Migrate(src *schema.ThemeFamily) (*ast.ThemeFamily, error) {
	return MigrateWith(src, DefaultNamer)
}

// MigrateWith converts a JSON theme family into a source model, naming
// extracted palette entries with the given strategy.
func MigrateWith(src *schema.ThemeFamily, namer Namer) (*ast.ThemeFamily, error) {
	gen := NewGenerator(namer)

	type themeParts struct {
		name       string
		appearance ast.Appearance
		pairs      []actionPair
		players    []ast.Player
	}

	parts := make([]themeParts, 0, len(src.Themes))
	for _, theme := range src.Themes {
		appearance, err := ast.ParseAppearance(theme.Appearance)
		if err != nil {
			return nil, fmt.Errorf("theme %q: %w", theme.Name, err)
		}
		pairs, err := collectPairs(gen, &theme)
		if err != nil {
			return nil, fmt.Errorf("theme %q: %w", theme.Name, err)
		}
		players, err := collectPlayers(gen, theme.Players)
		if err != nil {
			return nil, fmt.Errorf("theme %q: %w", theme.Name, err)
		}
		parts = append(parts, themeParts{theme.Name, appearance, pairs, players})
	}

	out := &ast.ThemeFamily{
		Meta: ast.Meta{Name: src.Name, Author: src.Author},
	}

	var commonPairs []actionPair
	var commonPlayers []ast.Player
	if len(parts) > 1 {
		all := make([][]actionPair, len(parts))
		for i := range parts {
			all[i] = parts[i].pairs
		}
		commonPairs = intersectPairs(all)

		commonPlayers = parts[0].players
		for _, p := range parts[1:] {
			if !samePlayers(commonPlayers, p.players) {
				commonPlayers = nil
				break
			}
		}
	}

	if len(commonPairs) > 0 || len(commonPlayers) > 0 {
		out.Common = &ast.Theme{
			Name:       "common",
			Appearance: ast.Dark,
			Modifiers:  groupPairs(commonPairs),
			Players:    commonPlayers,
		}
	}

	commonSet := pairSet(commonPairs)
	for _, p := range parts {
		own := p.pairs
		if len(commonSet) > 0 {
			own = own[:0:0]
			for _, pair := range p.pairs {
				if !commonSet[pair.id()] {
					own = append(own, pair)
				}
			}
		}
		players := p.players
		if commonPlayers != nil {
			players = nil
		}
		out.Themes = append(out.Themes, ast.Theme{
			Name:       p.name,
			Appearance: p.appearance,
			Modifiers:  groupPairs(own),
			Players:    players,
		})
	}

	out.Palette = gen.Palette()
	return out, nil
}

// actionPair is a single-field action bound to one target path, the
// atomic unit of grouping and common extraction.
type actionPair struct {
	key    string
	action ast.Action
	path   ast.Path
}

func (p actionPair) id() string {
	return p.key + "|" + p.path.String()
}

// collectPairs walks one JSON theme and emits a pair per populated field.
// Walk order is sorted by path key so names and grouping come out
// deterministic regardless of map iteration.
func collectPairs(gen *Generator, theme *schema.Theme) ([]actionPair, error) {
	var pairs []actionPair

	styleKeys := sortedKeys(theme.Style.Colors)
	for _, key := range styleKeys {
		hex := theme.Style.Colors[key]
		if hex == nil {
			continue
		}
		c, err := color.ParseHex(*hex)
		if err != nil {
			return nil, fmt.Errorf("style.%s: %w", key, err)
		}
		expr := gen.Expr(c)
		pairs = append(pairs, actionPair{
			key:    "color:" + exprKey(&expr),
			action: ast.Action{Color: &expr},
			path:   ast.Path{Kind: ast.StylePath, Key: key},
		})
	}

	syntaxKeys := sortedKeys(theme.Style.Syntax)
	for _, key := range syntaxKeys {
		entry := theme.Style.Syntax[key]
		path := ast.Path{Kind: ast.SyntaxPath, Key: key}

		if entry.Color != nil {
			c, err := color.ParseHex(*entry.Color)
			if err != nil {
				return nil, fmt.Errorf("syntax.%s: %w", key, err)
			}
			expr := gen.Expr(c)
			pairs = append(pairs, actionPair{
				key:    "color:" + exprKey(&expr),
				action: ast.Action{Color: &expr},
				path:   path,
			})
		}
		if entry.Background != nil {
			c, err := color.ParseHex(*entry.Background)
			if err != nil {
				return nil, fmt.Errorf("syntax.%s background: %w", key, err)
			}
			expr := gen.Expr(c)
			pairs = append(pairs, actionPair{
				key:    "background:" + exprKey(&expr),
				action: ast.Action{Background: &expr},
				path:   path,
			})
		}
		if entry.FontWeight != nil {
			weight := *entry.FontWeight
			pairs = append(pairs, actionPair{
				key:    "font_weight:" + strconv.Itoa(int(weight)),
				action: ast.Action{FontWeight: &weight},
				path:   path,
			})
		}
		if entry.FontStyle != nil {
			style := *entry.FontStyle
			pairs = append(pairs, actionPair{
				key:    "font_style:" + style,
				action: ast.Action{FontStyle: &style},
				path:   path,
			})
		}
	}

	return pairs, nil
}

func collectPlayers(gen *Generator, players []schema.Player) ([]ast.Player, error) {
	out := make([]ast.Player, 0, len(players))
	for i, player := range players {
		assign := func(hex *string, name string) (*palette.Expr, error) {
			if hex == nil {
				return nil, nil
			}
			c, err := color.ParseHex(*hex)
			if err != nil {
				return nil, fmt.Errorf("player %d %s: %w", i, name, err)
			}
			expr := gen.Expr(c)
			return &expr, nil
		}
		var p ast.Player
		var err error
		if p.Cursor, err = assign(player.Cursor, "cursor"); err != nil {
			return nil, err
		}
		if p.Background, err = assign(player.Background, "background"); err != nil {
			return nil, err
		}
		if p.Selection, err = assign(player.Selection, "selection"); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// groupPairs merges pairs with equal actions into one modifier with
// multiple targets. Modifier order follows first appearance, target order
// follows pair order.
func groupPairs(pairs []actionPair) []ast.Modifier {
	var mods []ast.Modifier
	index := make(map[string]int)
	for _, pair := range pairs {
		if i, ok := index[pair.key]; ok {
			mods[i].Targets = append(mods[i].Targets, pair.path)
			continue
		}
		index[pair.key] = len(mods)
		mods = append(mods, ast.Modifier{
			Action:  pair.action,
			Targets: []ast.Path{pair.path},
		})
	}
	return mods
}

// intersectPairs returns the pairs present in every theme, in the first
// theme's order.
func intersectPairs(all [][]actionPair) []actionPair {
	if len(all) == 0 {
		return nil
	}
	counts := make(map[string]int)
	for _, pairs := range all {
		for _, pair := range pairs {
			counts[pair.id()]++
		}
	}

	var common []actionPair
	for _, pair := range all[0] {
		if counts[pair.id()] == len(all) {
			common = append(common, pair)
		}
	}
	return common
}

func pairSet(pairs []actionPair) map[string]bool {
	set := make(map[string]bool, len(pairs))
	for _, pair := range pairs {
		set[pair.id()] = true
	}
	return set
}

func samePlayers(a, b []ast.Player) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if exprKey(a[i].Cursor) != exprKey(b[i].Cursor) ||
			exprKey(a[i].Background) != exprKey(b[i].Background) ||
			exprKey(a[i].Selection) != exprKey(b[i].Selection) {
			return false
		}
	}
	return true
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
