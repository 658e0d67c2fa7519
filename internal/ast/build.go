package ast

import (
	"fmt"
	"strings"

	"github.com/jsvensson/hueforge/internal/color"
	"github.com/jsvensson/hueforge/internal/document"
	"github.com/jsvensson/hueforge/internal/palette"
	"github.com/zclconf/go-cty/cty"
)

// StructuralError reports malformed input shape: the offending node's path
// in the document tree and the expected shape.
type StructuralError struct {
	Path string
	Msg  string
}

func (e *StructuralError) Error() string {
	if e.Path == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Msg)
}

func errf(path []string, format string, args ...any) *StructuralError {
	return &StructuralError{
		Path: strings.Join(path, " > "),
		Msg:  fmt.Sprintf(format, args...),
	}
}

// Build converts a document tree into a typed ThemeFamily. It validates
// the entire shape and returns a StructuralError on the first violation.
// Build has no side effects and does not resolve palette references; that
// is the resolver's job.
func Build(root *document.Node) (*ThemeFamily, error) {
	if len(root.Props) > 0 {
		return nil, errf(nil, "unexpected top-level attribute %q: expected meta, palette, common and theme blocks", root.Props[0].Name)
	}

	family := &ThemeFamily{Palette: palette.New()}
	seenMeta := false
	seenPalette := false

	for _, child := range root.Children {
		switch child.Name {
		case "meta":
			if seenMeta {
				return nil, errf([]string{"meta"}, "duplicate meta block")
			}
			seenMeta = true
			meta, err := buildMeta(child)
			if err != nil {
				return nil, err
			}
			family.Meta = meta
		case "palette":
			if seenPalette {
				return nil, errf([]string{"palette"}, "duplicate palette block")
			}
			seenPalette = true
			if err := buildPalette(child, family.Palette); err != nil {
				return nil, err
			}
		case "common":
			if family.Common != nil {
				return nil, errf([]string{"common"}, "duplicate common block")
			}
			common, err := buildCommon(child)
			if err != nil {
				return nil, err
			}
			family.Common = common
		case "theme":
			theme, err := buildTheme(child)
			if err != nil {
				return nil, err
			}
			family.Themes = append(family.Themes, theme)
		default:
			return nil, errf([]string{child.Name}, "unknown block: expected meta, palette, common or theme")
		}
	}

	if !seenMeta {
		return nil, errf(nil, "missing required meta block")
	}
	if !seenPalette {
		return nil, errf(nil, "missing required palette block")
	}
	return family, nil
}

func buildMeta(node *document.Node) (Meta, error) {
	path := []string{"meta"}
	if len(node.Args) > 0 {
		return Meta{}, errf(path, "meta block takes no labels")
	}
	if len(node.Children) > 0 {
		return Meta{}, errf(path, "unexpected nested block %q", node.Children[0].Name)
	}

	var meta Meta
	for _, prop := range node.Props {
		s, ok := asString(prop.Value)
		if !ok {
			return Meta{}, errf(append(path, prop.Name), "expected a string value")
		}
		switch prop.Name {
		case "name":
			meta.Name = s
		case "author":
			meta.Author = s
		default:
			return Meta{}, errf(append(path, prop.Name), "unknown attribute (valid: name, author)")
		}
	}

	if meta.Name == "" {
		return Meta{}, errf(path, "missing required attribute \"name\"")
	}
	if meta.Author == "" {
		return Meta{}, errf(path, "missing required attribute \"author\"")
	}
	return meta, nil
}

func buildPalette(node *document.Node, pal *palette.Palette) error {
	path := []string{"palette"}
	if len(node.Args) > 0 {
		return errf(path, "palette block takes no labels")
	}

	// Shorthand entries: name = "#hex" or name = "other-name".
	for _, prop := range node.Props {
		s, ok := asString(prop.Value)
		if !ok {
			return errf(append(path, prop.Name), "expected a color string (hex literal or palette name)")
		}
		expr, err := palette.ParseBase(s)
		if err != nil {
			return errf(append(path, prop.Name), "%v", err)
		}
		if err := pal.Add(prop.Name, expr); err != nil {
			return errf(append(path, prop.Name), "%v", err)
		}
	}

	// Full entries: color "name" { base = ... <modifiers> }.
	for _, child := range node.Children {
		if child.Name != "color" {
			return errf(append(path, child.Name), "unknown block: palette entries are attributes or color blocks")
		}
		name, ok := child.StringArg(0)
		if !ok || len(child.Args) != 1 {
			return errf(append(path, "color"), "color block requires exactly one label (the entry name)")
		}
		entryPath := append(path, fmt.Sprintf("color %q", name))
		expr, err := buildColorBlock(child, entryPath)
		if err != nil {
			return err
		}
		if err := pal.Add(name, expr); err != nil {
			return errf(entryPath, "%v", err)
		}
	}

	return nil
}

// buildColorBlock parses a color expression block: a required "base"
// attribute plus modifier attributes applied in declaration order.
func buildColorBlock(node *document.Node, path []string) (palette.Expr, error) {
	if len(node.Children) > 0 {
		return palette.Expr{}, errf(path, "unexpected nested block %q", node.Children[0].Name)
	}

	var expr palette.Expr
	seenBase := false
	for _, prop := range node.Props {
		if prop.Name == "base" {
			if seenBase {
				return palette.Expr{}, errf(path, "duplicate base attribute")
			}
			seenBase = true
			s, ok := asString(prop.Value)
			if !ok {
				return palette.Expr{}, errf(append(path, "base"), "expected a color string (hex literal or palette name)")
			}
			parsed, err := palette.ParseBase(s)
			if err != nil {
				return palette.Expr{}, errf(append(path, "base"), "%v", err)
			}
			expr.Ref = parsed.Ref
			expr.Lit = parsed.Lit
			continue
		}

		kind, ok := color.OpKindFromName(prop.Name)
		if !ok {
			return palette.Expr{}, errf(append(path, prop.Name),
				"unknown attribute (valid: base, alpha, lighten, darken, saturate, desaturate, hue_shift)")
		}
		value, ok := asNumber(prop.Value)
		if !ok {
			return palette.Expr{}, errf(append(path, prop.Name), "expected a number")
		}
		expr.Ops = append(expr.Ops, color.Op{Kind: kind, Value: value})
	}

	if !seenBase {
		return palette.Expr{}, errf(path, "missing required attribute \"base\"")
	}
	return expr, nil
}

func buildCommon(node *document.Node) (*Theme, error) {
	path := []string{"common"}
	if len(node.Args) > 0 {
		return nil, errf(path, "common block takes no labels")
	}

	theme := Theme{Name: "common", Appearance: Dark}
	for _, prop := range node.Props {
		if prop.Name != "appearance" {
			return nil, errf(append(path, prop.Name), "unknown attribute (valid: appearance)")
		}
		s, ok := asString(prop.Value)
		if !ok {
			return nil, errf(append(path, "appearance"), "expected a string value")
		}
		appearance, err := ParseAppearance(s)
		if err != nil {
			return nil, errf(append(path, "appearance"), "%v", err)
		}
		theme.Appearance = appearance
	}

	if err := buildThemeBody(node, path, &theme); err != nil {
		return nil, err
	}
	return &theme, nil
}

func buildTheme(node *document.Node) (Theme, error) {
	name, ok := node.StringArg(0)
	if !ok || len(node.Args) != 1 {
		return Theme{}, errf([]string{"theme"}, "theme block requires exactly one label (the theme name)")
	}
	path := []string{fmt.Sprintf("theme %q", name)}

	theme := Theme{Name: name}
	seenAppearance := false
	for _, prop := range node.Props {
		if prop.Name != "appearance" {
			return Theme{}, errf(append(path, prop.Name), "unknown attribute (valid: appearance)")
		}
		s, ok := asString(prop.Value)
		if !ok {
			return Theme{}, errf(append(path, "appearance"), "expected a string value")
		}
		appearance, err := ParseAppearance(s)
		if err != nil {
			return Theme{}, errf(append(path, "appearance"), "%v", err)
		}
		theme.Appearance = appearance
		seenAppearance = true
	}
	if !seenAppearance {
		return Theme{}, errf(path, "missing required attribute \"appearance\"")
	}

	if err := buildThemeBody(node, path, &theme); err != nil {
		return Theme{}, err
	}
	return theme, nil
}

// buildThemeBody parses the modifier and player children shared by theme
// and common blocks.
func buildThemeBody(node *document.Node, path []string, theme *Theme) error {
	for _, child := range node.Children {
		switch child.Name {
		case "modifier":
			modifier, err := buildModifier(child, append(path, "modifier"))
			if err != nil {
				return err
			}
			theme.Modifiers = append(theme.Modifiers, modifier)
		case "player":
			player, err := buildPlayer(child, append(path, "player"))
			if err != nil {
				return err
			}
			theme.Players = append(theme.Players, player)
		default:
			return errf(append(path, child.Name), "unknown block: expected modifier or player")
		}
	}
	return nil
}

func buildModifier(node *document.Node, path []string) (Modifier, error) {
	if len(node.Args) > 0 {
		return Modifier{}, errf(path, "modifier block takes no labels")
	}

	var mod Modifier
	for _, prop := range node.Props {
		switch prop.Name {
		case "style", "syntax":
			keys, ok := asStringList(prop.Value)
			if !ok {
				return Modifier{}, errf(append(path, prop.Name), "expected a string or list of strings")
			}
			kind := StylePath
			if prop.Name == "syntax" {
				kind = SyntaxPath
			}
			for _, key := range keys {
				if kind == StylePath && strings.HasPrefix(key, "player") {
					return Modifier{}, errf(append(path, "style"),
						"style path %q is reserved: player colors are set with player blocks", key)
				}
				mod.Targets = append(mod.Targets, Path{Kind: kind, Key: key})
			}
		case "color", "background":
			s, ok := asString(prop.Value)
			if !ok {
				return Modifier{}, errf(append(path, prop.Name), "expected a color string (hex literal or palette name)")
			}
			expr, err := palette.ParseBase(s)
			if err != nil {
				return Modifier{}, errf(append(path, prop.Name), "%v", err)
			}
			if err := setActionColor(&mod.Action, prop.Name, expr, path); err != nil {
				return Modifier{}, err
			}
		case "font_weight":
			value, ok := asNumber(prop.Value)
			if !ok || value < 0 || value > 65535 || value != float64(uint16(value)) {
				return Modifier{}, errf(append(path, "font_weight"), "expected a whole number in [0, 65535]")
			}
			weight := uint16(value)
			mod.Action.FontWeight = &weight
		case "font_style":
			s, ok := asString(prop.Value)
			if !ok {
				return Modifier{}, errf(append(path, "font_style"), "expected a string value")
			}
			mod.Action.FontStyle = &s
		default:
			return Modifier{}, errf(append(path, prop.Name),
				"unknown attribute (valid: style, syntax, color, background, font_weight, font_style)")
		}
	}

	for _, child := range node.Children {
		if child.Name != "color" && child.Name != "background" {
			return Modifier{}, errf(append(path, child.Name), "unknown block: expected color or background")
		}
		if len(child.Args) > 0 {
			return Modifier{}, errf(append(path, child.Name), "block takes no labels")
		}
		expr, err := buildColorBlock(child, append(path, child.Name))
		if err != nil {
			return Modifier{}, err
		}
		if err := setActionColor(&mod.Action, child.Name, expr, path); err != nil {
			return Modifier{}, err
		}
	}

	return mod, nil
}

func setActionColor(action *Action, field string, expr palette.Expr, path []string) error {
	target := &action.Color
	if field == "background" {
		target = &action.Background
	}
	if *target != nil {
		return errf(append(path, field), "specified more than once (attribute and block forms conflict)")
	}
	*target = &expr
	return nil
}

func buildPlayer(node *document.Node, path []string) (Player, error) {
	if len(node.Args) > 0 {
		return Player{}, errf(path, "player block takes no labels")
	}

	var player Player
	assign := func(field string, expr palette.Expr) error {
		var target **palette.Expr
		switch field {
		case "cursor":
			target = &player.Cursor
		case "background":
			target = &player.Background
		case "selection":
			target = &player.Selection
		default:
			return errf(append(path, field), "unknown entry (valid: cursor, background, selection)")
		}
		if *target != nil {
			return errf(append(path, field), "specified more than once")
		}
		*target = &expr
		return nil
	}

	for _, prop := range node.Props {
		s, ok := asString(prop.Value)
		if !ok {
			return Player{}, errf(append(path, prop.Name), "expected a color string (hex literal or palette name)")
		}
		expr, err := palette.ParseBase(s)
		if err != nil {
			return Player{}, errf(append(path, prop.Name), "%v", err)
		}
		if err := assign(prop.Name, expr); err != nil {
			return Player{}, err
		}
	}

	for _, child := range node.Children {
		if len(child.Args) > 0 {
			return Player{}, errf(append(path, child.Name), "block takes no labels")
		}
		expr, err := buildColorBlock(child, append(path, child.Name))
		if err != nil {
			return Player{}, err
		}
		if err := assign(child.Name, expr); err != nil {
			return Player{}, err
		}
	}

	return player, nil
}

// asString extracts a non-null cty string.
func asString(v cty.Value) (string, bool) {
	if v.IsNull() || v.Type() != cty.String {
		return "", false
	}
	return v.AsString(), true
}

// asNumber extracts a cty number as float64.
func asNumber(v cty.Value) (float64, bool) {
	if v.IsNull() || v.Type() != cty.Number {
		return 0, false
	}
	f, _ := v.AsBigFloat().Float64()
	return f, true
}

// asStringList accepts a single string or a tuple/list of strings.
func asStringList(v cty.Value) ([]string, bool) {
	if s, ok := asString(v); ok {
		return []string{s}, true
	}
	if v.IsNull() || !(v.Type().IsTupleType() || v.Type().IsListType()) {
		return nil, false
	}
	var out []string
	for it := v.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		s, ok := asString(elem)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}
