// Package hclgen renders a typed theme family back into theme markup.
// It is the write side of the migration path: the generated source parses
// and composes back to the family it was rendered from.
package hclgen

import (
	"sort"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"

	"github.com/jsvensson/hueforge/internal/ast"
	"github.com/jsvensson/hueforge/internal/color"
	"github.com/jsvensson/hueforge/internal/format"
	"github.com/jsvensson/hueforge/internal/palette"
)

// Render serializes the family as formatted theme markup.
func Render(family *ast.ThemeFamily) []byte {
	file := hclwrite.NewEmptyFile()
	body := file.Body()

	meta := body.AppendNewBlock("meta", nil).Body()
	meta.SetAttributeValue("name", cty.StringVal(family.Meta.Name))
	meta.SetAttributeValue("author", cty.StringVal(family.Meta.Author))
	body.AppendNewline()

	if family.Palette != nil && family.Palette.Len() > 0 {
		writePalette(body, family.Palette)
		body.AppendNewline()
	}

	if family.Common != nil {
		writeThemeBody(body.AppendNewBlock("common", nil).Body(), family.Common, false)
		body.AppendNewline()
	}

	for i := range family.Themes {
		theme := &family.Themes[i]
		block := body.AppendNewBlock("theme", []string{theme.Name}).Body()
		writeThemeBody(block, theme, true)
		if i < len(family.Themes)-1 {
			body.AppendNewline()
		}
	}

	return format.Source(file.Bytes())
}

// writePalette emits entries sorted by name. Plain literals use the
// shorthand form; anything with a reference base or a modifier chain gets
// a color block.
func writePalette(body *hclwrite.Body, p *palette.Palette) {
	names := p.Names()
	sort.Strings(names)

	block := body.AppendNewBlock("palette", nil).Body()
	blocksPending := false
	for _, name := range names {
		expr, _ := p.Get(name)
		if !expr.IsRef() && len(expr.Ops) == 0 {
			block.SetAttributeValue(name, cty.StringVal(hexOf(expr.Lit)))
			continue
		}
		blocksPending = true
	}
	if !blocksPending {
		return
	}
	for _, name := range names {
		expr, _ := p.Get(name)
		if !expr.IsRef() && len(expr.Ops) == 0 {
			continue
		}
		colorBlock := block.AppendNewBlock("color", []string{name}).Body()
		writeExprBlock(colorBlock, expr)
	}
}

func writeThemeBody(body *hclwrite.Body, theme *ast.Theme, withAppearance bool) {
	if withAppearance {
		body.SetAttributeValue("appearance", cty.StringVal(theme.Appearance.String()))
	}

	for _, mod := range theme.Modifiers {
		body.AppendNewline()
		block := body.AppendNewBlock("modifier", nil).Body()

		var styles, syntaxes []cty.Value
		for _, target := range mod.Targets {
			if target.Kind == ast.StylePath {
				styles = append(styles, cty.StringVal(target.Key))
			} else {
				syntaxes = append(syntaxes, cty.StringVal(target.Key))
			}
		}
		if len(styles) > 0 {
			block.SetAttributeValue("style", cty.TupleVal(styles))
		}
		if len(syntaxes) > 0 {
			block.SetAttributeValue("syntax", cty.TupleVal(syntaxes))
		}

		writeExprAttr(block, "color", mod.Action.Color)
		writeExprAttr(block, "background", mod.Action.Background)
		if mod.Action.FontWeight != nil {
			block.SetAttributeValue("font_weight", cty.NumberIntVal(int64(*mod.Action.FontWeight)))
		}
		if mod.Action.FontStyle != nil {
			block.SetAttributeValue("font_style", cty.StringVal(*mod.Action.FontStyle))
		}
	}

	for _, player := range theme.Players {
		body.AppendNewline()
		block := body.AppendNewBlock("player", nil).Body()
		writeExprAttr(block, "cursor", player.Cursor)
		writeExprAttr(block, "background", player.Background)
		writeExprAttr(block, "selection", player.Selection)
	}
}

// writeExprAttr emits a color expression under the given name: the string
// shorthand when there is no modifier chain, a nested block otherwise.
func writeExprAttr(body *hclwrite.Body, name string, expr *palette.Expr) {
	if expr == nil {
		return
	}
	if len(expr.Ops) == 0 {
		body.SetAttributeValue(name, cty.StringVal(baseOf(*expr)))
		return
	}
	writeExprBlock(body.AppendNewBlock(name, nil).Body(), *expr)
}

func writeExprBlock(body *hclwrite.Body, expr palette.Expr) {
	body.SetAttributeValue("base", cty.StringVal(baseOf(expr)))
	for _, op := range expr.Ops {
		body.SetAttributeValue(op.Kind.String(), cty.NumberFloatVal(op.Value))
	}
}

func baseOf(expr palette.Expr) string {
	if expr.IsRef() {
		return expr.Ref
	}
	return hexOf(expr.Lit)
}

// hexOf prefers the short six-digit form for opaque colors.
func hexOf(c color.Color) string {
	if _, _, _, a := c.Bytes(); a == 255 {
		return c.HexRGB()
	}
	return c.Hex()
}
