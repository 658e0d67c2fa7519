package lsp

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/zclconf/go-cty/cty"

	"github.com/jsvensson/hueforge/internal/ast"
	"github.com/jsvensson/hueforge/internal/color"
	"github.com/jsvensson/hueforge/internal/document"
	"github.com/jsvensson/hueforge/internal/palette"
)

var (
	DiagError   = protocol.DiagnosticSeverityError
	DiagWarning = protocol.DiagnosticSeverityWarning
)

// AnalysisResult holds everything the handlers need about one document:
// diagnostics, the resolved palette, where each palette entry is declared,
// and every source location that denotes a color.
type AnalysisResult struct {
	Diagnostics []protocol.Diagnostic
	Palette     palette.Resolved
	Definitions map[string]protocol.Range
	Colors      []ColorLocation
}

// ColorLocation records a resolved color at a source position.
type ColorLocation struct {
	Range protocol.Range
	Color color.Color
	Name  string // palette entry name when the location is a reference
}

// hclPosToLSP converts a 1-based HCL position to a 0-based LSP position.
func hclPosToLSP(pos hcl.Pos) protocol.Position {
	return protocol.Position{
		Line:      uint32(pos.Line - 1),
		Character: uint32(pos.Column - 1),
	}
}

func hclRangeToLSP(r hcl.Range) protocol.Range {
	return protocol.Range{
		Start: hclPosToLSP(r.Start),
		End:   hclPosToLSP(r.End),
	}
}

// Analyze runs the compile pipeline over in-memory content and converts
// every failure into a diagnostic instead of an error return.
func Analyze(filename, content string) *AnalysisResult {
	result := &AnalysisResult{
		Definitions: make(map[string]protocol.Range),
	}

	// Syntax first, with precise ranges straight from the parser.
	_, diags := hclsyntax.ParseConfig([]byte(content), filename, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		for _, d := range diags {
			result.Diagnostics = append(result.Diagnostics, hclDiagToLSP(d))
		}
		return result
	}

	root, err := document.Parse(filename, []byte(content))
	if err != nil {
		result.addError(topOfFile(filename), err.Error())
		return result
	}

	family, err := ast.Build(root)
	if err != nil {
		result.addError(topOfFile(filename), err.Error())
		return result
	}

	result.collectDefinitions(root)

	resolved, err := family.Palette.Resolve()
	if err != nil {
		rng := topOfFile(filename)
		if block := root.Child("palette"); block != nil {
			rng = hclRangeToLSP(block.Range)
		}
		result.addError(rng, err.Error())
		return result
	}
	result.Palette = resolved

	result.collectColors(root, resolved)
	return result
}

// collectDefinitions records where each palette entry is declared.
func (r *AnalysisResult) collectDefinitions(root *document.Node) {
	block := root.Child("palette")
	if block == nil {
		return
	}
	for _, prop := range block.Props {
		r.Definitions[prop.Name] = hclRangeToLSP(prop.Range)
	}
	for _, child := range block.ChildrenNamed("color") {
		if name, ok := child.StringArg(0); ok {
			r.Definitions[name] = hclRangeToLSP(child.Range)
		}
	}
}

// collectColors walks the whole tree and records a location for every
// string property that is a hex literal or a resolvable palette name.
func (r *AnalysisResult) collectColors(node *document.Node, resolved palette.Resolved) {
	for _, prop := range node.Props {
		if prop.Value.Type() != cty.String || prop.Value.IsNull() {
			continue
		}
		s := prop.Value.AsString()
		if color.IsHex(s) {
			if c, err := color.ParseHex(s); err == nil {
				r.Colors = append(r.Colors, ColorLocation{
					Range: hclRangeToLSP(prop.Range),
					Color: c,
				})
			}
			continue
		}
		if c, ok := resolved[s]; ok {
			r.Colors = append(r.Colors, ColorLocation{
				Range: hclRangeToLSP(prop.Range),
				Color: c,
				Name:  s,
			})
		}
	}
	for _, child := range node.Children {
		r.collectColors(child, resolved)
	}
}

func hclDiagToLSP(d *hcl.Diagnostic) protocol.Diagnostic {
	sev := DiagError
	if d.Severity == hcl.DiagWarning {
		sev = DiagWarning
	}

	diag := protocol.Diagnostic{
		Severity: &sev,
		Message:  d.Summary,
		Source:   strPtr(diagnosticSource),
	}
	if d.Detail != "" {
		diag.Message = d.Summary + ": " + d.Detail
	}
	if d.Subject != nil {
		diag.Range = hclRangeToLSP(*d.Subject)
	}
	return diag
}

func (r *AnalysisResult) addError(rng protocol.Range, msg string) {
	r.Diagnostics = append(r.Diagnostics, protocol.Diagnostic{
		Range:    rng,
		Severity: &DiagError,
		Source:   strPtr(diagnosticSource),
		Message:  msg,
	})
}

func topOfFile(filename string) protocol.Range {
	return hclRangeToLSP(hcl.Range{
		Filename: filename,
		Start:    hcl.Pos{Line: 1, Column: 1},
		End:      hcl.Pos{Line: 1, Column: 1},
	})
}

func strPtr(s string) *string {
	return &s
}
