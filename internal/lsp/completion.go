package lsp

import (
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// completionAttrs are the attributes whose value is a color expression;
// palette names are offered after them.
var completionAttrs = []string{
	"color", "background", "base", "cursor", "selection",
}

// completions offers the palette names when the cursor sits in the value
// position of a color attribute.
func completions(result *AnalysisResult, content string, pos protocol.Position) []protocol.CompletionItem {
	if result == nil || result.Palette == nil {
		return nil
	}
	if !inColorValuePosition(lineAt(content, pos.Line), pos.Character) {
		return nil
	}

	kind := protocol.CompletionItemKindColor
	items := make([]protocol.CompletionItem, 0, len(result.Palette))
	for _, name := range result.Palette.Names() {
		hex := result.Palette[name].Hex()
		items = append(items, protocol.CompletionItem{
			Label:  name,
			Kind:   &kind,
			Detail: strPtr(hex),
		})
	}
	return items
}

// inColorValuePosition reports whether the cursor is after "<attr> =" for
// one of the color-valued attributes.
func inColorValuePosition(line string, character uint32) bool {
	if int(character) > len(line) {
		character = uint32(len(line))
	}
	before := line[:character]

	eq := strings.LastIndex(before, "=")
	if eq < 0 {
		return false
	}
	attr := strings.TrimSpace(before[:eq])
	for _, name := range completionAttrs {
		if attr == name {
			return true
		}
	}
	return false
}

func (s *Server) textDocumentCompletion(_ *glsp.Context, params *protocol.CompletionParams) (any, error) {
	content, result, ok := s.docs.Get(string(params.TextDocument.URI))
	if !ok {
		return nil, nil
	}
	items := completions(result, content, params.Position)
	if items == nil {
		return nil, nil
	}
	return items, nil
}
