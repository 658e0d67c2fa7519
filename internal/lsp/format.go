package lsp

import (
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/jsvensson/hueforge/internal/format"
)

// textDocumentFormatting formats the whole document with the canonical
// markup formatter, returned as a single full-document edit.
func (s *Server) textDocumentFormatting(_ *glsp.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	content, _, ok := s.docs.Get(string(params.TextDocument.URI))
	if !ok {
		return nil, nil
	}

	formatted := string(format.Source([]byte(content)))
	if formatted == content {
		return nil, nil
	}

	return []protocol.TextEdit{
		{
			Range:   fullDocumentRange(content),
			NewText: formatted,
		},
	}, nil
}

func fullDocumentRange(content string) protocol.Range {
	lines := strings.Split(content, "\n")
	lastLine := len(lines) - 1
	return protocol.Range{
		Start: protocol.Position{Line: 0, Character: 0},
		End: protocol.Position{
			Line:      uint32(lastLine),
			Character: uint32(len(lines[lastLine])),
		},
	}
}
