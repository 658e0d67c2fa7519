package lsp

import (
	"fmt"
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// posInRange reports whether pos falls in [r.Start, r.End).
func posInRange(pos protocol.Position, r protocol.Range) bool {
	if pos.Line < r.Start.Line || pos.Line > r.End.Line {
		return false
	}
	if pos.Line == r.Start.Line && pos.Character < r.Start.Character {
		return false
	}
	if pos.Line == r.End.Line && pos.Character >= r.End.Character {
		return false
	}
	return true
}

// hover builds a hover response for the color location under the cursor,
// nil when the cursor is not on a color.
func hover(result *AnalysisResult, pos protocol.Position) *protocol.Hover {
	if result == nil {
		return nil
	}

	for _, cl := range result.Colors {
		if !posInRange(pos, cl.Range) {
			continue
		}

		var md string
		if cl.Name != "" {
			md = fmt.Sprintf("**%s**\n\n`%s`", cl.Name, cl.Color.Hex())
		} else {
			md = fmt.Sprintf("`%s`", cl.Color.Hex())
		}

		rng := cl.Range
		return &protocol.Hover{
			Contents: protocol.MarkupContent{
				Kind:  protocol.MarkupKindMarkdown,
				Value: md,
			},
			Range: &rng,
		}
	}

	return nil
}

func (s *Server) textDocumentHover(_ *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	_, result, ok := s.docs.Get(string(params.TextDocument.URI))
	if !ok {
		return nil, nil
	}
	return hover(result, params.Position), nil
}

// lineAt returns the text of the given 0-based line.
func lineAt(content string, line uint32) string {
	lines := strings.Split(content, "\n")
	if int(line) >= len(lines) {
		return ""
	}
	return lines[line]
}
