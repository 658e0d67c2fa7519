// Package format normalizes theme markup to canonical HCL style.
package format

import (
	"regexp"

	"github.com/hashicorp/hcl/v2/hclwrite"
)

var (
	repeatedBlanks   = regexp.MustCompile(`\n{3,}`)
	blankAfterBrace  = regexp.MustCompile(`\{\n\s*\n`)
	blankBeforeClose = regexp.MustCompile(`\n\s*\n(\s*\})`)
)

// Source formats theme markup: canonical indentation and alignment via
// hclwrite, then blank-line cleanup. It tolerates partial or invalid
// input, so it is safe to run on documents still being edited.
func Source(content []byte) []byte {
	out := hclwrite.Format(content)
	out = repeatedBlanks.ReplaceAll(out, []byte("\n\n"))
	out = blankAfterBrace.ReplaceAll(out, []byte("{\n"))
	out = blankBeforeClose.ReplaceAll(out, []byte("\n$1"))
	return out
}
