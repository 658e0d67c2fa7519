package document

import (
	"fmt"
	"os"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
)

// ParseFile reads and parses an HCL theme file into a document tree.
// The returned root node is synthetic: its children are the file's
// top-level blocks.
func ParseFile(path string) (*Node, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading theme file: %w", err)
	}
	return Parse(path, src)
}

// Parse parses HCL source into a document tree.
func Parse(filename string, src []byte) (*Node, error) {
	file, diags := hclsyntax.ParseConfig(src, filename, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing %s: %s", filename, diags.Error())
	}

	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("parsing %s: unexpected body type %T", filename, file.Body)
	}

	root := &Node{Range: body.SrcRange}
	if err := fillFromBody(root, body); err != nil {
		return nil, err
	}
	return root, nil
}

// fillFromBody converts an hclsyntax body into the node: attributes become
// ordered props, nested blocks become children with their labels as
// positional args. Attribute expressions are evaluated without a context;
// the markup only carries literal scalars and lists, never variable
// references (palette references are plain strings resolved later, so the
// dependency graph stays visible to the resolver).
func fillFromBody(node *Node, body *hclsyntax.Body) error {
	// hclsyntax keeps attributes in a map; recover declaration order from
	// the source ranges.
	attrs := make([]*hclsyntax.Attribute, 0, len(body.Attributes))
	for _, attr := range body.Attributes {
		attrs = append(attrs, attr)
	}
	sort.Slice(attrs, func(i, j int) bool {
		return attrs[i].SrcRange.Start.Byte < attrs[j].SrcRange.Start.Byte
	})

	for _, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return fmt.Errorf("evaluating %s: %s", attr.Name, diags.Error())
		}
		node.Props = append(node.Props, Prop{
			Name:  attr.Name,
			Value: val,
			Range: attr.SrcRange,
		})
	}

	for _, block := range body.Blocks {
		child := &Node{
			Name:  block.Type,
			Range: block.DefRange(),
		}
		for _, label := range block.Labels {
			child.Args = append(child.Args, cty.StringVal(label))
		}
		if err := fillFromBody(child, block.Body); err != nil {
			return err
		}
		node.Children = append(node.Children, child)
	}

	return nil
}
