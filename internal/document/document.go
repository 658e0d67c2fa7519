// Package document defines the generic structured-document tree that the
// theme compiler consumes. Each node has a name, ordered positional scalar
// arguments, named scalar properties, and ordered children. The tree is
// produced by a markup adapter (HCL, see hcl.go) but carries no markup
// specifics, so everything downstream is syntax-agnostic.
package document

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// Node is one node of the document tree.
type Node struct {
	Name     string
	Args     []cty.Value
	Props    []Prop
	Children []*Node
	Range    hcl.Range
}

// Prop is a named property. Props are kept as an ordered list, not a map:
// modifier chains apply in the order they were written.
type Prop struct {
	Name  string
	Value cty.Value
	Range hcl.Range
}

// Prop returns the value of the named property and whether it exists.
func (n *Node) Prop(name string) (cty.Value, bool) {
	for _, p := range n.Props {
		if p.Name == name {
			return p.Value, true
		}
	}
	return cty.NilVal, false
}

// Child returns the first child with the given name, or nil.
func (n *Node) Child(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns all children with the given name, in order.
func (n *Node) ChildrenNamed(name string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// StringArg returns the i-th positional argument as a string.
// Returns "" and false if the argument is missing or not a string.
func (n *Node) StringArg(i int) (string, bool) {
	if i >= len(n.Args) {
		return "", false
	}
	v := n.Args[i]
	if v.Type() != cty.String || v.IsNull() {
		return "", false
	}
	return v.AsString(), true
}
