package ir

import (
	"fmt"

	"github.com/conflang/go-conflang/schema"
)

type DupOptions uint8

const (
	// DupRecursive duplicates the whole subtree, not just the node.
	DupRecursive DupOptions = 1 << iota
	// DupWithParents duplicates the ancestor chain up to the tree root.
	DupWithParents
	// DupWithFlags preserves node flags on the duplicates.
	DupWithFlags
)

// DupToContext deep-copies y into the universe of the target context.
// Schema references are re-resolved against trg's modules; a node whose
// schema has no counterpart there yields ErrNoSchema. The returned node is
// the duplicate of y itself; with DupWithParents its ancestors are
// reachable through Parent.
//
// The source tree is never aliased: every node of the result is freshly
// allocated and owned by the caller.
func DupToContext(y *Node, trg *schema.Context, opts DupOptions) (*Node, error) {
	dup, err := dupNode(y, trg, opts)
	if err != nil {
		return nil, err
	}
	if opts&DupWithParents == 0 {
		return dup, nil
	}
	child := dup
	for p := y.Parent; p != nil; p = p.Parent {
		pd, err := dupNode(p, trg, opts&^DupRecursive)
		if err != nil {
			return nil, err
		}
		child.Parent = pd
		child.ParentIndex = 0
		pd.Values = []*Node{child}
		child = pd
	}
	return dup, nil
}

func dupNode(y *Node, trg *schema.Context, opts DupOptions) (*Node, error) {
	dst := &Node{
		Type:        y.Type,
		ParentField: y.ParentField,
		String:      y.String,
		Bool:        y.Bool,
		Number:      y.Number,
	}
	if y.Float64 != nil {
		f := *y.Float64
		dst.Float64 = &f
	}
	if y.Int64 != nil {
		i := *y.Int64
		dst.Int64 = &i
	}
	if opts&DupWithFlags != 0 {
		dst.Flags = y.Flags
	}
	if y.Schema != nil {
		rs, err := resolveSchema(trg, y.Schema)
		if err != nil {
			return nil, err
		}
		dst.Schema = rs
	}
	if opts&DupRecursive != 0 {
		dst.Values = make([]*Node, len(y.Values))
		for i, yv := range y.Values {
			dv, err := dupNode(yv, trg, opts)
			if err != nil {
				return nil, err
			}
			dv.Parent = dst
			dv.ParentIndex = i
			dst.Values[i] = dv
		}
	}
	return dst, nil
}

// resolveSchema finds the node of the target context matching sn's module
// name and schema path.
func resolveSchema(trg *schema.Context, sn *schema.Node) (*schema.Node, error) {
	var names []string
	for s := sn; s != nil; s = s.Parent {
		names = append(names, s.Name)
	}
	var mod *schema.Module
	for _, m := range trg.Modules() {
		if m.Name == sn.Module.Name {
			mod = m
			break
		}
	}
	if mod == nil {
		return nil, fmt.Errorf("%w: module %q", ErrNoSchema, sn.Module.Name)
	}
	var cur *schema.Node
	for _, root := range mod.Data {
		if root.Name == names[len(names)-1] {
			cur = root
			break
		}
	}
	for i := len(names) - 2; i >= 0 && cur != nil; i-- {
		cur = cur.Child(names[i])
	}
	if cur == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoSchema, sn.Path())
	}
	return cur, nil
}
