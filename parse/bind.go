package parse

import (
	"fmt"

	"github.com/conflang/go-conflang/ir"
	"github.com/conflang/go-conflang/schema"
)

// bindRoot binds n to a top-level data node of one of ctx's implemented
// modules, matched by field name, then binds the whole subtree.
func bindRoot(ctx *schema.Context, n *ir.Node) error {
	for _, m := range ctx.Modules() {
		if !m.Implemented {
			continue
		}
		for _, root := range m.Data {
			if root.Name == n.ParentField {
				return bindNode(root, n)
			}
		}
	}
	return fmt.Errorf("%w: unknown top-level node %q", ErrMalformed, n.ParentField)
}

func bindNode(sn *schema.Node, n *ir.Node) error {
	n.Schema = sn
	switch sn.Type {
	case schema.LeafNode:
		if n.Type == ir.ObjectType || n.Type == ir.ArrayType {
			return fmt.Errorf("%w: %s is a leaf, got %s", ErrMalformed, sn.Path(), n.Type)
		}
	case schema.LeafListNode:
		if n.Type != ir.ArrayType {
			return fmt.Errorf("%w: %s is a leaf-list, got %s", ErrMalformed, sn.Path(), n.Type)
		}
		for _, e := range n.Values {
			if e.Type == ir.ObjectType || e.Type == ir.ArrayType {
				return fmt.Errorf("%w: %s holds non-scalar entry", ErrMalformed, sn.Path())
			}
			e.Schema = sn
		}
	case schema.ContainerNode:
		if n.Type != ir.ObjectType {
			return fmt.Errorf("%w: %s is a container, got %s", ErrMalformed, sn.Path(), n.Type)
		}
		if err := bindChildren(sn, n); err != nil {
			return err
		}
	case schema.ListNode:
		if n.Type != ir.ArrayType {
			return fmt.Errorf("%w: %s is a list, got %s", ErrMalformed, sn.Path(), n.Type)
		}
		for _, e := range n.Values {
			if e.Type != ir.ObjectType {
				return fmt.Errorf("%w: %s entry is not an object", ErrMalformed, sn.Path())
			}
			e.Schema = sn
			if err := bindChildren(sn, e); err != nil {
				return err
			}
		}
	}
	return nil
}

func bindChildren(sn *schema.Node, n *ir.Node) error {
	for _, c := range n.Values {
		cs := sn.Child(c.ParentField)
		if cs == nil {
			return fmt.Errorf("%w: %s has no child %q", ErrMalformed, sn.Path(), c.ParentField)
		}
		if err := bindNode(cs, c); err != nil {
			return err
		}
	}
	return nil
}
