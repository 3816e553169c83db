// Package validate holds the reference data validator: structural schema
// conformance, mandatory presence, and list-key presence. The full
// constraint engine (must/when/unique) is part of the host library; this
// engine covers what the extension subsystems need to run standalone.
package validate

import (
	"fmt"

	"github.com/conflang/go-conflang/debug"
	"github.com/conflang/go-conflang/extension"
	"github.com/conflang/go-conflang/ir"
	"github.com/conflang/go-conflang/schema"
)

type Engine struct{}

// ValidateAll validates a sibling set against ctx. Roots carrying
// FlagExtOwned are skipped; their data belongs to an extension and is
// validated through that extension's own hook. On success FlagNew is
// cleared on every validated node.
func (e Engine) ValidateAll(ctx *schema.Context, siblings *[]*ir.Node,
	opts extension.ValidateOptions) error {
	for _, root := range *siblings {
		if root.Flags&ir.FlagExtOwned != 0 {
			continue
		}
		if err := e.check(ctx, root); err != nil {
			return err
		}
	}
	for _, root := range *siblings {
		if root.Flags&ir.FlagExtOwned != 0 {
			continue
		}
		root.Walk(func(n *ir.Node) { n.Flags &^= ir.FlagNew })
	}
	return nil
}

func (e Engine) check(ctx *schema.Context, n *ir.Node) error {
	if n.Schema == nil {
		return e.errf(ctx, n.Path(), "node %q is not present in the schema", n.ParentField)
	}
	if debug.Validate() {
		debug.Logf("validate %s against %s\n", n.Path(), n.Schema.Path())
	}
	switch n.Schema.Type {
	case schema.ContainerNode:
		if err := e.checkMandatory(ctx, n.Schema, n); err != nil {
			return err
		}
	case schema.ListNode:
		if n.Type == ir.ArrayType {
			for _, entry := range n.Values {
				for _, k := range n.Schema.Keys {
					if entry.Field(k) == nil {
						return e.errf(ctx, entry.Path(),
							"list %q entry misses key %q", n.Schema.Name, k)
					}
				}
				if err := e.checkMandatory(ctx, n.Schema, entry); err != nil {
					return err
				}
			}
		}
	}
	for _, c := range n.Values {
		if err := e.check(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

func (e Engine) checkMandatory(ctx *schema.Context, sn *schema.Node, n *ir.Node) error {
	for _, cs := range sn.Children {
		if cs.Flags&schema.Mandatory == 0 {
			continue
		}
		if n.Field(cs.Name) == nil {
			return e.errf(ctx, n.Path(), "mandatory node %q is missing", cs.Name)
		}
	}
	return nil
}

// errf records the error in the context (so store-last callers can read it
// back) and returns it.
func (e Engine) errf(ctx *schema.Context, path, msg string, args ...any) error {
	m := fmt.Sprintf(msg, args...)
	ctx.SaveError(path, m)
	if path != "" {
		return fmt.Errorf("%s: %s", path, m)
	}
	return fmt.Errorf("%s", m)
}
