package mount

import (
	"errors"

	"github.com/conflang/go-conflang/extension"
	"github.com/conflang/go-conflang/ir"
	"github.com/conflang/go-conflang/schema"
)

// Validate is the validate hook. It runs full validation over the
// extension-owned fragment inside its mounted context, letting constraints
// in the mounted schema see host-tree data named by the mount point's
// parent-reference expressions.
//
// The referenced host nodes are deep-copied into the mounted context and
// temporarily spliced next to the fragment; they are scaffolding and are
// removed again on every exit path, so a caller observing the host tree
// before and after sees the identical structure regardless of the verdict.
func (p *Plugin) Validate(ext *schema.ExtensionInstance, siblings []*ir.Node,
	opts extension.ValidateOptions) error {
	if len(siblings) == 0 {
		// some data had to be parsed for this hook to be called
		return internalErrf(ext, "no parsed data for mount point %q", ext.Argument)
	}
	data, err := p.fetchExtData(ext)
	if err != nil {
		return err
	}
	if data == nil {
		// the same ext data as at parse time is required here
		return internalErrf(ext, "no extension data provided")
	}
	origParent := siblings[0].Parent
	if origParent == nil || siblings[0].Schema == nil {
		return internalErrf(ext, "mounted fragment is detached or unbound")
	}
	mctx := siblings[0].Schema.Module.Ctx

	forest, err := p.dupParentRefs(ext, origParent, data, mctx)
	if err != nil {
		return err
	}

	at, err := ir.DetachExt(origParent, siblings)
	if err != nil {
		return internalErrf(ext, "%v", err)
	}
	// drop the extension marker so full validation recurses into the
	// fragment instead of bouncing back into this hook
	for _, n := range siblings {
		n.Flags &^= ir.FlagExtOwned
	}
	inForest := make(map[*ir.Node]bool, len(forest))
	for _, n := range forest {
		inForest[n] = true
	}
	work := make([]*ir.Node, 0, len(siblings)+len(forest))
	work = append(work, siblings...)
	work = append(work, forest...)

	defer func() {
		// unconditional unwind: strip the reference forest, restore the
		// marker, and put the fragment back where it was
		kept := make([]*ir.Node, 0, len(work))
		for _, n := range work {
			if inForest[n] {
				continue
			}
			n.Flags |= ir.FlagExtOwned
			kept = append(kept, n)
		}
		ir.ReattachExt(origParent, kept, at)
	}()

	old := mctx.SetLogOptions(schema.LogStoreLast)
	defer mctx.SetLogOptions(old)

	if p.Validator == nil {
		return internalErrf(ext, "no validator configured")
	}
	if verr := p.Validator.ValidateAll(mctx, &work, opts); verr != nil {
		// surface the mounted context's verdict through the host
		if e := mctx.LastError(); e != nil {
			return validErrf(ext, e.Path, "%s", e.Msg)
		}
		return validErrf(ext, "", "unknown validation error (%v)", verr)
	}
	return nil
}

// dupParentRefs evaluates every parent-reference of ext's mount entry
// against the host tree and duplicates each referenced subtree, with its
// ancestor chain, into the mounted context. Overlapping references are
// merged so each top-level host node appears at most once in the result.
func (p *Plugin) dupParentRefs(ext *schema.ExtensionInstance, ctxNode *ir.Node,
	data *ir.Node, trg *schema.Context) ([]*ir.Node, error) {
	entry, err := p.mountEntry(ext, data)
	if err != nil {
		if errors.Is(err, ErrNotApplicable) {
			return nil, nil
		}
		return nil, err
	}
	refs := entry.Lookup("shared-schema", "parent-reference")
	if refs == nil {
		return nil, nil
	}
	if p.Paths == nil {
		return nil, internalErrf(ext, "no path evaluator configured")
	}
	var forest []*ir.Node
	for _, refNode := range refs.Values {
		matches, err := p.Paths.Eval(refNode.String, ctxNode)
		if err != nil {
			return nil, validErrf(ext, "", "parent-reference %q: %v", refNode.String, err)
		}
		for _, m := range matches {
			dup, err := ir.DupToContext(m, trg,
				ir.DupRecursive|ir.DupWithParents|ir.DupWithFlags)
			if err != nil {
				return nil, validErrf(ext, m.Path(), "parent-reference %q: %v", refNode.String, err)
			}
			top := dup.Root()
			// the host document root is a plain unbound object; the forest
			// carries bound top-level subtrees, so step below it
			if top.Schema == nil && top.ParentField == "" && len(top.Values) == 1 {
				top = top.Values[0]
				top.Parent = nil
				top.ParentIndex = 0
			}
			if existing := ir.FindSiblingFirst(forest, top); existing != nil {
				ir.MergeTree(existing, top)
			} else {
				forest = append(forest, top)
			}
		}
	}
	return forest, nil
}
