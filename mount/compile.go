package mount

import (
	"errors"

	"github.com/conflang/go-conflang/schema"
)

// Compile validates a mount-point occurrence and attaches its state. Mount
// points sharing a label within one module share one group: the compile
// hook searches the module's already-compiled tree for a co-located
// instance and joins its group instead of allocating a new one.
//
// The host compiler runs single-threaded, so group ref-counts are adjusted
// without locking here and in Free.
func (p *Plugin) Compile(cctx *schema.CompileCtx, ext *schema.ExtensionInstance) error {
	if ext.Module.Version != schema.Version11 {
		return validErrf(ext, cctx.Path(),
			"extension %q instance not allowed in version 1 module", ext.QualifiedName())
	}
	if ext.ParentStmt != schema.StmtContainer && ext.ParentStmt != schema.StmtList {
		return validErrf(ext, cctx.Path(),
			"extension %q instance allowed only in container or list statement", ext.QualifiedName())
	}
	for _, sib := range ext.Parent.Exts {
		if sib == ext {
			continue
		}
		if isMountDef(sib.Def) {
			return validErrf(ext, cctx.Path(),
				"multiple extension %q instances", ext.QualifiedName())
		}
	}

	st := &state{}
	if sh := findColocatedShared(ext); sh != nil {
		sh.refCount++
		st.shared = sh
	} else {
		st.shared = &sharedGroup{refCount: 1}
	}
	// pin the label for the lifetime of the instance
	ext.Argument = ext.Module.Ctx.Dict().Insert(ext.Argument)
	ext.Data = st
	return nil
}

func isMountDef(def *schema.ExtensionDef) bool {
	return def != nil && def.Module == DefModule && def.Name == DefName
}

var errFoundShared = errors.New("found shared group")

// findColocatedShared walks the owning module's compiled tree looking for
// another mount instance with the identical label. Labels are interned, so
// comparison is cheap.
func findColocatedShared(ext *schema.ExtensionInstance) *sharedGroup {
	var found *sharedGroup
	_ = ext.Module.Walk(func(n *schema.Node) error {
		if n == ext.Parent {
			// parent of the instance being compiled, skip
			return nil
		}
		for _, e := range n.Exts {
			if !isMountDef(e.Def) || e.Argument != ext.Argument {
				continue
			}
			if st, ok := e.Data.(*state); ok && st.shared != nil {
				found = st.shared
				return errFoundShared
			}
		}
		return nil
	})
	return found
}
