package mount

import (
	"fmt"

	"github.com/conflang/go-conflang/ir"
	"github.com/conflang/go-conflang/schema"
)

// fetchExtData retrieves the operational schema-mount/module-library tree
// for ext. Unvalidated data is rejected: parent-reference prefix
// resolution requires a validated tree.
func (p *Plugin) fetchExtData(ext *schema.ExtensionInstance) (*ir.Node, error) {
	if p.ExtData == nil {
		return nil, internalErrf(ext, "no extension data source configured")
	}
	data, err := p.ExtData.ExtensionData(ext)
	if err != nil {
		return nil, err
	}
	if data != nil {
		for _, top := range data.Values {
			if top.Flags&ir.FlagNew != 0 {
				return nil, internalErrf(ext, "provided extension data have not been validated")
			}
		}
	}
	return data, nil
}

// mountEntry locates the mount-point configuration entry for ext. A
// missing entry means the data cannot belong to this extension; the caller
// may be probing several candidates at one site.
func (p *Plugin) mountEntry(ext *schema.ExtensionInstance, data *ir.Node) (*ir.Node, error) {
	if data == nil {
		return nil, ErrNotApplicable
	}
	mps := data.Lookup("schema-mounts", "mount-point")
	if mps == nil {
		return nil, ErrNotApplicable
	}
	for _, e := range mps.Values {
		if e.FieldString("module") == ext.Module.Name && e.FieldString("label") == ext.Argument {
			return e, nil
		}
	}
	return nil, ErrNotApplicable
}

type mountInfo struct {
	// config is false when the whole mounted schema must be read-only
	config bool
	shared bool
}

func (p *Plugin) entryInfo(ext *schema.ExtensionInstance, entry *ir.Node) (*mountInfo, error) {
	info := &mountInfo{config: true}
	if cfg := entry.Field("config"); cfg != nil {
		if (cfg.Type == ir.BoolType && !cfg.Bool) ||
			(cfg.Type == ir.StringType && cfg.String == "false") {
			info.config = false
		}
	}
	hasShared := entry.Field("shared-schema") != nil
	hasInline := entry.Field("inline") != nil
	switch {
	case hasShared && hasInline:
		return nil, internalErrf(ext, "mount point %q names both shared-schema and inline", ext.Argument)
	case !hasShared && !hasInline:
		return nil, internalErrf(ext, "mount point %q names neither shared-schema nor inline", ext.Argument)
	}
	info.shared = hasShared
	return info, nil
}

// resolveContext determines the mounted context governing data under ext's
// mount point, creating and caching it as needed.
func (p *Plugin) resolveContext(ext *schema.ExtensionInstance) (*schema.Context, error) {
	data, err := p.fetchExtData(ext)
	if err != nil {
		return nil, err
	}
	entry, err := p.mountEntry(ext, data)
	if err != nil {
		return nil, err
	}
	info, err := p.entryInfo(ext, entry)
	if err != nil {
		return nil, err
	}
	if info.shared {
		return p.sharedContext(ext, data, info.config)
	}
	return p.inlineContext(ext, data, info.config)
}

const contentIDPath = "module-library.content-id"

// contentID extracts the version token of the module-library data: the
// content-id, or the module-set-id of the legacy modules-state revision.
func contentID(data *ir.Node) string {
	if n := data.Lookup("module-library", "content-id"); n != nil {
		return scalarString(n)
	}
	if n := data.Lookup("modules-state", "module-set-id"); n != nil {
		return scalarString(n)
	}
	return ""
}

func scalarString(n *ir.Node) string {
	if n.Type == ir.NumberType {
		return n.Number
	}
	return n.String
}

// sharedContext returns the cached context for ext's label, or builds and
// publishes one. The group mutex is held for the whole scan/build/insert
// sequence: holding it across the expensive context construction is what
// keeps two first-users of a label from publishing divergent contexts, so
// callers must tolerate blocking during first-use schema load.
func (p *Plugin) sharedContext(ext *schema.ExtensionInstance, data *ir.Node, config bool) (*schema.Context, error) {
	st, ok := ext.Data.(*state)
	if !ok || st.shared == nil {
		return nil, internalErrf(ext, "mount point %q has no compiled state", ext.Argument)
	}
	cid := contentID(data)
	if cid == "" {
		return nil, validErrf(ext, contentIDPath,
			"missing content-id or module-set-id in module-library data")
	}

	sh := st.shared
	sh.mu.Lock()
	defer sh.mu.Unlock()

	for i := range sh.schemas {
		cs := &sh.schemas[i]
		if cs.label != ext.Argument {
			continue
		}
		if cs.contentID != cid {
			// the schema changed underneath an existing mount: reject,
			// data validated against the old schema would be invalidated
			// by a silent reload
			return nil, validErrf(ext, contentIDPath,
				"shared-schema content-id %q differs from %q used previously", cid, cs.contentID)
		}
		return cs.ctx, nil
	}

	mctx, err := p.newMountContext(ext, data, config)
	if err != nil {
		return nil, err
	}
	dict := ext.Module.Ctx.Dict()
	sh.schemas = append(sh.schemas, cachedSchema{
		label:     dict.Insert(ext.Argument),
		contentID: dict.Insert(cid),
		ctx:       mctx,
	})
	return mctx, nil
}

// inlineContext always builds a fresh context: inline data structurally
// carries its own schema each time, so there is nothing to share or to
// version-check.
func (p *Plugin) inlineContext(ext *schema.ExtensionInstance, data *ir.Node, config bool) (*schema.Context, error) {
	st, ok := ext.Data.(*state)
	if !ok {
		return nil, internalErrf(ext, "mount point %q has no compiled state", ext.Argument)
	}
	mctx, err := p.newMountContext(ext, data, config)
	if err != nil {
		return nil, err
	}
	st.inline.schemas = append(st.inline.schemas, mctx)
	return mctx, nil
}

// newMountContext builds a context from the module-library data, reusing
// the host context's search dirs and options, and applies the read-only
// pass before anyone else can see the context.
func (p *Plugin) newMountContext(ext *schema.ExtensionInstance, data *ir.Node, config bool) (*schema.Context, error) {
	if p.Builder == nil {
		return nil, internalErrf(ext, "no context builder configured")
	}
	host := ext.Module.Ctx
	mctx, err := p.Builder.Build(data, host.SearchDirs(), host.Options())
	if err != nil {
		return nil, fmt.Errorf("failed to create context for the mounted data: %w", err)
	}
	if !config {
		for _, m := range mctx.Modules() {
			if !m.Implemented {
				continue
			}
			_ = m.Walk(func(n *schema.Node) error {
				n.Flags &^= schema.ConfigW
				n.Flags |= schema.ConfigR
				return nil
			})
		}
	}
	return mctx, nil
}
