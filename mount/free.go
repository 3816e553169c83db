package mount

import "github.com/conflang/go-conflang/schema"

// Free is the free hook, invoked once per compiled instance when its
// owning module is unloaded. The shared group survives until its last
// referencing instance is freed; inline contexts are never shared and go
// away unconditionally.
func (p *Plugin) Free(ctx *schema.Context, ext *schema.ExtensionInstance) {
	st, ok := ext.Data.(*state)
	if !ok || st == nil {
		return
	}
	if st.shared != nil {
		st.shared.refCount--
		if st.shared.refCount == 0 {
			for i := range st.shared.schemas {
				cs := &st.shared.schemas[i]
				cs.ctx.Destroy()
				ctx.Dict().Remove(cs.label)
				ctx.Dict().Remove(cs.contentID)
			}
			st.shared.schemas = nil
		}
	}
	for _, c := range st.inline.schemas {
		c.Destroy()
	}
	st.inline.schemas = nil
	// release the label pinned at compile time
	ctx.Dict().Remove(ext.Argument)
	ext.Data = nil
}
