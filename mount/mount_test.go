package mount

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/conflang/go-conflang/format"
	"github.com/conflang/go-conflang/ir"
	"github.com/conflang/go-conflang/parse"
	"github.com/conflang/go-conflang/schema"
)

// newHostCtx builds a host context with one implemented module "device":
//
//	container platform { leaf os-version; }
//	container managed;   // mount point site
//	container peer;      // second mount point site
func newHostCtx() (*schema.Context, *schema.Module) {
	ctx := schema.NewContext(schema.WithSearchDirs("testdata"))
	mod := &schema.Module{
		Name:        "device",
		Revision:    "2024-01-10",
		Version:     schema.Version11,
		Implemented: true,
	}
	platform := &schema.Node{Name: "platform", Module: mod, Type: schema.ContainerNode, Flags: schema.ConfigW}
	osv := &schema.Node{Name: "os-version", Module: mod, Parent: platform, Type: schema.LeafNode, Flags: schema.ConfigW}
	platform.Children = []*schema.Node{osv}
	managed := &schema.Node{Name: "managed", Module: mod, Type: schema.ContainerNode, Flags: schema.ConfigW}
	peer := &schema.Node{Name: "peer", Module: mod, Type: schema.ContainerNode, Flags: schema.ConfigW}
	mod.Data = []*schema.Node{platform, managed, peer}
	ctx.AddModule(mod)
	return ctx, mod
}

// newMountedCtx builds the context a fake builder publishes for mounted
// data: module "hw" with the mounted schema and a mirror of the host's
// "device" module so parent-referenced data can cross over.
func newMountedCtx() *schema.Context {
	ctx := schema.NewContext()

	hw := &schema.Module{Name: "hw", Revision: "2024-01-10", Version: schema.Version11, Implemented: true}
	hardware := &schema.Node{Name: "hardware", Module: hw, Type: schema.ContainerNode, Flags: schema.ConfigW}
	serial := &schema.Node{Name: "serial-number", Module: hw, Parent: hardware,
		Type: schema.LeafNode, Flags: schema.ConfigW | schema.Mandatory}
	comp := &schema.Node{Name: "component", Module: hw, Parent: hardware,
		Type: schema.ListNode, Flags: schema.ConfigW, Keys: []string{"name"}}
	compName := &schema.Node{Name: "name", Module: hw, Parent: comp, Type: schema.LeafNode, Flags: schema.ConfigW | schema.Key}
	compClass := &schema.Node{Name: "class", Module: hw, Parent: comp, Type: schema.LeafNode, Flags: schema.ConfigW}
	comp.Children = []*schema.Node{compName, compClass}
	hardware.Children = []*schema.Node{serial, comp}
	alarms := &schema.Node{Name: "alarms", Module: hw, Type: schema.ContainerNode, Flags: schema.ConfigW}
	count := &schema.Node{Name: "count", Module: hw, Parent: alarms, Type: schema.LeafNode, Flags: schema.ConfigW}
	alarms.Children = []*schema.Node{count}
	hw.Data = []*schema.Node{hardware, alarms}
	ctx.AddModule(hw)

	dev := &schema.Module{Name: "device", Revision: "2024-01-10", Version: schema.Version11, Implemented: true}
	platform := &schema.Node{Name: "platform", Module: dev, Type: schema.ContainerNode, Flags: schema.ConfigW}
	osv := &schema.Node{Name: "os-version", Module: dev, Parent: platform, Type: schema.LeafNode, Flags: schema.ConfigW}
	platform.Children = []*schema.Node{osv}
	dev.Data = []*schema.Node{platform}
	ctx.AddModule(dev)

	return ctx
}

type fakeBuilder struct {
	built int
	err   error
	mk    func() *schema.Context
}

func (b *fakeBuilder) Build(lib *ir.Node, dirs []string, opts schema.Options) (*schema.Context, error) {
	if b.err != nil {
		return nil, b.err
	}
	b.built++
	if b.mk == nil {
		return newMountedCtx(), nil
	}
	return b.mk(), nil
}

type fakeSource struct {
	doc *ir.Node
	err error
}

func (s *fakeSource) ExtensionData(ext *schema.ExtensionInstance) (*ir.Node, error) {
	return s.doc, s.err
}

func mustDoc(t *testing.T, y string) *ir.Node {
	t.Helper()
	doc, err := parse.Document([]byte(y), format.YAMLFormat)
	require.NoError(t, err)
	return doc
}

func sharedExtData(t *testing.T, cid string) *ir.Node {
	t.Helper()
	return mustDoc(t, fmt.Sprintf(`
module-library:
  content-id: %q
schema-mounts:
  mount-point:
    - module: device
      label: lvs
      shared-schema:
        parent-reference:
          - platform.os-version
`, cid))
}

func inlineExtData(t *testing.T) *ir.Node {
	t.Helper()
	return mustDoc(t, `
module-library:
  content-id: "cid-1"
schema-mounts:
  mount-point:
    - module: device
      label: lvs
      inline: {}
`)
}

// addMount attaches a mount-point extension instance to parent.
func addMount(mod *schema.Module, parent *schema.Node, label string) *schema.ExtensionInstance {
	ext := &schema.ExtensionInstance{
		Def:        &schema.ExtensionDef{Module: DefModule, Revision: DefRevision, Name: DefName},
		Argument:   label,
		Module:     mod,
		Parent:     parent,
		ParentStmt: schema.StmtContainer,
	}
	parent.Exts = append(parent.Exts, ext)
	return ext
}

func mustCompile(t *testing.T, p *Plugin, ext *schema.ExtensionInstance) {
	t.Helper()
	cctx := &schema.CompileCtx{Module: ext.Module, NodePath: "/device:" + ext.Parent.Name}
	require.NoError(t, p.Compile(cctx, ext))
}

// mustSubtree decodes a single YAML subtree bound to ctx's schema.
func mustSubtree(t *testing.T, ctx *schema.Context, y string) *ir.Node {
	t.Helper()
	stream, err := parse.Parser{}.NewStream(ctx, strings.NewReader(y), format.YAMLFormat)
	require.NoError(t, err)
	sub, err := stream.Next()
	require.NoError(t, err)
	_, err = stream.Next()
	require.Equal(t, io.EOF, err)
	return sub
}

// buildHostDoc assembles a host document with validated platform data and
// an empty mount-point container:
//
//	platform: {os-version: "1.0"}
//	managed: {}
func buildHostDoc(t *testing.T, hostCtx *schema.Context) (root, managed *ir.Node) {
	t.Helper()
	root = ir.Object()
	platform := mustSubtree(t, hostCtx, "platform:\n  os-version: \"1.0\"\n")
	platform.Walk(func(n *ir.Node) { n.Flags &^= ir.FlagNew })
	root.SetField("platform", platform)
	managed = mustSubtree(t, hostCtx, "managed: {}\n")
	managed.Walk(func(n *ir.Node) { n.Flags &^= ir.FlagNew })
	root.SetField("managed", managed)
	return root, managed
}

// summarize flattens a tree to comparable lines; subtrees rooted at
// ext-owned nodes are skipped when skipExt is set.
func summarize(n *ir.Node, skipExt bool) []string {
	var out []string
	var visit func(n *ir.Node)
	visit = func(n *ir.Node) {
		if skipExt && n.Flags&ir.FlagExtOwned != 0 {
			return
		}
		line := fmt.Sprintf("%s|%s|%s|flags=%d|children=%d",
			n.Path(), n.Type, scalarString(n), n.Flags, len(n.Values))
		out = append(out, line)
		for _, v := range n.Values {
			visit(v)
		}
	}
	visit(n)
	return out
}
