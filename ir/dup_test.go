package ir

import (
	"errors"
	"testing"

	"github.com/conflang/go-conflang/schema"
)

// twoContexts returns a source and a target context both holding module
// "net" with container "system" { leaf hostname; list user [name] { leaf
// name; leaf shell; } }.
func twoContexts() (src, trg *schema.Context) {
	mk := func() *schema.Context {
		ctx := schema.NewContext()
		mod := &schema.Module{Name: "net", Version: schema.Version11, Implemented: true}
		system := &schema.Node{Name: "system", Module: mod, Type: schema.ContainerNode}
		hostname := &schema.Node{Name: "hostname", Module: mod, Parent: system, Type: schema.LeafNode}
		user := &schema.Node{Name: "user", Module: mod, Parent: system, Type: schema.ListNode, Keys: []string{"name"}}
		uname := &schema.Node{Name: "name", Module: mod, Parent: user, Type: schema.LeafNode, Flags: schema.Key}
		shell := &schema.Node{Name: "shell", Module: mod, Parent: user, Type: schema.LeafNode}
		user.Children = []*schema.Node{uname, shell}
		system.Children = []*schema.Node{hostname, user}
		mod.Data = []*schema.Node{system}
		ctx.AddModule(mod)
		return ctx
	}
	return mk(), mk()
}

func boundTree(ctx *schema.Context) *Node {
	mod := ctx.Modules()[0]
	system := mod.Data[0]

	root := Object()
	sys := Object()
	sys.Schema = system
	host := FromString("r1")
	host.Schema = system.Child("hostname")
	host.Flags = FlagNew
	sys.SetField("hostname", host)
	root.SetField("system", sys)
	return root
}

func TestDupToContextRebindsSchema(t *testing.T) {
	src, trg := twoContexts()
	root := boundTree(src)
	leaf := root.Lookup("system", "hostname")

	dup, err := DupToContext(leaf, trg, DupRecursive|DupWithFlags)
	if err != nil {
		t.Fatal(err)
	}
	if dup == leaf {
		t.Fatal("dup aliases the source node")
	}
	if dup.String != "r1" || dup.Flags != FlagNew {
		t.Fatalf("value or flags not carried: %+v", dup)
	}
	want := trg.Modules()[0].Data[0].Child("hostname")
	if dup.Schema != want {
		t.Fatalf("schema not re-resolved: got %v, want %v", dup.Schema, want)
	}
}

func TestDupToContextDropsFlagsWithoutOption(t *testing.T) {
	src, trg := twoContexts()
	leaf := boundTree(src).Lookup("system", "hostname")

	dup, err := DupToContext(leaf, trg, DupRecursive)
	if err != nil {
		t.Fatal(err)
	}
	if dup.Flags != 0 {
		t.Fatalf("got flags %v, want none", dup.Flags)
	}
}

func TestDupToContextWithParents(t *testing.T) {
	src, trg := twoContexts()
	root := boundTree(src)
	leaf := root.Lookup("system", "hostname")

	dup, err := DupToContext(leaf, trg, DupRecursive|DupWithParents)
	if err != nil {
		t.Fatal(err)
	}
	sys := dup.Parent
	if sys == nil || sys.ParentField != "system" {
		t.Fatalf("ancestor chain missing: %+v", sys)
	}
	if sys.Schema != trg.Modules()[0].Data[0] {
		t.Fatal("ancestor schema not re-resolved")
	}
	top := dup.Root()
	if top.Schema != nil || top.ParentField != "" {
		t.Fatalf("expected unbound document root on top, got %+v", top)
	}
	if len(sys.Values) != 1 || sys.Values[0] != dup {
		t.Fatal("parent chain should carry only the duplicated line")
	}
	// source untouched
	if leaf.Root() != root {
		t.Fatal("source tree rewired")
	}
}

func TestDupToContextNoCounterpart(t *testing.T) {
	src, _ := twoContexts()
	leaf := boundTree(src).Lookup("system", "hostname")

	empty := schema.NewContext()
	_, err := DupToContext(leaf, empty, DupRecursive)
	if !errors.Is(err, ErrNoSchema) {
		t.Fatalf("got %v, want ErrNoSchema", err)
	}
}

func TestFindSiblingFirstListEntries(t *testing.T) {
	src, _ := twoContexts()
	userSchema := src.Modules()[0].Data[0].Child("user")

	entry := func(name string) *Node {
		e := Object()
		e.Schema = userSchema
		n := FromString(name)
		n.Schema = userSchema.Child("name")
		e.SetField("name", n)
		return e
	}
	alice, bob := entry("alice"), entry("bob")
	if got := FindSiblingFirst([]*Node{alice, bob}, entry("bob")); got != bob {
		t.Fatalf("got %v, want the bob entry", got)
	}
	if got := FindSiblingFirst([]*Node{alice}, entry("carol")); got != nil {
		t.Fatalf("got %v, want nil for unknown key", got)
	}
}

func TestMergeTreeMovesMissingChildren(t *testing.T) {
	src, _ := twoContexts()
	system := src.Modules()[0].Data[0]

	dst := Object()
	dst.Schema = system
	h := FromString("r1")
	h.Schema = system.Child("hostname")
	dst.SetField("hostname", h)

	other := Object()
	other.Schema = system
	h2 := FromString("r2")
	h2.Schema = system.Child("hostname")
	other.SetField("hostname", h2)
	users := Array()
	users.Schema = system.Child("user")
	other.SetField("user", users)

	MergeTree(dst, other)
	if len(dst.Values) != 2 {
		t.Fatalf("got %d children, want 2", len(dst.Values))
	}
	// existing scalar wins
	if dst.Field("hostname").String != "r1" {
		t.Fatalf("scalar overwritten: %q", dst.Field("hostname").String)
	}
	moved := dst.Field("user")
	if moved != users || moved.Parent != dst {
		t.Fatal("missing child not moved over")
	}
}
