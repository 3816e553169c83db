package parse

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/conflang/go-conflang/format"
	"github.com/conflang/go-conflang/ir"
	"github.com/conflang/go-conflang/schema"
)

// testCtx compiles a minimal context: module "sys" with
//
//	container system { leaf hostname; leaf-list dns; }
//	list user [name] { leaf name; leaf shell; }
func testCtx() *schema.Context {
	ctx := schema.NewContext()
	mod := &schema.Module{Name: "sys", Version: schema.Version11, Implemented: true}
	system := &schema.Node{Name: "system", Module: mod, Type: schema.ContainerNode}
	hostname := &schema.Node{Name: "hostname", Module: mod, Parent: system, Type: schema.LeafNode}
	dns := &schema.Node{Name: "dns", Module: mod, Parent: system, Type: schema.LeafListNode}
	system.Children = []*schema.Node{hostname, dns}
	user := &schema.Node{Name: "user", Module: mod, Type: schema.ListNode, Keys: []string{"name"}}
	uname := &schema.Node{Name: "name", Module: mod, Parent: user, Type: schema.LeafNode, Flags: schema.Key}
	shell := &schema.Node{Name: "shell", Module: mod, Parent: user, Type: schema.LeafNode}
	user.Children = []*schema.Node{uname, shell}
	mod.Data = []*schema.Node{system, user}
	ctx.AddModule(mod)
	return ctx
}

func TestDocumentYAMLKeepsFieldOrder(t *testing.T) {
	doc, err := Document([]byte("b: 1\na: 2\nc: 3\n"), format.YAMLFormat)
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, v := range doc.Values {
		got = append(got, v.ParentField)
	}
	if d := cmp.Diff([]string{"b", "a", "c"}, got); d != "" {
		t.Fatalf("field order (-want +got):\n%s", d)
	}
}

func TestDocumentJSON(t *testing.T) {
	doc, err := Document([]byte(`{"n": 42, "f": 1.5, "s": "x", "b": true, "z": null}`), format.JSONFormat)
	if err != nil {
		t.Fatal(err)
	}
	n := doc.Field("n")
	if n == nil || n.Type != ir.NumberType || n.Int64 == nil || *n.Int64 != 42 {
		t.Fatalf("int field: %+v", n)
	}
	f := doc.Field("f")
	if f == nil || f.Float64 == nil || *f.Float64 != 1.5 {
		t.Fatalf("float field: %+v", f)
	}
	if doc.Field("s").String != "x" || !doc.Field("b").Bool {
		t.Fatal("scalar fields not converted")
	}
	if doc.Field("z").Type != ir.NullType {
		t.Fatal("null field not converted")
	}
}

func TestDocumentMalformed(t *testing.T) {
	if _, err := Document([]byte("{x"), format.JSONFormat); !errors.Is(err, ErrMalformed) {
		t.Fatalf("got %v, want ErrMalformed", err)
	}
	if _, err := Document([]byte("{"), format.YAMLFormat); !errors.Is(err, ErrMalformed) {
		t.Fatalf("got %v, want ErrMalformed", err)
	}
}

func TestDocumentBadFormat(t *testing.T) {
	if _, err := Document(nil, format.ConflangFormat); !errors.Is(err, format.ErrBadFormat) {
		t.Fatalf("got %v, want ErrBadFormat", err)
	}
}

func TestStreamYAMLMultiDocument(t *testing.T) {
	ctx := testCtx()
	in := "system:\n  hostname: r1\n  dns: [\"1.1.1.1\", \"8.8.8.8\"]\n---\nuser:\n  - name: alice\n    shell: /bin/sh\n"
	stream, err := Parser{}.NewStream(ctx, strings.NewReader(in), format.YAMLFormat)
	if err != nil {
		t.Fatal(err)
	}

	first, err := stream.Next()
	if err != nil {
		t.Fatal(err)
	}
	if first.ParentField != "system" || first.Parent != nil {
		t.Fatalf("first subtree: %+v", first)
	}
	if first.Schema == nil || first.Schema.Name != "system" {
		t.Fatal("first subtree not bound")
	}
	dns := first.Field("dns")
	if dns == nil || dns.Schema == nil || dns.Schema.Type != schema.LeafListNode {
		t.Fatal("leaf-list not bound")
	}
	first.Walk(func(n *ir.Node) {
		if n.Flags&ir.FlagNew == 0 {
			t.Fatalf("node %s not marked new", n.Path())
		}
	})

	second, err := stream.Next()
	if err != nil {
		t.Fatal(err)
	}
	if second.ParentField != "user" || second.Type != ir.ArrayType {
		t.Fatalf("second subtree: %+v", second)
	}
	entry := second.Values[0]
	if entry.Schema == nil || entry.Schema.Name != "user" {
		t.Fatal("list entry not bound to the list schema")
	}
	if entry.Field("shell").Schema.Name != "shell" {
		t.Fatal("entry child not bound")
	}

	if _, err := stream.Next(); err != io.EOF {
		t.Fatalf("got %v, want io.EOF", err)
	}
}

func TestStreamJSON(t *testing.T) {
	ctx := testCtx()
	in := `{"system": {"hostname": "r1"}} {"user": []}`
	stream, err := Parser{}.NewStream(ctx, strings.NewReader(in), format.JSONFormat)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"system", "user"} {
		sub, err := stream.Next()
		if err != nil {
			t.Fatal(err)
		}
		if sub.ParentField != want {
			t.Fatalf("got %q, want %q", sub.ParentField, want)
		}
	}
	if _, err := stream.Next(); err != io.EOF {
		t.Fatalf("got %v, want io.EOF", err)
	}
}

func TestStreamMalformed(t *testing.T) {
	ctx := testCtx()
	tests := []struct {
		name string
		in   string
	}{
		{"unknown root", "nosuch: {}\n"},
		{"two roots in one document", "system: {}\nuser: []\n"},
		{"scalar document", "just a string\n"},
		{"container holds scalar", "system: 42\n"},
		{"unknown child", "system:\n  color: red\n"},
		{"list holds scalar entry", "user:\n  - alice\n"},
		{"leaf holds object", "system:\n  hostname:\n    x: 1\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			stream, err := Parser{}.NewStream(ctx, strings.NewReader(tc.in), format.YAMLFormat)
			if err != nil {
				t.Fatal(err)
			}
			if _, err := stream.Next(); !errors.Is(err, ErrMalformed) {
				t.Fatalf("got %v, want ErrMalformed", err)
			}
		})
	}
}

func TestStreamBadFormat(t *testing.T) {
	if _, err := (Parser{}).NewStream(testCtx(), strings.NewReader(""), format.ConflangFormat); !errors.Is(err, format.ErrBadFormat) {
		t.Fatalf("got %v, want ErrBadFormat", err)
	}
}
