// Package extension is the host library's extension-dispatch surface: the
// hook record a plugin registers and the registry the generic compiler and
// data engine look hooks up in.
package extension

import (
	"fmt"
	"io"
	"sync"

	"github.com/conflang/go-conflang/format"
	"github.com/conflang/go-conflang/ir"
	"github.com/conflang/go-conflang/schema"
)

// ParseOptions carries the data-parser options relevant to extension parse
// hooks.
type ParseOptions struct {
	// ParseOnly skips validation during parsing; extension parse hooks
	// require it, validation happens in a separate phase.
	ParseOnly bool
	Strict    bool
}

type ValidateOptions struct {
	// Present restricts validation to present nodes (no mandatory checks
	// for absent subtrees).
	Present bool
}

type CompileHook func(cctx *schema.CompileCtx, ext *schema.ExtensionInstance) error

type ParseHook func(r io.Reader, f format.Format, ext *schema.ExtensionInstance,
	parent *ir.Node, opts ParseOptions) error

type ValidateHook func(ext *schema.ExtensionInstance, siblings []*ir.Node,
	opts ValidateOptions) error

type FreeHook func(ctx *schema.Context, ext *schema.ExtensionInstance)

// Plugin is the hook record registered for one extension of one defining
// module revision.
type Plugin struct {
	Module   string
	Revision string
	Name     string
	ID       string

	Compile  CompileHook
	Parse    ParseHook
	Validate ValidateHook
	Free     FreeHook
}

type pluginKey struct {
	module   string
	revision string
	name     string
}

// Registry maps qualified extension names to their plugins.
type Registry struct {
	mu      sync.RWMutex
	plugins map[pluginKey]*Plugin
}

func NewRegistry() *Registry {
	return &Registry{plugins: map[pluginKey]*Plugin{}}
}

func (r *Registry) Register(p *Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := pluginKey{module: p.Module, revision: p.Revision, name: p.Name}
	if existing, ok := r.plugins[k]; ok {
		return fmt.Errorf("extension %s:%s@%s already registered: %q",
			p.Module, p.Name, p.Revision, existing.ID)
	}
	r.plugins[k] = p
	return nil
}

// Find returns the plugin for the given qualified extension name, or nil.
func (r *Registry) Find(module, revision, name string) *Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.plugins[pluginKey{module: module, revision: revision, name: name}]
}
