package schema

import (
	"fmt"
	"sync"

	"github.com/conflang/go-conflang/dict"
)

// Options carries context behavior flags. They are opaque to this package
// and are handed unchanged to builders of derived contexts.
type Options uint32

type LogOptions uint32

const (
	// LogStoreLast keeps only the most recent error in the context instead
	// of emitting every intermediate message.
	LogStoreLast LogOptions = 1 << iota
)

// ErrItem is a recorded error with its data path.
type ErrItem struct {
	Msg  string
	Path string
}

// Context is a self-contained compiled-schema universe: a set of modules,
// the search paths used to resolve them, and an interning dictionary.
type Context struct {
	mu         sync.Mutex
	modules    []*Module
	dict       *dict.Dict
	searchDirs []string
	opts       Options
	logOpts    LogOptions
	lastErr    *ErrItem
	destroyed  bool
}

type ContextOption func(*Context)

func WithSearchDirs(dirs ...string) ContextOption {
	return func(c *Context) { c.searchDirs = dirs }
}

func WithOptions(opts Options) ContextOption {
	return func(c *Context) { c.opts = opts }
}

func NewContext(opts ...ContextOption) *Context {
	c := &Context{dict: dict.New()}
	for _, f := range opts {
		f(c)
	}
	return c
}

// AddModule adds m to the context and binds it back to c.
func (c *Context) AddModule(m *Module) {
	m.Ctx = c
	c.modules = append(c.modules, m)
}

// Modules returns the context's modules in registration order.
func (c *Context) Modules() []*Module {
	return c.modules
}

func (c *Context) Dict() *dict.Dict {
	return c.dict
}

func (c *Context) SearchDirs() []string {
	return c.searchDirs
}

func (c *Context) Options() Options {
	return c.opts
}

// SetLogOptions replaces the context log options and returns the previous
// value, so callers can scope a transient mode.
func (c *Context) SetLogOptions(o LogOptions) LogOptions {
	c.mu.Lock()
	defer c.mu.Unlock()
	old := c.logOpts
	c.logOpts = o
	return old
}

func (c *Context) LogOptions() LogOptions {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.logOpts
}

// SaveError records the most recent error of the context.
func (c *Context) SaveError(path, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastErr = &ErrItem{Msg: msg, Path: path}
}

func (c *Context) Errorf(path, msg string, args ...any) {
	c.SaveError(path, fmt.Sprintf(msg, args...))
}

// LastError returns the most recently recorded error, or nil.
func (c *Context) LastError() *ErrItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Destroy releases the context's modules. Using a destroyed context is a
// caller bug; Destroyed exists so owners can assert teardown ordering.
func (c *Context) Destroy() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modules = nil
	c.destroyed = true
}

func (c *Context) Destroyed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.destroyed
}
