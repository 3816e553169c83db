package mount

import (
	"io"
	"sync"

	"github.com/conflang/go-conflang/extension"
	"github.com/conflang/go-conflang/format"
	"github.com/conflang/go-conflang/ir"
	"github.com/conflang/go-conflang/parse"
	"github.com/conflang/go-conflang/pathref"
	"github.com/conflang/go-conflang/schema"
	"github.com/conflang/go-conflang/validate"
)

// Qualified name and defining-module revision the plugin registers under.
const (
	DefModule   = "conflang-schema-mount"
	DefRevision = "2024-01-10"
	DefName     = "mount-point"
)

// ExtensionDataSource supplies the operational tree holding module-library
// and schema-mount data for a mount point. The tree must already be
// validated; a nil tree means no data is available.
type ExtensionDataSource interface {
	ExtensionData(ext *schema.ExtensionInstance) (*ir.Node, error)
}

// ContextBuilder creates a schema context from module-library data,
// resolving modules through the given search directories. The host's
// module compiler provides the real implementation.
type ContextBuilder interface {
	Build(libData *ir.Node, searchDirs []string, opts schema.Options) (*schema.Context, error)
}

// DataParser opens subtree streams over encoded input (see parse.Parser,
// the default).
type DataParser interface {
	NewStream(ctx *schema.Context, r io.Reader, f format.Format) (parse.SubtreeStream, error)
}

// Validator runs full validation over a sibling set. The implementation
// may insert nodes (defaults) into the set.
type Validator interface {
	ValidateAll(ctx *schema.Context, siblings *[]*ir.Node,
		opts extension.ValidateOptions) error
}

// PathEvaluator resolves parent-reference path expressions against the
// host tree.
type PathEvaluator interface {
	Eval(path string, ctxNode *ir.Node) ([]*ir.Node, error)
}

// Plugin is the schema-mount extension. Collaborators are plain fields so
// embedders can swap any of them; New fills in the library defaults.
type Plugin struct {
	ExtData   ExtensionDataSource
	Builder   ContextBuilder
	Parser    DataParser
	Validator Validator
	Paths     PathEvaluator
}

type Option func(*Plugin)

func WithExtensionData(src ExtensionDataSource) Option {
	return func(p *Plugin) { p.ExtData = src }
}

func WithContextBuilder(b ContextBuilder) Option {
	return func(p *Plugin) { p.Builder = b }
}

func WithDataParser(dp DataParser) Option {
	return func(p *Plugin) { p.Parser = dp }
}

func WithValidator(v Validator) Option {
	return func(p *Plugin) { p.Validator = v }
}

func WithPathEvaluator(pe PathEvaluator) Option {
	return func(p *Plugin) { p.Paths = pe }
}

func New(opts ...Option) *Plugin {
	p := &Plugin{
		Parser:    parse.Parser{},
		Validator: validate.Engine{},
		Paths:     pathref.Evaluator{},
	}
	for _, f := range opts {
		f(p)
	}
	return p
}

// Record returns the hook record for the host's extension registry.
func (p *Plugin) Record() *extension.Plugin {
	return &extension.Plugin{
		Module:   DefModule,
		Revision: DefRevision,
		Name:     DefName,
		ID:       "go-conflang schema mount, version 1",
		Compile:  p.Compile,
		Parse:    p.Parse,
		Validate: p.Validate,
		Free:     p.Free,
	}
}

func (p *Plugin) Register(reg *extension.Registry) error {
	return reg.Register(p.Record())
}

// state is the per-instance mount data attached to a compiled extension
// instance. The shared group may be shared with other instances carrying
// the same label; the inline group never is.
type state struct {
	shared *sharedGroup
	inline inlineGroup
}

// sharedGroup caches mounted contexts for one mount-point label. The list
// is append-only: entries are never reordered or removed before the group
// itself is torn down.
type sharedGroup struct {
	mu       sync.Mutex
	schemas  []cachedSchema
	refCount int
}

// cachedSchema pins one published mounted context together with the
// content-id it was built from. Label and content-id are interned in the
// host context's dictionary.
type cachedSchema struct {
	label     string
	contentID string
	ctx       *schema.Context
}

// inlineGroup holds contexts built for inline mounts. Never looked up by
// key, never shared.
type inlineGroup struct {
	schemas []*schema.Context
}
