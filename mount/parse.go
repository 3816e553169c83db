package mount

import (
	"errors"
	"io"

	"github.com/conflang/go-conflang/debug"
	"github.com/conflang/go-conflang/extension"
	"github.com/conflang/go-conflang/format"
	"github.com/conflang/go-conflang/ir"
	"github.com/conflang/go-conflang/parse"
	"github.com/conflang/go-conflang/schema"
)

// Parse is the parse hook: it resolves the mounted context for ext and
// decodes r into extension-owned subtrees under parent, one independent
// subtree at a time.
//
// Malformed input is not a hard failure: the data may belong to another
// candidate extension at the same site, so it downgrades to
// ErrNotApplicable and the underlying message is only logged at debug
// level. On any failure the partially accumulated fragment is discarded;
// parent is never left with a partial attach.
func (p *Plugin) Parse(r io.Reader, f format.Format, ext *schema.ExtensionInstance,
	parent *ir.Node, opts extension.ParseOptions) error {
	mctx, err := p.resolveContext(ext)
	if err != nil {
		return err
	}
	if !opts.ParseOnly {
		return internalErrf(ext, "mounted data must be parsed with ParseOnly")
	}
	if p.Parser == nil {
		return internalErrf(ext, "no data parser configured")
	}

	// keep only the final message while speculatively decoding
	old := mctx.SetLogOptions(schema.LogStoreLast)
	defer mctx.SetLogOptions(old)

	stream, err := p.Parser.NewStream(mctx, r, f)
	if err != nil {
		return err
	}
	var frag []*ir.Node
	for {
		sub, err := stream.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if errors.Is(err, parse.ErrMalformed) {
				if debug.Mount() {
					debug.Logf("schema mount: subtree parse: %v\n", err)
				}
				return ErrNotApplicable
			}
			return err
		}
		sub.Flags |= ir.FlagExtOwned
		frag = append(frag, sub)
	}
	if len(frag) > 0 {
		ir.InsertExt(parent, frag)
	}
	return nil
}
