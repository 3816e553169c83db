// Package parse decodes YAML and JSON documents into ir trees, optionally
// binding them to a compiled schema context one subtree at a time.
//
// The native Conflang text format is handled by the host engine; this
// package covers the interchange encodings.
package parse

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"

	"github.com/conflang/go-conflang/format"
	"github.com/conflang/go-conflang/ir"
	"github.com/conflang/go-conflang/schema"
)

// Document decodes a single schema-less document, e.g. operational data
// retrieved from an external source.
func Document(d []byte, f format.Format) (*ir.Node, error) {
	var v any
	switch f {
	case format.YAMLFormat:
		if err := yaml.UnmarshalWithOptions(d, &v, yaml.UseOrderedMap()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	case format.JSONFormat:
		dec := json.NewDecoder(bytes.NewReader(d))
		dec.UseNumber()
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s not supported here", format.ErrBadFormat, f)
	}
	return convert(v)
}

// SubtreeStream yields one independent subtree per call. Next returns
// io.EOF once the source is exhausted, ErrMalformed for input that cannot
// be decoded against the stream's context, and other errors for genuine
// system failures.
type SubtreeStream interface {
	Next() (*ir.Node, error)
}

// Parser builds subtree streams. It is stateless and safe for concurrent
// use; all per-stream state lives in the stream.
type Parser struct{}

// NewStream returns a stream decoding r one subtree at a time. YAML input
// is read as a multi-document stream, JSON as a sequence of values; each
// document must hold exactly one top-level field naming the subtree root
// in ctx's schema.
func (Parser) NewStream(ctx *schema.Context, r io.Reader, f format.Format) (SubtreeStream, error) {
	switch f {
	case format.YAMLFormat:
		return &stream{ctx: ctx, next: yamlNext(yaml.NewDecoder(r, yaml.UseOrderedMap()))}, nil
	case format.JSONFormat:
		dec := json.NewDecoder(r)
		dec.UseNumber()
		return &stream{ctx: ctx, next: jsonNext(dec)}, nil
	default:
		return nil, fmt.Errorf("%w: %s not supported for subtree parsing", format.ErrBadFormat, f)
	}
}

type stream struct {
	ctx  *schema.Context
	next func() (any, error)
}

func yamlNext(dec *yaml.Decoder) func() (any, error) {
	return func() (any, error) {
		var v any
		if err := dec.Decode(&v); err != nil {
			if err == io.EOF {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return v, nil
	}
}

func jsonNext(dec *json.Decoder) func() (any, error) {
	return func() (any, error) {
		var v any
		if err := dec.Decode(&v); err != nil {
			if err == io.EOF {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return v, nil
	}
}

func (s *stream) Next() (*ir.Node, error) {
	v, err := s.next()
	if err != nil {
		return nil, err
	}
	doc, err := convert(v)
	if err != nil {
		return nil, err
	}
	if doc.Type != ir.ObjectType || len(doc.Values) != 1 {
		return nil, fmt.Errorf("%w: each document must hold exactly one subtree", ErrMalformed)
	}
	sub := doc.Values[0]
	sub.Parent = nil
	sub.ParentIndex = 0
	if err := bindRoot(s.ctx, sub); err != nil {
		return nil, err
	}
	sub.Walk(func(n *ir.Node) { n.Flags |= ir.FlagNew })
	return sub, nil
}
