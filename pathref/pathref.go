// Package pathref evaluates parent-reference path expressions against data
// trees.
//
// An expression is a dotted field path with optional bracket selectors:
//
//	interfaces.interface[name == "eth0"].mtu
//	serial-number
//	vrfs.vrf[2]
//
// A bracket holding an integer selects one array element; anything else is
// compiled as a predicate over the candidate element's scalar fields.
package pathref

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/conflang/go-conflang/debug"
	"github.com/conflang/go-conflang/ir"
)

type Evaluator struct{}

type segment struct {
	field string
	index int // -1 when absent
	pred  *vm.Program
}

// Eval evaluates path against the tree ctxNode lives in, starting from its
// root. The result may be empty; that is not an error.
func (Evaluator) Eval(path string, ctxNode *ir.Node) ([]*ir.Node, error) {
	segs, err := parsePath(path)
	if err != nil {
		return nil, err
	}
	cur := []*ir.Node{ctxNode.Root()}
	for _, seg := range segs {
		var next []*ir.Node
		for _, n := range cur {
			c := n.Field(seg.field)
			if c == nil {
				continue
			}
			switch {
			case seg.index >= 0:
				if c.Type == ir.ArrayType && seg.index < len(c.Values) {
					next = append(next, c.Values[seg.index])
				}
			case seg.pred != nil:
				for _, e := range c.Values {
					ok, err := runPred(seg.pred, e)
					if err != nil {
						return nil, fmt.Errorf("predicate in %q: %w", path, err)
					}
					if ok {
						next = append(next, e)
					}
				}
			default:
				next = append(next, c)
			}
		}
		cur = next
	}
	if debug.PathRef() {
		debug.Logf("pathref %q matched %d node(s)\n", path, len(cur))
	}
	return cur, nil
}

func runPred(prg *vm.Program, e *ir.Node) (bool, error) {
	env := map[string]any{}
	for _, f := range e.Values {
		if v, ok := scalarValue(f); ok {
			env[f.ParentField] = v
		}
	}
	res, err := expr.Run(prg, env)
	if err != nil {
		return false, err
	}
	b, ok := res.(bool)
	if !ok {
		return false, fmt.Errorf("predicate result %T is not bool", res)
	}
	return b, nil
}

func scalarValue(n *ir.Node) (any, bool) {
	switch n.Type {
	case ir.StringType:
		return n.String, true
	case ir.BoolType:
		return n.Bool, true
	case ir.NumberType:
		if n.Int64 != nil {
			return *n.Int64, true
		}
		if n.Float64 != nil {
			return *n.Float64, true
		}
		return n.Number, true
	case ir.NullType:
		return nil, true
	default:
		return nil, false
	}
}

func parsePath(path string) ([]segment, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("empty path expression")
	}
	var segs []segment
	rest := path
	for rest != "" {
		end := strings.IndexAny(rest, ".[")
		var field string
		if end == -1 {
			field, rest = rest, ""
		} else {
			field, rest = rest[:end], rest[end:]
		}
		if field == "" {
			return nil, fmt.Errorf("empty field in path %q", path)
		}
		seg := segment{field: field, index: -1}
		if strings.HasPrefix(rest, "[") {
			close := strings.Index(rest, "]")
			if close == -1 {
				return nil, fmt.Errorf("unbalanced '[' in path %q", path)
			}
			sel := rest[1:close]
			rest = rest[close+1:]
			if i, err := strconv.Atoi(strings.TrimSpace(sel)); err == nil {
				if i < 0 {
					return nil, fmt.Errorf("negative index in path %q", path)
				}
				seg.index = i
			} else {
				prg, err := expr.Compile(sel,
					expr.Env(map[string]any{}),
					expr.AllowUndefinedVariables(),
					expr.AsBool())
				if err != nil {
					return nil, fmt.Errorf("bad predicate %q: %w", sel, err)
				}
				seg.pred = prg
			}
		}
		segs = append(segs, seg)
		if strings.HasPrefix(rest, ".") {
			rest = rest[1:]
			if rest == "" {
				return nil, fmt.Errorf("trailing '.' in path %q", path)
			}
		}
	}
	return segs, nil
}
