package ir

import (
	"strconv"

	"github.com/conflang/go-conflang/schema"
)

type Type int

const (
	NullType Type = iota
	ObjectType
	ArrayType
	StringType
	NumberType
	BoolType
)

func (t Type) String() string {
	switch t {
	case NullType:
		return "null"
	case ObjectType:
		return "object"
	case ArrayType:
		return "array"
	case StringType:
		return "string"
	case NumberType:
		return "number"
	case BoolType:
		return "bool"
	default:
		return "<unknown type>"
	}
}

type Flags uint16

const (
	// FlagNew marks a node that has not been validated yet.
	FlagNew Flags = 1 << iota
	// FlagExtOwned marks data produced by an extension's own parse hook,
	// as opposed to ordinarily parsed host data. Full-tree validation does
	// not recurse into flagged subtrees.
	FlagExtOwned
)

// Node is one node of a data-instance tree. Object children live in Values
// and carry their field name in ParentField; array elements carry their
// position in ParentIndex.
type Node struct {
	Type   Type
	Schema *schema.Node
	Flags  Flags

	Parent      *Node
	ParentIndex int
	ParentField string
	Values      []*Node

	String  string
	Bool    bool
	Number  string
	Float64 *float64
	Int64   *int64
}

func (y *Node) Clone() *Node {
	res := &Node{}
	return y.CloneTo(res)
}

func (y *Node) CloneTo(dst *Node) *Node {
	dst.Type = y.Type
	dst.Schema = y.Schema
	dst.Flags = y.Flags
	dst.Parent = y.Parent
	dst.ParentIndex = y.ParentIndex
	dst.ParentField = y.ParentField
	dst.Values = make([]*Node, len(y.Values))
	for i, yv := range y.Values {
		dstI := &Node{}
		yv.CloneTo(dstI)
		dstI.Parent = dst
		dst.Values[i] = dstI
	}
	dst.String = y.String
	dst.Bool = y.Bool
	dst.Number = y.Number
	if y.Float64 != nil {
		f := *y.Float64
		dst.Float64 = &f
	}
	if y.Int64 != nil {
		i := *y.Int64
		dst.Int64 = &i
	}
	return dst
}

func Null() *Node {
	return &Node{Type: NullType}
}

func Object() *Node {
	return &Node{Type: ObjectType}
}

func Array() *Node {
	return &Node{Type: ArrayType}
}

func FromString(v string) *Node {
	return &Node{Type: StringType, String: v}
}

func FromInt(v int64) *Node {
	return &Node{Type: NumberType, Int64: &v, Number: strconv.FormatInt(v, 10)}
}

func FromFloat(f float64) *Node {
	return &Node{Type: NumberType, Float64: &f, Number: strconv.FormatFloat(f, 'g', -1, 64)}
}

func FromBool(v bool) *Node {
	return &Node{Type: BoolType, Bool: v}
}

// SetField appends child as the field name of the object y.
func (y *Node) SetField(name string, child *Node) *Node {
	child.Parent = y
	child.ParentIndex = len(y.Values)
	child.ParentField = name
	y.Values = append(y.Values, child)
	return y
}

// Append adds child as the next element of the array y.
func (y *Node) Append(child *Node) *Node {
	child.Parent = y
	child.ParentIndex = len(y.Values)
	y.Values = append(y.Values, child)
	return y
}

// Field returns the object child with the given field name, or nil.
func (y *Node) Field(name string) *Node {
	for _, v := range y.Values {
		if v.ParentField == name {
			return v
		}
	}
	return nil
}

// Lookup descends nested object fields, returning nil as soon as one is
// missing.
func (y *Node) Lookup(fields ...string) *Node {
	cur := y
	for _, f := range fields {
		if cur == nil {
			return nil
		}
		cur = cur.Field(f)
	}
	return cur
}

// FieldString returns the string value of the named field, or "".
func (y *Node) FieldString(name string) string {
	f := y.Field(name)
	if f == nil {
		return ""
	}
	return f.String
}

// Root climbs to the top of the tree y lives in.
func (y *Node) Root() *Node {
	r := y
	for r.Parent != nil {
		r = r.Parent
	}
	return r
}

// Path returns the kinded path of y's position, e.g. "a.b[0]".
func (y *Node) Path() string {
	if y.Parent == nil {
		return ""
	}
	prefix := y.Parent.Path()
	switch y.Parent.Type {
	case ArrayType:
		return prefix + "[" + strconv.Itoa(y.ParentIndex) + "]"
	default:
		if prefix == "" {
			return y.ParentField
		}
		return prefix + "." + y.ParentField
	}
}

// Walk runs f on y and every descendant, depth first.
func (y *Node) Walk(f func(n *Node)) {
	f(y)
	for _, v := range y.Values {
		v.Walk(f)
	}
}

// scalarEqual reports whether two scalar nodes carry the same value.
func scalarEqual(a, b *Node) bool {
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case StringType:
		return a.String == b.String
	case BoolType:
		return a.Bool == b.Bool
	case NumberType:
		if (a.Int64 == nil) != (b.Int64 == nil) {
			return false
		}
		if a.Int64 != nil {
			return *a.Int64 == *b.Int64
		}
		if (a.Float64 == nil) != (b.Float64 == nil) {
			return false
		}
		if a.Float64 != nil {
			return *a.Float64 == *b.Float64
		}
		return a.Number == b.Number
	case NullType:
		return true
	default:
		return false
	}
}
