package ir

import "github.com/conflang/go-conflang/schema"

// FindSiblingFirst returns the first node of siblings that denotes the same
// data instance as target: same schema node (or same field name when
// unbound) and, for list entries, equal key values.
func FindSiblingFirst(siblings []*Node, target *Node) *Node {
	for _, s := range siblings {
		if SameInstance(s, target) {
			return s
		}
	}
	return nil
}

// SameInstance reports whether a and b denote the same data instance.
func SameInstance(a, b *Node) bool {
	if a.Schema != nil || b.Schema != nil {
		if a.Schema != b.Schema {
			return false
		}
	} else if a.ParentField != b.ParentField || a.Type != b.Type {
		return false
	}
	if a.Type == ObjectType && a.Schema != nil && a.Schema.Type == schema.ListNode {
		return sameListKeys(a.Schema, a, b)
	}
	if a.Type != ObjectType && a.Type != ArrayType {
		return scalarEqual(a, b)
	}
	return true
}

func sameListKeys(sn *schema.Node, a, b *Node) bool {
	for _, k := range sn.Keys {
		av, bv := a.Field(k), b.Field(k)
		if av == nil || bv == nil {
			return false
		}
		if !scalarEqual(av, bv) {
			return false
		}
	}
	return true
}

// MergeTree merges src into dst. The two roots must denote the same
// instance; children present in both are merged recursively, children only
// in src are moved over. src must not be used afterwards.
func MergeTree(dst, src *Node) {
	if dst.Type != src.Type {
		return
	}
	switch dst.Type {
	case ObjectType:
		for _, c := range src.Values {
			d := dst.Field(c.ParentField)
			if d == nil {
				c.Parent = dst
				c.ParentIndex = len(dst.Values)
				dst.Values = append(dst.Values, c)
				continue
			}
			MergeTree(d, c)
		}
	case ArrayType:
		for _, e := range src.Values {
			d := FindSiblingFirst(dst.Values, e)
			if d == nil {
				e.Parent = dst
				e.ParentIndex = len(dst.Values)
				dst.Values = append(dst.Values, e)
				continue
			}
			MergeTree(d, e)
		}
	default:
		// scalars: dst wins, both copies describe the same host value
	}
}
