package ir

import "fmt"

// InsertExt appends frag to parent's children as an extension-owned
// fragment. Field names are taken from each node's ParentField, falling
// back to its schema name.
func InsertExt(parent *Node, frag []*Node) {
	for _, n := range frag {
		if n.ParentField == "" && n.Schema != nil {
			n.ParentField = n.Schema.Name
		}
		n.Parent = parent
		n.ParentIndex = len(parent.Values)
		parent.Values = append(parent.Values, n)
	}
}

// DetachExt removes the contiguous fragment frag from parent and returns
// the index it started at, so ReattachExt can restore the original
// position. The fragment nodes keep their relative order and lose their
// Parent link.
func DetachExt(parent *Node, frag []*Node) (int, error) {
	if len(frag) == 0 {
		return 0, fmt.Errorf("%w: empty fragment", errInternal)
	}
	at := -1
	for i, v := range parent.Values {
		if v == frag[0] {
			at = i
			break
		}
	}
	if at == -1 || at+len(frag) > len(parent.Values) {
		return 0, fmt.Errorf("%w: fragment not under parent", errInternal)
	}
	for i, n := range frag {
		if parent.Values[at+i] != n {
			return 0, fmt.Errorf("%w: fragment not contiguous", errInternal)
		}
	}
	parent.Values = append(parent.Values[:at], parent.Values[at+len(frag):]...)
	for i := at; i < len(parent.Values); i++ {
		parent.Values[i].ParentIndex = i
	}
	for _, n := range frag {
		n.Parent = nil
	}
	return at, nil
}

// ReattachExt splices frag back into parent at index at.
func ReattachExt(parent *Node, frag []*Node, at int) {
	if at < 0 || at > len(parent.Values) {
		at = len(parent.Values)
	}
	rest := append([]*Node{}, parent.Values[at:]...)
	parent.Values = append(parent.Values[:at], frag...)
	parent.Values = append(parent.Values, rest...)
	for i := at; i < len(parent.Values); i++ {
		parent.Values[i].Parent = parent
		parent.Values[i].ParentIndex = i
	}
}
