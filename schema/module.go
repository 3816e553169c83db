package schema

// Module is a compiled Conflang module.
type Module struct {
	Name     string
	Revision string
	Ctx      *Context
	// Implemented modules contribute data nodes; others are imported for
	// types and groupings only.
	Implemented bool
	Version     Version
	// Data holds the compiled top-level data nodes.
	Data []*Node
}

// Walk runs f on every compiled data node of m in depth-first order.
// A non-nil error from f stops the walk and is returned.
func (m *Module) Walk(f func(n *Node) error) error {
	for _, root := range m.Data {
		if err := walk(root, f); err != nil {
			return err
		}
	}
	return nil
}

func walk(n *Node, f func(n *Node) error) error {
	if err := f(n); err != nil {
		return err
	}
	for _, c := range n.Children {
		if err := walk(c, f); err != nil {
			return err
		}
	}
	return nil
}
