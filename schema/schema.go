package schema

// Version is the Conflang language version a module declares.
type Version int

const (
	Version1 Version = iota + 1
	Version11
)

type NodeType int

const (
	ContainerNode NodeType = iota
	ListNode
	LeafNode
	LeafListNode
)

func (t NodeType) String() string {
	switch t {
	case ContainerNode:
		return "container"
	case ListNode:
		return "list"
	case LeafNode:
		return "leaf"
	case LeafListNode:
		return "leaf-list"
	default:
		return "<unknown node type>"
	}
}

type Flags uint16

const (
	// ConfigW marks a node as writable configuration.
	ConfigW Flags = 1 << iota
	// ConfigR marks a node as read-only state.
	ConfigR
	Mandatory
	Key
)

// Node is a compiled schema node.
type Node struct {
	Name     string
	Module   *Module
	Parent   *Node
	Children []*Node
	Type     NodeType
	Flags    Flags
	// Keys names the key leaves of a list node, in schema order.
	Keys []string
	Exts []*ExtensionInstance
}

// Child returns the direct child schema node with the given name, or nil.
func (n *Node) Child(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Path returns the schema path of n, e.g. "/mod:a/b".
func (n *Node) Path() string {
	if n.Parent == nil {
		return "/" + n.Module.Name + ":" + n.Name
	}
	return n.Parent.Path() + "/" + n.Name
}
