// Package ir is the data-instance tree representation.
//
// Nodes may be bound to compiled schema nodes (Node.Schema) or left
// unbound for plain documents such as operational state retrieved from an
// external source. Trees bound to different schema contexts never share
// nodes; DupToContext performs the explicit boundary crossing.
package ir
