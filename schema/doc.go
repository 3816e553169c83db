// Package schema models compiled Conflang schemas: modules, their data
// nodes, and the contexts that own them.
//
// A Context is a closed universe. Data nodes never reference schema nodes
// outside their own context; moving data between contexts requires an
// explicit duplication that re-resolves schema references (see the ir
// package).
//
// The textual compiler that produces these structures lives outside this
// module. Extension plugins interact with compilation through
// ExtensionInstance and CompileCtx only.
package schema
