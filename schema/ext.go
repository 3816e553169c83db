package schema

// Stmt identifies the statement kind an extension instance is attached to.
type Stmt int

const (
	StmtContainer Stmt = iota
	StmtList
	StmtLeaf
	StmtLeafList
	StmtModule
)

// ExtensionDef identifies an extension by its defining module and name.
type ExtensionDef struct {
	Module   string
	Revision string
	Name     string
}

// ExtensionInstance is one compile-time occurrence of an extension.
type ExtensionInstance struct {
	Def *ExtensionDef
	// Argument is the extension's argument string, interned in the owning
	// context's dictionary by the compiler.
	Argument string
	// Module is the module in which the instance appears.
	Module *Module
	// Parent is the schema node the instance is attached to.
	Parent *Node
	// ParentStmt is the statement kind of Parent.
	ParentStmt Stmt
	// Data is plugin-owned state attached by the compile hook.
	Data any
}

func (e *ExtensionInstance) QualifiedName() string {
	return e.Def.Module + ":" + e.Def.Name
}

// CompileCtx is the slice of compiler state an extension compile hook may
// see: the module being compiled and the schema path of the statement under
// compilation, for error reporting.
type CompileCtx struct {
	Module   *Module
	NodePath string
}

func (c *CompileCtx) Path() string {
	return c.NodePath
}
