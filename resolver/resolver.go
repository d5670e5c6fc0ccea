// Package resolver implements the single pre-evaluation static-analysis
// pass that walks a parsed program and assigns each variable-use
// expression a lexical scope distance, as its own pass over the
// finished tree rather than bookkeeping interleaved with parsing.
package resolver

import (
	"golox/ast"
	"golox/internal/reporter"
)

// Locals is the resolver's side-table: a mapping keyed by expression
// identity (pointer identity, since every name-use node is heap-allocated
// exactly once by the parser) to a non-negative scope distance. Absence
// means "resolve against globals."
type Locals map[any]int

type functionKind uint8

const (
	fnNone functionKind = iota
	fnFunction
	fnMethod
	fnInitializer
)

type classKind uint8

const (
	classNone classKind = iota
	classClass
	classSubclass
)

// scope maps a name to whether its declaration has finished initializing;
// false means "declared but not yet defined".
type scope map[string]bool

// Resolver walks a parsed program and builds its Locals side-table,
// flagging static errors along the way without aborting early so callers
// see every violation in one pass.
type Resolver struct {
	rep    *reporter.Reporter
	locals Locals
	scopes []scope

	currentFunction functionKind
	currentClass    classKind
	loopDepth       int
}

// New creates a Resolver reporting static errors through rep.
func New(rep *reporter.Reporter) *Resolver {
	return &Resolver{rep: rep, locals: make(Locals)}
}

// Resolve walks the whole program and returns the completed side-table.
func (r *Resolver) Resolve(stmts []ast.Stmt) Locals {
	r.resolveStmts(stmts)
	return r.locals
}

// --- scope management ---------------------------------------------------

func (r *Resolver) push()  { r.scopes = append(r.scopes, scope{}) }
func (r *Resolver) pop()   { r.scopes = r.scopes[:len(r.scopes)-1] }
func (r *Resolver) inGlobal() bool { return len(r.scopes) == 0 }

func (r *Resolver) declare(name string, line, col int) {
	if r.inGlobal() {
		return
	}
	s := r.scopes[len(r.scopes)-1]
	if _, exists := s[name]; exists {
		r.rep.ResolveError(line, col, "Already a variable with this name in this scope.")
	}
	s[name] = false
}

func (r *Resolver) define(name string) {
	if r.inGlobal() {
		return
	}
	r.scopes[len(r.scopes)-1][name] = true
}

// resolveLocal walks the scope stack from innermost outward; on the first
// hit it records the distance in the side-table. No hit leaves the node
// absent from Locals, meaning "resolve against globals" at runtime.
func (r *Resolver) resolveLocal(node any, name string) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name]; ok {
			r.locals[node] = len(r.scopes) - 1 - i
			return
		}
	}
}

// --- statements -----------------------------------------------------

func (r *Resolver) resolveStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *Resolver) resolveStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.Block:
		r.push()
		r.resolveStmts(s.Stmts)
		r.pop()

	case *ast.Var:
		tok := varToken(s)
		r.declare(s.Name.Lexeme, tok.Line, tok.Column)
		if s.Initializer != nil {
			r.resolveExpr(s.Initializer)
		}
		r.define(s.Name.Lexeme)

	case *ast.Function:
		r.declare(s.Name.Lexeme, s.Name.Line, s.Name.Column)
		r.define(s.Name.Lexeme)
		r.resolveFunction(s, fnFunction)

	case *ast.Class:
		r.resolveClass(s)

	case *ast.Expression:
		r.resolveExpr(s.Expr)

	case *ast.If:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.Then)
		if s.Else != nil {
			r.resolveStmt(s.Else)
		}

	case *ast.Print:
		r.resolveExpr(s.Expr)

	case *ast.Assert:
		r.resolveExpr(s.Expr)

	case *ast.Return:
		if r.currentFunction == fnNone {
			r.rep.ResolveError(s.Keyword.Line, s.Keyword.Column, "Can't return from top-level code.")
		}
		if s.Value != nil {
			if r.currentFunction == fnInitializer {
				r.rep.ResolveError(s.Keyword.Line, s.Keyword.Column, "Can't return a value from an initializer.")
			}
			r.resolveExpr(s.Value)
		}

	case *ast.While:
		r.loopDepth++
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.Body)
		if s.Increment != nil {
			r.resolveExpr(s.Increment)
		}
		r.loopDepth--

	case *ast.Break:
		if r.loopDepth == 0 {
			r.rep.ResolveError(s.Keyword.Line, s.Keyword.Column, "Can't use 'break' outside of a loop.")
		}

	case *ast.Continue:
		if r.loopDepth == 0 {
			r.rep.ResolveError(s.Keyword.Line, s.Keyword.Column, "Can't use 'continue' outside of a loop.")
		}

	default:
		panic("resolver: unhandled statement node")
	}
}

// varToken extracts the token used for error position reporting on a Var
// declaration (kept as a tiny helper so resolveStmt reads linearly).
func varToken(s *ast.Var) struct{ Line, Column int } {
	return struct{ Line, Column int }{s.Name.Line, s.Name.Column}
}

func (r *Resolver) resolveFunction(fn *ast.Function, kind functionKind) {
	enclosingFunction := r.currentFunction
	r.currentFunction = kind
	defer func() { r.currentFunction = enclosingFunction }()

	enclosingLoopDepth := r.loopDepth
	r.loopDepth = 0
	defer func() { r.loopDepth = enclosingLoopDepth }()

	r.push()
	defer r.pop()

	for _, param := range fn.Params {
		r.declare(param.Lexeme, param.Line, param.Column)
		r.define(param.Lexeme)
	}
	r.resolveStmts(fn.Body)
}

func (r *Resolver) resolveClass(c *ast.Class) {
	enclosingClass := r.currentClass
	r.currentClass = classClass
	defer func() { r.currentClass = enclosingClass }()

	r.declare(c.Name.Lexeme, c.Name.Line, c.Name.Column)
	r.define(c.Name.Lexeme)

	if c.Superclass != nil {
		if c.Superclass.Name.Lexeme == c.Name.Lexeme {
			r.rep.ResolveError(c.Superclass.Name.Line, c.Superclass.Name.Column, "A class can't inherit from itself.")
		} else {
			r.currentClass = classSubclass
			r.resolveExpr(c.Superclass)
		}

		r.push()
		r.scopes[len(r.scopes)-1]["super"] = true
		defer r.pop()
	}

	r.push()
	r.scopes[len(r.scopes)-1]["this"] = true
	defer r.pop()

	for _, method := range c.Methods {
		kind := fnMethod
		if method.Name.Lexeme == "init" {
			kind = fnInitializer
		}
		r.resolveFunction(method, kind)
	}
}

// --- expressions ------------------------------------------------------

func (r *Resolver) resolveExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.Variable:
		if !r.inGlobal() {
			if defined, ok := r.scopes[len(r.scopes)-1][e.Name.Lexeme]; ok && !defined {
				r.rep.ResolveError(e.Name.Line, e.Name.Column, "Can't read local variable in its own initializer.")
			}
		}
		r.resolveLocal(e, e.Name.Lexeme)

	case *ast.Assign:
		r.resolveExpr(e.Value)
		r.resolveLocal(e, e.Name.Lexeme)

	case *ast.Binary:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)

	case *ast.Call:
		r.resolveExpr(e.Callee)
		for _, a := range e.Args {
			r.resolveExpr(a)
		}

	case *ast.Get:
		r.resolveExpr(e.Object)

	case *ast.Set:
		r.resolveExpr(e.Value)
		r.resolveExpr(e.Object)

	case *ast.Grouping:
		r.resolveExpr(e.Inner)

	case *ast.Literal:
		// Nothing to resolve.

	case *ast.Logical:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)

	case *ast.Unary:
		r.resolveExpr(e.Right)

	case *ast.This:
		if r.currentClass == classNone {
			r.rep.ResolveError(e.Keyword.Line, e.Keyword.Column, "Can't use 'this' outside of a class.")
			return
		}
		r.resolveLocal(e, "this")

	case *ast.Super:
		switch r.currentClass {
		case classNone:
			r.rep.ResolveError(e.Keyword.Line, e.Keyword.Column, "Can't use 'super' outside of a class.")
			return
		case classClass:
			r.rep.ResolveError(e.Keyword.Line, e.Keyword.Column, "Can't use 'super' in a class with no superclass.")
			return
		}
		r.resolveLocal(e, "super")

	default:
		panic("resolver: unhandled expression node")
	}
}
