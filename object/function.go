package object

import (
	"fmt"

	"golox/ast"
)

// Function is a user-defined Lox function or method. Enclosing is the
// environment active when the function was declared — capturing it is
// what makes closures work.
type Function struct {
	Declaration   *ast.Function
	Enclosing     *Environment
	IsInitializer bool
}

func NewFunction(decl *ast.Function, enclosing *Environment, isInitializer bool) *Function {
	return &Function{Declaration: decl, Enclosing: enclosing, IsInitializer: isInitializer}
}

func (*Function) IsValue() {}

func (f *Function) String() string {
	return fmt.Sprintf("<fn %s>", f.Declaration.Name.Lexeme)
}

func (f *Function) Arity() int { return len(f.Declaration.Params) }

// Bind produces a fresh function whose closure has an extra scope binding
// "this" to instance.
func (f *Function) Bind(instance *Instance) *Function {
	env := NewEnvironment(f.Enclosing)
	env.Define("this", instance)
	return NewFunction(f.Declaration, env, f.IsInitializer)
}
