// Package interpreter evaluates a resolved Lox program by walking the
// tree directly, without a bytecode compilation step.
package interpreter

import (
	"fmt"

	"golox/ast"
	"golox/internal/reporter"
	"golox/object"
	"golox/resolver"
	"golox/token"
	"golox/value"
)

// Interpreter holds the mutable state of one evaluation run: the fixed
// global environment, the environment currently in scope, the call stack
// (for error reporting), and the resolver's binding-distance table.
type Interpreter struct {
	rep     *reporter.Reporter
	globals *object.Environment
	env     *object.Environment
	locals  resolver.Locals

	callStack []string
}

// New creates an Interpreter with the native functions bound in the
// global environment, ready to run a resolved program's statements.
// enabled filters which natives get bound (nil means all of them); a
// project manifest's natives: toggle map is the only source of a filter
// today (see internal/manifest.Manifest.NativeEnabled).
func New(rep *reporter.Reporter, locals resolver.Locals, enabled func(name string) bool) *Interpreter {
	globals := object.NewEnvironment(nil)
	for _, fn := range object.Natives {
		if enabled != nil && !enabled(fn.Name) {
			continue
		}
		globals.Define(fn.Name, fn)
	}
	return &Interpreter{
		rep:       rep,
		globals:   globals,
		env:       globals,
		locals:    locals,
		callStack: []string{"<script>"},
	}
}

// returnSignal unwinds from a return statement to the enclosing call.
type returnSignal struct{ Value value.Value }

// breakSignal and continueSignal unwind from their statement to the
// nearest enclosing while loop.
type breakSignal struct{}
type continueSignal struct{}

// runtimeSignal marks a panic whose message has already been reported
// through the Reporter; Interpret's top-level recover just swallows it.
type runtimeSignal struct{}

// Interpret executes a sequence of top-level statements. A runtime error
// anywhere in the program unwinds here and is reported through rep; it
// does not panic out to the caller.
func (i *Interpreter) Interpret(stmts []ast.Stmt) {
	defer func() {
		r := recover()
		switch r.(type) {
		case nil, runtimeSignal:
		default:
			panic(r)
		}
	}()

	for _, s := range stmts {
		i.execute(s)
	}
}

// --- statements ---------------------------------------------------------

func (i *Interpreter) execute(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.Block:
		i.executeBlock(s.Stmts, object.NewEnvironment(i.env))

	case *ast.Class:
		i.execClass(s)

	case *ast.Expression:
		i.evaluate(s.Expr)

	case *ast.Function:
		fn := object.NewFunction(s, i.env, false)
		i.env.Define(s.Name.Lexeme, fn)

	case *ast.If:
		if value.Truthy(i.evaluate(s.Condition)) {
			i.execute(s.Then)
		} else if s.Else != nil {
			i.execute(s.Else)
		}

	case *ast.Print:
		fmt.Fprintf(i.rep.Out, "%s\n", i.evaluate(s.Expr).String())

	case *ast.Assert:
		if !value.Truthy(i.evaluate(s.Expr)) {
			panic(i.makeError(s.Keyword, "Assertion failure."))
		}

	case *ast.Return:
		var v value.Value = value.Nil{}
		if s.Value != nil {
			v = i.evaluate(s.Value)
		}
		panic(returnSignal{Value: v})

	case *ast.Break:
		panic(breakSignal{})

	case *ast.Continue:
		panic(continueSignal{})

	case *ast.Var:
		var v value.Value = value.Nil{}
		if s.Initializer != nil {
			v = i.evaluate(s.Initializer)
		}
		i.env.Define(s.Name.Lexeme, v)

	case *ast.While:
		i.execWhile(s)

	default:
		panic(fmt.Sprintf("interpreter: unhandled statement node %T", s))
	}
}

func (i *Interpreter) executeBlock(stmts []ast.Stmt, env *object.Environment) {
	outer := i.env
	i.env = env
	defer func() { i.env = outer }()

	for _, s := range stmts {
		i.execute(s)
	}
}

// execWhile runs s.Body each iteration; a continueSignal stops the body
// early but still falls through to s.Increment (set when this While is a
// desugared for-loop), while a breakSignal exits without running it.
func (i *Interpreter) execWhile(s *ast.While) {
	for value.Truthy(i.evaluate(s.Condition)) {
		brk := func() (brk bool) {
			defer func() {
				r := recover()
				switch r.(type) {
				case nil:
				case breakSignal:
					brk = true
				case continueSignal:
				default:
					panic(r)
				}
			}()
			i.execute(s.Body)
			return false
		}()
		if brk {
			break
		}
		if s.Increment != nil {
			i.evaluate(s.Increment)
		}
	}
}

func (i *Interpreter) execClass(s *ast.Class) {
	var superclass *object.Class
	if s.Superclass != nil {
		sup := i.lookupVariable(s.Superclass, s.Superclass.Name)
		sc, ok := sup.(*object.Class)
		if !ok {
			panic(i.makeError(s.Superclass.Name, "Superclass must be a class."))
		}
		superclass = sc
	}

	classEnv := i.env
	if superclass != nil {
		classEnv = object.NewEnvironment(i.env)
		classEnv.Define("super", superclass)
	}

	methods := make(map[string]*object.Function, len(s.Methods))
	for _, m := range s.Methods {
		methods[m.Name.Lexeme] = object.NewFunction(m, classEnv, m.Name.Lexeme == "init")
	}

	class := object.NewClass(s.Name.Lexeme, superclass, methods)
	i.env.Define(s.Name.Lexeme, class)
}

// --- expressions ---------------------------------------------------------

func (i *Interpreter) evaluate(expr ast.Expr) value.Value {
	switch e := expr.(type) {
	case *ast.Literal:
		return literalValue(e.Value)

	case *ast.Grouping:
		return i.evaluate(e.Inner)

	case *ast.Variable:
		return i.lookupVariable(e, e.Name)

	case *ast.Assign:
		v := i.evaluate(e.Value)
		i.assignVariable(e, e.Name, v)
		return v

	case *ast.Unary:
		return i.evalUnary(e)

	case *ast.Binary:
		return i.evalBinary(e)

	case *ast.Logical:
		return i.evalLogical(e)

	case *ast.Call:
		return i.evalCall(e)

	case *ast.Get:
		return i.evalGet(e)

	case *ast.Set:
		return i.evalSet(e)

	case *ast.This:
		return i.lookupVariable(e, e.Keyword)

	case *ast.Super:
		return i.evalSuper(e)

	default:
		panic(fmt.Sprintf("interpreter: unhandled expression node %T", e))
	}
}

func literalValue(v any) value.Value {
	switch t := v.(type) {
	case nil:
		return value.Nil{}
	case bool:
		return value.Boolean(t)
	case float64:
		return value.Number(t)
	case string:
		return value.String(t)
	default:
		panic(fmt.Sprintf("interpreter: literal of unexpected Go type %T", v))
	}
}

func (i *Interpreter) evalUnary(e *ast.Unary) value.Value {
	right := i.evaluate(e.Right)
	switch e.Operator.Kind {
	case token.BANG:
		return value.Boolean(!value.Truthy(right))
	case token.MINUS:
		if v, ok := value.Negate(right); ok {
			return v
		}
		panic(i.makeError(e.Operator, "Operand must be a number."))
	default:
		panic("interpreter: invalid unary operator")
	}
}

func (i *Interpreter) evalBinary(e *ast.Binary) value.Value {
	left := i.evaluate(e.Left)
	right := i.evaluate(e.Right)

	switch e.Operator.Kind {
	case token.PLUS:
		if v, ok := value.Add(left, right); ok {
			return v
		}
		panic(i.makeError(e.Operator, "Operands must be two numbers or two strings."))

	case token.MINUS:
		if v, ok := value.Sub(left, right); ok {
			return v
		}
		panic(i.makeError(e.Operator, "Operands must be numbers."))

	case token.STAR:
		if v, ok := value.Mul(left, right); ok {
			return v
		}
		panic(i.makeError(e.Operator, "Operands must be numbers."))

	case token.SLASH:
		v, ok, divByZero := value.Div(left, right)
		if divByZero {
			panic(i.makeError(e.Operator, "Cannot divide by zero."))
		}
		if !ok {
			panic(i.makeError(e.Operator, "Operands must be numbers."))
		}
		return v

	case token.LESS:
		if v, ok := value.Less(left, right); ok {
			return v
		}
		panic(i.makeError(e.Operator, "Operands must be numbers."))

	case token.GREATER:
		if v, ok := value.Greater(left, right); ok {
			return v
		}
		panic(i.makeError(e.Operator, "Operands must be numbers."))

	case token.LESS_EQUAL:
		v, ok := value.Less(right, left)
		if !ok {
			panic(i.makeError(e.Operator, "Operands must be numbers."))
		}
		return value.Boolean(!bool(v.(value.Boolean)))

	case token.GREATER_EQUAL:
		v, ok := value.Less(left, right)
		if !ok {
			panic(i.makeError(e.Operator, "Operands must be numbers."))
		}
		return value.Boolean(!bool(v.(value.Boolean)))

	case token.EQUAL_EQUAL:
		return value.Boolean(value.Equal(left, right))

	case token.BANG_EQUAL:
		return value.Boolean(!value.Equal(left, right))

	default:
		panic("interpreter: invalid binary operator")
	}
}

func (i *Interpreter) evalLogical(e *ast.Logical) value.Value {
	left := i.evaluate(e.Left)
	switch e.Operator.Kind {
	case token.OR:
		if value.Truthy(left) {
			return left
		}
	case token.AND:
		if !value.Truthy(left) {
			return left
		}
	default:
		panic("interpreter: invalid logical operator")
	}
	return i.evaluate(e.Right)
}

func (i *Interpreter) evalCall(e *ast.Call) value.Value {
	callee := i.evaluate(e.Callee)

	args := make([]value.Value, len(e.Args))
	for idx, a := range e.Args {
		args[idx] = i.evaluate(a)
	}

	switch fn := callee.(type) {
	case *object.Function:
		return i.callFunction(fn, args, e.Paren)

	case *object.NativeFunction:
		if len(args) != fn.Arity() {
			panic(i.makeError(e.Paren, "Expected %d arguments but got %d.", fn.Arity(), len(args)))
		}
		result, err := fn.Fn(args)
		if err != nil {
			panic(i.makeError(e.Paren, "%s", err.Error()))
		}
		return result

	case *object.Class:
		return i.instantiate(fn, args, e.Paren)

	default:
		panic(i.makeError(e.Paren, "Can only call functions and classes."))
	}
}

func (i *Interpreter) callFunction(fn *object.Function, args []value.Value, paren token.Token) value.Value {
	if len(args) != fn.Arity() {
		panic(i.makeError(paren, "Expected %d arguments but got %d.", fn.Arity(), len(args)))
	}

	env := object.NewEnvironment(fn.Enclosing)
	for idx, param := range fn.Declaration.Params {
		env.Define(param.Lexeme, args[idx])
	}

	i.callStack = append(i.callStack, fn.Declaration.Name.Lexeme)
	defer func() { i.callStack = i.callStack[:len(i.callStack)-1] }()

	result := value.Value(value.Nil{})
	func() {
		defer func() {
			switch r := recover().(type) {
			case nil:
			case returnSignal:
				result = r.Value
			default:
				panic(r)
			}
		}()
		i.executeBlock(fn.Declaration.Body, env)
	}()

	if fn.IsInitializer {
		this, _ := fn.Enclosing.Get("this")
		return this
	}
	return result
}

func (i *Interpreter) instantiate(class *object.Class, args []value.Value, paren token.Token) value.Value {
	instance := object.NewInstance(class)
	if init, ok := class.FindMethod("init"); ok {
		i.callFunction(init.Bind(instance), args, paren)
	} else if len(args) != 0 {
		panic(i.makeError(paren, "Expected 0 arguments but got %d.", len(args)))
	}
	return instance
}

func (i *Interpreter) evalGet(e *ast.Get) value.Value {
	obj := i.evaluate(e.Object)
	instance, ok := obj.(*object.Instance)
	if !ok {
		panic(i.makeError(e.Name, "Only instances have properties."))
	}
	v, ok := instance.Get(e.Name.Lexeme)
	if !ok {
		panic(i.makeError(e.Name, "Undefined property '%s'.", e.Name.Lexeme))
	}
	return v
}

func (i *Interpreter) evalSet(e *ast.Set) value.Value {
	obj := i.evaluate(e.Object)
	instance, ok := obj.(*object.Instance)
	if !ok {
		panic(i.makeError(e.Name, "Only instances have fields."))
	}
	v := i.evaluate(e.Value)
	instance.Set(e.Name.Lexeme, v)
	return v
}

func (i *Interpreter) evalSuper(e *ast.Super) value.Value {
	distance := i.locals[e]
	sup, _ := i.env.Ancestor(distance).Get("super")
	superclass := sup.(*object.Class)

	this, _ := i.env.Ancestor(distance - 1).Get("this")
	instance := this.(*object.Instance)

	method, ok := superclass.FindMethod(e.Method.Lexeme)
	if !ok {
		panic(i.makeError(e.Method, "Undefined property '%s'.", e.Method.Lexeme))
	}
	return method.Bind(instance)
}

// --- variable resolution --------------------------------------------------

func (i *Interpreter) lookupVariable(node any, name token.Token) value.Value {
	if distance, ok := i.locals[node]; ok {
		v, ok := i.env.Ancestor(distance).Get(name.Lexeme)
		if !ok {
			panic(i.makeError(name, "Undefined variable '%s'.", name.Lexeme))
		}
		return v
	}
	v, ok := i.globals.Get(name.Lexeme)
	if !ok {
		panic(i.makeError(name, "Undefined variable '%s'.", name.Lexeme))
	}
	return v
}

func (i *Interpreter) assignVariable(node any, name token.Token, v value.Value) {
	if distance, ok := i.locals[node]; ok {
		i.env.Ancestor(distance).Assign(name.Lexeme, v)
		return
	}
	if !i.globals.Assign(name.Lexeme, v) {
		panic(i.makeError(name, "Undefined variable '%s'.", name.Lexeme))
	}
}

// --- error reporting -------------------------------------------------------

// makeError reports a runtime error at tok, with the active call stack as
// a trace, and returns the signal to panic with so the message is not
// reported twice as the panic unwinds.
func (i *Interpreter) makeError(tok token.Token, format string, args ...any) runtimeSignal {
	i.rep.RuntimeError(tok.Line, tok.Column, fmt.Sprintf(format, args...))
	for j := len(i.callStack) - 1; j >= 0; j-- {
		fmt.Fprintf(i.rep.Err, "    in %s\n", i.callStack[j])
	}
	return runtimeSignal{}
}
