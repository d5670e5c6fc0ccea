package resolver_test

import (
	"bytes"
	"testing"

	"golox/ast"
	"golox/internal/reporter"
	"golox/parser"
	"golox/resolver"
)

func resolve(t *testing.T, source string) (resolver.Locals, []ast.Stmt, *reporter.Reporter) {
	t.Helper()
	var out, errOut bytes.Buffer
	rep := reporter.New(&out, &errOut)
	stmts := parser.New(source, rep).Parse()
	if rep.HadError {
		t.Fatalf("unexpected parse error: %s", errOut.String())
	}
	locals := resolver.New(rep).Resolve(stmts)
	return locals, stmts, rep
}

func TestResolveOwnInitializerIsError(t *testing.T) {
	_, _, rep := resolve(t, "var a = 1; { var a = a; }")
	if !rep.HadError {
		t.Fatal("expected a resolve error for reading a local in its own initializer")
	}
}

func TestResolveRedeclarationInSameScopeIsError(t *testing.T) {
	_, _, rep := resolve(t, "{ var a = 1; var a = 2; }")
	if !rep.HadError {
		t.Fatal("expected a resolve error for redeclaring a name in the same scope")
	}
}

func TestResolveTopLevelRedeclarationIsFine(t *testing.T) {
	// Globals aren't tracked in a scope — declare/define are no-ops at
	// global scope — so redefinition at the top level is legal.
	_, _, rep := resolve(t, "var a = 1; var a = 2;")
	if rep.HadError {
		t.Fatal("did not expect a resolve error for top-level redeclaration")
	}
}

func TestResolveReturnOutsideFunctionIsError(t *testing.T) {
	_, _, rep := resolve(t, "return 1;")
	if !rep.HadError {
		t.Fatal("expected a resolve error for top-level return")
	}
}

func TestResolveReturnValueFromInitializerIsError(t *testing.T) {
	_, _, rep := resolve(t, "class A { init() { return 1; } }")
	if !rep.HadError {
		t.Fatal("expected a resolve error for returning a value from init")
	}
}

func TestResolveBareReturnFromInitializerIsFine(t *testing.T) {
	_, _, rep := resolve(t, "class A { init() { return; } }")
	if rep.HadError {
		t.Fatal("did not expect a resolve error for a bare return in init")
	}
}

func TestResolveThisOutsideClassIsError(t *testing.T) {
	_, _, rep := resolve(t, "print this;")
	if !rep.HadError {
		t.Fatal("expected a resolve error for 'this' outside a class")
	}
}

func TestResolveSuperWithoutSuperclassIsError(t *testing.T) {
	_, _, rep := resolve(t, "class A { f() { super.f(); } }")
	if !rep.HadError {
		t.Fatal("expected a resolve error for 'super' in a class with no superclass")
	}
}

func TestResolveClassInheritingFromItselfIsError(t *testing.T) {
	_, _, rep := resolve(t, "class A < A {}")
	if !rep.HadError {
		t.Fatal("expected a resolve error for a class inheriting from itself")
	}
}

func TestResolveBreakOutsideLoopIsError(t *testing.T) {
	_, _, rep := resolve(t, "break;")
	if !rep.HadError {
		t.Fatal("expected a resolve error for top-level break")
	}
}

func TestResolveContinueOutsideLoopIsError(t *testing.T) {
	_, _, rep := resolve(t, "continue;")
	if !rep.HadError {
		t.Fatal("expected a resolve error for top-level continue")
	}
}

func TestResolveBreakInsideFunctionOutsideLoopIsError(t *testing.T) {
	_, _, rep := resolve(t, `
for (var i = 0; i < 3; i = i + 1) {
  fun f() { break; }
}
`)
	if !rep.HadError {
		t.Fatal("expected a resolve error for break in a function nested in a loop but not lexically inside it")
	}
}

func TestResolveBreakInsideLoopIsFine(t *testing.T) {
	_, _, rep := resolve(t, "while (true) { break; }")
	if rep.HadError {
		t.Fatal("did not expect a resolve error for break inside a loop")
	}
}

func TestResolveDistanceForClosure(t *testing.T) {
	locals, stmts, rep := resolve(t, `
fun make() {
  var i = 0;
  fun tick() {
    i = i + 1;
    return i;
  }
  return tick;
}
`)
	if rep.HadError {
		t.Fatal("unexpected resolve error")
	}

	make_ := stmts[0].(*ast.Function)
	tick := make_.Body[1].(*ast.Function)
	// Inside tick, `i = i + 1` assigns a variable one scope out (tick's
	// own scope is innermost, make's is the enclosing one).
	assign := tick.Body[0].(*ast.Expression).Expr.(*ast.Assign)
	if dist, ok := locals[assign]; !ok || dist != 1 {
		t.Errorf("distance for assignment to 'i' = %v (ok=%v), want 1", dist, ok)
	}
}
