package parser_test

import (
	"bytes"
	"testing"

	"golox/ast"
	"golox/internal/reporter"
	"golox/parser"
)

func parse(t *testing.T, source string) ([]ast.Stmt, *reporter.Reporter) {
	t.Helper()
	var out, errOut bytes.Buffer
	rep := reporter.New(&out, &errOut)
	p := parser.New(source, rep)
	return p.Parse(), rep
}

func TestParsePrecedence(t *testing.T) {
	stmts, rep := parse(t, "print 1 + 2 * 3;")
	if rep.HadError {
		t.Fatalf("unexpected parse error")
	}
	if len(stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(stmts))
	}
	print, ok := stmts[0].(*ast.Print)
	if !ok {
		t.Fatalf("expected *ast.Print, got %T", stmts[0])
	}
	bin, ok := print.Expr.(*ast.Binary)
	if !ok || bin.Operator.Lexeme != "+" {
		t.Fatalf("expected top-level '+', got %#v", print.Expr)
	}
	rhs, ok := bin.Right.(*ast.Binary)
	if !ok || rhs.Operator.Lexeme != "*" {
		t.Fatalf("expected right operand to be '*', got %#v", bin.Right)
	}
}

func TestParseAssignmentTargets(t *testing.T) {
	stmts, rep := parse(t, "a = 1; a.b = 2;")
	if rep.HadError {
		t.Fatalf("unexpected parse error")
	}
	if _, ok := stmts[0].(*ast.Expression).Expr.(*ast.Assign); !ok {
		t.Errorf("expected Assign for 'a = 1;'")
	}
	if _, ok := stmts[1].(*ast.Expression).Expr.(*ast.Set); !ok {
		t.Errorf("expected Set for 'a.b = 2;'")
	}
}

func TestParseInvalidAssignmentTargetRecovers(t *testing.T) {
	stmts, rep := parse(t, "1 = 2; print 3;")
	if !rep.HadError {
		t.Fatal("expected a parse error for an invalid assignment target")
	}
	// Parsing must continue past the error: the print
	// statement that follows is still produced.
	found := false
	for _, s := range stmts {
		if _, ok := s.(*ast.Print); ok {
			found = true
		}
	}
	if !found {
		t.Error("expected parsing to continue past the invalid assignment and still parse the print statement")
	}
}

func TestParseForDesugarsToWhile(t *testing.T) {
	stmts, rep := parse(t, "for (var i = 0; i < 3; i = i + 1) print i;")
	if rep.HadError {
		t.Fatalf("unexpected parse error")
	}
	block, ok := stmts[0].(*ast.Block)
	if !ok || len(block.Stmts) != 2 {
		t.Fatalf("expected a 2-statement block (init, while), got %#v", stmts[0])
	}
	if _, ok := block.Stmts[0].(*ast.Var); !ok {
		t.Errorf("expected first desugared statement to be the initializer Var, got %T", block.Stmts[0])
	}
	while, ok := block.Stmts[1].(*ast.While)
	if !ok {
		t.Fatalf("expected second desugared statement to be While, got %T", block.Stmts[1])
	}
	if _, ok := while.Body.(*ast.Print); !ok {
		t.Errorf("expected while body to be the loop's print statement, got %T", while.Body)
	}
	if while.Increment == nil {
		t.Error("expected the increment clause to be attached to the While node")
	}
}

func TestParseClassWithSuperclass(t *testing.T) {
	stmts, rep := parse(t, "class B < A { f() { return 1; } }")
	if rep.HadError {
		t.Fatalf("unexpected parse error")
	}
	class, ok := stmts[0].(*ast.Class)
	if !ok {
		t.Fatalf("expected *ast.Class, got %T", stmts[0])
	}
	if class.Superclass == nil || class.Superclass.Name.Lexeme != "A" {
		t.Errorf("expected superclass A, got %#v", class.Superclass)
	}
	if len(class.Methods) != 1 || class.Methods[0].Name.Lexeme != "f" {
		t.Errorf("expected one method 'f', got %#v", class.Methods)
	}
}

func TestParseSynchronizeAfterError(t *testing.T) {
	// The malformed declaration ("var ;") is dropped; parsing resumes at
	// the next statement rather than aborting the whole program.
	stmts, rep := parse(t, "var ; print 1;")
	if !rep.HadError {
		t.Fatal("expected a parse error")
	}
	var sawPrint bool
	for _, s := range stmts {
		if _, ok := s.(*ast.Print); ok {
			sawPrint = true
		}
	}
	if !sawPrint {
		t.Error("expected synchronize to recover and still parse the trailing print statement")
	}
}

func TestParseTooManyArguments(t *testing.T) {
	var b bytes.Buffer
	for i := 0; i < 256; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("1")
	}
	_, rep := parse(t, "f("+b.String()+");")
	if !rep.HadError {
		t.Fatal("expected an error for more than 255 arguments")
	}
}
