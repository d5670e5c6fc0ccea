// Package trace renders tokens and AST nodes as parenthesized text for
// the CLI's -debug flag, dispatched with the same type-switch style used
// throughout this module's AST handling.
package trace

import (
	"fmt"
	"strings"

	"golox/ast"
	"golox/token"
)

// Tokens formats a token stream one-per-line for a *log.Logger to print.
func Tokens(toks []token.Token) string {
	var b strings.Builder
	for _, t := range toks {
		fmt.Fprintf(&b, "%s\n", t.String())
	}
	return b.String()
}

// Stmts renders a parsed program as a parenthesized s-expression dump,
// one top-level statement per line.
func Stmts(stmts []ast.Stmt) string {
	var b strings.Builder
	for _, s := range stmts {
		b.WriteString(stmt(s))
		b.WriteString("\n")
	}
	return b.String()
}

func stmt(s ast.Stmt) string {
	switch n := s.(type) {
	case *ast.Block:
		parts := make([]string, len(n.Stmts))
		for i, sub := range n.Stmts {
			parts[i] = stmt(sub)
		}
		return parens("block", parts...)

	case *ast.Class:
		parts := []string{n.Name.Lexeme}
		if n.Superclass != nil {
			parts = append(parts, "<"+n.Superclass.Name.Lexeme)
		}
		for _, m := range n.Methods {
			parts = append(parts, stmt(m))
		}
		return parens("class", parts...)

	case *ast.Expression:
		return parens("expr", expr(n.Expr))

	case *ast.Function:
		names := make([]string, len(n.Params))
		for i, p := range n.Params {
			names[i] = p.Lexeme
		}
		return parens("fun", n.Name.Lexeme, "("+strings.Join(names, " ")+")")

	case *ast.If:
		if n.Else != nil {
			return parens("if", expr(n.Condition), stmt(n.Then), stmt(n.Else))
		}
		return parens("if", expr(n.Condition), stmt(n.Then))

	case *ast.Print:
		return parens("print", expr(n.Expr))

	case *ast.Assert:
		return parens("assert", expr(n.Expr))

	case *ast.Return:
		if n.Value == nil {
			return "(return)"
		}
		return parens("return", expr(n.Value))

	case *ast.Var:
		if n.Initializer == nil {
			return parens("var", n.Name.Lexeme)
		}
		return parens("var", n.Name.Lexeme, expr(n.Initializer))

	case *ast.While:
		if n.Increment != nil {
			return parens("while", expr(n.Condition), stmt(n.Body), expr(n.Increment))
		}
		return parens("while", expr(n.Condition), stmt(n.Body))

	case *ast.Break:
		return "(break)"

	case *ast.Continue:
		return "(continue)"

	default:
		return fmt.Sprintf("<unknown stmt %T>", s)
	}
}

func expr(e ast.Expr) string {
	switch n := e.(type) {
	case *ast.Assign:
		return parens("=", n.Name.Lexeme, expr(n.Value))
	case *ast.Binary:
		return parens(n.Operator.Lexeme, expr(n.Left), expr(n.Right))
	case *ast.Call:
		parts := []string{expr(n.Callee)}
		for _, a := range n.Args {
			parts = append(parts, expr(a))
		}
		return parens("call", parts...)
	case *ast.Get:
		return parens("get", expr(n.Object), n.Name.Lexeme)
	case *ast.Grouping:
		return parens("group", expr(n.Inner))
	case *ast.Literal:
		return fmt.Sprintf("%v", n.Value)
	case *ast.Logical:
		return parens(n.Operator.Lexeme, expr(n.Left), expr(n.Right))
	case *ast.Set:
		return parens("set", expr(n.Object), n.Name.Lexeme, expr(n.Value))
	case *ast.Super:
		return "super." + n.Method.Lexeme
	case *ast.This:
		return "this"
	case *ast.Unary:
		return parens(n.Operator.Lexeme, expr(n.Right))
	case *ast.Variable:
		return n.Name.Lexeme
	default:
		return fmt.Sprintf("<unknown expr %T>", e)
	}
}

func parens(head string, rest ...string) string {
	if len(rest) == 0 {
		return "(" + head + ")"
	}
	return "(" + head + " " + strings.Join(rest, " ") + ")"
}
