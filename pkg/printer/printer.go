// Package printer renders a syntax tree back to canonical source.
// Reparsing the output of Print yields a structurally identical tree:
// user parentheses survive as Grouping nodes, so no precedence
// reconstruction is needed, and for loops print in their desugared
// while form.
package printer

import (
	"strings"

	"github.com/timfan/golox/pkg/ast"
	"github.com/timfan/golox/pkg/token"
	"github.com/timfan/golox/pkg/value"
)

const indent = "  "

// Print renders statements as source text, one statement per line,
// nested bodies indented two spaces.
func Print(statements []ast.Stmt) string {
	lines := make([]string, len(statements))
	for i, stmt := range statements {
		lines[i] = formatStmt(stmt, 0)
	}
	return strings.Join(lines, "\n") + "\n"
}

func formatStmt(s ast.Stmt, depth int) string {
	prefix := strings.Repeat(indent, depth)
	switch stmt := s.(type) {
	case *ast.ExpressionStmt:
		return prefix + formatExpr(stmt.Expression, depth) + ";"
	case *ast.Print:
		return prefix + "print " + formatExpr(stmt.Expression, depth) + ";"
	case *ast.VarDecl:
		if stmt.Initializer == nil {
			return prefix + "var " + stmt.Name.Lexeme + ";"
		}
		return prefix + "var " + stmt.Name.Lexeme + " = " + formatExpr(stmt.Initializer, depth) + ";"
	case *ast.Function:
		return prefix + "fun " + stmt.Name.Lexeme + "(" + formatParams(stmt.Params) + ") {\n" +
			formatBody(stmt.Body, depth) + prefix + "}"
	case *ast.Block:
		return prefix + "{\n" + formatBody(stmt.Statements, depth) + prefix + "}"
	case *ast.If:
		out := prefix + "if (" + formatExpr(stmt.Condition, depth) + ")" + childStmt(stmt.Then, depth)
		if stmt.Else != nil {
			out += "\n" + prefix + "else" + childStmt(stmt.Else, depth)
		}
		return out
	case *ast.While:
		return prefix + "while (" + formatExpr(stmt.Condition, depth) + ")" + childStmt(stmt.Body, depth)
	case *ast.Return:
		if stmt.Value == nil {
			return prefix + "return;"
		}
		return prefix + "return " + formatExpr(stmt.Value, depth) + ";"
	case *ast.Break:
		return prefix + "break;"
	case *ast.Continue:
		return prefix + "continue;"
	}
	return ""
}

// childStmt attaches the body of an if or while: blocks open on the same
// line, single statements drop to the next line indented.
func childStmt(s ast.Stmt, depth int) string {
	prefix := strings.Repeat(indent, depth)
	if block, ok := s.(*ast.Block); ok {
		return " {\n" + formatBody(block.Statements, depth) + prefix + "}"
	}
	return "\n" + formatStmt(s, depth+1)
}

func formatBody(statements []ast.Stmt, depth int) string {
	var out strings.Builder
	for _, stmt := range statements {
		out.WriteString(formatStmt(stmt, depth+1))
		out.WriteString("\n")
	}
	return out.String()
}

func formatParams(params []token.Token) string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Lexeme
	}
	return strings.Join(names, ", ")
}

func formatExpr(e ast.Expr, depth int) string {
	switch expr := e.(type) {
	case *ast.Literal:
		if s, ok := expr.Value.(value.String); ok {
			// The language has no string escapes, so the interior is
			// emitted verbatim.
			return `"` + string(s) + `"`
		}
		return value.Stringify(expr.Value)
	case *ast.Grouping:
		return "(" + formatExpr(expr.Expression, depth) + ")"
	case *ast.Variable:
		return expr.Name.Lexeme
	case *ast.Assign:
		return expr.Name.Lexeme + " = " + formatExpr(expr.Value, depth)
	case *ast.Binary:
		return formatExpr(expr.Left, depth) + " " + expr.Operator.Lexeme + " " + formatExpr(expr.Right, depth)
	case *ast.Logic:
		return formatExpr(expr.Left, depth) + " " + expr.Operator.Lexeme + " " + formatExpr(expr.Right, depth)
	case *ast.Unary:
		return expr.Operator.Lexeme + formatExpr(expr.Right, depth)
	case *ast.Call:
		args := make([]string, len(expr.Args))
		for i, a := range expr.Args {
			args[i] = formatExpr(a, depth)
		}
		return formatExpr(expr.Callee, depth) + "(" + strings.Join(args, ", ") + ")"
	case *ast.Subscript:
		return formatExpr(expr.Target, depth) + "[" + formatExpr(expr.Index, depth) + "]"
	case *ast.SubscriptAssign:
		return formatExpr(expr.Target, depth) + "[" + formatExpr(expr.Index, depth) + "] = " +
			formatExpr(expr.Value, depth)
	case *ast.ArrayLit:
		elems := make([]string, len(expr.Elements))
		for i, el := range expr.Elements {
			elems[i] = formatExpr(el, depth)
		}
		return "[" + strings.Join(elems, ", ") + "]"
	case *ast.DictLit:
		if len(expr.Entries) == 0 {
			return "{}"
		}
		pairs := make([]string, 0, len(expr.Entries)/2)
		for i := 0; i+1 < len(expr.Entries); i += 2 {
			pairs = append(pairs, formatExpr(expr.Entries[i], depth)+": "+formatExpr(expr.Entries[i+1], depth))
		}
		return "{" + strings.Join(pairs, ", ") + "}"
	case *ast.Lambda:
		prefix := strings.Repeat(indent, depth)
		return "lambda (" + formatParams(expr.Fn.Params) + ") => {\n" +
			formatBody(expr.Fn.Body, depth) + prefix + "}"
	}
	return ""
}
