// Package resolver performs the static analysis pass between parsing and
// evaluation. It walks the tree with a stack of lexical scopes, reports
// scope errors, and records for each non-global variable use the number
// of environment hops between the use site and its declaration.
package resolver

import (
	"github.com/timfan/golox/pkg/ast"
	"github.com/timfan/golox/pkg/diagnostics"
	"github.com/timfan/golox/pkg/token"
)

// ResolutionMap maps Variable and Assign nodes to their lexical depth.
// Nodes that resolve to globals are absent.
type ResolutionMap map[ast.Expr]int

type funcKind int

const (
	funcNone funcKind = iota
	funcLocal
)

type resolver struct {
	// scopes holds one map per lexical scope, innermost last. A name
	// maps to false between declaration and definition, which is how
	// "var a = a;" self-reference is caught.
	scopes     []map[string]bool
	current    funcKind
	loopDepth  int
	rep        *diagnostics.Reporter
	resolution ResolutionMap
}

// Resolve analyzes a program and returns its resolution side table.
// Static errors go to rep; analysis continues past them so a single run
// reports everything.
func Resolve(program []ast.Stmt, rep *diagnostics.Reporter) ResolutionMap {
	r := &resolver{rep: rep, resolution: make(ResolutionMap)}
	r.resolveStmts(program)
	return r.resolution
}

func (r *resolver) resolveStmts(statements []ast.Stmt) {
	for _, stmt := range statements {
		r.resolveStmt(stmt)
	}
}

func (r *resolver) resolveStmt(s ast.Stmt) {
	switch stmt := s.(type) {
	case *ast.Block:
		r.beginScope()
		r.resolveStmts(stmt.Statements)
		r.endScope()
	case *ast.VarDecl:
		r.declare(stmt.Name)
		if stmt.Initializer != nil {
			r.resolveExpr(stmt.Initializer)
		}
		r.define(stmt.Name)
	case *ast.Function:
		r.declare(stmt.Name)
		r.define(stmt.Name)
		r.resolveFunction(stmt)
	case *ast.ExpressionStmt:
		r.resolveExpr(stmt.Expression)
	case *ast.Print:
		r.resolveExpr(stmt.Expression)
	case *ast.If:
		r.resolveExpr(stmt.Condition)
		r.resolveStmt(stmt.Then)
		if stmt.Else != nil {
			r.resolveStmt(stmt.Else)
		}
	case *ast.While:
		r.resolveExpr(stmt.Condition)
		r.loopDepth++
		r.resolveStmt(stmt.Body)
		r.loopDepth--
	case *ast.Return:
		if r.current == funcNone {
			r.rep.TokenError(stmt.Keyword, "Can't return from top-level code.")
		}
		if stmt.Value != nil {
			r.resolveExpr(stmt.Value)
		}
	case *ast.Break:
		if r.loopDepth == 0 {
			r.rep.TokenError(stmt.Keyword, "Can't use break outside of a loop.")
		}
	case *ast.Continue:
		if r.loopDepth == 0 {
			r.rep.TokenError(stmt.Keyword, "Can't use continue outside of a loop.")
		}
	}
}

// resolveFunction handles both named functions and lambdas. The loop
// counter resets so a break in the body cannot target a loop outside the
// function.
func (r *resolver) resolveFunction(fn *ast.Function) {
	enclosing, enclosingLoops := r.current, r.loopDepth
	r.current, r.loopDepth = funcLocal, 0
	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStmts(fn.Body)
	r.endScope()
	r.current, r.loopDepth = enclosing, enclosingLoops
}

func (r *resolver) resolveExpr(e ast.Expr) {
	switch expr := e.(type) {
	case *ast.Variable:
		if len(r.scopes) > 0 {
			if defined, ok := r.top()[expr.Name.Lexeme]; ok && !defined {
				r.rep.TokenError(expr.Name,
					"Can't use the value of a local variable in the initialiser of its own declaration.")
			}
		}
		r.resolveLocal(expr, expr.Name)
	case *ast.Assign:
		r.resolveExpr(expr.Value)
		r.resolveLocal(expr, expr.Name)
	case *ast.Binary:
		r.resolveExpr(expr.Left)
		r.resolveExpr(expr.Right)
	case *ast.Logic:
		r.resolveExpr(expr.Left)
		r.resolveExpr(expr.Right)
	case *ast.Unary:
		r.resolveExpr(expr.Right)
	case *ast.Call:
		r.resolveExpr(expr.Callee)
		for _, arg := range expr.Args {
			r.resolveExpr(arg)
		}
	case *ast.Grouping:
		r.resolveExpr(expr.Expression)
	case *ast.ArrayLit:
		for _, el := range expr.Elements {
			r.resolveExpr(el)
		}
	case *ast.DictLit:
		for _, entry := range expr.Entries {
			r.resolveExpr(entry)
		}
	case *ast.Subscript:
		r.resolveExpr(expr.Target)
		r.resolveExpr(expr.Index)
	case *ast.SubscriptAssign:
		r.resolveExpr(expr.Target)
		r.resolveExpr(expr.Index)
		r.resolveExpr(expr.Value)
	case *ast.Lambda:
		r.resolveFunction(expr.Fn)
	}
}

// resolveLocal records the hop count to the innermost scope declaring
// name. Globals fall through unrecorded.
func (r *resolver) resolveLocal(expr ast.Expr, name token.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			r.resolution[expr] = len(r.scopes) - 1 - i
			return
		}
	}
}

func (r *resolver) declare(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	if _, exists := r.top()[name.Lexeme]; exists {
		r.rep.TokenError(name, "Already a variable with this name in this scope.")
	}
	r.top()[name.Lexeme] = false
}

func (r *resolver) define(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.top()[name.Lexeme] = true
}

func (r *resolver) beginScope() {
	r.scopes = append(r.scopes, make(map[string]bool))
}

func (r *resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *resolver) top() map[string]bool {
	return r.scopes[len(r.scopes)-1]
}
