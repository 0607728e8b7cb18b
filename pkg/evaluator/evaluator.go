// Package evaluator executes the syntax tree. Statements run against a
// chain of environments rooted at a persistent global frame; non-local
// control flow (return, break, continue) travels as explicit signals
// bubbled out of block execution rather than as panics.
package evaluator

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/timfan/golox/pkg/ast"
	"github.com/timfan/golox/pkg/resolver"
	"github.com/timfan/golox/pkg/token"
	"github.com/timfan/golox/pkg/value"
)

// RuntimeError is an evaluation failure carrying the token whose line is
// reported to the user.
type RuntimeError struct {
	Token   token.Token
	Message string
}

func (e *RuntimeError) Error() string { return e.Message }

type sigKind int

const (
	sigNormal sigKind = iota
	sigReturn
	sigBreak
	sigContinue
)

// signal is the result of executing a statement: either normal
// completion or a control transfer unwinding toward its catcher. Only
// return signals carry a value.
type signal struct {
	kind sigKind
	val  value.Value
}

// Interpreter executes programs. Globals persist across Interpret calls,
// which is what lets a REPL accumulate definitions.
type Interpreter struct {
	globals    *Env
	env        *Env
	resolution resolver.ResolutionMap
	stdout     io.Writer
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithStdout redirects print output.
func WithStdout(w io.Writer) Option {
	return func(i *Interpreter) { i.stdout = w }
}

// New returns an Interpreter with an empty global frame.
func New(opts ...Option) *Interpreter {
	globals := NewEnv(nil)
	interp := &Interpreter{
		globals:    globals,
		env:        globals,
		resolution: make(resolver.ResolutionMap),
		stdout:     os.Stdout,
	}
	for _, opt := range opts {
		opt(interp)
	}
	return interp
}

// Globals exposes the global frame so natives can be installed.
func (i *Interpreter) Globals() *Env { return i.globals }

// AddResolution merges a program's resolution table. Depths are keyed by
// node pointer, so tables from successive REPL lines never collide.
func (i *Interpreter) AddResolution(m resolver.ResolutionMap) {
	for node, depth := range m {
		i.resolution[node] = depth
	}
}

// Interpret runs a program to completion. The first runtime error stops
// execution and is returned; it is always a *RuntimeError.
func (i *Interpreter) Interpret(statements []ast.Stmt) error {
	for _, stmt := range statements {
		if _, err := i.exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interpreter) exec(s ast.Stmt) (signal, error) {
	switch stmt := s.(type) {
	case *ast.ExpressionStmt:
		_, err := i.eval(stmt.Expression)
		return signal{}, err
	case *ast.Print:
		v, err := i.eval(stmt.Expression)
		if err != nil {
			return signal{}, err
		}
		fmt.Fprintln(i.stdout, value.Stringify(v))
		return signal{}, nil
	case *ast.VarDecl:
		var v value.Value = value.Nil{}
		if stmt.Initializer != nil {
			var err error
			if v, err = i.eval(stmt.Initializer); err != nil {
				return signal{}, err
			}
		}
		i.env.Define(stmt.Name.Lexeme, v)
		return signal{}, nil
	case *ast.Function:
		i.env.Define(stmt.Name.Lexeme, &UserFunction{decl: stmt, closure: i.env, interp: i})
		return signal{}, nil
	case *ast.Block:
		return i.executeBlock(stmt.Statements, NewEnv(i.env))
	case *ast.If:
		cond, err := i.eval(stmt.Condition)
		if err != nil {
			return signal{}, err
		}
		if value.Truthy(cond) {
			return i.exec(stmt.Then)
		}
		if stmt.Else != nil {
			return i.exec(stmt.Else)
		}
		return signal{}, nil
	case *ast.While:
		return i.execWhile(stmt)
	case *ast.Return:
		var v value.Value = value.Nil{}
		if stmt.Value != nil {
			var err error
			if v, err = i.eval(stmt.Value); err != nil {
				return signal{}, err
			}
		}
		return signal{kind: sigReturn, val: v}, nil
	case *ast.Break:
		return signal{kind: sigBreak}, nil
	case *ast.Continue:
		return signal{kind: sigContinue}, nil
	}
	return signal{}, nil
}

func (i *Interpreter) execWhile(stmt *ast.While) (signal, error) {
	for {
		cond, err := i.eval(stmt.Condition)
		if err != nil {
			return signal{}, err
		}
		if !value.Truthy(cond) {
			return signal{}, nil
		}
		sig, err := i.exec(stmt.Body)
		if err != nil {
			return signal{}, err
		}
		switch sig.kind {
		case sigBreak:
			return signal{}, nil
		case sigReturn:
			return sig, nil
		}
		// normal and continue both fall through to the next iteration
	}
}

// executeBlock runs statements in env and restores the previous current
// environment on every exit path, including control transfers and
// runtime errors unwinding through it.
func (i *Interpreter) executeBlock(statements []ast.Stmt, env *Env) (signal, error) {
	prev := i.env
	i.env = env
	defer func() { i.env = prev }()
	for _, stmt := range statements {
		sig, err := i.exec(stmt)
		if err != nil || sig.kind != sigNormal {
			return sig, err
		}
	}
	return signal{}, nil
}

func (i *Interpreter) eval(e ast.Expr) (value.Value, error) {
	switch expr := e.(type) {
	case *ast.Literal:
		return expr.Value, nil
	case *ast.Grouping:
		return i.eval(expr.Expression)
	case *ast.Unary:
		return i.evalUnary(expr)
	case *ast.Binary:
		return i.evalBinary(expr)
	case *ast.Logic:
		return i.evalLogic(expr)
	case *ast.Variable:
		return i.lookUpVariable(expr.Name, expr)
	case *ast.Assign:
		v, err := i.eval(expr.Value)
		if err != nil {
			return nil, err
		}
		if depth, ok := i.resolution[expr]; ok {
			i.env.AssignAt(depth, expr.Name.Lexeme, v)
		} else if err := i.globals.Assign(expr.Name, v); err != nil {
			return nil, err
		}
		return v, nil
	case *ast.Call:
		return i.evalCall(expr)
	case *ast.ArrayLit:
		elems := make([]value.Value, len(expr.Elements))
		for idx, el := range expr.Elements {
			v, err := i.eval(el)
			if err != nil {
				return nil, err
			}
			elems[idx] = v
		}
		return value.NewArray(elems), nil
	case *ast.DictLit:
		return i.evalDictLit(expr)
	case *ast.Subscript:
		return i.evalSubscript(expr)
	case *ast.SubscriptAssign:
		return i.evalSubscriptAssign(expr)
	case *ast.Lambda:
		return &UserFunction{decl: expr.Fn, closure: i.env, interp: i}, nil
	}
	return value.Nil{}, nil
}

func (i *Interpreter) lookUpVariable(name token.Token, expr ast.Expr) (value.Value, error) {
	if depth, ok := i.resolution[expr]; ok {
		return i.env.GetAt(depth, name.Lexeme), nil
	}
	return i.globals.Get(name)
}

func (i *Interpreter) evalUnary(expr *ast.Unary) (value.Value, error) {
	right, err := i.eval(expr.Right)
	if err != nil {
		return nil, err
	}
	switch expr.Operator.Kind {
	case token.Minus:
		n, ok := right.(value.Number)
		if !ok {
			return nil, &RuntimeError{Token: expr.Operator, Message: "Operand must be a number."}
		}
		return -n, nil
	case token.Bang:
		return value.Bool(!value.Truthy(right)), nil
	}
	return value.Nil{}, nil
}

func (i *Interpreter) evalBinary(expr *ast.Binary) (value.Value, error) {
	left, err := i.eval(expr.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.eval(expr.Right)
	if err != nil {
		return nil, err
	}

	if expr.Operator.Kind == token.Plus {
		switch l := left.(type) {
		case value.Number:
			if r, ok := right.(value.Number); ok {
				return l + r, nil
			}
		case value.String:
			if r, ok := right.(value.String); ok {
				return l + r, nil
			}
		case *value.Array:
			if r, ok := right.(*value.Array); ok {
				elems := make([]value.Value, 0, len(l.Elements)+len(r.Elements))
				elems = append(elems, l.Elements...)
				elems = append(elems, r.Elements...)
				return value.NewArray(elems), nil
			}
		}
		return nil, &RuntimeError{Token: expr.Operator, Message: "Can only add two numbers or two strings together"}
	}

	l, lok := left.(value.Number)
	r, rok := right.(value.Number)
	if !lok || !rok {
		return nil, &RuntimeError{Token: expr.Operator, Message: "Both operands must be numbers."}
	}
	switch expr.Operator.Kind {
	case token.Minus:
		return l - r, nil
	case token.Star:
		return l * r, nil
	case token.Slash:
		return l / r, nil
	case token.Greater:
		return value.Bool(l > r), nil
	case token.GreaterEqual:
		return value.Bool(l >= r), nil
	case token.Less:
		return value.Bool(l < r), nil
	case token.LessEqual:
		return value.Bool(l <= r), nil
	case token.EqualEqual:
		return value.Bool(l == r), nil
	case token.BangEqual:
		return value.Bool(l != r), nil
	}
	return value.Nil{}, nil
}

// evalLogic short-circuits on truthiness and normalizes the result to a
// boolean rather than yielding the deciding operand.
func (i *Interpreter) evalLogic(expr *ast.Logic) (value.Value, error) {
	left, err := i.eval(expr.Left)
	if err != nil {
		return nil, err
	}
	if expr.Operator.Kind == token.Or {
		if value.Truthy(left) {
			return value.Bool(true), nil
		}
	} else {
		if !value.Truthy(left) {
			return value.Bool(false), nil
		}
	}
	right, err := i.eval(expr.Right)
	if err != nil {
		return nil, err
	}
	return value.Bool(value.Truthy(right)), nil
}

func (i *Interpreter) evalCall(expr *ast.Call) (value.Value, error) {
	callee, err := i.eval(expr.Callee)
	if err != nil {
		return nil, err
	}
	args := make([]value.Value, len(expr.Args))
	for idx, arg := range expr.Args {
		v, err := i.eval(arg)
		if err != nil {
			return nil, err
		}
		args[idx] = v
	}
	fn, ok := callee.(value.Callable)
	if !ok {
		return nil, &RuntimeError{Token: expr.Paren, Message: "Can only call functions and classes."}
	}
	if len(args) != fn.Arity() {
		return nil, &RuntimeError{
			Token:   expr.Paren,
			Message: fmt.Sprintf("Expected %d arguments but got %d.", fn.Arity(), len(args)),
		}
	}
	return fn.Call(args)
}

func (i *Interpreter) evalDictLit(expr *ast.DictLit) (value.Value, error) {
	d := value.NewDict()
	for idx := 0; idx+1 < len(expr.Entries); idx += 2 {
		key, err := i.eval(expr.Entries[idx])
		if err != nil {
			return nil, err
		}
		if !value.ValidKey(key) {
			return nil, &RuntimeError{Token: expr.Brace, Message: "Dictionary key must be a number, string, boolean, or nil."}
		}
		val, err := i.eval(expr.Entries[idx+1])
		if err != nil {
			return nil, err
		}
		d.Set(key, val)
	}
	return d, nil
}

func (i *Interpreter) evalSubscript(expr *ast.Subscript) (value.Value, error) {
	target, err := i.eval(expr.Target)
	if err != nil {
		return nil, err
	}
	index, err := i.eval(expr.Index)
	if err != nil {
		return nil, err
	}
	switch t := target.(type) {
	case *value.Array:
		idx, err := arrayIndex(expr.Bracket, index, len(t.Elements))
		if err != nil {
			return nil, err
		}
		return t.Elements[idx], nil
	case *value.Dict:
		if !value.ValidKey(index) {
			return nil, &RuntimeError{Token: expr.Bracket, Message: "Dictionary key must be a number, string, boolean, or nil."}
		}
		v, ok := t.Get(index)
		if !ok {
			return nil, &RuntimeError{Token: expr.Bracket, Message: "Dictionary does not contain given key."}
		}
		return v, nil
	}
	return nil, &RuntimeError{Token: expr.Bracket, Message: "Can only use subscript operator [] on arrays or dictionaries."}
}

func (i *Interpreter) evalSubscriptAssign(expr *ast.SubscriptAssign) (value.Value, error) {
	target, err := i.eval(expr.Target)
	if err != nil {
		return nil, err
	}
	index, err := i.eval(expr.Index)
	if err != nil {
		return nil, err
	}
	v, err := i.eval(expr.Value)
	if err != nil {
		return nil, err
	}
	switch t := target.(type) {
	case *value.Array:
		idx, err := arrayIndex(expr.Bracket, index, len(t.Elements))
		if err != nil {
			return nil, err
		}
		t.Elements[idx] = v
		return v, nil
	case *value.Dict:
		if !value.ValidKey(index) {
			return nil, &RuntimeError{Token: expr.Bracket, Message: "Dictionary key must be a number, string, boolean, or nil."}
		}
		t.Set(index, v)
		return v, nil
	}
	return nil, &RuntimeError{Token: expr.Bracket, Message: "Can only use subscript operator [] on arrays or dictionaries."}
}

// arrayIndex validates that index is a whole number inside [0, length).
func arrayIndex(bracket token.Token, index value.Value, length int) (int, error) {
	n, ok := index.(value.Number)
	if !ok || float64(n) != math.Floor(float64(n)) {
		return 0, &RuntimeError{Token: bracket, Message: "Can only use subscript operator [] with integers."}
	}
	idx := int(n)
	if idx < 0 || idx >= length {
		return 0, &RuntimeError{Token: bracket, Message: "Array index out of bounds."}
	}
	return idx, nil
}
