// Package parser implements the recursive-descent parser. Syntax errors
// are reported to the diagnostics reporter and recovered with panic-mode
// synchronization, so a single pass collects every error it can reach.
package parser

import (
	"github.com/timfan/golox/pkg/ast"
	"github.com/timfan/golox/pkg/diagnostics"
	"github.com/timfan/golox/pkg/token"
	"github.com/timfan/golox/pkg/value"
)

const maxCallArity = 255

// parseError is the unwind sentinel raised on a syntax error after it has
// been reported. It never escapes Parse.
type parseError struct{}

type parser struct {
	tokens  []token.Token
	current int
	rep     *diagnostics.Reporter
}

// Parse consumes an EOF-terminated token stream and returns the list of
// top-level statements. Statements that fail to parse are dropped after
// synchronization; the reporter's flag records that parsing failed.
func Parse(tokens []token.Token, rep *diagnostics.Reporter) []ast.Stmt {
	p := &parser{tokens: tokens, rep: rep}
	var statements []ast.Stmt
	for !p.atEnd() {
		if stmt := p.declaration(); stmt != nil {
			statements = append(statements, stmt)
		}
	}
	return statements
}

func (p *parser) declaration() (stmt ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseError); !ok {
				panic(r)
			}
			p.synchronize()
			stmt = nil
		}
	}()
	switch {
	case p.match(token.Var):
		return p.varDeclaration()
	case p.match(token.Fun):
		return p.function("function")
	default:
		return p.statement()
	}
}

func (p *parser) varDeclaration() ast.Stmt {
	name := p.consume(token.Identifier, "Expect variable name.")
	var initializer ast.Expr
	if p.match(token.Equal) {
		initializer = p.expression()
	}
	p.consume(token.Semicolon, "Expect ; after variable declaration.")
	return &ast.VarDecl{Name: name, Initializer: initializer}
}

func (p *parser) function(kind string) *ast.Function {
	name := p.consume(token.Identifier, "Expect "+kind+" name.")
	p.consume(token.LeftParen, "Expect '(' after "+kind+" name.")
	params := p.parameters()
	p.consume(token.LeftBrace, "Expect '{' before "+kind+" body.")
	return &ast.Function{Name: name, Params: params, Body: p.block()}
}

// parameters parses a parenthesized parameter list up to and including
// the closing paren.
func (p *parser) parameters() []token.Token {
	var params []token.Token
	if !p.check(token.RightParen) {
		for {
			if len(params) >= maxCallArity {
				p.rep.TokenError(p.peek(), "Can't have more than 255 parameters")
				panic(parseError{})
			}
			params = append(params, p.consume(token.Identifier, "Expect parameter name."))
			if !p.match(token.Comma) {
				break
			}
		}
	}
	p.consume(token.RightParen, "Expect ')' after parameters.")
	return params
}

func (p *parser) statement() ast.Stmt {
	switch {
	case p.match(token.Print):
		return p.printStatement()
	case p.match(token.If):
		return p.ifStatement()
	case p.match(token.Return):
		return p.returnStatement()
	case p.match(token.Break):
		keyword := p.previous()
		p.consume(token.Semicolon, "Expect ; after break statement.")
		return &ast.Break{Keyword: keyword}
	case p.match(token.Continue):
		keyword := p.previous()
		p.consume(token.Semicolon, "Expect ; after continue statement.")
		return &ast.Continue{Keyword: keyword}
	case p.match(token.For):
		return p.forStatement()
	case p.match(token.While):
		return p.whileStatement()
	case p.match(token.LeftBrace):
		return &ast.Block{Statements: p.block()}
	default:
		return p.expressionStatement()
	}
}

func (p *parser) printStatement() ast.Stmt {
	expr := p.expression()
	p.consume(token.Semicolon, "Expect ; after expression.")
	return &ast.Print{Expression: expr}
}

func (p *parser) returnStatement() ast.Stmt {
	keyword := p.previous()
	var val ast.Expr
	if !p.check(token.Semicolon) {
		val = p.expression()
	}
	p.consume(token.Semicolon, "Expect ; after return value.")
	return &ast.Return{Keyword: keyword, Value: val}
}

// forStatement desugars the for loop into a block around a while: the
// initializer runs once, the step is appended to the body, and a missing
// condition becomes literal true.
func (p *parser) forStatement() ast.Stmt {
	p.consume(token.LeftParen, "Expect ( after for keyword.")

	var initializer ast.Stmt
	switch {
	case p.match(token.Semicolon):
		initializer = nil
	case p.match(token.Var):
		initializer = p.varDeclaration()
	default:
		initializer = p.expressionStatement()
	}

	var condition ast.Expr
	if !p.check(token.Semicolon) {
		condition = p.expression()
	}
	p.consume(token.Semicolon, "Expect ; after condition in for loop.")

	var step ast.Expr
	if !p.check(token.RightParen) {
		step = p.expression()
	}
	p.consume(token.RightParen, "Expect ) at end of for loop step.")

	body := p.statement()
	if step != nil {
		body = &ast.Block{Statements: []ast.Stmt{body, &ast.ExpressionStmt{Expression: step}}}
	}
	if condition == nil {
		condition = &ast.Literal{Value: value.Bool(true)}
	}
	var loop ast.Stmt = &ast.While{Condition: condition, Body: body}
	if initializer != nil {
		loop = &ast.Block{Statements: []ast.Stmt{initializer, loop}}
	}
	return loop
}

func (p *parser) ifStatement() ast.Stmt {
	p.consume(token.LeftParen, "Expect ( after if keyword.")
	condition := p.expression()
	p.consume(token.RightParen, "Expect ) after expression.")
	then := p.statement()
	var elseStmt ast.Stmt
	if p.match(token.Else) {
		elseStmt = p.statement()
	}
	return &ast.If{Condition: condition, Then: then, Else: elseStmt}
}

func (p *parser) whileStatement() ast.Stmt {
	p.consume(token.LeftParen, "Expect ( after if keyword.")
	condition := p.expression()
	p.consume(token.RightParen, "Expect ) after expression.")
	return &ast.While{Condition: condition, Body: p.statement()}
}

// block parses declarations up to and including the closing brace. The
// opening brace has already been consumed.
func (p *parser) block() []ast.Stmt {
	var statements []ast.Stmt
	for !p.check(token.RightBrace) && !p.atEnd() {
		if stmt := p.declaration(); stmt != nil {
			statements = append(statements, stmt)
		}
	}
	p.consume(token.RightBrace, "Expect } at end of block.")
	return statements
}

func (p *parser) expressionStatement() ast.Stmt {
	expr := p.expression()
	p.consume(token.Semicolon, "Expect ; after expression.")
	return &ast.ExpressionStmt{Expression: expr}
}

func (p *parser) expression() ast.Expr {
	return p.assignment()
}

// assignment parses the right-associative assignment form. The left-hand
// side is parsed as an ordinary expression first, then inspected: only
// variables and subscripts are valid targets.
func (p *parser) assignment() ast.Expr {
	expr := p.logicOr()
	if p.match(token.Equal) {
		equals := p.previous()
		val := p.assignment()
		switch target := expr.(type) {
		case *ast.Variable:
			return &ast.Assign{Name: target.Name, Value: val}
		case *ast.Subscript:
			return &ast.SubscriptAssign{
				Target:  target.Target,
				Bracket: target.Bracket,
				Index:   target.Index,
				Value:   val,
			}
		}
		p.rep.TokenError(equals, "Invalid assignment target.")
	}
	return expr
}

func (p *parser) logicOr() ast.Expr {
	expr := p.logicAnd()
	for p.match(token.Or) {
		operator := p.previous()
		right := p.logicAnd()
		expr = &ast.Logic{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

func (p *parser) logicAnd() ast.Expr {
	expr := p.equality()
	for p.match(token.And) {
		operator := p.previous()
		right := p.equality()
		expr = &ast.Logic{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

func (p *parser) equality() ast.Expr {
	expr := p.comparison()
	for p.match(token.EqualEqual, token.BangEqual) {
		operator := p.previous()
		right := p.comparison()
		expr = &ast.Binary{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

func (p *parser) comparison() ast.Expr {
	expr := p.term()
	for p.match(token.Less, token.LessEqual, token.Greater, token.GreaterEqual) {
		operator := p.previous()
		right := p.term()
		expr = &ast.Binary{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

func (p *parser) term() ast.Expr {
	expr := p.factor()
	for p.match(token.Plus, token.Minus) {
		operator := p.previous()
		right := p.factor()
		expr = &ast.Binary{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

func (p *parser) factor() ast.Expr {
	expr := p.unary()
	for p.match(token.Star, token.Slash) {
		operator := p.previous()
		right := p.unary()
		expr = &ast.Binary{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

func (p *parser) unary() ast.Expr {
	if p.match(token.Bang, token.Minus) {
		operator := p.previous()
		return &ast.Unary{Operator: operator, Right: p.unary()}
	}
	return p.call()
}

func (p *parser) call() ast.Expr {
	expr := p.primary()
	for {
		switch {
		case p.match(token.LeftParen):
			expr = p.finishCall(expr)
		case p.match(token.LeftBracket):
			index := p.expression()
			bracket := p.consume(token.RightBracket, "Expect ] after array indexing.")
			expr = &ast.Subscript{Target: expr, Bracket: bracket, Index: index}
		default:
			return expr
		}
	}
}

func (p *parser) finishCall(callee ast.Expr) ast.Expr {
	var args []ast.Expr
	if !p.check(token.RightParen) {
		for {
			if len(args) >= maxCallArity {
				p.rep.TokenError(p.peek(), "Can't have more than 255 arguments.")
				panic(parseError{})
			}
			args = append(args, p.expression())
			if !p.match(token.Comma) {
				break
			}
		}
	}
	paren := p.consume(token.RightParen, "Expect ')' after arguments.")
	return &ast.Call{Callee: callee, Paren: paren, Args: args}
}

func (p *parser) primary() ast.Expr {
	switch {
	case p.match(token.True):
		return &ast.Literal{Value: value.Bool(true)}
	case p.match(token.False):
		return &ast.Literal{Value: value.Bool(false)}
	case p.match(token.Nil):
		return &ast.Literal{Value: value.Nil{}}
	case p.match(token.Number):
		return &ast.Literal{Value: value.Number(p.previous().Literal.(float64))}
	case p.match(token.String):
		return &ast.Literal{Value: value.String(p.previous().Literal.(string))}
	case p.match(token.LeftParen):
		expr := p.expression()
		p.consume(token.RightParen, "Expect ) after expression.")
		return &ast.Grouping{Expression: expr}
	case p.match(token.LeftBracket):
		return p.arrayLiteral()
	case p.match(token.LeftBrace):
		return p.dictLiteral()
	case p.match(token.Identifier):
		return &ast.Variable{Name: p.previous()}
	case p.match(token.Lambda):
		return p.lambda()
	}
	p.rep.TokenError(p.peek(), "Expect expression.")
	panic(parseError{})
}

func (p *parser) arrayLiteral() ast.Expr {
	var elements []ast.Expr
	if !p.check(token.RightBracket) {
		elements = append(elements, p.expression())
		for p.match(token.Comma) {
			elements = append(elements, p.expression())
		}
	}
	p.consume(token.RightBracket, "Expect ] to close array declaration.")
	return &ast.ArrayLit{Elements: elements}
}

func (p *parser) dictLiteral() ast.Expr {
	brace := p.previous()
	var entries []ast.Expr
	if !p.check(token.RightBrace) {
		key := p.expression()
		p.consume(token.Colon, "Expect : after key in dictionary.")
		entries = append(entries, key, p.expression())
		for p.match(token.Comma) {
			key = p.expression()
			p.consume(token.Colon, "Expect : after key in dictionary.")
			entries = append(entries, key, p.expression())
		}
	}
	p.consume(token.RightBrace, "Expect } to close dictionary declaration.")
	return &ast.DictLit{Brace: brace, Entries: entries}
}

// lambda parses "lambda (params) => { body }". The arrow is two tokens,
// "=" then ">", and both are consumed here.
func (p *parser) lambda() ast.Expr {
	keyword := p.previous()
	p.consume(token.LeftParen, "Expect '(' after lambda keyword.")
	params := p.parameters()
	p.consume(token.Equal, "Expect => arrow after lambda parameters.")
	p.consume(token.Greater, "Expect => arrow after lambda parameters.")
	p.consume(token.LeftBrace, "Expect '{' before lambda body.")
	return &ast.Lambda{Fn: &ast.Function{Name: keyword, Params: params, Body: p.block()}}
}

// synchronize discards tokens until a likely statement boundary: just
// past a semicolon, or just before a keyword that starts a declaration.
func (p *parser) synchronize() {
	p.advance()
	for !p.atEnd() {
		if p.previous().Kind == token.Semicolon {
			return
		}
		switch p.peek().Kind {
		case token.Class, token.Fun, token.Lambda, token.Var, token.For,
			token.If, token.While, token.Print, token.Return:
			return
		}
		p.advance()
	}
}

func (p *parser) consume(kind token.Kind, message string) token.Token {
	if p.check(kind) {
		return p.advance()
	}
	p.rep.TokenError(p.peek(), message)
	panic(parseError{})
}

func (p *parser) match(kinds ...token.Kind) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *parser) check(kind token.Kind) bool {
	return p.peek().Kind == kind
}

func (p *parser) advance() token.Token {
	if !p.atEnd() {
		p.current++
	}
	return p.previous()
}

func (p *parser) peek() token.Token {
	return p.tokens[p.current]
}

func (p *parser) previous() token.Token {
	return p.tokens[p.current-1]
}

func (p *parser) atEnd() bool {
	return p.peek().Kind == token.EOF
}
