// Package parser implements tsg's parser using Pratt parsing: a
// prefix/infix parse function table keyed by token type plus an
// operator precedence table, sized to tsg's six-node grammar.
package parser

import (
	"github.com/tsg-lang/tsg/internal/ast"
	"github.com/tsg-lang/tsg/internal/diag"
	"github.com/tsg-lang/tsg/internal/lexer"
	"github.com/tsg-lang/tsg/internal/token"
)

// Precedence levels, lowest to highest.
const (
	_ int = iota
	lowest
	equals   // == < >
	sum      // + -
	product  // * /
	callPrec // callee(args)
)

var precedences = map[token.Type]int{
	token.EQ:     equals,
	token.LT:     equals,
	token.GT:     equals,
	token.PLUS:   sum,
	token.MINUS:  sum,
	token.STAR:   product,
	token.SLASH:  product,
	token.LPAREN: callPrec,
}

type prefixParseFn func() ast.Expression
type infixParseFn func(ast.Expression) ast.Expression

// Parser turns a token stream into a *ast.Program, recording diagnostics
// rather than stopping at the first syntax error.
type Parser struct {
	l *lexer.Lexer

	curToken  token.Token
	peekToken token.Token

	prefixParseFns map[token.Type]prefixParseFn
	infixParseFns  map[token.Type]infixParseFn

	diags *diag.List

	// suppressedLine is the source line the parser already reported a
	// syntax error on; further errors on that same line are suppressed.
	suppressedLine int
}

// New creates a Parser over l, recording diagnostics into diags.
func New(l *lexer.Lexer, diags *diag.List) *Parser {
	p := &Parser{l: l, diags: diags, suppressedLine: -1}

	p.prefixParseFns = map[token.Type]prefixParseFn{
		token.IDENT:  p.parseIdent,
		token.NUMBER: p.parseNumber,
		token.LPAREN: p.parseGroupedExpr,
		token.IF:     p.parseIfElse,
	}
	p.infixParseFns = map[token.Type]infixParseFn{
		token.PLUS:   p.parseBinary,
		token.MINUS:  p.parseBinary,
		token.STAR:   p.parseBinary,
		token.SLASH:  p.parseBinary,
		token.EQ:     p.parseBinary,
		token.LT:     p.parseBinary,
		token.GT:     p.parseBinary,
		token.LPAREN: p.parseCall,
	}

	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curIs(t token.Type) bool  { return p.curToken.Type == t }
func (p *Parser) peekIs(t token.Type) bool { return p.peekToken.Type == t }

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return lowest
}

// errorf records a diagnostic at pos, suppressing further diagnostics on
// the same source line.
func (p *Parser) errorf(pos token.Position, format string, args ...any) {
	if pos.Line == p.suppressedLine {
		return
	}
	p.suppressedLine = pos.Line
	p.diags.Add(pos, format, args...)
}

// expect advances past t if it is the peek token, else records a syntax
// error and leaves the cursor unchanged.
func (p *Parser) expect(t token.Type) bool {
	if p.peekIs(t) {
		p.nextToken()
		return true
	}
	p.errorf(p.peekToken.Pos, "expected '%s', found '%s'", t, p.peekToken.Type)
	return false
}

// expectIdentName advances past an IDENT peek token, else records
// `expected identifier` instead of the generic
// expected/found form — used for a function's or parameter's name.
func (p *Parser) expectIdentName() bool {
	if p.peekIs(token.IDENT) {
		p.nextToken()
		return true
	}
	p.errorf(p.peekToken.Pos, "expected identifier")
	return false
}

// expectDeclareName advances past an IDENT peek token, else records
// `expected declare` — used for the name being introduced by a `val`
// statement.
func (p *Parser) expectDeclareName() bool {
	if p.peekIs(token.IDENT) {
		p.nextToken()
		return true
	}
	p.errorf(p.peekToken.Pos, "expected declare")
	return false
}

// ParseProgram parses a whole source file into a *ast.Program.
func ParseProgram(src string, diags *diag.List) *ast.Program {
	p := New(lexer.New(src), diags)
	prog := &ast.Program{}

	// curToken sits on the first source token on entry; after each
	// parseFunction call it sits on that function's closing '}', so
	// every iteration but the first must advance past it before
	// inspecting what comes next.
	first := true
	for {
		if !first {
			if p.peekIs(token.EOF) {
				break
			}
			p.nextToken()
		}
		first = false
		if p.curIs(token.EOF) {
			break
		}
		if !p.curIs(token.DEF) {
			p.errorf(p.curToken.Pos, "expected '%s', found '%s'", token.DEF, p.curToken.Type)
			continue
		}
		if fn := p.parseFunction(); fn != nil {
			prog.Funcs = append(prog.Funcs, fn)
		}
	}
	return prog
}

// parseFunction parses `def IDENT ( [IDENT {, IDENT}] ) { block }`.
func (p *Parser) parseFunction() *ast.Function {
	fn := &ast.Function{NamePos: p.curToken.Pos}

	if !p.expectIdentName() {
		return nil
	}
	fn.Name = p.curToken.Literal

	if !p.expect(token.LPAREN) {
		return nil
	}
	if !p.peekIs(token.RPAREN) {
		for {
			if !p.expectIdentName() {
				return nil
			}
			fn.Params = append(fn.Params, &ast.Declaration{Name: p.curToken})
			if !p.peekIs(token.COMMA) {
				break
			}
			p.nextToken()
		}
	}
	if !p.expect(token.RPAREN) {
		return nil
	}
	if !p.expect(token.LBRACE) {
		return nil
	}
	fn.Body = p.parseBlock()
	return fn
}

// parseBlock parses `{def … def stmt … stmt}`, with curToken on the
// opening '{' on entry and left on the closing '}' on return.
func (p *Parser) parseBlock() *ast.Block {
	block := &ast.Block{LBrace: p.curToken.Pos}

	for p.peekIs(token.DEF) {
		p.nextToken()
		if fn := p.parseFunction(); fn != nil {
			block.Funcs = append(block.Funcs, fn)
		}
	}
	for !p.peekIs(token.RBRACE) && !p.peekIs(token.EOF) {
		p.nextToken()
		if stmt := p.parseStatement(); stmt != nil {
			block.Stmts = append(block.Stmts, stmt)
		}
	}
	if !p.expect(token.RBRACE) {
		return block
	}
	if block.IsEmpty() {
		p.errorf(block.LBrace, "block is empty")
	}
	return block
}

// parseStatement parses `val IDENT = expr ;` or `expr ;`, curToken on
// the statement's first token on entry.
func (p *Parser) parseStatement() ast.Statement {
	if p.curIs(token.VAL) {
		return p.parseValStatement()
	}
	return p.parseExprStatement()
}

func (p *Parser) parseValStatement() ast.Statement {
	stmt := &ast.ValStmt{ValPos: p.curToken.Pos}
	if !p.expectDeclareName() {
		return nil
	}
	stmt.Decl = &ast.Declaration{Name: p.curToken}
	if !p.expect(token.ASSIGN) {
		return nil
	}
	p.nextToken()
	stmt.Value = p.parseExpression(lowest)
	p.consumeStatementTerminator()
	return stmt
}

func (p *Parser) parseExprStatement() ast.Statement {
	expr := p.parseExpression(lowest)
	if expr == nil {
		return nil
	}
	p.consumeStatementTerminator()
	return &ast.ExprStmt{X: expr}
}

// consumeStatementTerminator consumes a trailing ';' if present. A
// missing semicolon is tolerated when the statement ends with a block's
// closing '}' (an if/else expression) or when the next token starts on
// a new source line.
func (p *Parser) consumeStatementTerminator() {
	if p.peekIs(token.SEMI) {
		p.nextToken()
		return
	}
	if p.curIs(token.RBRACE) || p.peekToken.Pos.Line > p.curToken.Pos.Line {
		return
	}
	p.errorf(p.peekToken.Pos, "expected '%s', found '%s'", token.SEMI, p.peekToken.Type)
}

// parseExpression parses an expression via Pratt parsing at the given
// minimum precedence, curToken on the expression's first token on
// entry.
func (p *Parser) parseExpression(minPrec int) ast.Expression {
	prefix, ok := p.prefixParseFns[p.curToken.Type]
	if !ok {
		p.errorf(p.curToken.Pos, "expected expression")
		return nil
	}
	left := prefix()

	for left != nil && minPrec < p.peekPrecedence() {
		infix, ok := p.infixParseFns[p.peekToken.Type]
		if !ok {
			return left
		}
		p.nextToken()
		left = infix(left)
	}
	return left
}

func (p *Parser) parseIdent() ast.Expression {
	return &ast.Ident{
		ExprBase: ast.ExprBase{Position: p.curToken.Pos},
		Name:     p.curToken.Literal,
		NamePos:  p.curToken.Pos,
	}
}

func (p *Parser) parseNumber() ast.Expression {
	n := &ast.Number{ExprBase: ast.ExprBase{Position: p.curToken.Pos}}
	for _, ch := range p.curToken.Literal {
		n.Value = n.Value*10 + int32(ch-'0')
	}
	return n
}

func (p *Parser) parseGroupedExpr() ast.Expression {
	p.nextToken()
	expr := p.parseExpression(lowest)
	if !p.expect(token.RPAREN) {
		return expr
	}
	return expr
}

// parseIfElse parses `if ( expr ) { block } else { block }`. Both
// branches are mandatory.
func (p *Parser) parseIfElse() ast.Expression {
	node := &ast.IfElse{ExprBase: ast.ExprBase{Position: p.curToken.Pos}, IfPos: p.curToken.Pos}

	if !p.expect(token.LPAREN) {
		return node
	}
	p.nextToken()
	node.Cond = p.parseExpression(lowest)
	if !p.expect(token.RPAREN) {
		return node
	}
	if !p.expect(token.LBRACE) {
		return node
	}
	node.Then = p.parseBlock()
	if !p.expect(token.ELSE) {
		return node
	}
	if !p.expect(token.LBRACE) {
		return node
	}
	node.Else = p.parseBlock()
	return node
}

func (p *Parser) parseBinary(left ast.Expression) ast.Expression {
	node := &ast.Binary{
		ExprBase: ast.ExprBase{Position: left.Pos()},
		Op:       p.curToken.Type,
		OpPos:    p.curToken.Pos,
		Lhs:      left,
	}
	prec := precedences[p.curToken.Type]
	p.nextToken()
	node.Rhs = p.parseExpression(prec)
	return node
}

// parseCall parses `callee ( [expr {, expr}] )`.
func (p *Parser) parseCall(callee ast.Expression) ast.Expression {
	node := &ast.Call{
		ExprBase: ast.ExprBase{Position: callee.Pos()},
		Callee:   callee,
		LParen:   p.curToken.Pos,
	}
	if p.peekIs(token.RPAREN) {
		p.nextToken()
		return node
	}
	p.nextToken()
	node.Args = append(node.Args, p.parseExpression(lowest))
	for p.peekIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		node.Args = append(node.Args, p.parseExpression(lowest))
	}
	if !p.expect(token.RPAREN) {
		return node
	}
	return node
}
