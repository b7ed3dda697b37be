// Package ast defines the abstract syntax tree produced by the parser and
// filled in-place by the resolver and verifier.
//
// The tree has exactly six node kinds: Function, Block,
// Statement, Expression, Declaration, and the Ident expression's binding.
// Nodes start with only their syntactic fields populated; the resolver
// attaches bindings/frames/type variables, and the verifier returns the
// root type environment to its caller (the tree does not store it).
// Lowering consumes the tree read-only.
package ast

import (
	"github.com/tsg-lang/tsg/internal/token"
	"github.com/tsg-lang/tsg/internal/types"
)

// Node is implemented by every AST node.
type Node interface {
	Pos() token.Position
	String() string
}

// Expression is any node that produces a value. Every expression carries
// a type variable allocated by the resolver.
type Expression interface {
	Node
	TypeVar() types.TypeVar
	SetTypeVar(types.TypeVar)
	exprNode()
}

// Statement is either a val-binding or an expression evaluated for its
// value.
type Statement interface {
	Node
	stmtNode()
}

// ExprBase carries the fields common to every Expression: its source
// position and the type variable the resolver allocates for it.
type ExprBase struct {
	Position token.Position
	Var      types.TypeVar
}

// Pos implements Node.
func (e *ExprBase) Pos() token.Position { return e.Position }

// TypeVar returns the type variable the resolver allocated for this
// expression. Zero value until resolving runs.
func (e *ExprBase) TypeVar() types.TypeVar { return e.Var }

// SetTypeVar is called exactly once, by the resolver.
func (e *ExprBase) SetTypeVar(v types.TypeVar) { e.Var = v }

// Program is the root of a parsed source file: a sequence of top-level
// function declarations. It is not itself an AST node; the driver wraps
// it into a synthesized root Function before resolving, verifying, and
// lowering it.
type Program struct {
	Funcs []*Function
}

// RootFunctionName is the name given to the synthesized function whose
// body is the program's top-level block. It cannot collide with a
// user-declared function because the grammar's <IDENTIFIER> production
// never produces this lexeme (it starts with '<').
const RootFunctionName = "<root>"

// ToRootFunction synthesizes the root function the verifier instantiates
// first: zero parameters, a body block whose nested-function list is the
// program's top-level defs and whose statement list is empty. This block
// is exempt from the parser's "block is empty" diagnostic — it is never
// produced by the parser, only synthesized here.
func (p *Program) ToRootFunction() *Function {
	return &Function{
		Name: RootFunctionName,
		Body: &Block{
			Funcs: p.Funcs,
		},
	}
}
