package ast

import (
	"strconv"
	"strings"

	"github.com/tsg-lang/tsg/internal/frame"
	"github.com/tsg-lang/tsg/internal/token"
)

// Binary is a left-associative binary operator application: `==`, `<`,
// `>`, `+`, `-`, `*`, `/`.
type Binary struct {
	ExprBase
	Op       token.Type
	OpPos    token.Position
	Lhs, Rhs Expression
}

func (b *Binary) exprNode() {}

// String implements Node.
func (b *Binary) String() string {
	return "(" + b.Lhs.String() + " " + b.Op.String() + " " + b.Rhs.String() + ")"
}

// Call applies Callee to Args.
// Callee is itself an Expression so chained calls (`f()()`) parse, even
// though tsg's type system only ever resolves a bare identifier callee
// to a function type in practice.
type Call struct {
	ExprBase
	Callee Expression
	LParen token.Position
	Args   []Expression
}

func (c *Call) exprNode() {}

// String implements Node.
func (c *Call) String() string {
	var b strings.Builder
	b.WriteString(c.Callee.String())
	b.WriteByte('(')
	for i, a := range c.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.String())
	}
	b.WriteByte(')')
	return b.String()
}

// IfElse is tsg's only control-flow construct and its only expression
// form with two sub-blocks: both branches are mandatory and must unify
// to the same type.
type IfElse struct {
	ExprBase
	IfPos      token.Position
	Cond       Expression
	Then, Else *Block
}

func (i *IfElse) exprNode() {}

// String implements Node.
func (i *IfElse) String() string {
	return "if (" + i.Cond.String() + ") {...} else {...}"
}

// Ident is a reference to a declared parameter, local, or nested
// function. The resolver attaches Binding.
type Ident struct {
	ExprBase
	Name    string
	NamePos token.Position
	Binding *frame.Member
}

func (i *Ident) exprNode() {}

// String implements Node.
func (i *Ident) String() string { return i.Name }

// Number is an integer literal.
type Number struct {
	ExprBase
	Value int32
}

func (n *Number) exprNode() {}

// String implements Node.
func (n *Number) String() string { return strconv.FormatInt(int64(n.Value), 10) }
