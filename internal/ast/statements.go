package ast

import "github.com/tsg-lang/tsg/internal/token"

// ValStmt binds Decl's name to Value's result for the rest of the
// enclosing block.
type ValStmt struct {
	ValPos token.Position
	Decl   *Declaration
	Value  Expression
}

func (s *ValStmt) stmtNode() {}

// Pos implements Node.
func (s *ValStmt) Pos() token.Position { return s.ValPos }

// String implements Node.
func (s *ValStmt) String() string { return "val " + s.Decl.String() + " = ..." }

// ExprStmt is an expression evaluated for its value and discarded,
// except when it is a block's final statement, in which case it
// supplies the block's result.
type ExprStmt struct {
	X Expression
}

func (s *ExprStmt) stmtNode() {}

// Pos implements Node.
func (s *ExprStmt) Pos() token.Position { return s.X.Pos() }

// String implements Node.
func (s *ExprStmt) String() string { return s.X.String() }
