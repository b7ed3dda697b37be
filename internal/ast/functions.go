package ast

import (
	"strings"

	"github.com/tsg-lang/tsg/internal/frame"
	"github.com/tsg-lang/tsg/internal/token"
	"github.com/tsg-lang/tsg/internal/types"
)

// Declaration names one parameter or val-bound local. The resolver
// attaches Member once the binding has a frame slot.
type Declaration struct {
	Name   token.Token
	Member *frame.Member
}

// Pos implements Node.
func (d *Declaration) Pos() token.Position { return d.Name.Pos }

// String implements Node.
func (d *Declaration) String() string { return d.Name.Literal }

// Function is a def: a name, an ordered parameter list, and a body
// block. The resolver attaches TypeSet, Frame, and Member; the verifier
// binds Member's type variable to this function's Poly value and drives
// instantiation through Body.
type Function struct {
	NamePos token.Position
	Name    string
	Params  []*Declaration
	Body    *Block

	// TypeSet holds the type variables this function's body allocates
	// (its own locals' and expressions' variables), distinct from the
	// enclosing function's set.
	TypeSet *types.TypeSet

	// Frame holds this function's parameter and local member layout.
	Frame *frame.Frame

	// Member is this function's slot in the *enclosing* function's
	// frame — the same way a val-declared local is a Declaration's
	// member. Nil for the synthesized root
	// function, which has no enclosing frame.
	Member *frame.Member

	// FuncTypeVar is a type variable in this function's own TypeSet
	// (not a member's or expression's) reserved to hold the current
	// instantiation's own Func type: written as Pend on entry to
	// instantiation and replaced by the real return type once the body
	// has been inferred, so a recursive call finds it.
	FuncTypeVar types.TypeVar
}

// Pos implements Node.
func (f *Function) Pos() token.Position { return f.NamePos }

// String implements Node.
func (f *Function) String() string {
	var b strings.Builder
	b.WriteString("def ")
	b.WriteString(f.Name)
	b.WriteByte('(')
	for i, p := range f.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.String())
	}
	b.WriteByte(')')
	return b.String()
}

// Block is a brace-delimited sequence of nested function declarations
// followed by statements. Funcs are
// resolved before Stmts within the same block, so later statements can
// reference functions declared anywhere in the block.
type Block struct {
	LBrace token.Position
	Funcs  []*Function
	Stmts  []Statement
}

// Pos implements Node.
func (b *Block) Pos() token.Position { return b.LBrace }

// String implements Node.
func (b *Block) String() string { return "{...}" }

// IsEmpty reports whether the block declares nothing and contains no
// statements. The parser rejects an empty block except for the
// synthesized program root.
func (b *Block) IsEmpty() bool { return len(b.Funcs) == 0 && len(b.Stmts) == 0 }
