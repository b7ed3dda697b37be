// Package types implements tsg's type model: a small, reference-counted
// sum type (Bool, Int, Func, Poly, Pend) plus the type-variable, type-set,
// type-environment, and call-site-map machinery the verifier and lowering
// stages share.
//
// Types are immutable after construction and structurally shared; Poly
// and Pend values rely on identity rather than structure. The sum is
// expressed as a single struct with a Kind tag; only the fields for
// that kind are meaningful.
package types

import "github.com/tsg-lang/tsg/internal/token"

// Kind tags the variant a Type holds.
type Kind int

const (
	// Bool is the boolean primitive type.
	Bool Kind = iota
	// Int is the 32-bit signed integer primitive type.
	Int
	// Func is a function type: an ordered parameter-type list and a
	// return type.
	Func
	// Poly is the type of a named function before a call site fixes its
	// argument types.
	Poly
	// Pend is a placeholder used while a function's return type is
	// being inferred recursively.
	Pend
)

func (k Kind) String() string {
	switch k {
	case Bool:
		return "Bool"
	case Int:
		return "Int"
	case Func:
		return "Func"
	case Poly:
		return "Poly"
	case Pend:
		return "Pend"
	default:
		return "?"
	}
}

// Type is a reference-counted type value. Only the fields relevant to
// its Kind are meaningful:
//
//	Func:  Params, Ret
//	Poly:  Fn, OuterEnv, Calls
//
// Fn holds the *ast.Function this Poly names. It is typed as any to
// avoid a package cycle (ast imports types for TypeVar/TypeSet); callers
// that need the concrete function type-assert it.
type Type struct {
	Kind     Kind
	nrefs    int32
	Params   []*Type
	Ret      *Type
	Fn       any
	OuterEnv *TypeEnv
	Calls    *CallMap
}

// NewBool returns a fresh Bool type with ref-count 1.
func NewBool() *Type { return &Type{Kind: Bool, nrefs: 1} }

// NewInt returns a fresh Int type with ref-count 1.
func NewInt() *Type { return &Type{Kind: Int, nrefs: 1} }

// NewPend returns a fresh Pend placeholder with ref-count 1. Distinct
// Pend values are never equal to one another, by identity.
func NewPend() *Type { return &Type{Kind: Pend, nrefs: 1} }

// NewFunc returns a fresh Func type. It takes ownership of params and ret
// (no extra retain is performed by this constructor — callers that still
// hold a reference to params/ret must Retain them first).
func NewFunc(params []*Type, ret *Type) *Type {
	return &Type{Kind: Func, Params: params, Ret: ret, nrefs: 1}
}

// NewPoly returns a fresh Poly type wrapping fn (an *ast.Function),
// closed over outer, with an empty call-site map.
func NewPoly(fn any, outer *TypeEnv) *Type {
	return &Type{Kind: Poly, Fn: fn, OuterEnv: outer, Calls: NewCallMap(), nrefs: 1}
}

// Retain increments t's reference count. Safe to call with nil.
func Retain(t *Type) {
	if t == nil {
		return
	}
	t.nrefs++
}

// Release decrements t's reference count, destroying it (releasing owned
// sub-types) when the count reaches zero. Safe to call with nil.
func Release(t *Type) {
	if t == nil {
		return
	}
	t.nrefs--
	if t.nrefs > 0 {
		return
	}
	switch t.Kind {
	case Func:
		Release(t.Ret)
		ArrDestroy(t.Params)
	case Poly:
		t.Calls.Destroy()
	}
}

// Equals reports structural equality for Bool/Int/Func (deep over
// params/ret), identity for Poly (same underlying function), and
// identity for Pend (two distinct Pend values are always unequal —
// they represent distinct unknowns).
func Equals(a, b *Type) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case Bool, Int:
		return true
	case Func:
		return ArrEquals(a.Params, b.Params) && Equals(a.Ret, b.Ret)
	case Poly:
		return a.Fn == b.Fn
	case Pend:
		return false
	default:
		return false
	}
}

// Unify merges two branch types, returning a retained result or nil on
// failure. If the types are equal, either one is returned (retained). If
// exactly one side is Pend, the non-pending side is returned (retained):
// Pend acts as a bottom value that absorbs on unify. Any other mismatch
// fails.
func Unify(a, b *Type) *Type {
	if Equals(a, b) {
		Retain(a)
		return a
	}
	if a.Kind == Pend && b.Kind != Pend {
		Retain(b)
		return b
	}
	if b.Kind == Pend && a.Kind != Pend {
		Retain(a)
		return a
	}
	return nil
}

func isIntOrPend(t *Type) bool {
	return t.Kind == Int || t.Kind == Pend
}

// TypeBinary computes the result type of a binary operator application,
// or nil if lhs/rhs are incompatible with op.
func TypeBinary(op token.Type, lhs, rhs *Type) *Type {
	switch op {
	case token.EQ:
		if !Equals(lhs, rhs) {
			return nil
		}
		return NewBool()

	case token.LT, token.GT:
		if !isIntOrPend(lhs) || !isIntOrPend(rhs) {
			return nil
		}
		return NewBool()

	case token.PLUS, token.MINUS, token.STAR, token.SLASH:
		if !isIntOrPend(lhs) || !isIntOrPend(rhs) {
			return nil
		}
		if lhs.Kind == Int {
			Retain(lhs)
			return lhs
		}
		if rhs.Kind == Int {
			Retain(rhs)
			return rhs
		}
		return NewInt()

	default:
		return nil
	}
}
