// Package resolver binds every identifier use to a frame member and
// allocates the type variable every expression and member needs before
// the verifier runs.
package resolver

import (
	"github.com/tsg-lang/tsg/internal/ast"
	"github.com/tsg-lang/tsg/internal/diag"
	"github.com/tsg-lang/tsg/internal/frame"
	"github.com/tsg-lang/tsg/internal/types"
)

type resolver struct {
	diags *diag.List
}

// Resolve binds root (the synthesized program root, see
// ast.Program.ToRootFunction) in place, accumulating diagnostics so
// callers can decide whether to proceed to verification. Resolving the
// same AST twice is forbidden: it would reallocate every frame and
// type variable out from under the first pass's bindings.
func Resolve(root *ast.Function, diags *diag.List) {
	if root.TypeSet != nil {
		panic("resolver: AST already resolved")
	}
	r := &resolver{diags: diags}
	r.resolveFunction(root, nil, nil, nil)
}

// resolveFunction opens fn's own type set, frame, and scope (nested
// inside outerSet/outerFrame/outerScope, all nil for the root), declares
// its parameters, and resolves its body.
func (r *resolver) resolveFunction(fn *ast.Function, outerSet *types.TypeSet, outerFrame *frame.Frame, outerScope *frame.Scope) {
	fn.TypeSet = types.NewTypeSet(outerSet)
	fn.Frame = frame.NewFrame(outerFrame)
	fn.FuncTypeVar = fn.TypeSet.NewVar()
	scope := frame.NewScope(outerScope)

	for _, p := range fn.Params {
		name := p.Name.Literal
		if scope.DeclaredHere(name) {
			r.diags.Add(p.Name.Pos, "redefinition '%s'", name)
			continue
		}
		p.Member = fn.Frame.AddMember(name, fn.TypeSet)
		scope.Declare(name, p.Member)
	}

	r.resolveBlock(fn.Body, fn.TypeSet, fn.Frame, scope)
}

// resolveBlock runs two passes over b: every nested function is
// declared (and its member/type-var allocated) before any nested
// function's body is resolved, and before any statement in this block
// is walked.
func (r *resolver) resolveBlock(b *ast.Block, set *types.TypeSet, fr *frame.Frame, scope *frame.Scope) {
	for _, nested := range b.Funcs {
		name := nested.Name
		if scope.DeclaredHere(name) {
			r.diags.Add(nested.NamePos, "redefinition '%s'", name)
			continue
		}
		nested.Member = fr.AddMember(name, set)
		scope.Declare(name, nested.Member)
	}

	for _, nested := range b.Funcs {
		r.resolveFunction(nested, set, fr, scope)
	}

	for _, stmt := range b.Stmts {
		r.resolveStatement(stmt, set, fr, scope)
	}
}

func (r *resolver) resolveStatement(stmt ast.Statement, set *types.TypeSet, fr *frame.Frame, scope *frame.Scope) {
	switch s := stmt.(type) {
	case *ast.ValStmt:
		// Resolve the right-hand side before declaring the new binding,
		// so `val x = x;` refers to an outer `x`.
		r.resolveExpr(s.Value, set, fr, scope)

		name := s.Decl.Name.Literal
		if scope.DeclaredHere(name) {
			r.diags.Add(s.Decl.Name.Pos, "redefinition '%s'", name)
			return
		}
		s.Decl.Member = fr.AddMember(name, set)
		scope.Declare(name, s.Decl.Member)

	case *ast.ExprStmt:
		r.resolveExpr(s.X, set, fr, scope)

	default:
		panic("resolver: unknown statement type")
	}
}

func (r *resolver) resolveExpr(expr ast.Expression, set *types.TypeSet, fr *frame.Frame, scope *frame.Scope) {
	switch e := expr.(type) {
	case *ast.Number:
		// No children, no binding.

	case *ast.Ident:
		m, ok := scope.Lookup(e.Name)
		if !ok {
			r.diags.Add(e.NamePos, "undeclared '%s'", e.Name)
		} else {
			e.Binding = m
		}

	case *ast.Binary:
		r.resolveExpr(e.Lhs, set, fr, scope)
		r.resolveExpr(e.Rhs, set, fr, scope)

	case *ast.Call:
		r.resolveExpr(e.Callee, set, fr, scope)
		for _, a := range e.Args {
			r.resolveExpr(a, set, fr, scope)
		}

	case *ast.IfElse:
		r.resolveExpr(e.Cond, set, fr, scope)

		thenScope := frame.NewScope(scope)
		r.resolveBlock(e.Then, set, fr, thenScope)

		elseScope := frame.NewScope(scope)
		r.resolveBlock(e.Else, set, fr, elseScope)

	default:
		panic("resolver: unknown expression type")
	}

	expr.SetTypeVar(set.NewVar())
}
