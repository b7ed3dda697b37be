// Package verifier implements tsg's monomorphizing type inferencer: it
// walks a resolved AST, instantiating each called function once per
// distinct argument-type tuple and memoizing the result in that
// function's Poly call-map.
package verifier

import (
	"github.com/tsg-lang/tsg/internal/ast"
	"github.com/tsg-lang/tsg/internal/diag"
	"github.com/tsg-lang/tsg/internal/types"
)

type verifier struct {
	diags *diag.List
	// env is the type environment for the instantiation currently being
	// inferred.
	env *types.TypeEnv
}

// Verify instantiates root (the synthesized program root) with the
// empty argument tuple and returns the resulting root type environment
// for lowering to consume. The environment is handed back to the
// caller only; no field of the AST stores it.
func Verify(root *ast.Function, diags *diag.List) *types.TypeEnv {
	v := &verifier{diags: diags}
	rootPoly := types.NewPoly(root, nil)
	return v.instantiate(root, rootPoly, nil)
}

// InstantiateEntry instantiates the nested function named name (found
// directly under root, e.g. "main") with the empty argument tuple, the
// way the driver makes the program's entry point reachable for
// lowering. It reports ok=false if no such function exists, if it was
// never bound to a Poly (Verify must have run first), or if it takes
// parameters — an empty tuple cannot instantiate those. In the
// parameter case the function itself is still returned so the caller
// can name it in its error.
func InstantiateEntry(root *ast.Function, rootEnv *types.TypeEnv, name string, diags *diag.List) (env *types.TypeEnv, fn *ast.Function, ok bool) {
	for _, candidate := range root.Body.Funcs {
		if candidate.Name != name {
			continue
		}
		if len(candidate.Params) != 0 {
			return nil, candidate, false
		}
		poly := types.GetVar(rootEnv, candidate.Member.TypeVar)
		if poly == nil || poly.Kind != types.Poly {
			return nil, nil, false
		}
		v := &verifier{diags: diags}
		return v.instantiate(candidate, poly, nil), candidate, true
	}
	return nil, nil, false
}

// instantiate types one (function, argument-type tuple) pair: memoized
// lookup in the Poly's call-map, then a fresh environment with a
// Pend-then-replace return type. The call-map entry is added before the
// body is inferred so recursive calls find it and see the Pend return.
func (v *verifier) instantiate(fn *ast.Function, poly *types.Type, args []*types.Type) *types.TypeEnv {
	if env := poly.Calls.Get(args); env != nil {
		return env
	}

	env := types.NewTypeEnv(fn.TypeSet, poly.OuterEnv)
	poly.Calls.Add(args, env)

	selfTy := types.NewFunc(types.ArrDup(args), types.NewPend())
	types.SetVar(env, fn.FuncTypeVar, selfTy)
	types.Release(selfTy)

	for i, p := range fn.Params {
		types.SetVar(env, p.Member.TypeVar, args[i])
	}

	prevEnv := v.env
	v.env = env
	bodyType := v.inferBlock(fn.Body)
	v.env = prevEnv

	current := types.GetVar(env, fn.FuncTypeVar)
	if bodyType != nil {
		types.Release(current.Ret)
		types.Retain(bodyType)
		current.Ret = bodyType
	}
	return env
}

// inferBlock binds every nested function's member to a fresh Poly
// before inferring any statement, then infers statements in order,
// returning the last statement's type (nil for an empty block — legal
// only for the synthesized root).
func (v *verifier) inferBlock(b *ast.Block) *types.Type {
	for _, nested := range b.Funcs {
		poly := types.NewPoly(nested, v.env)
		types.SetVar(v.env, nested.Member.TypeVar, poly)
		types.Release(poly)
	}

	var last *types.Type
	for _, stmt := range b.Stmts {
		last = v.inferStatement(stmt)
	}
	return last
}

func (v *verifier) inferStatement(stmt ast.Statement) *types.Type {
	switch s := stmt.(type) {
	case *ast.ValStmt:
		t := v.inferExpr(s.Value)
		if t != nil {
			types.SetVar(v.env, s.Decl.Member.TypeVar, t)
		}
		return t

	case *ast.ExprStmt:
		return v.inferExpr(s.X)

	default:
		panic("verifier: unknown statement type")
	}
}

// inferExpr infers e's type, recording it into the current environment
// at e's own type variable afterward. A
// nil result means this subtree already produced a diagnostic and the
// caller should short-circuit without cascading.
func (v *verifier) inferExpr(e ast.Expression) *types.Type {
	t := v.inferExprKind(e)
	if t == nil {
		return nil
	}
	types.SetVar(v.env, e.TypeVar(), t)
	return t
}

func (v *verifier) inferExprKind(e ast.Expression) *types.Type {
	switch ex := e.(type) {
	case *ast.Number:
		return types.NewInt()

	case *ast.Ident:
		if ex.Binding == nil {
			// The resolver already reported "undeclared" for this ident.
			return nil
		}
		bound := types.GetVar(v.env, ex.Binding.TypeVar)
		types.Retain(bound)
		return bound

	case *ast.Binary:
		return v.inferBinary(ex)

	case *ast.IfElse:
		return v.inferIfElse(ex)

	case *ast.Call:
		return v.inferCall(ex)

	default:
		panic("verifier: unknown expression type")
	}
}

func (v *verifier) inferBinary(b *ast.Binary) *types.Type {
	lt := v.inferExpr(b.Lhs)
	rt := v.inferExpr(b.Rhs)
	if lt == nil || rt == nil {
		return nil
	}
	t := types.TypeBinary(b.Op, lt, rt)
	if t == nil {
		v.diags.Add(b.OpPos, "incompatible type")
		return nil
	}
	return t
}

func (v *verifier) inferIfElse(n *ast.IfElse) *types.Type {
	cond := v.inferExpr(n.Cond)
	if cond != nil && cond.Kind != types.Bool {
		v.diags.Add(n.Cond.Pos(), "cond expr must have boolean type")
	}

	thenType := v.inferBlock(n.Then)
	elseType := v.inferBlock(n.Else)
	if thenType == nil || elseType == nil {
		return nil
	}

	t := types.Unify(thenType, elseType)
	if t == nil {
		v.diags.Add(n.IfPos, "type miss match with thn_block and els_block")
		return nil
	}
	return t
}

func (v *verifier) inferCall(c *ast.Call) *types.Type {
	calleeTy := v.inferExpr(c.Callee)
	if calleeTy == nil {
		return nil
	}
	if calleeTy.Kind != types.Poly {
		v.diags.Add(c.Callee.Pos(), "callee is not a function")
		return nil
	}
	fn, ok := calleeTy.Fn.(*ast.Function)
	if !ok {
		v.diags.Add(c.Callee.Pos(), "callee is not a function")
		return nil
	}

	args := make([]*types.Type, 0, len(c.Args))
	failed := false
	for _, a := range c.Args {
		at := v.inferExpr(a)
		if at == nil {
			failed = true
			continue
		}
		args = append(args, at)
	}
	if failed {
		types.ArrDestroy(args)
		return nil
	}

	if len(args) < len(fn.Params) {
		v.diags.Add(c.LParen, "too few arguments")
		types.ArrDestroy(args)
		return nil
	}
	if len(args) > len(fn.Params) {
		v.diags.Add(c.LParen, "too many arguments")
		types.ArrDestroy(args)
		return nil
	}

	env := v.instantiate(fn, calleeTy, args)
	types.ArrDestroy(args)

	selfTy := types.GetVar(env, fn.FuncTypeVar)
	types.Retain(selfTy.Ret)
	return selfTy.Ret
}
