// Package codegen lowers a verified tsg AST to native machine code
// through LLVM, one native function per (source function, argument-type
// tuple) instantiation. Each instantiation gets its own frame struct
// type; bindings in enclosing functions are reached by walking the
// static chain stored in every frame's slot 0.
package codegen

import (
	"fmt"

	"tinygo.org/x/go-llvm"

	"github.com/tsg-lang/tsg/internal/ast"
	"github.com/tsg-lang/tsg/internal/frame"
	"github.com/tsg-lang/tsg/internal/types"
)

// instKey identifies one (function, argument-type-tuple) instantiation
// for memoization. Lowering is driven entirely off the *types.TypeEnv
// the verifier already produced for that tuple, so
// the environment's identity doubles as the tuple's identity: a given
// Poly's call-map holds exactly one TypeEnv per distinct tuple.
type instKey struct {
	fn  *ast.Function
	env *types.TypeEnv
}

// Generator lowers a resolved-and-verified AST to one LLVM module,
// memoizing emitted functions and their frame struct types in a
// two-level table keyed by instKey.
type Generator struct {
	ctx     llvm.Context
	mod     llvm.Module
	builder llvm.Builder

	funcs      map[instKey]llvm.Value
	frameTypes map[instKey]llvm.Type

	// frameOwner maps a resolver-built frame.Frame back to the
	// ast.Function that introduced it, so the static-chain walk can
	// recover the ancestor instantiation's env from its frame without
	// the AST carrying a back-pointer.
	frameOwner map[*frame.Frame]*ast.Function

	// memberFrame maps a frame.Member back to the frame.Frame that
	// declares it, so an Ident's static depth can be read off its
	// binding without the frame.Member itself carrying a back-pointer.
	memberFrame map[*frame.Member]*frame.Frame

	pending  int
	disposed bool
}

// chainPtrType is the LLVM type of a static-chain pointer: an opaque
// i8* that every frame struct's slot 0 holds and every lowered
// function's first parameter receives.
func (g *Generator) chainPtrType() llvm.Type {
	return llvm.PointerType(g.ctx.Int8Type(), 0)
}

// NewGenerator creates a Generator targeting a fresh LLVM module named
// moduleName.
func NewGenerator(moduleName string) *Generator {
	ctx := llvm.NewContext()
	return &Generator{
		ctx:         ctx,
		mod:         ctx.NewModule(moduleName),
		builder:     ctx.NewBuilder(),
		funcs:       make(map[instKey]llvm.Value),
		frameTypes:  make(map[instKey]llvm.Type),
		frameOwner:  make(map[*frame.Frame]*ast.Function),
		memberFrame: make(map[*frame.Member]*frame.Frame),
	}
}

// Dispose releases the builder, module, and context. Safe to call more
// than once.
func (g *Generator) Dispose() {
	if g.disposed {
		return
	}
	g.disposed = true
	g.builder.Dispose()
	g.mod.Dispose()
	g.ctx.Dispose()
}

// Module exposes the underlying LLVM module, e.g. for IR dumping or
// verification.
func (g *Generator) Module() llvm.Module { return g.mod }

// registerFrameOwners walks every function reachable from root
// (including through nested function declarations inside if/else
// blocks) and records frameOwner[fn.Frame] = fn, so the chain walk can
// map a frame back to the instantiation env that produced its members'
// types.
func (g *Generator) registerFrameOwners(root *ast.Function) {
	g.walkFunction(root)
}

func (g *Generator) walkFunction(fn *ast.Function) {
	g.frameOwner[fn.Frame] = fn
	for _, m := range fn.Frame.Members {
		g.memberFrame[m] = fn.Frame
	}
	g.walkBlock(fn.Body)
}

func (g *Generator) walkBlock(b *ast.Block) {
	for _, nested := range b.Funcs {
		g.walkFunction(nested)
	}
	for _, stmt := range b.Stmts {
		switch s := stmt.(type) {
		case *ast.ValStmt:
			g.walkExpr(s.Value)
		case *ast.ExprStmt:
			g.walkExpr(s.X)
		}
	}
}

func (g *Generator) walkExpr(e ast.Expression) {
	switch ex := e.(type) {
	case *ast.Binary:
		g.walkExpr(ex.Lhs)
		g.walkExpr(ex.Rhs)
	case *ast.Call:
		g.walkExpr(ex.Callee)
		for _, a := range ex.Args {
			g.walkExpr(a)
		}
	case *ast.IfElse:
		g.walkExpr(ex.Cond)
		g.walkBlock(ex.Then)
		g.walkBlock(ex.Else)
	}
}

// convTy maps a verified tsg type to its LLVM representation. t.Kind
// must not be Pend: that invariant is guaranteed once verification
// reports no diagnostics.
func (g *Generator) convTy(t *types.Type) llvm.Type {
	switch t.Kind {
	case types.Bool:
		return g.ctx.Int1Type()
	case types.Int:
		return g.ctx.Int32Type()
	case types.Func:
		return llvm.PointerType(g.convFuncTy(t), 0)
	case types.Poly:
		return g.chainPtrType()
	default:
		panic(fmt.Sprintf("codegen: %s type reached lowering", t.Kind))
	}
}

// convFuncTy lowers a Func{params, ret} type to a native function type
// whose first parameter is the static-chain pointer.
func (g *Generator) convFuncTy(t *types.Type) llvm.Type {
	params := make([]llvm.Type, 0, len(t.Params)+1)
	params = append(params, g.chainPtrType())
	for _, p := range t.Params {
		params = append(params, g.convTy(p))
	}
	return llvm.FunctionType(g.convTy(t.Ret), params, false)
}
