package codegen

import (
	"fmt"

	"tinygo.org/x/go-llvm"

	"github.com/tsg-lang/tsg/internal/ast"
	"github.com/tsg-lang/tsg/internal/token"
	"github.com/tsg-lang/tsg/internal/types"
)

// requestFunction returns the native function for instantiation
// (fn, env), emitting it on first request and memoizing the result.
func (g *Generator) requestFunction(fn *ast.Function, env *types.TypeEnv) llvm.Value {
	key := instKey{fn, env}
	if v, ok := g.funcs[key]; ok {
		return v
	}
	return g.emitFunction(fn, env)
}

// emitFunction builds the native function for one (function, env)
// instantiation: a native function, its frame alloca, parameter
// stores into frame slots, and finally the lowered body.
func (g *Generator) emitFunction(fn *ast.Function, env *types.TypeEnv) llvm.Value {
	key := instKey{fn, env}

	funcTy := types.GetVar(env, fn.FuncTypeVar)
	llvmFnTy := g.convFuncTy(funcTy)

	name := fmt.Sprintf("%s$%d", fn.Name, g.pending)
	g.pending++
	llvmFn := llvm.AddFunction(g.mod, name, llvmFnTy)
	g.funcs[key] = llvmFn // register before lowering the body: recursive calls must find it.

	frameTy := g.frameType(fn, env)

	entry := llvm.AddBasicBlock(llvmFn, "entry")
	savedBlock := g.builder.GetInsertBlock()
	g.builder.SetInsertPointAtEnd(entry)

	fi := &frameInstance{
		fn:      fn,
		env:     env,
		typ:     frameTy,
		alloca:  g.builder.CreateAlloca(frameTy, "frame"),
		chainIn: llvmFn.Param(0),
	}
	g.storeSlot(fi.alloca, 0, fi.chainIn)
	for i, p := range fn.Params {
		g.storeSlot(fi.alloca, p.Member.Index+1, llvmFn.Param(i+1))
	}

	ret := g.lowerBlock(fi, fn.Body)
	g.builder.CreateRet(ret)

	if !savedBlock.IsNil() {
		g.builder.SetInsertPointAtEnd(savedBlock)
	}
	return llvmFn
}

// lowerBlock lowers b: first, every
// nested function declared directly in this block captures the
// current frame pointer (bit-cast to the opaque chain type) into its
// member's slot; then statements lower in order. The block's value is
// the last statement's (required non-nil for any block actually
// lowered — the synthesized root's empty body is never lowered this
// way, see Generate).
func (g *Generator) lowerBlock(fi *frameInstance, b *ast.Block) llvm.Value {
	chainVal := g.builder.CreateBitCast(fi.alloca, g.chainPtrType(), "")
	for _, nested := range b.Funcs {
		g.storeSlot(fi.alloca, nested.Member.Index+1, chainVal)
	}

	var last llvm.Value
	for _, stmt := range b.Stmts {
		last = g.lowerStmt(fi, stmt)
	}
	return last
}

func (g *Generator) lowerStmt(fi *frameInstance, stmt ast.Statement) llvm.Value {
	switch s := stmt.(type) {
	case *ast.ValStmt:
		v := g.lowerExpr(fi, s.Value)
		g.storeSlot(fi.alloca, s.Decl.Member.Index+1, v)
		return v

	case *ast.ExprStmt:
		return g.lowerExpr(fi, s.X)

	default:
		panic("codegen: unknown statement type")
	}
}

func (g *Generator) lowerExpr(fi *frameInstance, e ast.Expression) llvm.Value {
	switch ex := e.(type) {
	case *ast.Number:
		return llvm.ConstInt(g.ctx.Int32Type(), uint64(uint32(ex.Value)), false)

	case *ast.Ident:
		ownerFrame := g.memberFrame[ex.Binding]
		return g.memberGEPLoad(fi, ownerFrame.Depth, ex.Binding.Index)

	case *ast.Binary:
		return g.lowerBinary(fi, ex)

	case *ast.IfElse:
		return g.lowerIfElse(fi, ex)

	case *ast.Call:
		return g.lowerCall(fi, ex)

	default:
		panic("codegen: unknown expression type")
	}
}

func (g *Generator) memberGEPLoad(fi *frameInstance, depth, index int) llvm.Value {
	ptr := g.memberGEP(fi, depth, index)
	return g.builder.CreateLoad(ptr, "")
}

func (g *Generator) lowerBinary(fi *frameInstance, b *ast.Binary) llvm.Value {
	l := g.lowerExpr(fi, b.Lhs)
	r := g.lowerExpr(fi, b.Rhs)
	switch b.Op {
	case token.EQ:
		return g.builder.CreateICmp(llvm.IntEQ, l, r, "")
	case token.LT:
		return g.builder.CreateICmp(llvm.IntSLT, l, r, "")
	case token.GT:
		return g.builder.CreateICmp(llvm.IntSGT, l, r, "")
	case token.PLUS:
		return g.builder.CreateAdd(l, r, "")
	case token.MINUS:
		return g.builder.CreateSub(l, r, "")
	case token.STAR:
		return g.builder.CreateMul(l, r, "")
	case token.SLASH:
		return g.builder.CreateSDiv(l, r, "")
	default:
		panic("codegen: unknown binary operator")
	}
}

// lowerIfElse emits a cond-branch, lowers both branch blocks, and
// merges with a phi. Each branch block is
// always terminated with an unconditional branch to the merge block;
// tsg has no early-exit control flow, so a lowered branch block never
// ends in a terminator of its own.
func (g *Generator) lowerIfElse(fi *frameInstance, n *ast.IfElse) llvm.Value {
	cond := g.lowerExpr(fi, n.Cond)

	fn := g.builder.GetInsertBlock().Parent()
	thenBB := llvm.AddBasicBlock(fn, "if.then")
	elseBB := llvm.AddBasicBlock(fn, "if.else")
	mergeBB := llvm.AddBasicBlock(fn, "if.merge")

	g.builder.CreateCondBr(cond, thenBB, elseBB)

	g.builder.SetInsertPointAtEnd(thenBB)
	thenVal := g.lowerBlock(fi, n.Then)
	thenEnd := g.builder.GetInsertBlock()
	g.builder.CreateBr(mergeBB)

	g.builder.SetInsertPointAtEnd(elseBB)
	elseVal := g.lowerBlock(fi, n.Else)
	elseEnd := g.builder.GetInsertBlock()
	g.builder.CreateBr(mergeBB)

	g.builder.SetInsertPointAtEnd(mergeBB)
	phi := g.builder.CreatePHI(thenVal.Type(), "")
	phi.AddIncoming([]llvm.Value{thenVal, elseVal}, []llvm.BasicBlock{thenEnd, elseEnd})
	return phi
}

// lowerCall: the callee expression's lowered value is the static-chain
// pointer to pass, and the concrete instantiation to invoke is found
// via the callee's Poly call-map, keyed by the argument types the
// verifier already recorded in this same environment.
func (g *Generator) lowerCall(fi *frameInstance, c *ast.Call) llvm.Value {
	chainArg := g.lowerExpr(fi, c.Callee)

	calleeTy := types.GetVar(fi.env, c.Callee.TypeVar())
	calleeFn := calleeTy.Fn.(*ast.Function)

	argTys := make([]*types.Type, len(c.Args))
	args := make([]llvm.Value, len(c.Args)+1)
	args[0] = chainArg
	for i, a := range c.Args {
		argTys[i] = types.GetVar(fi.env, a.TypeVar())
		args[i+1] = g.lowerExpr(fi, a)
	}

	calleeEnv := calleeTy.Calls.Get(argTys)
	target := g.requestFunction(calleeFn, calleeEnv)
	return g.builder.CreateCall(target, args, "")
}
