package codegen

import (
	"fmt"

	"tinygo.org/x/go-llvm"

	"github.com/tsg-lang/tsg/internal/ast"
	"github.com/tsg-lang/tsg/internal/types"
)

// entryFuncName is the symbol the driver asks the JIT engine for the
// address of, and invokes with no arguments.
const entryFuncName = "tsg.entry"

// Generate lowers root's instantiations reachable from entryName
// (typically "main") into g's module and returns the lowered entry
// function, ready to JIT-execute. root and rootEnv are the verifier's
// synthesized-program-root instantiation (verifier.Verify's result); fn
// and env are the result of verifier.InstantiateEntry(root, rootEnv,
// entryName, ...).
//
// The synthesized root function is never itself called the way a
// user-defined function is: its body has no statements to return a
// value from, since a nil block result is only legal for the
// synthesized root block. Instead Generate builds the root's frame —
// materializing each top-level def's captured chain pointer the same
// way any block's lowering does — inside a dedicated wrapper function,
// then calls the requested entry function with that frame as its
// static-chain argument.
func (g *Generator) Generate(root *ast.Function, rootEnv *types.TypeEnv, fn *ast.Function, env *types.TypeEnv) (llvm.Value, error) {
	g.registerFrameOwners(root)

	retTy := types.GetVar(env, fn.FuncTypeVar).Ret
	if retTy == nil || retTy.Kind == types.Pend {
		return llvm.Value{}, fmt.Errorf("codegen: entry function's return type is not resolved")
	}

	entryTy := llvm.FunctionType(g.convTy(retTy), nil, false)
	entryFn := llvm.AddFunction(g.mod, entryFuncName, entryTy)

	block := llvm.AddBasicBlock(entryFn, "entry")
	g.builder.SetInsertPointAtEnd(block)

	rootFrameTy := g.frameType(root, rootEnv)
	rootFrame := &frameInstance{
		fn:      root,
		env:     rootEnv,
		typ:     rootFrameTy,
		alloca:  g.builder.CreateAlloca(rootFrameTy, "root.frame"),
		chainIn: llvm.ConstNull(g.chainPtrType()),
	}
	g.storeSlot(rootFrame.alloca, 0, rootFrame.chainIn)
	chainVal := g.builder.CreateBitCast(rootFrame.alloca, g.chainPtrType(), "")
	for _, nested := range root.Body.Funcs {
		g.storeSlot(rootFrame.alloca, nested.Member.Index+1, chainVal)
	}

	target := g.requestFunction(fn, env)
	result := g.builder.CreateCall(target, []llvm.Value{chainVal}, "")
	g.builder.CreateRet(result)

	return entryFn, nil
}

// Verify runs the standard LLVM module verifier, surfacing any
// invariant violation as a Go error.
func (g *Generator) Verify() error {
	return llvm.VerifyModule(g.mod, llvm.ReturnStatusAction)
}

// String renders the module's textual IR.
func (g *Generator) String() string {
	return g.mod.String()
}
