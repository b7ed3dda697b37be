package codegen

import (
	"fmt"

	"tinygo.org/x/go-llvm"

	"github.com/tsg-lang/tsg/internal/ast"
	"github.com/tsg-lang/tsg/internal/types"
)

// frameInstance is the lowering-time state of one (function,
// instantiation) activation: the native struct type synthesized for
// this instantiation's frame, plus the alloca currently holding it
// while that function's body is being lowered.
type frameInstance struct {
	fn      *ast.Function
	env     *types.TypeEnv
	typ     llvm.Type // struct { i8* chain; member0; member1; ... }
	alloca  llvm.Value
	chainIn llvm.Value // this function's incoming static-chain parameter
}

// frameType builds (or returns the memoized) native struct type for
// fn's frame in instantiation env: slot 0 is the opaque static-chain
// pointer, slots 1..N are the declared members in declaration order,
// each typed by env's binding for that member's type variable.
func (g *Generator) frameType(fn *ast.Function, env *types.TypeEnv) llvm.Type {
	key := instKey{fn, env}
	if t, ok := g.frameTypes[key]; ok {
		return t
	}

	name := fmt.Sprintf("%s.frame.%d", fn.Name, len(g.frameTypes))
	st := g.ctx.StructCreateNamed(name)
	g.frameTypes[key] = st // register before computing member types: a self-referential member (a nested fn capturing this frame) only ever needs the opaque chain type, so no cycle arises.

	fields := make([]llvm.Type, 0, len(fn.Frame.Members)+1)
	fields = append(fields, g.chainPtrType())
	for _, m := range fn.Frame.Members {
		fields = append(fields, g.convTy(types.GetVar(env, m.TypeVar)))
	}
	st.StructSetBody(fields, false)
	return st
}

// ancestorEnv returns the function and instantiation env that lexically
// enclose (fn, env), recovered by stepping fn.Frame.Outer and env.Outer
// in lockstep (they advance at exactly the same
// function-nesting boundaries, since both chains are built only when a
// function is opened: frame.Outer by the resolver, TypeEnv.Outer by the
// verifier's instantiate).
func (g *Generator) ancestorEnv(fn *ast.Function, env *types.TypeEnv) (*ast.Function, *types.TypeEnv) {
	outerFn := g.frameOwner[fn.Frame.Outer]
	return outerFn, env.Outer
}

// chainGEP returns a pointer to the activation's frame at static depth
// d, reached from the currently-lowering frame fi by following the
// static chain: starting at the
// current frame alloca, while the current depth exceeds d, load slot 0
// (the opaque outer-frame pointer) and bit-cast it to that ancestor's
// concrete frame-struct pointer type.
func (g *Generator) chainGEP(fi *frameInstance, d int) llvm.Value {
	curFn, curEnv, curPtr := fi.fn, fi.env, fi.alloca
	for curFn.Frame.Depth > d {
		chainVal := g.loadSlot(curPtr, 0, "chain")
		outerFn, outerEnv := g.ancestorEnv(curFn, curEnv)
		outerTy := g.frameType(outerFn, outerEnv)
		curPtr = g.builder.CreateBitCast(chainVal, llvm.PointerType(outerTy, 0), "chain.cast")
		curFn, curEnv = outerFn, outerEnv
	}
	return curPtr
}

// memberGEP returns a pointer to member m's slot within the frame
// reached at its declaring depth, for use from inside fi. memberDepth is the static nesting depth of the function
// that declared m (distinct from fi.fn's own depth when m lives in an
// enclosing function).
func (g *Generator) memberGEP(fi *frameInstance, memberDepth, index int) llvm.Value {
	target := g.chainGEP(fi, memberDepth)
	return g.gepField(target, index+1)
}

// gepField computes &ptr->field[idx] using the classic two-index
// struct GEP ([i32 0, i32 idx]).
func (g *Generator) gepField(ptr llvm.Value, idx int) llvm.Value {
	zero := llvm.ConstInt(g.ctx.Int32Type(), 0, false)
	fieldIdx := llvm.ConstInt(g.ctx.Int32Type(), uint64(idx), false)
	return g.builder.CreateGEP(ptr, []llvm.Value{zero, fieldIdx}, "")
}

func (g *Generator) loadSlot(ptr llvm.Value, idx int, name string) llvm.Value {
	return g.builder.CreateLoad(g.gepField(ptr, idx), name)
}

func (g *Generator) storeSlot(ptr llvm.Value, idx int, val llvm.Value) {
	g.builder.CreateStore(val, g.gepField(ptr, idx))
}
