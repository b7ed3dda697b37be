package codegen

import (
	"fmt"
	"sync"

	"tinygo.org/x/go-llvm"
)

var initOnce sync.Once

// initNativeTarget wires in MCJIT and the host's native target exactly
// once per process — required before any llvm.NewExecutionEngine call.
func initNativeTarget() {
	initOnce.Do(func() {
		llvm.LinkInMCJIT()
		llvm.InitializeNativeTarget()
		llvm.InitializeNativeAsmPrinter()
	})
}

// Optimize runs LLVM's standard function-level optimization passes
// (instruction combining, reassociation, GVN, CFG simplification) over
// every function in g's module. tsg.toml's optimize flag gates this;
// it is off by default so the lowered IR stays a straightforward
// translation of the source.
func (g *Generator) Optimize() {
	pm := llvm.NewFunctionPassManagerForModule(g.mod)
	defer pm.Dispose()

	pm.AddInstructionCombiningPass()
	pm.AddReassociatePass()
	pm.AddGVNPass()
	pm.AddCFGSimplificationPass()
	pm.InitializeFunc()

	for fn := g.mod.FirstFunction(); !fn.IsNil(); fn = llvm.NextFunction(fn) {
		pm.RunFunc(fn)
	}
	pm.FinalizeFunc()
}

// JIT wraps an LLVM MCJIT execution engine over one generated module.
type JIT struct {
	engine llvm.ExecutionEngine
}

// NewJIT builds an execution engine over g's module, taking ownership
// of it (the engine disposes the module, not g — callers should not
// call g.Dispose after a successful NewJIT).
func NewJIT(g *Generator) (*JIT, error) {
	initNativeTarget()
	engine, err := llvm.NewExecutionEngine(g.mod)
	if err != nil {
		return nil, fmt.Errorf("codegen: creating execution engine: %w", err)
	}
	g.disposed = true // ownership transferred to the engine
	return &JIT{engine: engine}, nil
}

// Dispose releases the execution engine and the module it owns.
func (j *JIT) Dispose() {
	j.engine.Dispose()
}

// RunInt32 invokes fn (a zero-argument function returning i1 or i32,
// as tsg's entry point always does) and returns its result
// sign-extended to int32.
func (j *JIT) RunInt32(fn llvm.Value) int32 {
	gv := j.engine.RunFunction(fn, nil)
	return int32(gv.Int(true))
}
