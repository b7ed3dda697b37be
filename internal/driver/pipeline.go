// Package driver implements the tsg command-line pipeline: read source, run resolver+verifier, halt on
// diagnostics, otherwise lower to native code and JIT-execute the
// entry point. Each phase boundary is a hard gate: only a clean
// resolve+verify proceeds to lowering.
package driver

import (
	"fmt"

	"github.com/tsg-lang/tsg/internal/ast"
	"github.com/tsg-lang/tsg/internal/codegen"
	"github.com/tsg-lang/tsg/internal/diag"
	"github.com/tsg-lang/tsg/internal/parser"
	"github.com/tsg-lang/tsg/internal/resolver"
	"github.com/tsg-lang/tsg/internal/types"
	"github.com/tsg-lang/tsg/internal/verifier"
)

// EntryFuncName is the function the driver instantiates and runs by
// default; tsg.toml's entry setting may override it.
const EntryFuncName = "main"

// Result is the outcome of a successful run.
type Result struct {
	Value int32
}

// Outcome reports which phase a run stopped at, for the CLI to render
// "syntax ok" versus "result = N".
type Outcome struct {
	// SyntaxOK is true once lex+parse produced no diagnostics.
	SyntaxOK bool
	// Diagnostics holds whatever phase's diagnostics halted the
	// pipeline (parser, resolver, or verifier). Empty on success.
	Diagnostics []diag.Diagnostic
	// Result is populated only when the pipeline ran to completion.
	Result *Result
}

// Run executes the full tsg pipeline over src, halting at the first
// phase boundary with non-empty diagnostics. entryName names the function
// to instantiate and execute (normally EntryFuncName).
func Run(src string, entryName string) (Outcome, error) {
	return RunOptimized(src, entryName, false)
}

// RunOptimized is Run with tsg.toml's optimize flag threaded through to
// the codegen layer: when true, the lowered module runs LLVM's
// function-level optimization passes before the JIT executes it.
func RunOptimized(src string, entryName string, optimize bool) (Outcome, error) {
	diags := &diag.List{}

	prog := parser.ParseProgram(src, diags)
	if !diags.Empty() {
		return Outcome{Diagnostics: diags.All()}, nil
	}

	root := prog.ToRootFunction()
	resolver.Resolve(root, diags)
	if !diags.Empty() {
		return Outcome{SyntaxOK: true, Diagnostics: diags.All()}, nil
	}

	rootEnv := verifier.Verify(root, diags)
	entryEnv, entryFn, ok := verifier.InstantiateEntry(root, rootEnv, entryName, diags)
	if !ok && diags.Empty() {
		if entryFn != nil {
			return Outcome{}, fmt.Errorf("%s: entry point must take zero parameters", entryFn.Name)
		}
		diags.Add(root.Pos(), "undeclared '%s'", entryName)
	}
	if !diags.Empty() {
		return Outcome{SyntaxOK: true, Diagnostics: diags.All()}, nil
	}

	if err := checkEntrySignature(entryFn, entryEnv); err != nil {
		return Outcome{}, err
	}

	result, err := lowerAndRun(root, rootEnv, entryFn, entryEnv, optimize)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{SyntaxOK: true, Result: result}, nil
}

// checkEntrySignature requires the entry function to take zero
// parameters and return Int. This is a structural requirement on the
// program's external interface, not a type error inside it, so it
// surfaces as a Go error rather than a diag.Diagnostic.
func checkEntrySignature(fn *ast.Function, env *types.TypeEnv) error {
	if len(fn.Params) != 0 {
		return fmt.Errorf("%s: entry point must take zero parameters", fn.Name)
	}
	ft := types.GetVar(env, fn.FuncTypeVar)
	if ft == nil || ft.Ret == nil || ft.Ret.Kind != types.Int {
		return fmt.Errorf("%s: entry point's return type must be Int", fn.Name)
	}
	return nil
}

// lowerAndRun lowers the verified instantiation to LLVM IR and
// JIT-executes it.
func lowerAndRun(root *ast.Function, rootEnv *types.TypeEnv, entryFn *ast.Function, entryEnv *types.TypeEnv, optimize bool) (*Result, error) {
	gen := codegen.NewGenerator(root.Name)
	entryLLVMFn, err := gen.Generate(root, rootEnv, entryFn, entryEnv)
	if err != nil {
		gen.Dispose()
		return nil, err
	}
	if err := gen.Verify(); err != nil {
		gen.Dispose()
		return nil, fmt.Errorf("internal codegen error: %w", err)
	}
	if optimize {
		gen.Optimize()
	}

	jit, err := codegen.NewJIT(gen)
	if err != nil {
		gen.Dispose()
		return nil, err
	}
	defer jit.Dispose()

	return &Result{Value: jit.RunInt32(entryLLVMFn)}, nil
}
