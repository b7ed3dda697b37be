package codegen

import (
	"strings"
	"testing"

	"github.com/tsg-lang/tsg/internal/ast"
	"github.com/tsg-lang/tsg/internal/diag"
	"github.com/tsg-lang/tsg/internal/parser"
	"github.com/tsg-lang/tsg/internal/resolver"
	"github.com/tsg-lang/tsg/internal/verifier"
)

func compile(t *testing.T, src string) (*Generator, *ast.Function) {
	t.Helper()
	diags := &diag.List{}
	prog := parser.ParseProgram(src, diags)
	if !diags.Empty() {
		t.Fatalf("parse diagnostics: %v", diags.All())
	}
	root := prog.ToRootFunction()
	resolver.Resolve(root, diags)
	if !diags.Empty() {
		t.Fatalf("resolve diagnostics: %v", diags.All())
	}
	rootEnv := verifier.Verify(root, diags)
	mainEnv, mainFn, ok := verifier.InstantiateEntry(root, rootEnv, "main", diags)
	if !diags.Empty() {
		t.Fatalf("verify diagnostics: %v", diags.All())
	}
	if !ok {
		t.Fatal("expected a main function")
	}

	g := NewGenerator("test")
	if _, err := g.Generate(root, rootEnv, mainFn, mainEnv); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if err := g.Verify(); err != nil {
		t.Fatalf("module failed verification:\n%s\n%v", g.String(), err)
	}
	return g, mainFn
}

func TestGenerateLiteralEmitsEntryAndMain(t *testing.T) {
	g, _ := compile(t, "def main() { 42; }")
	defer g.Dispose()

	ir := g.String()
	if !strings.Contains(ir, "define i32 @"+entryFuncName) {
		t.Fatalf("expected entry function in IR:\n%s", ir)
	}
	if !strings.Contains(ir, "main$0") {
		t.Fatalf("expected a lowered main instantiation in IR:\n%s", ir)
	}
}

func TestGenerateMemoizesSingleInstantiationPerArgTuple(t *testing.T) {
	g, _ := compile(t, "def id(x) { x; } def main() { id(7) + id(8); }")
	defer g.Dispose()

	ir := g.String()
	if strings.Count(ir, "define i32 @id$") != 1 {
		t.Fatalf("expected id to be lowered exactly once, got IR:\n%s", ir)
	}
}

func TestGenerateRecursiveFactorial(t *testing.T) {
	g, _ := compile(t, "def fact(n) { if (n < 2) { 1; } else { n * fact(n - 1); } } def main() { fact(5); }")
	defer g.Dispose()

	ir := g.String()
	if !strings.Contains(ir, "call i32 @fact$") {
		t.Fatalf("expected fact's recursive call to be lowered:\n%s", ir)
	}
}

func TestGenerateClosureOverOuterParameter(t *testing.T) {
	g, _ := compile(t, `
def adder(a) {
	def bump(x) { x + a; }
	bump(1);
}
def main() { adder(41); }
`)
	defer g.Dispose()

	ir := g.String()
	if !strings.Contains(ir, "define i32 @bump$") {
		t.Fatalf("expected nested bump to be lowered:\n%s", ir)
	}
}
