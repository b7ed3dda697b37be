package resolver

import (
	"testing"

	"github.com/tsg-lang/tsg/internal/ast"
	"github.com/tsg-lang/tsg/internal/diag"
	"github.com/tsg-lang/tsg/internal/parser"
)

func resolveSrc(t *testing.T, src string) (*ast.Function, *diag.List) {
	t.Helper()
	var diags diag.List
	prog := parser.ParseProgram(src, &diags)
	if !diags.Empty() {
		t.Fatalf("unexpected parse diagnostics: %v", diags.All())
	}
	root := prog.ToRootFunction()
	Resolve(root, &diags)
	return root, &diags
}

func TestResolveBindsIdent(t *testing.T) {
	root, diags := resolveSrc(t, "def add(a, b) { a + b; }")
	if !diags.Empty() {
		t.Fatalf("unexpected diagnostics: %v", diags.All())
	}
	add := root.Body.Funcs[0]
	bin := add.Body.Stmts[0].(*ast.ExprStmt).X.(*ast.Binary)
	lhs := bin.Lhs.(*ast.Ident)
	if lhs.Binding == nil || lhs.Binding != add.Params[0].Member {
		t.Fatal("expected lhs 'a' to bind to the first parameter's member")
	}
}

func TestResolveUndeclaredIdent(t *testing.T) {
	_, diags := resolveSrc(t, "def main() { foo; }")
	if diags.Empty() {
		t.Fatal("expected an undeclared diagnostic")
	}
	if diags.All()[0].Message != "undeclared 'foo'" {
		t.Fatalf("got %q", diags.All()[0].Message)
	}
}

func TestResolveRedefinitionInSameScope(t *testing.T) {
	_, diags := resolveSrc(t, "def main() { val x = 1; val x = 2; x; }")
	if diags.Empty() {
		t.Fatal("expected a redefinition diagnostic")
	}
	if diags.All()[0].Message != "redefinition 'x'" {
		t.Fatalf("got %q", diags.All()[0].Message)
	}
}

func TestResolveValSelfReferenceBindsOuter(t *testing.T) {
	// val x = x; inside an if-branch block should resolve the RHS to
	// the parameter from the enclosing scope, then shadow it with a new
	// binding local to the branch.
	root, diags := resolveSrc(t, "def f(x) { if (1 < 2) { val x = x; x; } else { x; }; }")
	if !diags.Empty() {
		t.Fatalf("unexpected diagnostics: %v", diags.All())
	}
	f := root.Body.Funcs[0]
	ifElse := f.Body.Stmts[0].(*ast.ExprStmt).X.(*ast.IfElse)
	valStmt := ifElse.Then.Stmts[0].(*ast.ValStmt)
	rhsIdent := valStmt.Value.(*ast.Ident)
	if rhsIdent.Binding != f.Params[0].Member {
		t.Fatal("expected val's RHS x to bind to the outer parameter")
	}
	finalIdent := ifElse.Then.Stmts[1].(*ast.ExprStmt).X.(*ast.Ident)
	if finalIdent.Binding != valStmt.Decl.Member {
		t.Fatal("expected trailing x to bind to the new val-declared local")
	}
}

func TestResolveValOverParameterIsRedefinition(t *testing.T) {
	// A function body shares its parameters' scope, so a val reusing a
	// parameter's name redeclares it rather than shadowing.
	_, diags := resolveSrc(t, "def f(x) { val x = 1; x; }")
	if diags.Empty() {
		t.Fatal("expected a redefinition diagnostic")
	}
	if diags.All()[0].Message != "redefinition 'x'" {
		t.Fatalf("got %q", diags.All()[0].Message)
	}
}

func TestResolveNestedFunctionVisibleThroughoutBlock(t *testing.T) {
	root, diags := resolveSrc(t, "def main() { def helper() { 1; } helper(); }")
	if !diags.Empty() {
		t.Fatalf("unexpected diagnostics: %v", diags.All())
	}
	main := root.Body.Funcs[0]
	call := main.Body.Stmts[0].(*ast.ExprStmt).X.(*ast.Call)
	callee := call.Callee.(*ast.Ident)
	if callee.Binding == nil {
		t.Fatal("expected helper() to resolve")
	}
	if callee.Binding != main.Body.Funcs[0].Member {
		t.Fatal("expected helper() to bind to the nested function's member")
	}
}

func TestResolveTwiceIsForbidden(t *testing.T) {
	root, diags := resolveSrc(t, "def main() { 1; }")
	if !diags.Empty() {
		t.Fatalf("unexpected diagnostics: %v", diags.All())
	}
	defer func() {
		if recover() == nil {
			t.Fatal("expected Resolve on an already-resolved AST to panic")
		}
	}()
	Resolve(root, diags)
}

func TestResolveAllocatesDistinctTypeVars(t *testing.T) {
	root, diags := resolveSrc(t, "def main() { 1; 2; }")
	if !diags.Empty() {
		t.Fatalf("unexpected diagnostics: %v", diags.All())
	}
	main := root.Body.Funcs[0]
	first := main.Body.Stmts[0].(*ast.ExprStmt).X
	second := main.Body.Stmts[1].(*ast.ExprStmt).X
	if first.TypeVar().Index == second.TypeVar().Index {
		t.Fatal("expected distinct expressions to get distinct type variables")
	}
}
