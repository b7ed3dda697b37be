package parser

import (
	"testing"

	"github.com/tsg-lang/tsg/internal/ast"
	"github.com/tsg-lang/tsg/internal/diag"
)

func parse(t *testing.T, src string) (*ast.Program, *diag.List) {
	t.Helper()
	var diags diag.List
	prog := ParseProgram(src, &diags)
	return prog, &diags
}

func TestParseSimpleMain(t *testing.T) {
	prog, diags := parse(t, "def main() { 42; }")
	if !diags.Empty() {
		t.Fatalf("unexpected diagnostics: %v", diags.All())
	}
	if len(prog.Funcs) != 1 || prog.Funcs[0].Name != "main" {
		t.Fatalf("expected one function named main, got %+v", prog.Funcs)
	}
	stmts := prog.Funcs[0].Body.Stmts
	if len(stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(stmts))
	}
	es, ok := stmts[0].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("expected ExprStmt, got %T", stmts[0])
	}
	num, ok := es.X.(*ast.Number)
	if !ok || num.Value != 42 {
		t.Fatalf("expected Number(42), got %+v", es.X)
	}
}

func TestParsePrecedence(t *testing.T) {
	prog, diags := parse(t, "def main() { val x = 1 + 2 * 3; x; }")
	if !diags.Empty() {
		t.Fatalf("unexpected diagnostics: %v", diags.All())
	}
	val, ok := prog.Funcs[0].Body.Stmts[0].(*ast.ValStmt)
	if !ok {
		t.Fatalf("expected ValStmt, got %T", prog.Funcs[0].Body.Stmts[0])
	}
	bin, ok := val.Value.(*ast.Binary)
	if !ok {
		t.Fatalf("expected top-level Binary, got %T", val.Value)
	}
	// 1 + (2 * 3): '*' binds tighter, so '+' is the outermost operator.
	if bin.Lhs.(*ast.Number).Value != 1 {
		t.Fatalf("expected lhs 1, got %+v", bin.Lhs)
	}
	rhs, ok := bin.Rhs.(*ast.Binary)
	if !ok || rhs.Lhs.(*ast.Number).Value != 2 || rhs.Rhs.(*ast.Number).Value != 3 {
		t.Fatalf("expected rhs (2 * 3), got %+v", bin.Rhs)
	}
}

func TestParseCallAndNestedFunctions(t *testing.T) {
	prog, diags := parse(t, "def add(a, b) { a + b; } def main() { add(2, 3); }")
	if !diags.Empty() {
		t.Fatalf("unexpected diagnostics: %v", diags.All())
	}
	if len(prog.Funcs) != 2 {
		t.Fatalf("expected 2 top-level functions, got %d", len(prog.Funcs))
	}
	mainFn := prog.Funcs[1]
	call, ok := mainFn.Body.Stmts[0].(*ast.ExprStmt).X.(*ast.Call)
	if !ok {
		t.Fatalf("expected Call, got %T", mainFn.Body.Stmts[0])
	}
	if len(call.Args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(call.Args))
	}
}

func TestParseIfElse(t *testing.T) {
	prog, diags := parse(t, "def main() { if (1 < 2) { 10; } else { 20; }; }")
	if !diags.Empty() {
		t.Fatalf("unexpected diagnostics: %v", diags.All())
	}
	ifElse, ok := prog.Funcs[0].Body.Stmts[0].(*ast.ExprStmt).X.(*ast.IfElse)
	if !ok {
		t.Fatalf("expected IfElse, got %T", prog.Funcs[0].Body.Stmts[0])
	}
	if len(ifElse.Then.Stmts) != 1 || len(ifElse.Else.Stmts) != 1 {
		t.Fatal("expected both branches to carry one statement")
	}
}

func TestParseTolerantSemicolon(t *testing.T) {
	src := "def main() {\n\t42\n}"
	_, diags := parse(t, src)
	if !diags.Empty() {
		t.Fatalf("expected missing end-of-line semicolon to be tolerated, got %v", diags.All())
	}
}

func TestParseMissingSemicolonSameLineIsError(t *testing.T) {
	_, diags := parse(t, "def main() { 1 2; }")
	if diags.Empty() {
		t.Fatal("expected a diagnostic for a missing same-line semicolon")
	}
}

func TestParseEmptyBlockDiagnostic(t *testing.T) {
	_, diags := parse(t, "def main() { }")
	if diags.Empty() {
		t.Fatal("expected 'block is empty' diagnostic")
	}
	found := false
	for _, d := range diags.All() {
		if d.Message == "block is empty" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected 'block is empty' among diagnostics, got %v", diags.All())
	}
}

func TestParseUndeclaredIdentIsNotAParseError(t *testing.T) {
	// The parser itself never rejects an unbound identifier use — that
	// is the resolver's job — but it must still parse one as a bare
	// Ident expression.
	prog, diags := parse(t, "def main() { foo; }")
	if !diags.Empty() {
		t.Fatalf("unexpected diagnostics: %v", diags.All())
	}
	id, ok := prog.Funcs[0].Body.Stmts[0].(*ast.ExprStmt).X.(*ast.Ident)
	if !ok || id.Name != "foo" {
		t.Fatalf("expected Ident(foo), got %+v", prog.Funcs[0].Body.Stmts[0])
	}
}
