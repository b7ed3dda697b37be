package driver

import "testing"

func TestRunLiteralResult(t *testing.T) {
	out, err := Run("def main() { 42; }", EntryFuncName)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(out.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", out.Diagnostics)
	}
	if out.Result == nil || out.Result.Value != 42 {
		t.Fatalf("expected result 42, got %+v", out.Result)
	}
}

func TestRunAddition(t *testing.T) {
	out, err := Run("def add(a, b) { a + b; } def main() { add(2, 3); }", EntryFuncName)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Result == nil || out.Result.Value != 5 {
		t.Fatalf("expected result 5, got %+v", out.Result)
	}
}

func TestRunFactorial(t *testing.T) {
	out, err := Run("def fact(n) { if (n < 2) { 1; } else { n * fact(n - 1); } } def main() { fact(5); }", EntryFuncName)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Result == nil || out.Result.Value != 120 {
		t.Fatalf("expected result 120, got %+v", out.Result)
	}
}

func TestRunUndeclaredIdentifier(t *testing.T) {
	out, err := Run("def main() { foo; }", EntryFuncName)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(out.Diagnostics) == 0 || out.Diagnostics[0].Message != "undeclared 'foo'" {
		t.Fatalf("expected undeclared diagnostic, got %+v", out.Diagnostics)
	}
}

func TestRunTooManyArguments(t *testing.T) {
	out, err := Run("def f(x) { x; } def main() { f(1, 2); }", EntryFuncName)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(out.Diagnostics) == 0 || out.Diagnostics[0].Message != "too many arguments" {
		t.Fatalf("expected too many arguments diagnostic, got %+v", out.Diagnostics)
	}
}

func TestRunOptimizedMatchesRun(t *testing.T) {
	out, err := RunOptimized("def fact(n) { if (n < 2) { 1; } else { n * fact(n - 1); } } def main() { fact(5); }", EntryFuncName, true)
	if err != nil {
		t.Fatalf("RunOptimized: %v", err)
	}
	if out.Result == nil || out.Result.Value != 120 {
		t.Fatalf("expected result 120, got %+v", out.Result)
	}
}

func TestRunMissingEntryPoint(t *testing.T) {
	out, err := Run("def other() { 1; }", EntryFuncName)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(out.Diagnostics) == 0 || out.Diagnostics[0].Message != "undeclared 'main'" {
		t.Fatalf("expected undeclared 'main' diagnostic, got %+v", out.Diagnostics)
	}
}
