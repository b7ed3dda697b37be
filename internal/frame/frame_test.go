package frame

import (
	"testing"

	"github.com/tsg-lang/tsg/internal/types"
)

func TestAddMemberIndexesAndAllocatesVars(t *testing.T) {
	set := types.NewTypeSet(nil)
	fr := NewFrame(nil)

	a := fr.AddMember("a", set)
	b := fr.AddMember("b", set)

	if a.Index != 0 || b.Index != 1 {
		t.Fatalf("expected indices 0,1 got %d,%d", a.Index, b.Index)
	}
	if a.TypeVar.Index == b.TypeVar.Index {
		t.Fatal("expected distinct type variables for distinct members")
	}
	if fr.Size() != 2 {
		t.Fatalf("expected frame size 2, got %d", fr.Size())
	}
}

func TestScopeLookupWalksOuter(t *testing.T) {
	set := types.NewTypeSet(nil)
	fr := NewFrame(nil)
	outer := NewScope(nil)
	outer.Declare("x", fr.AddMember("x", set))

	inner := NewScope(outer)
	if _, ok := inner.Lookup("x"); !ok {
		t.Fatal("expected inner scope to find x declared in outer scope")
	}
	if _, ok := inner.Lookup("y"); ok {
		t.Fatal("expected y to be undeclared")
	}
}

func TestScopeRedefinitionDetected(t *testing.T) {
	set := types.NewTypeSet(nil)
	fr := NewFrame(nil)
	s := NewScope(nil)
	s.Declare("x", fr.AddMember("x", set))

	if !s.DeclaredHere("x") {
		t.Fatal("expected DeclaredHere(x) to be true after Declare")
	}
}

func TestSymbolTableGrowsPastProbeLimit(t *testing.T) {
	set := types.NewTypeSet(nil)
	fr := NewFrame(nil)
	tbl := NewSymbolTable()

	// Insert enough distinct names to force at least one grow cycle.
	names := make([]string, 0, 64)
	for i := 0; i < 64; i++ {
		name := string(rune('a'+i%26)) + string(rune('A'+i/26))
		names = append(names, name)
		tbl.Add(name, fr.AddMember(name, set))
	}
	for _, name := range names {
		if _, ok := tbl.Find(name); !ok {
			t.Fatalf("expected to find %q after growth", name)
		}
	}
	if tbl.Len() != len(names) {
		t.Fatalf("expected count %d, got %d", len(names), tbl.Len())
	}
}
