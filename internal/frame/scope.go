package frame

// SymbolTable is an open-addressed hash table from identifier name to
// *Member, using FNV-1 hashing with linear probing. It doubles and
// rehashes once the probe limit is exceeded on insert, so every stored
// name sits within probeLimit slots of its hash and no chaining is
// needed. A lookup stops at the first empty slot, which for an absent
// name may lie further along than probeLimit.
type SymbolTable struct {
	buckets []symbolEntry
	count   int
}

type symbolEntry struct {
	used   bool
	name   string
	member *Member
}

const initialBuckets = 8
const probeLimit = 10

// NewSymbolTable returns an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{buckets: make([]symbolEntry, initialBuckets)}
}

// fnv1 computes the 32-bit FNV-1 hash of s (FNV-1, not FNV-1a:
// multiply-then-xor).
func fnv1(s string) uint32 {
	const offset32 = 2166136261
	const prime32 = 16777619
	h := uint32(offset32)
	for i := 0; i < len(s); i++ {
		h *= prime32
		h ^= uint32(s[i])
	}
	return h
}

// Add inserts name -> m, growing the table if name cannot be placed
// within probeLimit slots. Panics if name is already present: a scope
// must check Find before Add to produce a redefinition diagnostic
// instead of silently overwriting.
func (t *SymbolTable) Add(name string, m *Member) {
	for {
		if t.tryAdd(name, m) {
			t.count++
			return
		}
		t.grow()
	}
}

func (t *SymbolTable) tryAdd(name string, m *Member) bool {
	n := uint32(len(t.buckets))
	start := fnv1(name) % n
	for i := uint32(0); i < probeLimit && i < n; i++ {
		idx := (start + i) % n
		e := &t.buckets[idx]
		if !e.used {
			e.used = true
			e.name = name
			e.member = m
			return true
		}
		if e.name == name {
			panic("frame: symbol already defined in this scope: " + name)
		}
	}
	return false
}

func (t *SymbolTable) grow() {
	old := t.buckets
	size := len(old) * 2
	for {
		t.buckets = make([]symbolEntry, size)
		if t.rehashAll(old) {
			return
		}
		size *= 2
	}
}

// rehashAll attempts to place every used entry of old into t.buckets,
// reporting whether every entry fit within probeLimit. On failure
// t.buckets is left partly filled; grow discards it and retries larger.
func (t *SymbolTable) rehashAll(old []symbolEntry) bool {
	for _, e := range old {
		if e.used && !t.tryAdd(e.name, e.member) {
			return false
		}
	}
	return true
}

// Find looks up name, returning (nil, false) if absent. Lookup probes
// the same linear run Add used, stopping at the first empty slot.
func (t *SymbolTable) Find(name string) (*Member, bool) {
	n := uint32(len(t.buckets))
	if n == 0 {
		return nil, false
	}
	start := fnv1(name) % n
	for i := uint32(0); i < n; i++ {
		idx := (start + i) % n
		e := &t.buckets[idx]
		if !e.used {
			return nil, false
		}
		if e.name == name {
			return e.member, true
		}
	}
	return nil, false
}

// Len returns the number of symbols stored.
func (t *SymbolTable) Len() int { return t.count }

// Scope is a chain of lexical symbol tables, one per block, linked to
// the enclosing block's scope. Lookup walks outward until a
// binding is found or the chain is exhausted.
type Scope struct {
	Table *SymbolTable
	Outer *Scope
}

// NewScope opens a scope nested inside outer (nil for a function's
// outermost block).
func NewScope(outer *Scope) *Scope {
	return &Scope{Table: NewSymbolTable(), Outer: outer}
}

// Declare adds name -> m in this scope's own table.
func (s *Scope) Declare(name string, m *Member) {
	s.Table.Add(name, m)
}

// DeclaredHere reports whether name is already bound directly in this
// scope (not an enclosing one) — used to produce a redefinition
// diagnostic before calling Declare.
func (s *Scope) DeclaredHere(name string) bool {
	_, ok := s.Table.Find(name)
	return ok
}

// Lookup searches this scope and, if not found, each enclosing scope in
// turn.
func (s *Scope) Lookup(name string) (*Member, bool) {
	for sc := s; sc != nil; sc = sc.Outer {
		if m, ok := sc.Table.Find(name); ok {
			return m, true
		}
	}
	return nil, false
}
