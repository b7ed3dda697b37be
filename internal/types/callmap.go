package types

// CallMap memoizes, within a single Poly value, the type environment
// produced for each distinct argument-type tuple seen at a call site.
// Lookup and insertion are O(n) over existing entries using ArrEquals;
// tsg functions see few distinct instantiations in practice, so a
// linear scan beats hashing structural keys.
type CallMap struct {
	entries []*callMapEntry
}

type callMapEntry struct {
	key []*Type
	env *TypeEnv
}

// NewCallMap returns an empty call-site map.
func NewCallMap() *CallMap { return &CallMap{} }

// Get returns the environment recorded for args, or nil if this exact
// argument-type tuple has not been instantiated yet.
func (m *CallMap) Get(args []*Type) *TypeEnv {
	for _, e := range m.entries {
		if ArrEquals(e.key, args) {
			return e.env
		}
	}
	return nil
}

// Add records env for args. args is deep-copied so later mutation of the
// caller's slice cannot affect the stored key; the map takes
// ownership of both the copied key and env.
func (m *CallMap) Add(args []*Type, env *TypeEnv) {
	m.entries = append(m.entries, &callMapEntry{key: ArrDup(args), env: env})
}

// Len returns the number of distinct instantiations recorded so far.
func (m *CallMap) Len() int { return len(m.entries) }

// Envs returns the recorded environments in insertion order.
func (m *CallMap) Envs() []*TypeEnv {
	out := make([]*TypeEnv, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.env
	}
	return out
}

// Destroy releases every key array and environment the map owns.
func (m *CallMap) Destroy() {
	for _, e := range m.entries {
		ArrDestroy(e.key)
		e.env.Destroy()
	}
}
