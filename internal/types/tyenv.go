package types

// TypeEnv is a per-instantiation array mapping an owning type set's
// variables to concrete types, chained to the enclosing function's
// environment.
type TypeEnv struct {
	Owner *TypeSet
	Slots []*Type
	Outer *TypeEnv
}

// NewTypeEnv creates an environment sized to owner's current variable
// count, linked to outer.
func NewTypeEnv(owner *TypeSet, outer *TypeEnv) *TypeEnv {
	return &TypeEnv{Owner: owner, Slots: make([]*Type, owner.Size()), Outer: outer}
}

// envFor walks the outer-env chain to find the environment whose Owner
// matches v's type set.
func envFor(env *TypeEnv, v TypeVar) *TypeEnv {
	for e := env; e != nil; e = e.Outer {
		if e.Owner == v.Set {
			return e
		}
	}
	return nil
}

// SetVar writes t into v's slot, retaining it. It requires the slot was
// previously empty (single-assignment) and that v's set is reachable
// from env's outer-env chain.
func SetVar(env *TypeEnv, v TypeVar, t *Type) {
	e := envFor(env, v)
	if e == nil {
		panic("types: type variable's set is not reachable from this environment")
	}
	if e.Slots[v.Index] != nil {
		panic("types: type variable already bound")
	}
	Retain(t)
	e.Slots[v.Index] = t
}

// GetVar reads the type bound to v, or nil if unbound. The caller owns
// retain-on-read.
func GetVar(env *TypeEnv, v TypeVar) *Type {
	e := envFor(env, v)
	if e == nil {
		return nil
	}
	return e.Slots[v.Index]
}

// Destroy releases every type this environment (only this one, not
// Outer) holds.
func (e *TypeEnv) Destroy() {
	for _, t := range e.Slots {
		Release(t)
	}
}
