package types

// A plain []*Type serves as the type array the verifier builds for
// argument tuples and Func parameter lists; these helpers carry the
// retain/release discipline over its elements.

// ArrDup returns a deep copy of src: each element is retained and the
// slice itself is freshly allocated, so later mutation of src cannot
// affect the copy. Call-map keys are built this way.
func ArrDup(src []*Type) []*Type {
	if src == nil {
		return nil
	}
	dst := make([]*Type, len(src))
	for i, t := range src {
		Retain(t)
		dst[i] = t
	}
	return dst
}

// ArrDestroy releases every element of arr.
func ArrDestroy(arr []*Type) {
	for _, t := range arr {
		Release(t)
	}
}

// ArrEquals reports whether a and b hold pairwise-equal types.
func ArrEquals(a, b []*Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equals(a[i], b[i]) {
			return false
		}
	}
	return true
}
