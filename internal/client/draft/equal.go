package draft

import (
	"bytes"
	"cmp"
	"encoding/json"
)

// SameIDSet compares id selections ignoring order. Duplicates count.
func SameIDSet[T cmp.Ordered](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[T]int, len(a))
	for _, v := range a {
		counts[v]++
	}
	for _, v := range b {
		if counts[v] == 0 {
			return false
		}
		counts[v]--
	}
	return true
}

// JSONEqual compares the JSON encodings; map keys are sorted by the encoder
// so field order inside maps does not matter.
func JSONEqual(a, b any) bool {
	ja, err := json.Marshal(a)
	if err != nil {
		return false
	}
	jb, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return bytes.Equal(ja, jb)
}

// All combines per-field equalities into one predicate.
func All[T any](eqs ...func(a, b T) bool) func(a, b T) bool {
	return func(a, b T) bool {
		for _, eq := range eqs {
			if !eq(a, b) {
				return false
			}
		}
		return true
	}
}

func jsonClone[T any](v T) T {
	raw, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return v
	}
	return out
}
