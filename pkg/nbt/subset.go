package nbt

import "slices"

// IsSubset reports whether subset is structurally contained in superset.
//
// Compounds match when every key of subset exists in superset with a
// matching value; extra superset keys are ignored. Lists are matched as
// multisets: each subset element must claim its own distinct superset
// element. Primitives and arrays match on exact same-tag equality, so a
// Float never matches a Double even when numerically equal.
//
// List assignment is a greedy first-unused scan, kept for output parity
// with earlier releases. There are pathological list pairs where a valid
// distinct assignment exists but the greedy order misses it; real item
// data has not been observed to hit them.
func IsSubset(superset, subset Value) bool {
	switch sub := subset.(type) {
	case Compound:
		sup, ok := superset.(Compound)
		if !ok {
			return false
		}
		for key, want := range sub {
			have, ok := sup[key]
			if !ok || !IsSubset(have, want) {
				return false
			}
		}
		return true
	case List:
		sup, ok := superset.(List)
		if !ok {
			return false
		}
		used := make([]bool, len(sup))
		for _, want := range sub {
			matched := false
			for i, have := range sup {
				if !used[i] && IsSubset(have, want) {
					used[i] = true
					matched = true
					break
				}
			}
			if !matched {
				return false
			}
		}
		return true
	default:
		return valuesEqual(superset, subset)
	}
}

// valuesEqual compares two non-container values. Different tags never
// compare equal.
func valuesEqual(a, b Value) bool {
	switch av := a.(type) {
	case Byte:
		bv, ok := b.(Byte)
		return ok && av == bv
	case Short:
		bv, ok := b.(Short)
		return ok && av == bv
	case Int:
		bv, ok := b.(Int)
		return ok && av == bv
	case Long:
		bv, ok := b.(Long)
		return ok && av == bv
	case Float:
		bv, ok := b.(Float)
		return ok && av == bv
	case Double:
		bv, ok := b.(Double)
		return ok && av == bv
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case ByteArray:
		bv, ok := b.(ByteArray)
		return ok && slices.Equal(av, bv)
	case IntArray:
		bv, ok := b.(IntArray)
		return ok && slices.Equal(av, bv)
	case LongArray:
		bv, ok := b.(LongArray)
		return ok && slices.Equal(av, bv)
	}
	return false
}
