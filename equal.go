package stableopts

import (
	"math"
	"reflect"
)

// Equal deep-compares two snapshot values. Callable leaves compare equal
// regardless of identity or implementation; records compare by key set and
// per-key recursion; sequences compare by length and pairwise recursion;
// every other (opaque) value compares by identity only. The comparison is
// safe for self-referential inputs and never panics.
//
// Primitive comparison uses same-value semantics: NaN equals NaN, +0 and -0
// are distinct, and values of different dynamic types are never equal.
func Equal(a, b any) bool {
	return equalValue(a, b, map[refID]refID{})
}

func equalValue(a, b any, memo map[refID]refID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	kindA := ClassifyValue(a)
	kindB := ClassifyValue(b)
	if kindA == KindCallable && kindB == KindCallable {
		return true
	}
	if kindA != kindB {
		return false
	}

	switch kindA {
	case KindPrimitive:
		return samePrimitive(a, b)
	case KindSequence, KindRecord:
		return equalContainer(a, b, kindA, memo)
	default:
		return opaqueIdentical(a, b)
	}
}

func equalContainer(a, b any, kind Kind, memo map[refID]refID) bool {
	left, leftOK := identity(a)
	right, rightOK := identity(b)
	if leftOK && rightOK && left == right {
		return true
	}
	// Revisiting a left-hand node means we are inside a cycle: the pair is
	// consistent only when the memoized right-hand partner is the node we are
	// looking at now.
	if leftOK {
		if partner, seen := memo[left]; seen {
			return rightOK && partner == right
		}
		if rightOK {
			memo[left] = right
		}
	}

	if kind == KindSequence {
		return equalSequence(reflect.ValueOf(a), reflect.ValueOf(b), memo)
	}
	return equalRecord(reflect.ValueOf(a), reflect.ValueOf(b), memo)
}

func equalSequence(a, b reflect.Value, memo map[refID]refID) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i := 0; i < a.Len(); i++ {
		if !equalValue(a.Index(i).Interface(), b.Index(i).Interface(), memo) {
			return false
		}
	}
	return true
}

func equalRecord(a, b reflect.Value, memo map[refID]refID) bool {
	if a.Len() != b.Len() {
		return false
	}
	iter := a.MapRange()
	for iter.Next() {
		key := iter.Key().String()
		other := b.MapIndex(reflect.ValueOf(key).Convert(b.Type().Key()))
		if !other.IsValid() {
			return false
		}
		if !equalValue(iter.Value().Interface(), other.Interface(), memo) {
			return false
		}
	}
	return true
}

func samePrimitive(a, b any) bool {
	ra := reflect.ValueOf(a)
	rb := reflect.ValueOf(b)
	if ra.Type() != rb.Type() {
		return false
	}
	switch ra.Kind() {
	case reflect.Float32, reflect.Float64:
		fa, fb := ra.Float(), rb.Float()
		if math.IsNaN(fa) || math.IsNaN(fb) {
			return math.IsNaN(fa) && math.IsNaN(fb)
		}
		if fa == 0 && fb == 0 {
			return math.Signbit(fa) == math.Signbit(fb)
		}
		return fa == fb
	default:
		return a == b
	}
}

// opaqueIdentical compares values that are outside the structural model. Go
// interface values have no reference identity for plain structs, so the
// closest rendering is dynamic-type match plus Go's own value identity:
// pointer-shaped kinds by pointer, comparable values by ==, everything else
// unequal.
func opaqueIdentical(a, b any) bool {
	ra := reflect.ValueOf(a)
	rb := reflect.ValueOf(b)
	if ra.Type() != rb.Type() {
		return false
	}
	switch ra.Kind() {
	case reflect.Pointer, reflect.Chan, reflect.UnsafePointer, reflect.Map:
		return ra.Pointer() == rb.Pointer()
	}
	if ra.Comparable() {
		return ra.Equal(rb)
	}
	return false
}

// refID is the identity of one container node: its data pointer plus, for
// slices, the visible length (two slices over the same backing array are
// distinct nodes when their lengths differ).
type refID struct {
	ptr    uintptr
	length int
}

func identity(value any) (refID, bool) {
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Map:
		if rv.IsNil() {
			return refID{}, false
		}
		return refID{ptr: rv.Pointer(), length: -1}, true
	case reflect.Slice:
		if rv.IsNil() {
			return refID{}, false
		}
		return refID{ptr: rv.Pointer(), length: rv.Len()}, true
	default:
		// Arrays are values: they cannot participate in cycles.
		return refID{}, false
	}
}
