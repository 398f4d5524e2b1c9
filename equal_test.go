package stableopts

import (
	"math"
	"testing"
	"time"
)

func TestEqualPrimitives(t *testing.T) {
	cases := []struct {
		name string
		a, b any
		want bool
	}{
		{"same int", 1, 1, true},
		{"different int", 1, 2, false},
		{"string vs number", "1", 1, false},
		{"bool", true, true, true},
		{"nil both sides", nil, nil, true},
		{"nil vs value", nil, 0, false},
		{"nan equals nan", math.NaN(), math.NaN(), true},
		{"positive vs negative zero", 0.0, math.Copysign(0, -1), false},
		{"int vs int64", int(1), int64(1), false},
		{"same string", "config", "config", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Equal(tc.a, tc.b); got != tc.want {
				t.Fatalf("Equal(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestEqualTreatsCallablesAsInterchangeable(t *testing.T) {
	one := func() int { return 1 }
	two := func() int { return 2 }
	if !Equal(map[string]any{"f": one}, map[string]any{"f": two}) {
		t.Fatalf("expected records with differing callables to compare equal")
	}
	if Equal(map[string]any{"f": one}, map[string]any{"f": nil}) {
		t.Fatalf("expected callable vs nil to compare unequal")
	}
	if !Equal(NewScript("a + 1"), func() {}) {
		t.Fatalf("expected script and func leaves to be mutually interchangeable")
	}
}

func TestEqualSequences(t *testing.T) {
	if Equal([]any{1, 2, 3}, []any{1, 3, 2}) {
		t.Fatalf("expected order-sensitive comparison to fail")
	}
	if Equal([]any{1, 2}, []any{1, 2, 3}) {
		t.Fatalf("expected length mismatch to fail")
	}
	if !Equal([]any{1, func() {}}, []any{1, func() int { return 9 }}) {
		t.Fatalf("expected callable elements to be ignored")
	}
	if !Equal([]int{1, 2}, []any{1, 2}) {
		t.Fatalf("expected typed and untyped sequences with equal elements to match")
	}
	if Equal([]any{1}, map[string]any{"0": 1}) {
		t.Fatalf("expected sequence vs record to compare unequal")
	}
}

func TestEqualRecords(t *testing.T) {
	if Equal(map[string]any{"a": 1, "b": 2}, map[string]any{"a": 1}) {
		t.Fatalf("expected differing key sets to compare unequal")
	}
	if Equal(map[string]any{"a": 1}, map[string]any{"b": 1}) {
		t.Fatalf("expected disjoint keys to compare unequal, even with equal values")
	}
	if !Equal(map[string]any{"a": map[string]any{"b": []any{1}}}, map[string]any{"a": map[string]any{"b": []any{1}}}) {
		t.Fatalf("expected deep-equal nested records to match")
	}
	if !Equal(map[string]int{"a": 1}, map[string]any{"a": 1}) {
		t.Fatalf("expected string-keyed maps of different concrete types to compare structurally")
	}
}

func TestEqualSelfReferentialValue(t *testing.T) {
	a := map[string]any{"name": "root"}
	a["self"] = a
	if !Equal(a, a) {
		t.Fatalf("expected a cyclic value to equal itself")
	}
}

func TestEqualIsomorphicCycles(t *testing.T) {
	a := map[string]any{"name": "root"}
	a["self"] = a
	b := map[string]any{"name": "root"}
	b["self"] = b
	if !Equal(a, b) {
		t.Fatalf("expected two distinct cycles of identical shape to compare equal")
	}

	c := map[string]any{"name": "other"}
	c["self"] = c
	if Equal(a, c) {
		t.Fatalf("expected a divergent leaf inside the cycle to break equality")
	}
}

func TestEqualRejectsDifferentlyShapedCycles(t *testing.T) {
	a := map[string]any{"name": "x"}
	a["self"] = a

	outer := map[string]any{"name": "x"}
	inner := map[string]any{"name": "x"}
	outer["self"] = inner
	inner["self"] = outer

	// A one-node cycle and a two-node cycle memoize different partners; the
	// comparison must terminate and report inequality.
	if Equal(a, outer) {
		t.Fatalf("expected differently-shaped cycles to compare unequal")
	}
}

func TestEqualCyclicSequences(t *testing.T) {
	a := make([]any, 1)
	a[0] = a
	b := make([]any, 1)
	b[0] = b
	if !Equal(a, b) {
		t.Fatalf("expected isomorphic cyclic sequences to compare equal")
	}
}

func TestEqualOpaqueContainers(t *testing.T) {
	now := time.Now()
	later := now.Add(time.Hour)
	if Equal(now, later) {
		t.Fatalf("expected distinct timestamps to compare unequal")
	}
	if !Equal(now, now) {
		t.Fatalf("expected identical timestamp values to compare equal")
	}

	setA := map[int]struct{}{1: {}}
	setB := map[int]struct{}{1: {}}
	if Equal(setA, setB) {
		t.Fatalf("expected non-string-keyed maps to compare by identity only")
	}
	if !Equal(setA, setA) {
		t.Fatalf("expected the same map reference to compare equal")
	}

	ptr := &now
	if !Equal(ptr, ptr) {
		t.Fatalf("expected the same pointer to compare equal")
	}
	if Equal(ptr, &later) {
		t.Fatalf("expected distinct pointers to compare unequal")
	}

	if Equal(now, map[string]any{}) {
		t.Fatalf("expected kind mismatch to compare unequal")
	}
}

func TestEqualSharedContainerIdentityShortCircuits(t *testing.T) {
	shared := map[string]any{"k": "v"}
	if !Equal(map[string]any{"cfg": shared}, map[string]any{"cfg": shared}) {
		t.Fatalf("expected shared child reference to compare equal")
	}
}
