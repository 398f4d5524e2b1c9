package stableopts

import (
	"reflect"
	"testing"
)

func TestCloneSnapshotDetachesContainers(t *testing.T) {
	original := map[string]any{
		"nested": map[string]any{"a": 1},
		"items":  []any{1, 2},
	}
	clone := CloneSnapshot(original).(map[string]any)

	if sameReference(original, clone) {
		t.Fatalf("expected a fresh top-level container")
	}
	if sameReference(original["nested"], clone["nested"]) {
		t.Fatalf("expected nested records to be detached")
	}

	clone["nested"].(map[string]any)["a"] = 99
	if original["nested"].(map[string]any)["a"] != 1 {
		t.Fatalf("mutating the clone must not touch the original")
	}
}

func TestCloneSnapshotPreservesConcreteTypes(t *testing.T) {
	original := map[string]any{
		"limits": map[string]int{"daily": 100},
		"tags":   []string{"a"},
	}
	clone := CloneSnapshot(original).(map[string]any)

	if _, ok := clone["limits"].(map[string]int); !ok {
		t.Fatalf("expected typed map to keep its type, got %T", clone["limits"])
	}
	if _, ok := clone["tags"].([]string); !ok {
		t.Fatalf("expected typed slice to keep its type, got %T", clone["tags"])
	}
}

func TestCloneSnapshotSharesLeaves(t *testing.T) {
	fn := func() {}
	now := &struct{ v int }{v: 1}
	original := map[string]any{"fn": fn, "opaque": now, "nilSlice": []any(nil)}
	clone := CloneSnapshot(original).(map[string]any)

	if reflect.ValueOf(clone["fn"]).Pointer() != reflect.ValueOf(fn).Pointer() {
		t.Fatalf("expected callables to pass through by reference")
	}
	if clone["opaque"] != any(now) {
		t.Fatalf("expected opaque values to pass through by reference")
	}
	if clone["nilSlice"] != nil && reflect.ValueOf(clone["nilSlice"]).IsNil() == false {
		t.Fatalf("expected nil sequences to remain nil")
	}
}

func TestCloneSnapshotHandlesCycles(t *testing.T) {
	original := map[string]any{"name": "root"}
	original["self"] = original

	clone := CloneSnapshot(original).(map[string]any)
	if sameReference(original, clone) {
		t.Fatalf("expected a fresh container")
	}
	if !sameReference(clone, clone["self"]) {
		t.Fatalf("expected the clone to be cyclic onto itself")
	}
}

func TestCloneSnapshotPassesPrimitives(t *testing.T) {
	if got := CloneSnapshot(42); got != 42 {
		t.Fatalf("unexpected clone of primitive: %v", got)
	}
	if got := CloneSnapshot(nil); got != nil {
		t.Fatalf("unexpected clone of nil: %v", got)
	}
}
