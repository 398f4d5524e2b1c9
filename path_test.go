package stableopts

import "testing"

func TestPathString(t *testing.T) {
	path := Path{KeySegment("widgets"), IndexSegment(2), KeySegment("onSelect")}
	if got := path.String(); got != "widgets.2.onSelect" {
		t.Fatalf("unexpected path rendering: %q", got)
	}
	if got := (Path{}).String(); got != "" {
		t.Fatalf("expected empty path to render empty, got %q", got)
	}
}

func TestResolveWalksRecordsAndSequences(t *testing.T) {
	root := map[string]any{
		"widgets": []any{
			map[string]any{"label": "first"},
			map[string]any{"label": "second"},
		},
	}

	leaf, parent, ok := resolve(root, Path{KeySegment("widgets"), IndexSegment(1), KeySegment("label")})
	if !ok {
		t.Fatalf("expected resolution to succeed")
	}
	if leaf != "second" {
		t.Fatalf("unexpected leaf: %v", leaf)
	}
	record, isRecord := parent.(map[string]any)
	if !isRecord || record["label"] != "second" {
		t.Fatalf("expected parent to be the immediate container, got %v", parent)
	}
}

func TestResolveStopsOnMissingHops(t *testing.T) {
	root := map[string]any{"a": map[string]any{"b": 1}}

	cases := []struct {
		name string
		path Path
	}{
		{"missing key", Path{KeySegment("a"), KeySegment("missing")}},
		{"index into record", Path{KeySegment("a"), IndexSegment(0)}},
		{"key into primitive", Path{KeySegment("a"), KeySegment("b"), KeySegment("c")}},
		{"out of range", Path{KeySegment("a"), IndexSegment(9)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, ok := resolve(root, tc.path); ok {
				t.Fatalf("expected resolution to fail for %v", tc.path)
			}
		})
	}

	if _, _, ok := resolve(nil, Path{KeySegment("a")}); ok {
		t.Fatalf("expected nil root to resolve nothing")
	}
	if leaf, _, ok := resolve(root, nil); !ok || !sameReference(leaf, root) {
		t.Fatalf("expected empty path to resolve the root")
	}
}

func TestResolveTypedContainers(t *testing.T) {
	root := map[string]any{
		"limits": map[string]int{"daily": 100},
		"tags":   []string{"a", "b"},
	}

	leaf, _, ok := resolve(root, Path{KeySegment("limits"), KeySegment("daily")})
	if !ok || leaf != 100 {
		t.Fatalf("expected typed map hop, got %v (%v)", leaf, ok)
	}
	leaf, _, ok = resolve(root, Path{KeySegment("tags"), IndexSegment(1)})
	if !ok || leaf != "b" {
		t.Fatalf("expected typed slice hop, got %v (%v)", leaf, ok)
	}
}
