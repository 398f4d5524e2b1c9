package stableopts

import "testing"

func TestIsHandlerKey(t *testing.T) {
	cases := []struct {
		key  string
		want bool
	}{
		{"onSelect", true},
		{"onResponseEnd", true},
		{"on", false},
		{"once", false},
		{"online", false},
		{"theme", false},
		{"OnSelect", false},
	}
	for _, tc := range cases {
		if got := IsHandlerKey(tc.key); got != tc.want {
			t.Fatalf("IsHandlerKey(%q) = %v, want %v", tc.key, got, tc.want)
		}
	}
}

func TestSplitHandlersPartitionsShapedOutput(t *testing.T) {
	cache := New()
	shaped := cache.Update(map[string]any{
		"theme":    "dark",
		"onSelect": func() (any, error) { return "selected", nil },
		"onClose":  func() (any, error) { return nil, nil },
		"onboard":  "not a handler",
	})

	handlers, config := SplitHandlers(shaped)
	if len(handlers) != 2 {
		t.Fatalf("expected 2 handlers, got %d", len(handlers))
	}
	if _, ok := handlers["onSelect"]; !ok {
		t.Fatalf("expected onSelect in the handler partition")
	}
	if config["theme"] != "dark" || config["onboard"] != "not a handler" {
		t.Fatalf("unexpected config partition: %+v", config)
	}
	if _, leaked := config["onSelect"]; leaked {
		t.Fatalf("handler leaked into config partition")
	}

	if got, _ := handlers["onSelect"](); got != "selected" {
		t.Fatalf("expected handler to stay callable, got %v", got)
	}
}

func TestSplitHandlersNonRecord(t *testing.T) {
	handlers, config := SplitHandlers(42)
	if handlers != nil || config != nil {
		t.Fatalf("expected nil partitions for a non-record input")
	}
}
