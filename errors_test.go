package stableopts

import (
	"errors"
	"testing"
)

func TestWrapInvokeErrorCreatesMetadata(t *testing.T) {
	base := errors.New("boom")
	err := wrapInvokeError("expr", "widgets.2.onSelect", base)

	var invokeErr *InvokeError
	if !errors.As(err, &invokeErr) {
		t.Fatalf("expected InvokeError, got %T", err)
	}
	if invokeErr.Engine != "expr" {
		t.Fatalf("expected engine expr, got %q", invokeErr.Engine)
	}
	if invokeErr.Path != "widgets.2.onSelect" {
		t.Fatalf("expected path metadata, got %q", invokeErr.Path)
	}
	if !errors.Is(invokeErr.Err, base) {
		t.Fatalf("wrapped error should unwrap to base error")
	}
}

func TestWrapInvokeErrorAugmentsExisting(t *testing.T) {
	base := errors.New("compile failure")
	existing := &InvokeError{
		Engine: "expr",
		Err:    base,
	}

	err := wrapInvokeError("cel", "onTick", existing)
	if !errors.Is(err, base) {
		t.Fatalf("expected base error to unwrap")
	}
	if existing.Engine != "expr" {
		t.Fatalf("existing engine should not be overwritten, got %q", existing.Engine)
	}
	if existing.Path != "onTick" {
		t.Fatalf("path should be filled, got %q", existing.Path)
	}
}

func TestWrapInvokeErrorNil(t *testing.T) {
	if err := wrapInvokeError("expr", "p", nil); err != nil {
		t.Fatalf("expected nil passthrough, got %v", err)
	}
}
