package activity

import (
	"context"
	"testing"
)

func TestEmitterStampsDefaultChannel(t *testing.T) {
	capture := &CaptureHook{}
	emitter := NewEmitter(Hooks{capture}, Config{Enabled: true})

	event := Event{Verb: "options.cache.rebuilt", ObjectType: "options.cache", ObjectID: "gen-1"}
	if err := emitter.Emit(context.Background(), event); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(capture.Events) != 1 {
		t.Fatalf("expected one captured event, got %d", len(capture.Events))
	}
	if got := capture.Events[0].Channel; got != DefaultChannel {
		t.Fatalf("expected default channel %q, got %q", DefaultChannel, got)
	}
}

func TestEmitterKeepsEventChannel(t *testing.T) {
	capture := &CaptureHook{}
	emitter := NewEmitter(Hooks{capture}, Config{Enabled: true, Channel: "render"})

	if err := emitter.Emit(context.Background(), Event{
		Verb:       "options.cache.drift",
		ObjectType: "options.cache",
		ObjectID:   "widgets.2.onSelect",
		Channel:    "audit",
	}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if got := capture.Events[0].Channel; got != "audit" {
		t.Fatalf("expected explicit channel to survive, got %q", got)
	}
}

func TestEmitterDisabledByConfigAndEmptyHooks(t *testing.T) {
	capture := &CaptureHook{}
	disabled := NewEmitter(Hooks{capture}, Config{Enabled: false})
	if disabled.Enabled() {
		t.Fatalf("expected disabled emitter")
	}
	if err := disabled.Emit(context.Background(), Event{Verb: "options.cache.rebuilt"}); err != nil {
		t.Fatalf("emit on disabled emitter: %v", err)
	}
	if len(capture.Events) != 0 {
		t.Fatalf("disabled emitter must not deliver, got %d events", len(capture.Events))
	}

	empty := NewEmitter(Hooks{nil}, Config{Enabled: true})
	if empty.Enabled() {
		t.Fatalf("expected emitter with only nil hooks to be disabled")
	}
}
