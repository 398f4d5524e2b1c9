package activity

import (
	"context"
	"strings"
)

// Config controls how cache lifecycle events (rebuilt, reused, drift) are
// emitted to hooks.
type Config struct {
	Enabled bool
	Channel string
}

// Emitter delivers cache lifecycle events to its hooks, stamping the
// configured channel on events that do not carry one. A Cache routes every
// emission through an Emitter so rebuild, reuse, and drift events share the
// same channel defaults.
type Emitter struct {
	hooks   Hooks
	enabled bool
	channel string
}

// DefaultChannel is stamped on events when neither the event nor the
// configuration names one.
const DefaultChannel = "options"

// NewEmitter constructs an emitter from hooks and configuration. Nil hooks
// are dropped; an emitter with no hooks left is permanently disabled.
func NewEmitter(hooks Hooks, cfg Config) *Emitter {
	channel := strings.TrimSpace(cfg.Channel)
	if channel == "" {
		channel = DefaultChannel
	}
	kept := pruneHooks(hooks)
	return &Emitter{
		hooks:   kept,
		enabled: cfg.Enabled && len(kept) > 0,
		channel: channel,
	}
}

// Enabled reports whether emissions should be attempted.
func (e *Emitter) Enabled() bool {
	return e != nil && e.enabled && len(e.hooks) > 0
}

// Emit forwards one cache lifecycle event to every hook, applying the
// default channel when the event has none. Hook failures are joined, never
// short-circuited.
func (e *Emitter) Emit(ctx context.Context, event Event) error {
	if !e.Enabled() {
		return nil
	}
	if strings.TrimSpace(event.Channel) == "" {
		event.Channel = e.channel
	}
	return e.hooks.Notify(ctx, event)
}

func pruneHooks(hooks Hooks) Hooks {
	if len(hooks) == 0 {
		return nil
	}
	kept := make([]ActivityHook, 0, len(hooks))
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		kept = append(kept, hook)
	}
	if len(kept) == 0 {
		return nil
	}
	return Hooks(kept)
}
