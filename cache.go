package stableopts

import (
	"context"
	"time"

	"github.com/goliatone/go-stableopts/pkg/activity"
	"github.com/google/uuid"
)

// Option configures a Cache instance.
type Option func(*cacheConfig)

type cacheConfig struct {
	engine       ScriptEngine
	programCache ProgramCache
	functions    *FunctionRegistry
	logger       UpdateLogger
	hooks        activity.Hooks
	channel      string
	isolate      bool
}

func applyOptions(opts []Option) cacheConfig {
	cfg := cacheConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithScriptEngine configures the engine used to evaluate Script leaves.
func WithScriptEngine(engine ScriptEngine) Option {
	return func(cfg *cacheConfig) {
		if engine == nil {
			return
		}
		cfg.engine = engine
	}
}

// WithSnapshotIsolation deep-copies each accepted snapshot so later
// caller-side mutation of the input cannot corrupt the cache entry or the
// data wrappers dispatch against.
func WithSnapshotIsolation() Option {
	return func(cfg *cacheConfig) {
		cfg.isolate = true
	}
}

// WithActivityHooks attaches activity hooks to the cache configuration.
// Hooks are cloned and nil entries dropped to preserve immutability.
func WithActivityHooks(hooks activity.Hooks) Option {
	normalized := cloneActivityHooks(hooks)
	return func(cfg *cacheConfig) {
		cfg.hooks = normalized
	}
}

// WithActivityChannel sets the channel stamped on emitted cache lifecycle
// events. Events default to the activity package's channel when unset.
func WithActivityChannel(channel string) Option {
	return func(cfg *cacheConfig) {
		cfg.channel = channel
	}
}

func cloneActivityHooks(hooks activity.Hooks) activity.Hooks {
	if len(hooks) == 0 {
		return nil
	}
	normalized := make([]activity.ActivityHook, 0, len(hooks))
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		normalized = append(normalized, hook)
	}
	if len(normalized) == 0 {
		return nil
	}
	return activity.Hooks(normalized)
}

// Cache hands a long-lived consumer a stable shaped mirror of a frequently
// recreated options snapshot. The shaped output keeps its reference across
// updates whose non-callable content is unchanged, while every callable
// position dispatches through the cache's Cell to the newest snapshot.
//
// A Cache is single-caller: Update is synchronous and must not be invoked
// concurrently. A reentrant Update (triggered from a wrapper called during an
// in-progress update) is answered with the current cached output without
// re-evaluating, and reported through the update logger.
type Cache struct {
	cell    *Cell
	cfg     cacheConfig
	emitter *activity.Emitter
	runtime *wrapperRuntime

	lastSnapshot any
	lastShaped   any
	lastTrace    UpdateTrace
	generation   string
	primed       bool
	updating     bool
}

// New constructs a Cache bound to its own Cell.
func New(opts ...Option) *Cache {
	cfg := applyOptions(opts)
	c := &Cache{
		cell: NewCell(nil),
		cfg:  cfg,
	}
	c.emitter = activity.NewEmitter(cfg.hooks, activity.Config{
		Enabled: len(cfg.hooks) > 0,
		Channel: cfg.channel,
	})
	c.runtime = &wrapperRuntime{
		engine:  c.resolveEngine(),
		onDrift: c.reportDrift,
	}
	return c
}

// Update absorbs the snapshot for this tick and returns the shaped output.
// The Cell is written unconditionally before any equality decision, so every
// wrapper already in circulation sees the newest data even when the cached
// shaped output is reused.
func (c *Cache) Update(snapshot any) any {
	start := time.Now()
	if c.cfg.isolate {
		snapshot = CloneSnapshot(snapshot)
	}
	c.cell.Store(snapshot)

	if c.updating {
		c.logger().LogUpdate(UpdateLogEvent{
			Generation: c.generation,
			Reused:     true,
			Reentrant:  true,
			Duration:   time.Since(start),
		})
		return c.lastShaped
	}
	c.updating = true
	defer func() { c.updating = false }()

	if c.primed && Equal(snapshot, c.lastSnapshot) {
		c.lastTrace = UpdateTrace{
			Generation: c.generation,
			Reused:     true,
			UpdatedAt:  time.Now(),
		}
		c.logger().LogUpdate(UpdateLogEvent{
			Generation: c.generation,
			Reused:     true,
			Duration:   time.Since(start),
		})
		c.emit(activity.BuildCacheReusedEvent(activity.CacheEventInput{
			Generation: c.generation,
		}))
		return c.lastShaped
	}

	walker := newShaper(c.cell, c.runtime)
	shaped := walker.shape(snapshot, nil)

	c.generation = uuid.NewString()
	c.lastSnapshot = snapshot
	c.lastShaped = shaped
	c.primed = true
	c.lastTrace = UpdateTrace{
		Generation:   c.generation,
		WrapperPaths: walker.paths,
		UpdatedAt:    time.Now(),
	}
	c.logger().LogUpdate(UpdateLogEvent{
		Generation: c.generation,
		Wrappers:   len(walker.paths),
		Duration:   time.Since(start),
	})
	c.emit(activity.BuildCacheRebuiltEvent(activity.CacheEventInput{
		Generation: c.generation,
		Paths:      walker.paths,
	}))
	return shaped
}

// Cell exposes the cache's snapshot cell. Wrapper construction outside the cache
// (via Wrap) can target the same cell.
func (c *Cache) Cell() *Cell {
	if c == nil {
		return nil
	}
	return c.cell
}

// Generation returns the id of the current shaped-output generation. It is
// empty until the first rebuild.
func (c *Cache) Generation() string {
	if c == nil {
		return ""
	}
	return c.generation
}

// LastTrace returns provenance for the most recent Update call.
func (c *Cache) LastTrace() UpdateTrace {
	if c == nil {
		return UpdateTrace{}
	}
	return c.lastTrace
}

func (c *Cache) logger() UpdateLogger {
	if c.cfg.logger != nil {
		return c.cfg.logger
	}
	return noopUpdateLogger{}
}

func (c *Cache) resolveEngine() ScriptEngine {
	if c.cfg.engine != nil {
		return c.cfg.engine
	}
	var engineOpts []ExprEngineOption
	if c.cfg.programCache != nil {
		engineOpts = append(engineOpts, ExprWithProgramCache(c.cfg.programCache))
	}
	if c.cfg.functions != nil {
		engineOpts = append(engineOpts, ExprWithFunctionRegistry(c.cfg.functions))
	}
	return NewExprEngine(engineOpts...)
}

func (c *Cache) reportDrift(path Path) {
	c.emit(activity.BuildCacheDriftEvent(activity.CacheEventInput{
		Generation: c.generation,
		Path:       path.String(),
	}))
}

func (c *Cache) emit(event activity.Event) {
	_ = c.emitter.Emit(context.Background(), event)
}
