//go:build js_eval

package stableopts

import (
	"fmt"

	"github.com/dop251/goja"
)

type jsEngine struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// NewJSEngine constructs a ScriptEngine backed by goja.
func NewJSEngine(opts ...JSEngineOption) ScriptEngine {
	cfg := applyJSEngineOptions(opts)
	return &jsEngine{
		cache:    cfg.cache,
		registry: cfg.registry,
	}
}

func (e *jsEngine) Invoke(ctx CallContext, source string) (any, error) {
	if source == "" {
		return nil, fmt.Errorf("script source must not be empty")
	}
	ctx = ctx.withDefaultNow().withDefaultMaps()
	if e.cache == nil {
		return e.run(ctx, source, nil)
	}
	program, err := e.loadOrCompile(source)
	if err != nil {
		return nil, err
	}
	return e.run(ctx, source, program)
}

func (e *jsEngine) Compile(source string) (CompiledScript, error) {
	if source == "" {
		return nil, fmt.Errorf("script source must not be empty")
	}
	program, err := e.loadOrCompile(source)
	if err != nil {
		return nil, err
	}
	return &jsCompiledScript{
		engine:  e,
		source:  source,
		program: program,
	}, nil
}

func (e *jsEngine) loadOrCompile(source string) (*goja.Program, error) {
	if e.cache != nil {
		if cached, ok := e.cache.Get(source); ok {
			if program, ok := cached.(*goja.Program); ok {
				return program, nil
			}
		}
	}
	program, err := goja.Compile("", e.wrapSource(source), false)
	if err != nil {
		return nil, wrapInvokeError("js", "", err)
	}
	if e.cache != nil {
		e.cache.Set(source, program)
	}
	return program, nil
}

func (e *jsEngine) run(ctx CallContext, source string, program *goja.Program) (any, error) {
	vm := goja.New()
	e.injectContext(vm, ctx)
	if program != nil {
		value, err := vm.RunProgram(program)
		if err != nil {
			return nil, wrapInvokeError("js", "", err)
		}
		return value.Export(), nil
	}
	value, err := vm.RunString(e.wrapSource(source))
	if err != nil {
		return nil, wrapInvokeError("js", "", err)
	}
	return value.Export(), nil
}

func (e *jsEngine) injectContext(vm *goja.Runtime, ctx CallContext) {
	vm.Set("self", ctx.Self)
	vm.Set("args", ctx.Args)
	vm.Set("now", ctx.timestamp())
	vm.Set("metadata", ctx.Metadata)
	for key, value := range ctx.selfBinding() {
		if key == "self" || key == "args" || key == "now" || key == "metadata" {
			continue
		}
		vm.Set(key, value)
	}
	if e.registry != nil {
		vm.Set("call", func(name string, arguments ...any) (any, error) {
			return e.registry.Call(name, arguments...)
		})
		for _, name := range e.registry.Names() {
			fn := name
			vm.Set(fn, func(arguments ...any) (any, error) {
				return e.registry.Call(fn, arguments...)
			})
		}
	}
}

// wrapSource evaluates the script body as an expression with self bound as
// the receiver, so `this` inside the source refers to the immediate parent
// container.
func (e *jsEngine) wrapSource(source string) string {
	return fmt.Sprintf("(function(){ return (%s); }).call(self)", source)
}

type jsCompiledScript struct {
	engine  *jsEngine
	source  string
	program *goja.Program
}

func (s *jsCompiledScript) Invoke(ctx CallContext) (any, error) {
	if s.engine == nil {
		return nil, wrapInvokeError("js", "", fmt.Errorf("compiled script missing engine"))
	}
	ctx = ctx.withDefaultNow().withDefaultMaps()
	return s.engine.run(ctx, s.source, s.program)
}

func jsEngineAvailable() bool {
	return true
}
