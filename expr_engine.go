package stableopts

import (
	"fmt"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

// ExprEngineOption configures an expr engine instance.
type ExprEngineOption func(*exprEngine)

// ExprWithProgramCache wires a ProgramCache into the expr engine.
func ExprWithProgramCache(cache ProgramCache) ExprEngineOption {
	return func(e *exprEngine) {
		e.cache = cache
	}
}

// ExprWithFunctionRegistry wires a FunctionRegistry into the expr engine.
func ExprWithFunctionRegistry(registry *FunctionRegistry) ExprEngineOption {
	return func(e *exprEngine) {
		if registry == nil {
			return
		}
		e.registry = registry.Clone()
	}
}

// exprEngine evaluates Script leaves using github.com/expr-lang/expr.
type exprEngine struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// NewExprEngine constructs a ScriptEngine backed by expr-lang/expr. It is the
// default engine when a Cache is built without WithScriptEngine.
func NewExprEngine(opts ...ExprEngineOption) ScriptEngine {
	e := &exprEngine{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Invoke compiles and runs source against ctx.
func (e *exprEngine) Invoke(ctx CallContext, source string) (any, error) {
	if source == "" {
		return nil, fmt.Errorf("script source must not be empty")
	}
	ctx = ctx.withDefaultNow().withDefaultMaps()
	env := e.environment(ctx)
	if e.cache == nil {
		result, err := exprlang.Eval(source, env)
		if err != nil {
			return nil, wrapInvokeError("expr", "", err)
		}
		return result, nil
	}
	program, err := e.loadOrCompile(source)
	if err != nil {
		return nil, err
	}
	result, err := exprlang.Run(program, env)
	if err != nil {
		return nil, wrapInvokeError("expr", "", err)
	}
	return result, nil
}

// Compile returns a compiled script that evaluates source per invocation.
func (e *exprEngine) Compile(source string) (CompiledScript, error) {
	if source == "" {
		return nil, fmt.Errorf("script source must not be empty")
	}
	program, err := e.loadOrCompile(source)
	if err != nil {
		return nil, err
	}
	return &exprCompiledScript{
		engine:  e,
		program: program,
		source:  source,
	}, nil
}

func (e *exprEngine) loadOrCompile(source string) (*exprvm.Program, error) {
	if e.cache != nil {
		if cached, ok := e.cache.Get(source); ok {
			if program, ok := cached.(*exprvm.Program); ok {
				return program, nil
			}
		}
	}
	options := []exprlang.Option{
		exprlang.Env(map[string]any{}),
		exprlang.AllowUndefinedVariables(),
	}
	for _, name := range e.registryNames() {
		fn := e.registryFunction(name)
		options = append(options, exprlang.Function(name, fn))
	}
	program, err := exprlang.Compile(source, options...)
	if err != nil {
		return nil, wrapInvokeError("expr", "", err)
	}
	if e.cache != nil {
		e.cache.Set(source, program)
	}
	return program, nil
}

type exprCompiledScript struct {
	engine  *exprEngine
	program *exprvm.Program
	source  string
}

func (s *exprCompiledScript) Invoke(ctx CallContext) (any, error) {
	if s.engine == nil {
		return nil, wrapInvokeError("expr", "", fmt.Errorf("compiled script missing engine"))
	}
	ctx = ctx.withDefaultNow().withDefaultMaps()
	if s.program == nil {
		return s.engine.Invoke(ctx, s.source)
	}
	env := s.engine.environment(ctx)
	result, err := exprlang.Run(s.program, env)
	if err != nil {
		return nil, wrapInvokeError("expr", "", err)
	}
	return result, nil
}

func (e *exprEngine) environment(ctx CallContext) map[string]any {
	env := map[string]any{
		"self":     ctx.Self,
		"args":     ctx.Args,
		"now":      ctx.timestamp(),
		"metadata": ctx.Metadata,
	}
	// Sibling fields of the parent record are addressable directly, matching
	// how Method leaves see their parent.
	for key, value := range ctx.selfBinding() {
		if _, taken := env[key]; taken {
			continue
		}
		env[key] = value
	}
	if e.registry != nil {
		env["call"] = func(name string, arguments ...any) (any, error) {
			return e.registry.Call(name, arguments...)
		}
		for _, name := range e.registry.Names() {
			fn := name
			env[fn] = func(arguments ...any) (any, error) {
				return e.registry.Call(fn, arguments...)
			}
		}
	}
	return env
}

func (e *exprEngine) registryNames() []string {
	if e == nil || e.registry == nil {
		return nil
	}
	return e.registry.Names()
}

func (e *exprEngine) registryFunction(name string) func(...any) (any, error) {
	if e == nil || e.registry == nil {
		return nil
	}
	return func(arguments ...any) (any, error) {
		return e.registry.Call(name, arguments...)
	}
}
