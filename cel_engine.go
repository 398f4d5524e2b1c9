package stableopts

import (
	"fmt"
	"sort"
	"strings"

	celgo "github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
)

// CELEngineOption configures the CEL engine.
type CELEngineOption func(*celEngine)

// CELWithProgramCache wires a ProgramCache into the CEL engine.
func CELWithProgramCache(cache ProgramCache) CELEngineOption {
	return func(e *celEngine) {
		e.cache = cache
	}
}

// CELWithFunctionRegistry wires a FunctionRegistry into the CEL engine.
func CELWithFunctionRegistry(registry *FunctionRegistry) CELEngineOption {
	return func(e *celEngine) {
		if registry == nil {
			return
		}
		e.registry = registry.Clone()
	}
}

type celProgram struct {
	env     *celgo.Env
	program celgo.Program
}

type celEngine struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// NewCELEngine constructs a ScriptEngine backed by cel-go.
func NewCELEngine(opts ...CELEngineOption) ScriptEngine {
	e := &celEngine{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

func (e *celEngine) Invoke(ctx CallContext, source string) (any, error) {
	if source == "" {
		return nil, fmt.Errorf("script source must not be empty")
	}
	ctx = ctx.withDefaultNow().withDefaultMaps()
	self := ctx.selfBinding()
	program, err := e.loadOrCompile(source, self)
	if err != nil {
		return nil, err
	}
	out, _, err := program.program.Eval(e.activation(ctx, self))
	if err != nil {
		return nil, wrapInvokeError("cel", "", err)
	}
	return out.Value(), nil
}

func (e *celEngine) Compile(source string) (CompiledScript, error) {
	if source == "" {
		return nil, fmt.Errorf("script source must not be empty")
	}
	return &celCompiledScript{
		engine: e,
		source: source,
	}, nil
}

func (e *celEngine) loadOrCompile(source string, self map[string]any) (*celProgram, error) {
	if self == nil {
		self = map[string]any{}
	}
	// The env declares one variable per promoted sibling key, so a compiled
	// program is only reusable for parents with the same key set.
	key := programCacheKey(source, self)
	if e.cache != nil {
		if cached, ok := e.cache.Get(key); ok {
			if program, ok := cached.(*celProgram); ok {
				return program, nil
			}
		}
	}

	env, err := e.buildEnv(self)
	if err != nil {
		return nil, wrapInvokeError("cel", "", err)
	}
	ast, issues := env.Parse(source)
	if issues != nil && issues.Err() != nil {
		return nil, wrapInvokeError("cel", "", issues.Err())
	}
	checked, issues := env.Check(ast)
	if issues != nil && issues.Err() != nil {
		return nil, wrapInvokeError("cel", "", issues.Err())
	}
	prg, err := env.Program(checked)
	if err != nil {
		return nil, wrapInvokeError("cel", "", err)
	}

	bundle := &celProgram{
		env:     env,
		program: prg,
	}
	if e.cache != nil {
		e.cache.Set(key, bundle)
	}
	return bundle, nil
}

func programCacheKey(source string, self map[string]any) string {
	if len(self) == 0 {
		return source
	}
	keys := make([]string, 0, len(self))
	for key := range self {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return source + "\n" + strings.Join(keys, ",")
}

func (e *celEngine) buildEnv(self map[string]any) (*celgo.Env, error) {
	opts := []celgo.EnvOption{
		celgo.Variable("self", celgo.DynType),
		celgo.Variable("args", celgo.DynType),
		celgo.Variable("now", celgo.TimestampType),
		celgo.Variable("metadata", celgo.DynType),
	}
	if e.registry != nil {
		// cel-go overloads are fixed-arity, so the variadic "call" function is
		// declared once per supported argument count, all sharing one binding.
		binding := e.callBinding()
		callOpts := make([]celgo.FunctionOpt, 0, maxCallArgs+1)
		for arity := 0; arity <= maxCallArgs; arity++ {
			argTypes := make([]*celgo.Type, 0, arity+1)
			argTypes = append(argTypes, celgo.StringType)
			for i := 0; i < arity; i++ {
				argTypes = append(argTypes, celgo.DynType)
			}
			callOpts = append(callOpts, celgo.Overload(
				fmt.Sprintf("call_dyn_%d", arity),
				argTypes,
				celgo.DynType,
				celgo.FunctionBinding(binding),
			))
		}
		opts = append(opts, celgo.Function("call", callOpts...))
	}
	for key := range self {
		if key == "self" || key == "args" || key == "now" || key == "metadata" {
			continue
		}
		opts = append(opts, celgo.Variable(key, celgo.DynType))
	}
	return celgo.NewEnv(opts...)
}

func (e *celEngine) activation(ctx CallContext, self map[string]any) map[string]any {
	activation := map[string]any{
		"self":     ctx.Self,
		"args":     ctx.Args,
		"now":      ctx.timestamp(),
		"metadata": ctx.Metadata,
	}
	for key, value := range self {
		if _, taken := activation[key]; taken {
			continue
		}
		activation[key] = value
	}
	if e.registry != nil {
		activation["call"] = func(name string, arguments ...any) (any, error) {
			return e.registry.Call(name, arguments...)
		}
	}
	return activation
}

type celCompiledScript struct {
	engine *celEngine
	source string
}

func (s *celCompiledScript) Invoke(ctx CallContext) (any, error) {
	if s.engine == nil {
		return nil, wrapInvokeError("cel", "", fmt.Errorf("compiled script missing engine"))
	}
	ctx = ctx.withDefaultNow().withDefaultMaps()
	self := ctx.selfBinding()
	program, err := s.engine.loadOrCompile(s.source, self)
	if err != nil {
		return nil, err
	}
	out, _, err := program.program.Eval(s.engine.activation(ctx, self))
	if err != nil {
		return nil, wrapInvokeError("cel", "", err)
	}
	return out.Value(), nil
}

// maxCallArgs bounds the per-arity overload declarations for "call": the
// function name plus up to this many forwarded arguments.
const maxCallArgs = 8

func (e *celEngine) callBinding() func(...ref.Val) ref.Val {
	return func(values ...ref.Val) ref.Val {
		if e.registry == nil {
			return types.NewErr("stableopts: function registry not configured")
		}
		if len(values) == 0 {
			return types.NewErr("stableopts: call requires function name")
		}
		name, ok := values[0].Value().(string)
		if !ok {
			return types.NewErr("stableopts: call name must be string")
		}
		args := make([]any, 0, len(values)-1)
		for _, val := range values[1:] {
			args = append(args, val.Value())
		}
		result, err := e.registry.Call(name, args...)
		if err != nil {
			return types.NewErr("%s", err.Error())
		}
		if result == nil {
			return types.NullValue
		}
		return types.DefaultTypeAdapter.NativeToValue(result)
	}
}
