//go:build !js_eval

package stableopts

// jsEngine without the js_eval build tag: construction still succeeds so
// callers can wire it unconditionally, but every evaluation reports
// ErrEngineUnavailable instead of silently falling back to another engine.
type jsEngine struct{}

// NewJSEngine returns the unavailable-engine stub; build with the js_eval
// tag for the goja-backed implementation.
func NewJSEngine(opts ...JSEngineOption) ScriptEngine {
	_ = applyJSEngineOptions(opts)
	return &jsEngine{}
}

func (e *jsEngine) Invoke(ctx CallContext, source string) (any, error) {
	return nil, wrapInvokeError("js", "", ErrEngineUnavailable)
}

func (e *jsEngine) Compile(source string) (CompiledScript, error) {
	return nil, wrapInvokeError("js", "", ErrEngineUnavailable)
}

func jsEngineAvailable() bool {
	return false
}
