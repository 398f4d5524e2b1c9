package stableopts

import "fmt"

// Script is a callable leaf whose behaviour is an expression evaluated at
// invocation time by the configured script engine. Like every callable leaf,
// Scripts are "don't care" values for structural equality: swapping the
// source between updates never forces a rebuild, and in-flight wrappers pick
// up the newest source on their next call.
type Script struct {
	Source string
}

// NewScript builds a Script leaf from source.
func NewScript(source string) Script {
	return Script{Source: source}
}

// ScriptEngine evaluates Script leaves against a call context.
type ScriptEngine interface {
	Invoke(ctx CallContext, source string) (any, error)
	Compile(source string) (CompiledScript, error)
}

// CompiledScript represents a reusable script program.
type CompiledScript interface {
	Invoke(ctx CallContext) (any, error)
}

func engineName(e ScriptEngine) string {
	if e == nil {
		return "unknown"
	}
	switch fmt.Sprintf("%T", e) {
	case "*stableopts.exprEngine":
		return "expr"
	case "*stableopts.celEngine":
		return "cel"
	case "*stableopts.jsEngine":
		return "js"
	default:
		return "custom"
	}
}
