package stableopts

import (
	"reflect"
	"time"
)

// Kind classifies a snapshot node once so the equality and shaping walks can
// branch exhaustively instead of scattering runtime type checks.
type Kind int

const (
	// KindPrimitive covers nil, booleans, numbers, and strings.
	KindPrimitive Kind = iota
	// KindSequence covers ordered, integer-indexed containers (slices, arrays).
	KindSequence
	// KindRecord covers plain string-keyed containers.
	KindRecord
	// KindCallable covers function values and Script leaves.
	KindCallable
	// KindOpaque covers every other runtime type (structs such as time.Time,
	// non-string-keyed maps, channels, pointers). Opaque values are compared
	// by identity only and pass through shaping untouched.
	KindOpaque
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindSequence:
		return "sequence"
	case KindRecord:
		return "record"
	case KindCallable:
		return "callable"
	case KindOpaque:
		return "opaque"
	default:
		return "unknown"
	}
}

// ClassifyValue reports the Kind of an arbitrary snapshot node.
func ClassifyValue(value any) Kind {
	if value == nil {
		return KindPrimitive
	}
	if _, ok := value.(Script); ok {
		return KindCallable
	}
	return classifyReflect(reflect.ValueOf(value))
}

func classifyReflect(rv reflect.Value) Kind {
	switch rv.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128,
		reflect.String:
		return KindPrimitive
	case reflect.Func:
		return KindCallable
	case reflect.Slice, reflect.Array:
		return KindSequence
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			return KindRecord
		}
		return KindOpaque
	default:
		return KindOpaque
	}
}

// Function is the canonical callable leaf shape. Shaped outputs expose every
// callable position as a Function regardless of the leaf's concrete type.
type Function func(args ...any) (any, error)

// Method is a callable leaf whose first parameter receives the immediate
// parent container at invocation time, so sibling-dependent behaviour keeps
// working even as the parent record is replaced wholesale between updates.
type Method func(self any, args ...any) (any, error)

// CallContext carries the inputs handed to a script engine per invocation.
type CallContext struct {
	Self     any
	Args     []any
	Now      *time.Time
	Metadata map[string]any
}

func (ctx CallContext) withDefaultNow() CallContext {
	if ctx.Now != nil {
		return ctx
	}
	now := time.Now()
	ctx.Now = &now
	return ctx
}

func (ctx CallContext) timestamp() time.Time {
	ctx = ctx.withDefaultNow()
	return *ctx.Now
}

func (ctx CallContext) withDefaultMaps() CallContext {
	if ctx.Metadata == nil {
		ctx.Metadata = map[string]any{}
	}
	return ctx
}

func (ctx CallContext) selfBinding() map[string]any {
	if record, ok := ctx.Self.(map[string]any); ok {
		return record
	}
	return nil
}
