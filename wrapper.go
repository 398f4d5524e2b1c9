package stableopts

import (
	"fmt"
	"reflect"
)

// wrapperRuntime is shared by every wrapper belonging to one shaped-output
// generation: the script engine, and the drift callback the owning cache
// uses for reporting.
type wrapperRuntime struct {
	engine  ScriptEngine
	onDrift func(Path)
}

func (rt *wrapperRuntime) scriptEngine() ScriptEngine {
	if rt.engine == nil {
		rt.engine = NewExprEngine()
	}
	return rt.engine
}

func (rt *wrapperRuntime) drift(path Path) {
	if rt != nil && rt.onDrift != nil {
		rt.onDrift(path)
	}
}

// Wrap produces a stable Function bound to (cell, path). Each call re-resolves
// the path against the cell's current contents and dispatches to whatever
// callable lives there now. A missing hop or a non-callable leaf (shape
// drift) yields (nil, nil); drift is not an error.
func Wrap(cell *Cell, path Path) Function {
	return newWrapper(cell, path, &wrapperRuntime{})
}

func newWrapper(cell *Cell, path Path, rt *wrapperRuntime) Function {
	return func(args ...any) (any, error) {
		leaf, parent, ok := resolve(cell.Load(), path)
		if !ok {
			rt.drift(path)
			return nil, nil
		}
		return invokeLeaf(leaf, parent, path, args, rt)
	}
}

func invokeLeaf(leaf, parent any, path Path, args []any, rt *wrapperRuntime) (any, error) {
	switch fn := leaf.(type) {
	case nil:
		rt.drift(path)
		return nil, nil
	case Function:
		return fn(args...)
	case func(...any) (any, error):
		return fn(args...)
	case Method:
		return fn(parent, args...)
	case func(any, ...any) (any, error):
		return fn(parent, args...)
	case Script:
		engine := rt.scriptEngine()
		value, err := engine.Invoke(CallContext{Self: parent, Args: args}, fn.Source)
		if err != nil {
			return nil, wrapInvokeError(engineName(engine), path.String(), err)
		}
		return value, nil
	default:
		rv := reflect.ValueOf(leaf)
		if rv.Kind() != reflect.Func {
			rt.drift(path)
			return nil, nil
		}
		return callReflected(rv, path, args)
	}
}

// callReflected dispatches to an arbitrary func value. Results follow the Go
// convention: a trailing error return becomes the wrapper's error, the first
// remaining value (if any) its result.
func callReflected(fn reflect.Value, path Path, args []any) (result any, err error) {
	t := fn.Type()
	fixed := t.NumIn()
	if t.IsVariadic() {
		fixed--
	}
	if len(args) < fixed || (!t.IsVariadic() && len(args) > fixed) {
		return nil, wrapInvokeError("go", path.String(),
			fmt.Errorf("callable takes %d args, got %d", fixed, len(args)))
	}

	in := make([]reflect.Value, 0, len(args))
	for i, arg := range args {
		var paramType reflect.Type
		if i < fixed {
			paramType = t.In(i)
		} else {
			paramType = t.In(t.NumIn() - 1).Elem()
		}
		value, ok := coerceArg(arg, paramType)
		if !ok {
			return nil, wrapInvokeError("go", path.String(),
				fmt.Errorf("arg %d (%T) not assignable to %s", i, arg, paramType))
		}
		in = append(in, value)
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			result = nil
			err = wrapInvokeError("go", path.String(), fmt.Errorf("callable panicked: %v", recovered))
		}
	}()

	out := fn.Call(in)
	return splitResults(out)
}

func coerceArg(arg any, paramType reflect.Type) (reflect.Value, bool) {
	if arg == nil {
		switch paramType.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(paramType), true
		default:
			return reflect.Value{}, false
		}
	}
	value := reflect.ValueOf(arg)
	if value.Type().AssignableTo(paramType) {
		return value, true
	}
	if value.Type().ConvertibleTo(paramType) {
		return value.Convert(paramType), true
	}
	return reflect.Value{}, false
}

var errType = reflect.TypeOf((*error)(nil)).Elem()

func splitResults(out []reflect.Value) (any, error) {
	if len(out) == 0 {
		return nil, nil
	}
	last := out[len(out)-1]
	if last.Type().Implements(errType) {
		var err error
		if !last.IsNil() {
			err = last.Interface().(error)
		}
		if len(out) == 1 {
			return nil, err
		}
		return out[0].Interface(), err
	}
	return out[0].Interface(), nil
}
