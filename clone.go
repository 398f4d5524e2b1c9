package stableopts

import "reflect"

// CloneSnapshot deep-copies the container skeleton of a snapshot: records and
// sequences are rebuilt as fresh containers of the same concrete type, while
// primitives, callables, and opaque values pass through by reference/value.
// Cyclic snapshots clone into equally cyclic copies.
func CloneSnapshot(value any) any {
	return cloneDynamic(value, map[refID]any{})
}

func cloneDynamic(value any, visited map[refID]any) any {
	switch ClassifyValue(value) {
	case KindRecord:
		return cloneRecord(value, visited)
	case KindSequence:
		return cloneSequence(value, visited)
	default:
		return value
	}
}

func cloneRecord(value any, visited map[refID]any) any {
	id, hasID := identity(value)
	if hasID {
		if clone, seen := visited[id]; seen {
			return clone
		}
	}

	rv := reflect.ValueOf(value)
	if rv.IsNil() {
		return value
	}
	clone := reflect.MakeMapWithSize(rv.Type(), rv.Len())
	if hasID {
		visited[id] = clone.Interface()
	}

	elemType := rv.Type().Elem()
	iter := rv.MapRange()
	for iter.Next() {
		clone.SetMapIndex(iter.Key(), cloneInto(iter.Value().Interface(), elemType, visited))
	}
	return clone.Interface()
}

func cloneSequence(value any, visited map[refID]any) any {
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Slice && rv.IsNil() {
		return value
	}

	id, hasID := identity(value)
	if hasID {
		if clone, seen := visited[id]; seen {
			return clone
		}
	}

	elemType := rv.Type().Elem()
	var clone reflect.Value
	if rv.Kind() == reflect.Slice {
		clone = reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
	} else {
		clone = reflect.New(rv.Type()).Elem()
	}
	if hasID {
		visited[id] = clone.Interface()
	}

	for i := 0; i < rv.Len(); i++ {
		clone.Index(i).Set(cloneInto(rv.Index(i).Interface(), elemType, visited))
	}
	return clone.Interface()
}

func cloneInto(value any, slot reflect.Type, visited map[refID]any) reflect.Value {
	cloned := cloneDynamic(value, visited)
	if cloned == nil {
		return reflect.Zero(slot)
	}
	return reflect.ValueOf(cloned)
}
