package stableopts

import (
	"reflect"
	"sort"
)

// shaper walks one snapshot and produces its shaped mirror: records become
// fresh map[string]any, sequences fresh []any, callable leaves become
// wrappers, primitives and opaque values pass through. The visited map keeps
// cyclic snapshots from recursing unboundedly and preserves their cycles in
// the shaped output.
type shaper struct {
	cell    *Cell
	runtime *wrapperRuntime
	visited map[refID]any
	paths   []string
}

func newShaper(cell *Cell, runtime *wrapperRuntime) *shaper {
	return &shaper{
		cell:    cell,
		runtime: runtime,
		visited: map[refID]any{},
	}
}

func (s *shaper) shape(value any, path Path) any {
	switch ClassifyValue(value) {
	case KindCallable:
		s.paths = append(s.paths, path.String())
		return newWrapper(s.cell, path, s.runtime)
	case KindRecord:
		return s.shapeRecord(value, path)
	case KindSequence:
		return s.shapeSequence(value, path)
	default:
		return value
	}
}

func (s *shaper) shapeRecord(value any, path Path) any {
	id, hasID := identity(value)
	if hasID {
		if shaped, seen := s.visited[id]; seen {
			return shaped
		}
	}

	rv := reflect.ValueOf(value)
	shaped := make(map[string]any, rv.Len())
	if hasID {
		s.visited[id] = shaped
	}

	keys := make([]string, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		keys = append(keys, iter.Key().String())
	}
	sort.Strings(keys)

	keyType := rv.Type().Key()
	for _, key := range keys {
		entry := rv.MapIndex(reflect.ValueOf(key).Convert(keyType))
		if !entry.IsValid() {
			continue
		}
		shaped[key] = s.shape(entry.Interface(), path.child(KeySegment(key)))
	}
	return shaped
}

func (s *shaper) shapeSequence(value any, path Path) any {
	id, hasID := identity(value)
	if hasID {
		if shaped, seen := s.visited[id]; seen {
			return shaped
		}
	}

	rv := reflect.ValueOf(value)
	shaped := make([]any, rv.Len())
	if hasID {
		s.visited[id] = shaped
	}

	for i := 0; i < rv.Len(); i++ {
		shaped[i] = s.shape(rv.Index(i).Interface(), path.child(IndexSegment(i)))
	}
	return shaped
}
