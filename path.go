package stableopts

import (
	"reflect"
	"strconv"
	"strings"
)

// Segment addresses one hop inside a snapshot: a record key or a sequence
// index.
type Segment struct {
	Key     string
	Index   int
	Indexed bool
}

// KeySegment builds a record-key segment.
func KeySegment(key string) Segment {
	return Segment{Key: key}
}

// IndexSegment builds a sequence-index segment.
func IndexSegment(index int) Segment {
	return Segment{Index: index, Indexed: true}
}

func (s Segment) String() string {
	if s.Indexed {
		return strconv.Itoa(s.Index)
	}
	return s.Key
}

// Path identifies the location of a callable leaf within a snapshot. Paths
// are resolved against the Cell's current contents at every wrapper
// invocation, never against the snapshot the wrapper was built from.
type Path []Segment

// String renders the path in dotted form, e.g. "widgets.2.onSelect".
func (p Path) String() string {
	if len(p) == 0 {
		return ""
	}
	parts := make([]string, len(p))
	for i, segment := range p {
		parts[i] = segment.String()
	}
	return strings.Join(parts, ".")
}

// child returns a new path extended by segment. The backing array is copied
// so sibling paths never alias each other.
func (p Path) child(segment Segment) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = segment
	return out
}

// resolve walks path against root. It returns the leaf value and its
// immediate parent container. Any missing key, out-of-range index, or
// non-container hop stops the walk with ok=false; resolution never panics.
func resolve(root any, path Path) (leaf any, parent any, ok bool) {
	current := root
	parent = nil
	for _, segment := range path {
		if current == nil {
			return nil, nil, false
		}
		next, found := step(current, segment)
		if !found {
			return nil, nil, false
		}
		parent = current
		current = next
	}
	return current, parent, true
}

func step(container any, segment Segment) (any, bool) {
	switch ClassifyValue(container) {
	case KindRecord:
		if segment.Indexed {
			return nil, false
		}
		if record, isPlain := container.(map[string]any); isPlain {
			value, found := record[segment.Key]
			return value, found
		}
		rv := reflect.ValueOf(container)
		key := reflect.ValueOf(segment.Key).Convert(rv.Type().Key())
		value := rv.MapIndex(key)
		if !value.IsValid() {
			return nil, false
		}
		return value.Interface(), true
	case KindSequence:
		if !segment.Indexed {
			return nil, false
		}
		rv := reflect.ValueOf(container)
		if segment.Index < 0 || segment.Index >= rv.Len() {
			return nil, false
		}
		return rv.Index(segment.Index).Interface(), true
	default:
		return nil, false
	}
}
