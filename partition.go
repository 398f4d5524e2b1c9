package stableopts

import "regexp"

var handlerKeyPattern = regexp.MustCompile(`^on[A-Z]`)

// IsHandlerKey reports whether key follows the event-handler naming
// convention ("on" followed by an upper-case letter, e.g. "onSelect").
func IsHandlerKey(key string) bool {
	return handlerKeyPattern.MatchString(key)
}

// SplitHandlers partitions a shaped record into its event-handler entries and
// everything else. Handlers are registered once on a stateful consumer (their
// wrappers stay current on their own); the config partition is re-applied
// only when the shaped output's reference changes.
//
// A non-record input yields two nil maps.
func SplitHandlers(shaped any) (handlers map[string]Function, config map[string]any) {
	record, ok := shaped.(map[string]any)
	if !ok {
		return nil, nil
	}
	handlers = make(map[string]Function)
	config = make(map[string]any, len(record))
	for key, value := range record {
		if IsHandlerKey(key) {
			if fn, isFn := value.(Function); isFn {
				handlers[key] = fn
				continue
			}
		}
		config[key] = value
	}
	return handlers, config
}
