package stableopts

// ProgramCache stores compiled script programs keyed by source strings.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

// WithProgramCache registers a program cache used by the default script
// engine when none is configured explicitly.
func WithProgramCache(cache ProgramCache) Option {
	return func(cfg *cacheConfig) {
		cfg.programCache = cache
	}
}
