package stableopts

import "time"

// UpdateLogEvent describes one Update call for logging.
type UpdateLogEvent struct {
	Generation string
	Reused     bool
	Reentrant  bool
	Wrappers   int
	Duration   time.Duration
}

// UpdateLogger records cache update events.
type UpdateLogger interface {
	LogUpdate(UpdateLogEvent)
}

// UpdateLoggerFunc adapts a function to UpdateLogger.
type UpdateLoggerFunc func(UpdateLogEvent)

// LogUpdate implements UpdateLogger.
func (f UpdateLoggerFunc) LogUpdate(event UpdateLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopUpdateLogger struct{}

func (noopUpdateLogger) LogUpdate(UpdateLogEvent) {}

// WithUpdateLogger attaches an update logger to the cache.
func WithUpdateLogger(logger UpdateLogger) Option {
	return func(cfg *cacheConfig) {
		if logger == nil {
			cfg.logger = noopUpdateLogger{}
			return
		}
		cfg.logger = logger
	}
}
