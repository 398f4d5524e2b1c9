package stableopts

import (
	"errors"
	"fmt"
)

// ErrEngineUnavailable indicates a script engine that is not compiled into
// the binary (e.g. the JS engine without its build tag).
var ErrEngineUnavailable = errors.New("stableopts: script engine unavailable")

// InvokeError captures wrapper metadata alongside the originating error when
// a wrapper invocation fails inside a callable leaf or script engine. Shape
// drift is never reported through InvokeError; drifted calls yield nil
// without error.
type InvokeError struct {
	Engine string
	Path   string
	Err    error
}

func (e *InvokeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("stableopts: %s invoke %s: %v", e.Engine, describePath(e.Path), e.Err)
}

func (e *InvokeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describePath(path string) string {
	if path == "" {
		return "path=<root>"
	}
	return fmt.Sprintf("path=%q", path)
}

func wrapInvokeError(engine, path string, err error) error {
	if err == nil {
		return nil
	}

	var invokeErr *InvokeError
	if errors.As(err, &invokeErr) {
		if invokeErr.Engine == "" {
			invokeErr.Engine = engine
		}
		if invokeErr.Path == "" {
			invokeErr.Path = path
		}
		return invokeErr
	}

	return &InvokeError{
		Engine: engine,
		Path:   path,
		Err:    err,
	}
}
