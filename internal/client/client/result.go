package client

import "context"

// Result is the outcome of a read that must not fail. When Fallback is set,
// Data is a placeholder and Err holds the reason.
type Result[T any] struct {
	Data     T
	Fallback bool
	Err      error
}

// Real reports whether Data came from the backend.
func (r Result[T]) Real() bool {
	return !r.Fallback
}

// FetchPublic performs an anonymous GET and decodes the body into a T. Any
// failure yields placeholder instead.
func FetchPublic[T any](ctx context.Context, c *HTTPClient, path string, placeholder T) Result[T] {
	return fetch(ctx, c, ModePublic, path, placeholder)
}

// FetchOptional is FetchPublic for endpoints that personalize the answer
// when a token is present. A 401 degrades to placeholder like any other
// failure.
func FetchOptional[T any](ctx context.Context, c *HTTPClient, path string, placeholder T) Result[T] {
	return fetch(ctx, c, ModeOptionalAuth, path, placeholder)
}

func fetch[T any](ctx context.Context, c *HTTPClient, mode Mode, path string, placeholder T) Result[T] {
	var data T
	if err := c.Request(ctx, mode, "GET", path, nil, &data); err != nil {
		c.metrics.ObserveFallback(mode.String())
		c.logger.Warn(ctx, "using placeholder data", "mode", mode.String(), "path", path, "error", err)
		return Result[T]{Data: placeholder, Fallback: true, Err: err}
	}
	return Result[T]{Data: data}
}
