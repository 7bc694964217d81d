// Package kit holds the small shared vocabulary every front speaks:
// endpoints, middleware chaining, request-scoped context values, and the
// MCP tool bridge.
package kit

import "context"

// Endpoint is one logical operation: typed request in, typed response
// out. Transports adapt their wire formats to this shape so middleware
// composes once, not per transport.
type Endpoint func(ctx context.Context, req any) (any, error)

// Middleware wraps an Endpoint with cross-cutting behavior.
type Middleware func(Endpoint) Endpoint

// Chain composes middlewares left to right: the first argument is the
// outermost wrapper.
func Chain(mws ...Middleware) Middleware {
	return func(next Endpoint) Endpoint {
		for i := len(mws) - 1; i >= 0; i-- {
			next = mws[i](next)
		}
		return next
	}
}
