package router

import "github.com/tahamansoor/clawdia/core/handler"

// chain builds a single handler from a middleware stack and endpoint.
// Middlewares are wrapped in reverse order so the first one registered runs
// first. Every continuation is guarded: once a middleware has written the
// response, calling next is a no-op — the rest of the chain and the endpoint
// never execute.
func chain[C handler.Context](middlewares []handler.Middleware[C], endpoint handler.HandlerFunc[C]) handler.HandlerFunc[C] {
	h := endpoint
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](guardWritten(h))
	}
	return h
}

// guardWritten skips next when a response has already been sent.
func guardWritten[C handler.Context](next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
	return func(ctx C) handler.Response {
		if ws, ok := ctx.ResponseWriter().(interface{ Written() bool }); ok && ws.Written() {
			return nil
		}
		return next(ctx)
	}
}
