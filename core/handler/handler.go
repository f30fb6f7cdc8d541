package handler

import "net/http"

// Response renders an HTTP response to the client. Implementations write
// headers and body to w and return an error when rendering fails.
type Response func(w http.ResponseWriter, r *http.Request) error

// HandlerFunc processes a request through a typed context and returns a
// Response to render. Returning nil is only valid when the handler (or an
// earlier middleware) already wrote the response itself.
type HandlerFunc[C Context] func(ctx C) Response

// ErrorHandler renders an error to the client. The router invokes it for
// unmatched routes, handler failures, and recovered panics; implementations
// must check whether the response was already written before rendering.
type ErrorHandler[C Context] func(ctx C, err error)

// Middleware wraps a HandlerFunc with additional behavior. Calling next
// continues the chain; skipping the call short-circuits it.
type Middleware[C Context] func(next HandlerFunc[C]) HandlerFunc[C]
