package router

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
	"sort"
	"strings"

	"github.com/tahamansoor/clawdia/core/handler"
)

// mux is the private implementation of Router. It owns one trie root per
// HTTP method; the trees are built during registration and read-only while
// serving, so lookups take no locks.
type mux[C handler.Context] struct {
	trees        map[string]*node[C]
	middlewares  []handler.Middleware[C]
	errorHandler handler.ErrorHandler[C]
	newContext   func(http.ResponseWriter, *http.Request, map[string]string) C
	logger       *slog.Logger

	// inline sub-router state (With/Group)
	parent *mux[C]
	prefix string
	inline bool

	registered bool
}

// newMux creates a new router instance.
func newMux[C handler.Context](opts ...Option[C]) *mux[C] {
	m := &mux[C]{
		trees:        make(map[string]*node[C]),
		errorHandler: defaultErrorHandler[C],
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.newContext == nil {
		m.newContext = func(w http.ResponseWriter, r *http.Request, params map[string]string) C {
			// Only the default *Context works without a factory.
			var zero C
			if _, ok := any(zero).(*Context); ok {
				return any(NewContext(w, r, params)).(C)
			}
			panic(ErrNoContextFactory)
		}
	}

	return m
}

// root returns the owning mux for inline sub-routers.
func (m *mux[C]) root() *mux[C] {
	curr := m
	for curr.parent != nil {
		curr = curr.parent
	}
	return curr
}

// ServeHTTP implements http.Handler.
func (m *mux[C]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rt := m.root()
	ww := newResponseWriter(w)

	// RawPath preserves the encoding the client sent; matching never
	// percent-decodes.
	path := r.URL.Path
	if r.URL.RawPath != "" {
		path = r.URL.RawPath
	}

	b, params := rt.resolve(r.Method, path)
	ctx := rt.newContext(ww, r, params)

	// One recovery per request: handler and middleware failures become a
	// 500 instead of crashing the process.
	defer func() {
		if p := recover(); p != nil {
			panicErr := &panicError{value: p, stack: debug.Stack()}
			if ww.Written() {
				rt.logger.Error("panic after response written",
					"value", panicErr.value,
					"stack", string(panicErr.stack),
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
				)
				return
			}
			rt.errorHandler(ctx, panicErr)
		}
	}()

	if b == nil {
		// Expected, frequent outcome; mapped to 404, never an error.
		rt.errorHandler(ctx, ErrNotFound)
		return
	}

	fn := b.handler
	if len(rt.middlewares) > 0 {
		fn = chain(rt.middlewares, fn)
	}

	response := fn(ctx)
	if response == nil {
		// nil is legitimate after a middleware short-circuited with its
		// own response; otherwise the handler misbehaved.
		if !ww.Written() {
			rt.errorHandler(ctx, ErrNilResponse)
		}
		return
	}

	if err := response(ww, r); err != nil {
		rt.errorHandler(ctx, err)
	}
}

// resolve maps a method and request path to a registered binding and the
// extracted path parameters. A nil binding means not-found.
func (m *mux[C]) resolve(method, path string) (*binding[C], map[string]string) {
	tree, ok := m.trees[normalizeMethod(method)]
	if !ok {
		return nil, nil
	}
	return tree.match(splitSegments(path), nil)
}

// Get registers a handler for GET requests.
func (m *mux[C]) Get(pattern string, h handler.HandlerFunc[C]) {
	m.Handle(http.MethodGet, pattern, h)
}

// Post registers a handler for POST requests.
func (m *mux[C]) Post(pattern string, h handler.HandlerFunc[C]) {
	m.Handle(http.MethodPost, pattern, h)
}

// Put registers a handler for PUT requests.
func (m *mux[C]) Put(pattern string, h handler.HandlerFunc[C]) {
	m.Handle(http.MethodPut, pattern, h)
}

// Delete registers a handler for DELETE requests.
func (m *mux[C]) Delete(pattern string, h handler.HandlerFunc[C]) {
	m.Handle(http.MethodDelete, pattern, h)
}

// Patch registers a handler for PATCH requests.
func (m *mux[C]) Patch(pattern string, h handler.HandlerFunc[C]) {
	m.Handle(http.MethodPatch, pattern, h)
}

// Head registers a handler for HEAD requests.
func (m *mux[C]) Head(pattern string, h handler.HandlerFunc[C]) {
	m.Handle(http.MethodHead, pattern, h)
}

// Options registers a handler for OPTIONS requests.
func (m *mux[C]) Options(pattern string, h handler.HandlerFunc[C]) {
	m.Handle(http.MethodOptions, pattern, h)
}

// Handle registers a handler for an arbitrary HTTP method.
func (m *mux[C]) Handle(method, pattern string, h handler.HandlerFunc[C]) {
	if h == nil {
		panic(fmt.Errorf("%w: %s %q", ErrNilHandler, method, pattern))
	}
	method = normalizeMethod(method)
	if method == "" {
		panic(fmt.Errorf("%w: empty method for pattern %q", ErrInvalidMethod, pattern))
	}
	if strings.TrimSpace(pattern) == "" {
		panic(fmt.Errorf("%w: empty pattern for method %s", ErrInvalidPattern, method))
	}

	full := pattern
	routeMws := m.routeMiddlewares()
	if m.inline {
		full = joinPattern(m.prefix, pattern)
	}

	segments := splitSegments(full)
	canonical := "/" + strings.Join(segments, "/")

	stored := h
	if len(routeMws) > 0 {
		stored = chain(routeMws, h)
	}

	rt := m.root()
	tree, ok := rt.trees[method]
	if !ok {
		tree = &node[C]{}
		rt.trees[method] = tree
	}
	tree.addRoute(segments, &binding[C]{handler: stored, pattern: canonical})
	rt.registered = true
}

// routeMiddlewares collects the route-scoped middleware of this inline
// router and its inline ancestors, outermost group first.
func (m *mux[C]) routeMiddlewares() []handler.Middleware[C] {
	var mws []handler.Middleware[C]
	for curr := m; curr != nil && curr.inline; curr = curr.parent {
		if len(curr.middlewares) > 0 {
			mws = append(append([]handler.Middleware[C]{}, curr.middlewares...), mws...)
		}
	}
	return mws
}

// Register walks each controller's route definitions.
func (m *mux[C]) Register(controllers ...Controller[C]) {
	for _, ctrl := range controllers {
		if ctrl == nil {
			panic(ErrNilController)
		}
		prefix := ctrl.Prefix()
		for _, def := range ctrl.Routes() {
			r := Router[C](m)
			if len(def.Middlewares) > 0 {
				r = m.With(def.Middlewares...)
			}
			r.Handle(def.Method, joinPattern(prefix, def.Path), def.Handler)
		}
	}
}

// Use appends global middleware to the router. On an inline sub-router the
// middleware is route-scoped to routes registered through it.
func (m *mux[C]) Use(middlewares ...handler.Middleware[C]) {
	if !m.inline && m.registered {
		panic("router: all global middlewares must be defined before routes")
	}
	m.middlewares = append(m.middlewares, middlewares...)
}

// With creates an inline sub-router carrying additional route-scoped
// middleware. The middleware is composed into each route's handler at
// registration time.
func (m *mux[C]) With(middlewares ...handler.Middleware[C]) Router[C] {
	im := &mux[C]{
		inline:       true,
		parent:       m,
		prefix:       m.inlinePrefix(),
		middlewares:  middlewares,
		errorHandler: m.errorHandler,
		newContext:   m.newContext,
		logger:       m.logger,
	}
	return im
}

// Group creates an inline sub-router whose routes live under prefix.
func (m *mux[C]) Group(prefix string, fn func(r Router[C])) Router[C] {
	im := &mux[C]{
		inline:       true,
		parent:       m,
		prefix:       joinPattern(m.inlinePrefix(), prefix),
		errorHandler: m.errorHandler,
		newContext:   m.newContext,
		logger:       m.logger,
	}
	if fn != nil {
		fn(im)
	}
	return im
}

// inlinePrefix returns the accumulated group prefix for inline routers.
func (m *mux[C]) inlinePrefix() string {
	if m.inline {
		return m.prefix
	}
	return ""
}

// Routes returns all registered routes sorted by method then pattern.
func (m *mux[C]) Routes() []Route {
	rt := m.root()
	var routes []Route
	for method, tree := range rt.trees {
		tree.walk(func(b *binding[C]) {
			routes = append(routes, Route{Method: method, Pattern: b.pattern})
		})
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Method != routes[j].Method {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Pattern < routes[j].Pattern
	})
	return routes
}

// Lookup resolves a method and path without dispatching.
func (m *mux[C]) Lookup(method, path string) (Route, map[string]string, bool) {
	b, params := m.root().resolve(method, path)
	if b == nil {
		return Route{}, nil, false
	}
	return Route{Method: normalizeMethod(method), Pattern: b.pattern}, params, true
}
