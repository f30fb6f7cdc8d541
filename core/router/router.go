package router

import (
	"net/http"

	"github.com/tahamansoor/clawdia/core/handler"
)

// Router is the main routing interface for handling HTTP requests. Routes
// are registered during startup; the table is read-only once serving begins.
type Router[C handler.Context] interface {
	http.Handler
	Routes

	// HTTP method helpers
	Get(pattern string, h handler.HandlerFunc[C])
	Post(pattern string, h handler.HandlerFunc[C])
	Put(pattern string, h handler.HandlerFunc[C])
	Delete(pattern string, h handler.HandlerFunc[C])
	Patch(pattern string, h handler.HandlerFunc[C])
	Head(pattern string, h handler.HandlerFunc[C])
	Options(pattern string, h handler.HandlerFunc[C])

	// Handle registers a handler for an arbitrary HTTP method. The method
	// is normalized to uppercase; an empty method or pattern panics with a
	// configuration error.
	Handle(method, pattern string, h handler.HandlerFunc[C])

	// Register walks each controller's route definitions, joining the
	// controller prefix with every path.
	Register(controllers ...Controller[C])

	// Middleware
	Use(middlewares ...handler.Middleware[C])
	With(middlewares ...handler.Middleware[C]) Router[C]

	// Group creates an inline sub-router whose routes are registered under
	// prefix and inherit the group's route-scoped middleware.
	Group(prefix string, fn func(r Router[C])) Router[C]

	// Lookup resolves a method and path without dispatching. The boolean
	// reports whether a route matched; params carries extracted path
	// parameters and may be nil for parameterless routes.
	Lookup(method, path string) (route Route, params map[string]string, ok bool)
}

// Routes provides route introspection for debugging and startup logging.
type Routes interface {
	Routes() []Route
}

// Route describes a registered route.
type Route struct {
	Method  string
	Pattern string
}

// RouteDef is one endpoint declaration: the explicit-data replacement for
// annotation-driven registration. Middlewares are route-scoped and run after
// the router's global middleware, in slice order.
type RouteDef[C handler.Context] struct {
	Method      string
	Path        string
	Handler     handler.HandlerFunc[C]
	Middlewares []handler.Middleware[C]
}

// Controller enumerates its own route definitions. Paths returned by Routes
// are joined with Prefix and re-normalized, so "/users" + ":id" and
// "users/" + "/:id" register the same pattern.
type Controller[C handler.Context] interface {
	Prefix() string
	Routes() []RouteDef[C]
}

// New creates a new router with the given options.
func New[C handler.Context](opts ...Option[C]) Router[C] {
	return newMux[C](opts...)
}
