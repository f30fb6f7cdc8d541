// Package router implements the framework's request router: a per-method
// segment trie that maps an HTTP method and URL path, including :name path
// parameters, to a registered handler.
//
// Routes are registered once at startup, either imperatively:
//
//	r := router.New[*router.Context]()
//	r.Use(middleware.RequestID[*router.Context]())
//	r.Get("/users/:id", getUser)
//
// or declaratively, by registering controllers that enumerate their own
// route definitions:
//
//	type userController struct{}
//
//	func (userController) Prefix() string { return "/users" }
//
//	func (c userController) Routes() []router.RouteDef[*router.Context] {
//		return []router.RouteDef[*router.Context]{
//			{Method: http.MethodGet, Path: "/:id", Handler: c.show},
//			{Method: http.MethodPost, Path: "/", Handler: c.create, Middlewares: onlyAdmins},
//		}
//	}
//
//	r.Register(userController{})
//
// Matching is exact-length with static segments taking priority over
// parameter segments at the same position. Lookup is read-only after
// registration completes, so serving needs no locks.
//
// Global middleware (Use) runs before route-scoped middleware (With or
// RouteDef.Middlewares), in registration order within each group. Each
// middleware receives the next handler as its continuation; not calling it
// short-circuits the chain. Once a response has been written the remaining
// chain and the handler are skipped, and a second explicit WriteHeader
// panics.
package router
