// Package handler defines the request-processing contracts shared across the
// framework: the Context interface handlers receive, the HandlerFunc and
// Middleware function types the router composes, and the Response type that
// renders the result.
//
// Handlers are generic over their context type, so applications can provide
// a context carrying dependencies (database handles, the authenticated user,
// a request-scoped logger) without type assertions:
//
//	type AppContext struct {
//		*router.Context
//		DB *pgxpool.Pool
//	}
//
//	func listUsers(ctx *AppContext) handler.Response {
//		users, err := queryUsers(ctx, ctx.DB)
//		if err != nil {
//			return response.Error{Status: 500, Code: "query_failed", Message: err.Error()}.Render()
//		}
//		return response.JSON(users)
//	}
//
// Middleware wraps handlers and decides whether to continue the chain:
//
//	func requireAuth[C handler.Context](next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
//		return func(ctx C) handler.Response {
//			if ctx.Request().Header.Get("Authorization") == "" {
//				return response.ErrUnauthorized.Render()
//			}
//			return next(ctx)
//		}
//	}
package handler
