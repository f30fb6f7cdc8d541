package router_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tahamansoor/clawdia/core/handler"
	"github.com/tahamansoor/clawdia/core/response"
	"github.com/tahamansoor/clawdia/core/router"
)

func serve(r http.Handler, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func okHandler(body string) handler.HandlerFunc[*router.Context] {
	return func(ctx *router.Context) handler.Response {
		return response.String(body)
	}
}

func TestRouterDispatch(t *testing.T) {
	t.Parallel()

	t.Run("static_route", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/health", okHandler("ok"))

		rec := serve(r, http.MethodGet, "/health")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ok", rec.Body.String())
	})

	t.Run("param_extraction", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/users/:id/posts/:slug", func(ctx *router.Context) handler.Response {
			return response.String(ctx.Param("id") + "/" + ctx.Param("slug"))
		})

		rec := serve(r, http.MethodGet, "/users/42/posts/hello")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "42/hello", rec.Body.String())
	})

	t.Run("static_beats_param", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/users/:id", okHandler("param"))
		r.Get("/users/me", okHandler("static"))

		rec := serve(r, http.MethodGet, "/users/me")
		assert.Equal(t, "static", rec.Body.String())

		rec = serve(r, http.MethodGet, "/users/99")
		assert.Equal(t, "param", rec.Body.String())
	})

	t.Run("param_fallback_after_static_dead_end", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/users/me", okHandler("me"))
		r.Get("/users/:id/posts", func(ctx *router.Context) handler.Response {
			return response.String("posts of " + ctx.Param("id"))
		})

		rec := serve(r, http.MethodGet, "/users/me/posts")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "posts of me", rec.Body.String())
	})

	t.Run("path_normalization", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("a//b/", okHandler("normalized"))

		rec := serve(r, http.MethodGet, "/a/b")
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = serve(r, http.MethodGet, "//a//b//")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("method_normalization", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Handle("get", "/x", okHandler("ok"))

		rec := serve(r, http.MethodGet, "/x")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("methods_are_isolated", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/x", okHandler("ok"))

		rec := serve(r, http.MethodPost, "/x")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("reregistration_overwrites", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/x", okHandler("first"))
		r.Get("/x", okHandler("second"))

		rec := serve(r, http.MethodGet, "/x")
		assert.Equal(t, "second", rec.Body.String())
	})

	t.Run("not_found_renders_json", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/exists", okHandler("ok"))

		rec := serve(r, http.MethodGet, "/missing")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
		assert.JSONEq(t, `{"code":"NOT_FOUND","message":"Not Found"}`, rec.Body.String())
	})

	t.Run("encoded_segment_matches_raw", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/files/:name", func(ctx *router.Context) handler.Response {
			return response.String(ctx.Param("name"))
		})

		rec := serve(r, http.MethodGet, "/files/a%2Fb")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "a%2Fb", rec.Body.String())
	})

	t.Run("method_helpers", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/r", okHandler("get"))
		r.Post("/r", okHandler("post"))
		r.Put("/r", okHandler("put"))
		r.Delete("/r", okHandler("delete"))
		r.Patch("/r", okHandler("patch"))
		r.Head("/r", okHandler("head"))
		r.Options("/r", okHandler("options"))

		for _, method := range []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodDelete, http.MethodPatch, http.MethodHead, http.MethodOptions,
		} {
			rec := serve(r, method, "/r")
			assert.Equal(t, http.StatusOK, rec.Code, method)
		}
	})
}

func TestRouterMiddleware(t *testing.T) {
	t.Parallel()

	record := func(order *[]string, name string) handler.Middleware[*router.Context] {
		return func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
			return func(ctx *router.Context) handler.Response {
				*order = append(*order, name)
				return next(ctx)
			}
		}
	}

	t.Run("global_then_route_order", func(t *testing.T) {
		t.Parallel()

		var order []string
		r := router.New[*router.Context]()
		r.Use(record(&order, "g1"), record(&order, "g2"))
		r.With(record(&order, "r1"), record(&order, "r2")).Get("/x", func(ctx *router.Context) handler.Response {
			order = append(order, "handler")
			return response.NoContent()
		})

		rec := serve(r, http.MethodGet, "/x")
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, []string{"g1", "g2", "r1", "r2", "handler"}, order)
	})

	t.Run("short_circuit_skips_rest_of_chain", func(t *testing.T) {
		t.Parallel()

		handlerRan := false
		r := router.New[*router.Context]()
		r.Use(func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
			return func(ctx *router.Context) handler.Response {
				return response.StringWithStatus("denied", http.StatusUnauthorized)
			}
		})
		r.Get("/x", func(ctx *router.Context) handler.Response {
			handlerRan = true
			return response.String("ok")
		})

		rec := serve(r, http.MethodGet, "/x")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "denied", rec.Body.String())
		assert.False(t, handlerRan)
	})

	t.Run("write_then_next_is_noop", func(t *testing.T) {
		t.Parallel()

		handlerRan := false
		r := router.New[*router.Context]()
		r.Use(func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
			return func(ctx *router.Context) handler.Response {
				ctx.ResponseWriter().WriteHeader(http.StatusTeapot)
				return next(ctx)
			}
		})
		r.Get("/x", func(ctx *router.Context) handler.Response {
			handlerRan = true
			return response.String("ok")
		})

		rec := serve(r, http.MethodGet, "/x")
		assert.Equal(t, http.StatusTeapot, rec.Code)
		assert.False(t, handlerRan)
	})

	t.Run("route_middleware_is_scoped", func(t *testing.T) {
		t.Parallel()

		var order []string
		r := router.New[*router.Context]()
		r.With(record(&order, "scoped")).Get("/a", okHandler("a"))
		r.Get("/b", okHandler("b"))

		serve(r, http.MethodGet, "/b")
		assert.Empty(t, order)

		serve(r, http.MethodGet, "/a")
		assert.Equal(t, []string{"scoped"}, order)
	})

	t.Run("use_after_routes_panics", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/x", okHandler("ok"))

		assert.PanicsWithValue(t, "router: all global middlewares must be defined before routes", func() {
			r.Use(record(new([]string), "late"))
		})
	})

	t.Run("with_middleware_option", func(t *testing.T) {
		t.Parallel()

		var order []string
		r := router.New(router.WithMiddleware(record(&order, "opt")))
		r.Get("/x", okHandler("ok"))

		serve(r, http.MethodGet, "/x")
		assert.Equal(t, []string{"opt"}, order)
	})
}

func TestRouterGroup(t *testing.T) {
	t.Parallel()

	t.Run("prefix_applies_to_routes", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Group("/api", func(g router.Router[*router.Context]) {
			g.Get("/users", okHandler("users"))
		})

		rec := serve(r, http.MethodGet, "/api/users")
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = serve(r, http.MethodGet, "/users")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("nested_groups_accumulate_prefix", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Group("/api", func(g router.Router[*router.Context]) {
			g.Group("/v1", func(v1 router.Router[*router.Context]) {
				v1.Get("/users/:id", func(ctx *router.Context) handler.Response {
					return response.String(ctx.Param("id"))
				})
			})
		})

		rec := serve(r, http.MethodGet, "/api/v1/users/7")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "7", rec.Body.String())
	})

	t.Run("group_middleware_wraps_its_routes", func(t *testing.T) {
		t.Parallel()

		var order []string
		r := router.New[*router.Context]()
		r.Group("/admin", func(g router.Router[*router.Context]) {
			g.Use(func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
				return func(ctx *router.Context) handler.Response {
					order = append(order, "admin")
					return next(ctx)
				}
			})
			g.Get("/stats", okHandler("stats"))
		})
		r.Get("/public", okHandler("public"))

		serve(r, http.MethodGet, "/public")
		assert.Empty(t, order)

		serve(r, http.MethodGet, "/admin/stats")
		assert.Equal(t, []string{"admin"}, order)
	})
}

type usersController struct{}

func (usersController) Prefix() string { return "/users" }

func (usersController) Routes() []router.RouteDef[*router.Context] {
	return []router.RouteDef[*router.Context]{
		{Method: http.MethodGet, Path: "", Handler: okHandler("list")},
		{Method: http.MethodGet, Path: ":id", Handler: func(ctx *router.Context) handler.Response {
			return response.String("user " + ctx.Param("id"))
		}},
		{Method: http.MethodPost, Path: "/", Handler: okHandler("created")},
	}
}

func TestRouterRegister(t *testing.T) {
	t.Parallel()

	t.Run("controller_routes", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Register(usersController{})

		rec := serve(r, http.MethodGet, "/users")
		assert.Equal(t, "list", rec.Body.String())

		rec = serve(r, http.MethodGet, "/users/9")
		assert.Equal(t, "user 9", rec.Body.String())

		rec = serve(r, http.MethodPost, "/users")
		assert.Equal(t, "created", rec.Body.String())
	})

	t.Run("route_def_middleware", func(t *testing.T) {
		t.Parallel()

		var hits []string
		ctrl := defsController{defs: []router.RouteDef[*router.Context]{
			{
				Method:  http.MethodGet,
				Path:    "/guarded",
				Handler: okHandler("ok"),
				Middlewares: []handler.Middleware[*router.Context]{
					func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
						return func(ctx *router.Context) handler.Response {
							hits = append(hits, "mw")
							return next(ctx)
						}
					},
				},
			},
		}}

		r := router.New[*router.Context]()
		r.Register(ctrl)

		rec := serve(r, http.MethodGet, "/guarded")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{"mw"}, hits)
	})

	t.Run("nil_controller_panics", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		assert.Panics(t, func() {
			r.Register(nil)
		})
	})
}

type defsController struct {
	defs []router.RouteDef[*router.Context]
}

func (defsController) Prefix() string { return "" }

func (c defsController) Routes() []router.RouteDef[*router.Context] { return c.defs }

func TestRouterRegistrationErrors(t *testing.T) {
	t.Parallel()

	t.Run("nil_handler_panics", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		assertPanicsWithError(t, router.ErrNilHandler, func() {
			r.Get("/x", nil)
		})
	})

	t.Run("empty_method_panics", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		assertPanicsWithError(t, router.ErrInvalidMethod, func() {
			r.Handle("  ", "/x", okHandler("ok"))
		})
	})

	t.Run("empty_pattern_panics", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		assertPanicsWithError(t, router.ErrInvalidPattern, func() {
			r.Get("   ", okHandler("ok"))
		})
	})

	t.Run("param_name_conflict_panics", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/users/:id", okHandler("ok"))
		assertPanicsWithError(t, router.ErrParamConflict, func() {
			r.Get("/users/:uid/posts", okHandler("ok"))
		})
	})
}

func assertPanicsWithError(t *testing.T, target error, fn func()) {
	t.Helper()
	defer func() {
		p := recover()
		require.NotNil(t, p, "expected panic")
		err, ok := p.(error)
		require.True(t, ok, "panic value is not an error: %v", p)
		assert.ErrorIs(t, err, target)
	}()
	fn()
}

func TestRouterErrorHandling(t *testing.T) {
	t.Parallel()

	t.Run("panic_becomes_500", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/boom", func(ctx *router.Context) handler.Response {
			panic("boom")
		})

		rec := serve(r, http.MethodGet, "/boom")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "INTERNAL_SERVER_ERROR")
	})

	t.Run("panic_after_write_keeps_response", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/partial", func(ctx *router.Context) handler.Response {
			return func(w http.ResponseWriter, req *http.Request) error {
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte("partial"))
				panic("mid-render")
			}
		})

		rec := serve(r, http.MethodGet, "/partial")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "partial", rec.Body.String())
	})

	t.Run("nil_response_without_write_is_500", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/nil", func(ctx *router.Context) handler.Response {
			return nil
		})

		rec := serve(r, http.MethodGet, "/nil")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("render_error_goes_to_error_handler", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/fail", func(ctx *router.Context) handler.Response {
			return func(w http.ResponseWriter, req *http.Request) error {
				return errors.New("render failed")
			}
		})

		rec := serve(r, http.MethodGet, "/fail")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("response_error_keeps_its_status", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/teapot", func(ctx *router.Context) handler.Response {
			return func(w http.ResponseWriter, req *http.Request) error {
				return response.Error{Status: http.StatusTeapot, Code: "TEAPOT", Message: "short and stout"}
			}
		})

		rec := serve(r, http.MethodGet, "/teapot")
		assert.Equal(t, http.StatusTeapot, rec.Code)
		assert.JSONEq(t, `{"code":"TEAPOT","message":"short and stout"}`, rec.Body.String())
	})

	t.Run("custom_error_handler", func(t *testing.T) {
		t.Parallel()

		var seen error
		r := router.New(router.WithErrorHandler(func(ctx *router.Context, err error) {
			seen = err
			ctx.ResponseWriter().WriteHeader(http.StatusBadGateway)
		}))

		rec := serve(r, http.MethodGet, "/missing")
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.ErrorIs(t, seen, router.ErrNotFound)
	})

	t.Run("recovered_panic_exposes_value_and_stack", func(t *testing.T) {
		t.Parallel()

		var seen error
		r := router.New(router.WithErrorHandler(func(ctx *router.Context, err error) {
			seen = err
			ctx.ResponseWriter().WriteHeader(http.StatusInternalServerError)
		}))
		r.Get("/boom", func(ctx *router.Context) handler.Response {
			panic("kaboom")
		})

		serve(r, http.MethodGet, "/boom")

		var pe router.PanicError
		require.ErrorAs(t, seen, &pe)
		assert.Equal(t, "kaboom", pe.Value())
		assert.NotEmpty(t, pe.Stack())
	})
}

type appContext struct {
	*router.Context
	tenant string
}

func TestRouterCustomContext(t *testing.T) {
	t.Parallel()

	t.Run("factory_builds_context", func(t *testing.T) {
		t.Parallel()

		r := router.New(router.WithContextFactory(func(w http.ResponseWriter, req *http.Request, params map[string]string) *appContext {
			return &appContext{
				Context: router.NewContext(w, req, params),
				tenant:  req.Header.Get("X-Tenant"),
			}
		}))
		r.Get("/whoami/:id", func(ctx *appContext) handler.Response {
			return response.String(ctx.tenant + ":" + ctx.Param("id"))
		})

		req := httptest.NewRequest(http.MethodGet, "/whoami/3", nil)
		req.Header.Set("X-Tenant", "acme")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, "acme:3", rec.Body.String())
	})

	t.Run("missing_factory_panics", func(t *testing.T) {
		t.Parallel()

		r := router.New[*appContext]()
		r.Get("/x", func(ctx *appContext) handler.Response {
			return response.String("ok")
		})

		assert.Panics(t, func() {
			serve(r, http.MethodGet, "/x")
		})
	})

	t.Run("set_value_flows_downstream", func(t *testing.T) {
		t.Parallel()

		type ctxKey struct{}

		r := router.New[*router.Context]()
		r.Use(func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
			return func(ctx *router.Context) handler.Response {
				ctx.SetValue(ctxKey{}, "injected")
				return next(ctx)
			}
		})
		r.Get("/x", func(ctx *router.Context) handler.Response {
			v, _ := ctx.Value(ctxKey{}).(string)
			return response.String(v)
		})

		rec := serve(r, http.MethodGet, "/x")
		assert.Equal(t, "injected", rec.Body.String())
	})
}

func TestRouterIntrospection(t *testing.T) {
	t.Parallel()

	t.Run("routes_sorted_by_method_then_pattern", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Post("/users", okHandler("ok"))
		r.Get("/users/:id", okHandler("ok"))
		r.Get("/health", okHandler("ok"))

		assert.Equal(t, []router.Route{
			{Method: "GET", Pattern: "/health"},
			{Method: "GET", Pattern: "/users/:id"},
			{Method: "POST", Pattern: "/users"},
		}, r.Routes())
	})

	t.Run("canonical_pattern", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("users//:id/", okHandler("ok"))

		routes := r.Routes()
		require.Len(t, routes, 1)
		assert.Equal(t, "/users/:id", routes[0].Pattern)
	})

	t.Run("lookup_hit", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/users/:id", okHandler("ok"))

		route, params, ok := r.Lookup("get", "/users/5")
		require.True(t, ok)
		assert.Equal(t, router.Route{Method: "GET", Pattern: "/users/:id"}, route)
		assert.Equal(t, map[string]string{"id": "5"}, params)
	})

	t.Run("lookup_miss", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/users/:id", okHandler("ok"))

		_, _, ok := r.Lookup(http.MethodPost, "/users/5")
		assert.False(t, ok)
	})
}
