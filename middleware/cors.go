package middleware

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/tahamansoor/clawdia/core/handler"
	"github.com/tahamansoor/clawdia/core/response"
)

// CORSConfig configures Cross-Origin Resource Sharing policies.
type CORSConfig struct {
	// Skip bypasses CORS handling for specific requests.
	Skip func(ctx handler.Context) bool

	// AllowOrigins lists allowed origins; empty or "*" allows all.
	AllowOrigins []string

	// AllowMethods lists allowed HTTP methods
	// (default: GET, HEAD, PUT, PATCH, POST, DELETE).
	AllowMethods []string

	// AllowHeaders lists allowed request headers
	// (default: common headers including Authorization and Content-Type).
	AllowHeaders []string

	// ExposeHeaders lists response headers exposed to the client.
	ExposeHeaders []string

	// AllowCredentials permits cookies and authorization headers. Not
	// compatible with wildcard origins.
	AllowCredentials bool

	// MaxAge caches preflight results for this many seconds.
	MaxAge int

	// AllowOriginFunc overrides AllowOrigins with custom validation,
	// returning the allowed origin value and whether it is allowed.
	AllowOriginFunc func(origin string) (string, bool)
}

// CORS returns a CORS middleware with default configuration: all origins,
// common methods and headers, no credentials. The wildcard default is for
// development; production should list exact origins.
func CORS[C handler.Context]() handler.Middleware[C] {
	return CORSWithConfig[C](CORSConfig{})
}

// CORSWithConfig returns a CORS middleware with custom configuration. It
// answers preflight OPTIONS requests itself, short-circuiting the chain, and
// stamps CORS headers on actual requests before proceeding.
func CORSWithConfig[C handler.Context](cfg CORSConfig) handler.Middleware[C] {
	if len(cfg.AllowMethods) == 0 {
		cfg.AllowMethods = []string{
			http.MethodGet,
			http.MethodHead,
			http.MethodPut,
			http.MethodPatch,
			http.MethodPost,
			http.MethodDelete,
		}
	}
	if len(cfg.AllowHeaders) == 0 {
		cfg.AllowHeaders = []string{
			"Accept",
			"Accept-Language",
			"Content-Language",
			"Content-Type",
			"Origin",
			"Authorization",
			"X-Request-ID",
		}
	}

	allowMethods := strings.Join(cfg.AllowMethods, ",")
	allowHeaders := strings.Join(cfg.AllowHeaders, ",")
	exposeHeaders := strings.Join(cfg.ExposeHeaders, ",")

	allowedOrigins := make(map[string]bool, len(cfg.AllowOrigins))
	for _, origin := range cfg.AllowOrigins {
		allowedOrigins[origin] = true
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			req := ctx.Request()
			origin := req.Header.Get("Origin")

			var allowedOrigin string
			allowed := false
			switch {
			case cfg.AllowOriginFunc != nil:
				allowedOrigin, allowed = cfg.AllowOriginFunc(origin)
			case len(cfg.AllowOrigins) == 0 || allowedOrigins["*"]:
				allowedOrigin, allowed = "*", true
			case allowedOrigins[origin]:
				allowedOrigin, allowed = origin, true
			}

			// Credentials require an exact origin echo.
			if cfg.AllowCredentials && allowedOrigin == "*" {
				allowedOrigin = origin
			}

			h := ctx.ResponseWriter().Header()

			isPreflight := req.Method == http.MethodOptions &&
				req.Header.Get("Access-Control-Request-Method") != ""
			if isPreflight {
				requestMethod := req.Header.Get("Access-Control-Request-Method")
				if !allowed || !slices.Contains(cfg.AllowMethods, requestMethod) {
					return response.Status(http.StatusForbidden)
				}

				h.Set("Access-Control-Allow-Origin", allowedOrigin)
				h.Set("Access-Control-Allow-Methods", allowMethods)
				h.Set("Access-Control-Allow-Headers", allowHeaders)
				if cfg.AllowCredentials {
					h.Set("Access-Control-Allow-Credentials", "true")
				}
				if cfg.MaxAge > 0 {
					h.Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
				}
				h.Add("Vary", "Origin")

				// Preflight ends here; the handler never runs.
				return response.Status(http.StatusNoContent)
			}

			if allowed && origin != "" {
				h.Set("Access-Control-Allow-Origin", allowedOrigin)
				if cfg.AllowCredentials {
					h.Set("Access-Control-Allow-Credentials", "true")
				}
				if exposeHeaders != "" {
					h.Set("Access-Control-Expose-Headers", exposeHeaders)
				}
				h.Add("Vary", "Origin")
			}

			return next(ctx)
		}
	}
}
