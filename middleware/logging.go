package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/tahamansoor/clawdia/core/handler"
	"github.com/tahamansoor/clawdia/core/logger"
)

// LoggingConfig configures the request logging middleware.
type LoggingConfig struct {
	// Skip bypasses logging for specific requests (health checks, metrics).
	Skip func(ctx handler.Context) bool

	// Logger is the slog logger to use (default: slog.Default()).
	Logger *slog.Logger

	// Level for completed-request log lines (default: slog.LevelInfo).
	Level slog.Level

	// SlowThreshold promotes requests slower than this to warning level
	// (default: 5s).
	SlowThreshold time.Duration
}

// Logging creates a request logging middleware with default configuration:
// one structured line per request with method, path, status, and latency.
func Logging[C handler.Context]() handler.Middleware[C] {
	return LoggingWithConfig[C](LoggingConfig{})
}

// LoggingWithLogger creates a logging middleware with a custom logger.
func LoggingWithLogger[C handler.Context](log *slog.Logger) handler.Middleware[C] {
	return LoggingWithConfig[C](LoggingConfig{Logger: log})
}

// LoggingWithConfig creates a request logging middleware with custom configuration.
func LoggingWithConfig[C handler.Context](cfg LoggingConfig) handler.Middleware[C] {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.SlowThreshold <= 0 {
		cfg.SlowThreshold = 5 * time.Second
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			start := time.Now()

			response := next(ctx)
			if response == nil {
				// Short-circuited upstream; log whatever was written.
				logRequest(ctx, cfg, start, nil)
				return nil
			}

			// Wrap the response so latency covers rendering and the
			// status code is known when the line is emitted.
			return func(w http.ResponseWriter, r *http.Request) error {
				err := response(w, r)
				logRequest(ctx, cfg, start, err)
				return err
			}
		}
	}
}

func logRequest[C handler.Context](ctx C, cfg LoggingConfig, start time.Time, renderErr error) {
	req := ctx.Request()
	elapsed := time.Since(start)

	attrs := []slog.Attr{
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
		slog.String("remote_addr", req.RemoteAddr),
		logger.Latency(elapsed),
	}
	if ws, ok := ctx.ResponseWriter().(interface{ Status() int }); ok {
		attrs = append(attrs, slog.Int("status", ws.Status()))
	}
	if id, ok := GetRequestID(ctx); ok {
		attrs = append(attrs, slog.String("request_id", id))
	}
	if renderErr != nil {
		attrs = append(attrs, logger.Error(renderErr))
	}

	level := cfg.Level
	if elapsed > cfg.SlowThreshold {
		level = slog.LevelWarn
		attrs = append(attrs, slog.Bool("slow", true))
	}

	cfg.Logger.LogAttrs(req.Context(), level, "request completed", attrs...)
}
