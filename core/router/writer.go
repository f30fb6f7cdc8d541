package router

import (
	"fmt"
	"net/http"
)

// responseWriter wraps http.ResponseWriter and makes the response
// single-write: the first WriteHeader wins, and a second explicit
// WriteHeader is a programming error that panics with ErrResponseWritten.
// The router's recovery turns that panic into a logged error instead of a
// silent double-invocation of downstream logic.
type responseWriter struct {
	http.ResponseWriter
	status  int
	written bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w}
}

func (w *responseWriter) WriteHeader(status int) {
	if w.written {
		panic(fmt.Errorf("%w: status %d already sent, refusing %d",
			ErrResponseWritten, w.status, status))
	}
	w.status = status
	w.written = true
	w.ResponseWriter.WriteHeader(status)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if !w.written {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

// Written reports whether the response status has been sent.
func (w *responseWriter) Written() bool {
	return w.written
}

// Status returns the HTTP status code sent, or 0 if none yet.
func (w *responseWriter) Status() int {
	return w.status
}

// Flush implements http.Flusher when the underlying writer supports it.
func (w *responseWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
