package router

import (
	"errors"
	"fmt"

	"github.com/tahamansoor/clawdia/core/handler"
	"github.com/tahamansoor/clawdia/core/response"
)

var (
	// ErrNotFound marks the normal "no route matched" outcome. It is never
	// returned to registration code; the error handler maps it to a 404.
	ErrNotFound = errors.New("route not found")

	// ErrNilResponse is reported when a handler returns nil without having
	// written anything to the response.
	ErrNilResponse = errors.New("handler returned nil response")

	// Configuration errors: raised as panics during the registration phase
	// so a misconfigured route table aborts startup instead of serving.
	ErrInvalidMethod  = errors.New("invalid http method")
	ErrInvalidPattern = errors.New("invalid route path pattern")
	ErrParamConflict  = errors.New("conflicting parameter names at the same route position")
	ErrNilController  = errors.New("nil controller")
	ErrNilHandler     = errors.New("nil route handler")

	// ErrNoContextFactory is raised when a custom context type is used
	// without providing a context factory option.
	ErrNoContextFactory = errors.New("no context factory provided")

	// ErrResponseWritten is the panic value of a second explicit WriteHeader
	// on an already-finalized response.
	ErrResponseWritten = errors.New("response already written")
)

// defaultErrorHandler renders errors as structured JSON payloads without
// leaking handler internals.
func defaultErrorHandler[C handler.Context](ctx C, err error) {
	w := ctx.ResponseWriter()
	r := ctx.Request()

	// Nothing sensible to do once the status line is out.
	if ww, ok := w.(*responseWriter); ok && ww.Written() {
		return
	}

	var httpErr response.Error
	switch {
	case errors.As(err, &httpErr):
	case errors.Is(err, ErrNotFound):
		httpErr = response.ErrNotFound
	default:
		httpErr = response.ErrInternalServerError
	}

	_ = response.JSONWithStatus(httpErr, httpErr.Status)(w, r)
}

// PanicError gives external error handlers access to the original panic
// value and the stack captured at the panic point.
type PanicError interface {
	error
	Value() any
	Stack() []byte
}

type panicError struct {
	value any
	stack []byte
}

func (e *panicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}

func (e *panicError) Value() any {
	return e.value
}

func (e *panicError) Stack() []byte {
	return e.stack
}

func (e *panicError) Unwrap() error {
	if err, ok := e.value.(error); ok {
		return err
	}
	return nil
}
