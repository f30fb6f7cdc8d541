package response

import (
	"net/http"

	"github.com/tahamansoor/clawdia/core/handler"
)

// Error is a structured error payload that implements the error interface.
// The router's default error handler renders it as JSON; the Status field is
// used for the response code and excluded from the body.
type Error struct {
	Status  int            `json:"-"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface.
func (e Error) Error() string {
	return e.Message
}

// WithMessage returns a copy of the error with a custom message.
func (e Error) WithMessage(message string) Error {
	e.Message = message
	return e
}

// WithDetails returns a copy of the error with additional details.
func (e Error) WithDetails(details map[string]any) Error {
	e.Details = details
	return e
}

// Render produces the JSON response for this error.
func (e Error) Render() handler.Response {
	return JSONWithStatus(e, e.Status)
}

// Predefined HTTP errors using http.StatusText for default messages.
var (
	ErrBadRequest          = Error{Status: http.StatusBadRequest, Code: "BAD_REQUEST", Message: http.StatusText(http.StatusBadRequest)}
	ErrUnauthorized        = Error{Status: http.StatusUnauthorized, Code: "UNAUTHORIZED", Message: http.StatusText(http.StatusUnauthorized)}
	ErrForbidden           = Error{Status: http.StatusForbidden, Code: "FORBIDDEN", Message: http.StatusText(http.StatusForbidden)}
	ErrNotFound            = Error{Status: http.StatusNotFound, Code: "NOT_FOUND", Message: http.StatusText(http.StatusNotFound)}
	ErrConflict            = Error{Status: http.StatusConflict, Code: "CONFLICT", Message: http.StatusText(http.StatusConflict)}
	ErrUnprocessableEntity = Error{Status: http.StatusUnprocessableEntity, Code: "UNPROCESSABLE_ENTITY", Message: http.StatusText(http.StatusUnprocessableEntity)}
	ErrTooManyRequests     = Error{Status: http.StatusTooManyRequests, Code: "TOO_MANY_REQUESTS", Message: http.StatusText(http.StatusTooManyRequests)}
	ErrInternalServerError = Error{Status: http.StatusInternalServerError, Code: "INTERNAL_SERVER_ERROR", Message: http.StatusText(http.StatusInternalServerError)}
	ErrServiceUnavailable  = Error{Status: http.StatusServiceUnavailable, Code: "SERVICE_UNAVAILABLE", Message: http.StatusText(http.StatusServiceUnavailable)}
)
