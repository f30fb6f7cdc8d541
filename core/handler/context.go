package handler

import (
	"context"
	"net/http"
)

// Context defines the contract for request contexts in the framework.
// The router ships a default implementation; applications plug in richer
// contexts through the router's context factory option.
type Context interface {
	context.Context

	// Request returns the *http.Request associated with the context.
	Request() *http.Request

	// ResponseWriter returns the http.ResponseWriter associated with the context.
	ResponseWriter() http.ResponseWriter

	// Param returns the value of the URL parameter by name, or "" if absent.
	Param(name string) string

	// SetValue stores a value in the request context for downstream
	// middleware and handlers.
	SetValue(key, val any)
}
