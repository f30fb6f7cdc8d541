// Package response provides func-style response constructors for the
// framework's bytes-in/JSON-out surface: plain text, HTML, raw bytes, status
// only, and streamed JSON encoding, plus the structured Error type the
// router renders for not-found and internal failures.
package response
