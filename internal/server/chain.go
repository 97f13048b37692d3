package server

import "net/http"

// Middleware wraps a handler, e.g. request logging or panic recovery.
type Middleware func(http.Handler) http.Handler

// Chain wraps h so that m[0] is the outermost layer and sees the request
// first. Nil entries are skipped, which lets callers toggle middleware
// from configuration.
func Chain(h http.Handler, m ...Middleware) http.Handler {
	for i := len(m) - 1; i >= 0; i-- {
		if m[i] == nil {
			continue
		}
		h = m[i](h)
	}
	return h
}
