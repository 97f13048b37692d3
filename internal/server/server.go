package server

import (
	"context"
	"net/http"
	"time"

	"github.com/oggyb/skebby-gateway/internal/middleware"
	routes "github.com/oggyb/skebby-gateway/internal/router"
	"github.com/sirupsen/logrus"
)

// Server owns the underlying http.Server instance.
type Server struct {
	http *http.Server
}

// New creates a new HTTP server bound to the given address and configured
// with the provided application dependencies and middleware chain.
func New(addr string, deps routes.AppDeps, log *logrus.Entry) *Server {
	return &Server{
		http: &http.Server{
			Addr:              addr,
			Handler:           Handler(deps, log),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
		},
	}
}

// Handler builds the routed mux wrapped in the middleware chain.
func Handler(deps routes.AppDeps, log *logrus.Entry) http.Handler {
	mux := http.NewServeMux()
	routes.Register(mux, deps)

	return Chain(
		mux,
		middleware.RequestLogger(log),
		middleware.Recover(log),
	)
}

// Start runs the HTTP server and blocks until ListenAndServe returns.
func (s *Server) Start() error {
	return s.http.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server, waiting for in-flight
// requests to complete until the given context expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
