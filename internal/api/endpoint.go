// Package api pairs every server operation with both its HTTP route and
// a cobra command that calls the same route over the wire, so the CLI
// and the HTTP surface cannot drift apart.
package api

import (
	"net/http"

	"github.com/spf13/cobra"
)

// Endpoint is one server operation exposed both as an HTTP route and as
// a CLI command.
type Endpoint interface {
	// Route returns the HTTP method, path pattern, and handler.
	Route() (method, path string, handler http.HandlerFunc)

	// RequiresInit reports whether the handler needs the document store
	// and domain services to be up. Routes that don't (health, swagger)
	// skip the init gate.
	RequiresInit() bool

	// Command builds the cobra command that calls this route over HTTP.
	// getServerURL is evaluated at run time, after flag parsing.
	Command(getServerURL func() string) *cobra.Command
}

// Registry collects endpoints and installs their routes on a mux.
type Registry struct {
	endpoints []Endpoint
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds an endpoint.
func (r *Registry) Register(ep Endpoint) {
	r.endpoints = append(r.endpoints, ep)
}

// Endpoints returns everything registered so far.
func (r *Registry) Endpoints() []Endpoint {
	return r.endpoints
}

// RegisterRoutes installs every endpoint on mux using method-qualified
// patterns. Endpoints that require initialization are wrapped with
// initMiddleware first.
func (r *Registry) RegisterRoutes(mux *http.ServeMux, initMiddleware func(http.HandlerFunc) http.HandlerFunc) {
	for _, ep := range r.endpoints {
		method, path, handler := ep.Route()
		if ep.RequiresInit() {
			handler = initMiddleware(handler)
		}
		mux.HandleFunc(method+" "+path, handler)
	}
}
