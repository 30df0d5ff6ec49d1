package app

import (
	"regexp"

	"github.com/ghostchain/ghost"
)

var isRoute = regexp.MustCompile(`^[0-9a-z_]+$`).MatchString

// Router maps operation paths to their handlers.
type Router struct {
	routes map[string]ghost.Handler
}

var _ ghost.Registry = (*Router)(nil)

// NewRouter initializes a router with no routes.
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]ghost.Handler),
	}
}

// Handle registers a handler for the given path. Registering two
// handlers for one path is a programmer error and panics.
func (r *Router) Handle(path string, h ghost.Handler) {
	if !isRoute(path) {
		panic("route expressions can only contain lowercase alphanumeric characters or underscore")
	}
	if _, ok := r.routes[path]; ok {
		panic("re-registering route: " + path)
	}
	r.routes[path] = h
}

// Route returns the handler registered for the path, or nil.
func (r *Router) Route(path string) ghost.Handler {
	return r.routes[path]
}
