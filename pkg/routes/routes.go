// Package routes collects HTTP routes and builds them into a ServeMux using
// method-qualified patterns.
package routes

import (
	"log/slog"
	"net/http"
)

// Route is one handler bound to a method and pattern.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}

// Group is a set of routes under a common prefix. Children nest under the
// parent's prefix.
type Group struct {
	Prefix   string
	Routes   []Route
	Children []Group
}

// System registers routes and builds the resulting handler.
type System interface {
	RegisterGroup(group Group)
	RegisterRoute(route Route)
	Handle(pattern string, handler http.Handler)
	Build() http.Handler
}

type routes struct {
	routes   []Route
	groups   []Group
	handlers map[string]http.Handler
	logger   *slog.Logger
}

// New creates an empty route system.
func New(logger *slog.Logger) System {
	return &routes{
		routes:   []Route{},
		groups:   []Group{},
		handlers: map[string]http.Handler{},
		logger:   logger.With("system", "routes"),
	}
}

func (r *routes) RegisterRoute(route Route) {
	r.routes = append(r.routes, route)
}

func (r *routes) RegisterGroup(group Group) {
	r.groups = append(r.groups, group)
}

// Handle mounts a plain handler, such as a metrics exporter, at pattern.
func (r *routes) Handle(pattern string, handler http.Handler) {
	r.handlers[pattern] = handler
}

func (r *routes) Build() http.Handler {
	mux := http.NewServeMux()

	for _, route := range r.routes {
		r.register(mux, route.Method+" "+route.Pattern, route.Handler)
	}

	for _, group := range r.groups {
		r.registerGroup(mux, "", group)
	}

	for pattern, handler := range r.handlers {
		r.register(mux, pattern, handler)
	}

	return mux
}

func (r *routes) registerGroup(mux *http.ServeMux, parentPrefix string, group Group) {
	prefix := parentPrefix + group.Prefix
	for _, route := range group.Routes {
		r.register(mux, route.Method+" "+prefix+route.Pattern, route.Handler)
	}
	for _, child := range group.Children {
		r.registerGroup(mux, prefix, child)
	}
}

func (r *routes) register(mux *http.ServeMux, pattern string, handler http.Handler) {
	mux.Handle(pattern, handler)
	r.logger.Debug("route registered", "pattern", pattern)
}
