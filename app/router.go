package app

import (
	"context"
	"fmt"
	"regexp"

	"github.com/iov-one/keymgr"
	"github.com/iov-one/keymgr/errors"
)

// isPath is the RegExp to ensure the routes make sense
var isPath = regexp.MustCompile(`^[a-z0-9_]+/[a-z0-9_]+$`).MatchString

// Router allows us to register many handlers with different
// paths and then direct each deploy to the proper handler.
//
// Minimal interface modeled after net/http.ServeMux
type Router struct {
	routes map[string]keymgr.Handler
}

var _ keymgr.Registry = (*Router)(nil)
var _ keymgr.Handler = (*Router)(nil)

// NewRouter returns a new empty router instance.
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]keymgr.Handler),
	}
}

// Handle adds a new Handler for the given path. This function panics if a
// handler for given path is already registered.
func (r *Router) Handle(path string, h keymgr.Handler) {
	if !isPath(path) {
		panic(fmt.Sprintf("invalid path: %q", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route: %q", path))
	}
	r.routes[path] = h
}

// Handler returns the registered Handler for this path. If no path is found,
// returns a noSuchPath Handler. This function never returns nil.
func (r *Router) Handler(path string) keymgr.Handler {
	if h, ok := r.routes[path]; ok {
		return h
	}
	return notFoundHandler(path)
}

// Deliver dispatches to the handler registered for the path of the
// deploy's action.
func (r *Router) Deliver(ctx context.Context, tx keymgr.Tx) (*keymgr.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	return r.Handler(msg.Path()).Deliver(ctx, tx)
}

// notFoundHandler always returns an error for unregistered paths.
type notFoundHandler string

var _ keymgr.Handler = notFoundHandler("")

func (path notFoundHandler) Deliver(context.Context, keymgr.Tx) (*keymgr.DeliverResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for path %q", string(path))
}
