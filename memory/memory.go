package memory

import (
	"github.com/next-trace/scg-object-router/adapters/inmemory"
	"github.com/next-trace/scg-object-router/objectrouter"
)

// New constructs an endpoint backed by the in-memory binding and returns
// it together with the binding (for delivering messages in tests and
// examples) and a cleanup function that tears down every registration.
func New() (*objectrouter.Endpoint, *inmemory.Binding, func()) {
	b := inmemory.New()
	ep := objectrouter.New(b, nil)
	cleanup := func() { ep.TeardownAll() }

	return ep, b, cleanup
}
