// Package registry holds the ordered collection of interfaces registered
// on one bus connection. Order is significant: entries are prepended on
// insert and scanned front to back on lookup, so when an exact path and a
// covering subtree registration overlap, the most recently registered one
// wins.
package registry

import (
	"github.com/next-trace/scg-object-router/contract/router"
	"github.com/next-trace/scg-object-router/opath"
)

// Entry wraps a registered interface together with the base path that was
// bound at the transport layer (the registration path with any trailing
// subtree marker stripped).
type Entry struct {
	Iface         *router.Interface
	BoundBasePath string
}

// Registry is an insertion-ordered sequence of entries keyed by exact
// registration path. It is not safe for concurrent use; the owning
// endpoint serializes access.
type Registry struct {
	entries []*Entry
}

// New creates an empty Registry.
func New() *Registry { return &Registry{} }

// Contains reports whether some entry's registration path equals path
// exactly, subtree marker included. This is the duplicate-registration
// check, not dispatch matching.
func (r *Registry) Contains(path string) bool {
	for _, e := range r.entries {
		if e.Iface.Path == path {
			return true
		}
	}

	return false
}

// Insert prepends the entry so the most recent registration is scanned
// first on lookup. It never deduplicates; callers must check Contains
// beforehand.
func (r *Registry) Insert(e *Entry) {
	r.entries = append([]*Entry{e}, r.entries...)
}

// FindHandler returns the first entry, in stored order, whose registration
// path covers the given path.
func (r *Registry) FindHandler(path string) (*router.Interface, bool) {
	for _, e := range r.entries {
		if opath.Matches(path, e.Iface.Path) {
			return e.Iface, true
		}
	}

	return nil, false
}

// Len returns the number of registered entries.
func (r *Registry) Len() int { return len(r.entries) }

// Teardown invokes unbind with every entry's bound base path and then
// discards the whole collection. It is a no-op on an empty registry.
func (r *Registry) Teardown(unbind func(basePath string)) {
	for _, e := range r.entries {
		unbind(e.BoundBasePath)
	}

	r.entries = nil
}
