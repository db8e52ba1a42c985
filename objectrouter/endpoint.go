package objectrouter

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	rerr "github.com/next-trace/scg-object-router/contract/errors"
	"github.com/next-trace/scg-object-router/contract/router"
	"github.com/next-trace/scg-object-router/opath"
	"github.com/next-trace/scg-object-router/registry"
)

// pathVTable is the single dispatch table handed to the transport on every
// bind, exact and fallback alike. Per-registration state lives in the
// interface reference passed alongside it, never in the table.
var pathVTable = &router.DispatchTable{OnMessage: deliver}

func deliver(ctx router.Context, msg router.Message, iface *router.Interface) error {
	if iface == nil || iface.VTable == nil || iface.VTable.Invoke == nil {
		return fmt.Errorf("deliver %s: %w", msg.Path, rerr.ErrMissingVTable)
	}

	return iface.VTable.Invoke(ctx, msg)
}

// Endpoint owns the interface registrations of one bus connection. It
// serializes registration, lookup, and teardown with an internal mutex;
// registration and dispatch are otherwise synchronous and never block.
type Endpoint struct {
	mu sync.RWMutex

	reg     *registry.Registry
	binding router.Binding
	logger  *slog.Logger
}

// New constructs an Endpoint over the given transport binding. The logger
// is optional; pass nil to disable the debug traces.
func New(binding router.Binding, logger *slog.Logger) *Endpoint {
	return &Endpoint{
		reg:     registry.New(),
		binding: binding,
		logger:  logger,
	}
}

// Register validates and registers an interface under the given object
// path. A path ending in "/*" registers the whole subtree via a fallback
// binding; any other path gets an exact binding. The registered interface
// is returned on success.
//
// The transport is bound before the registry is touched, so a bind failure
// leaves no partial state behind.
func (e *Endpoint) Register(path string, vt *router.VTable, instanceData any) (*router.Interface, error) {
	if vt == nil || vt.Meta == nil {
		return nil, fmt.Errorf("register %q: %w", path, rerr.ErrMissingVTable)
	}

	if path == "" {
		return nil, fmt.Errorf("register: %w", rerr.ErrInvalidPath)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.reg.Contains(path) {
		return nil, fmt.Errorf("register %q: %w", path, rerr.ErrDuplicatePath)
	}

	iface := &router.Interface{Path: path, VTable: vt, InstanceData: instanceData}
	base := opath.Base(path)
	fallback := opath.IsSubtree(path)

	var err error
	if fallback {
		err = e.binding.BindFallback(base, pathVTable, iface)
	} else {
		err = e.binding.BindExact(base, pathVTable, iface)
	}

	if err != nil {
		return nil, fmt.Errorf("register %q: %w", path, errors.Join(rerr.ErrBindingFailed, err))
	}

	e.reg.Insert(&registry.Entry{Iface: iface, BoundBasePath: base})

	if e.logger != nil {
		e.logger.Debug("registered path", "path", path, "base", base, "fallback", fallback)
	}

	return iface, nil
}

// Resolve returns the registered interface covering the arrived path, with
// the most recently registered match winning when an exact path and a
// covering subtree overlap. It performs no handler invocation; that
// belongs to the dispatch/marshalling layer.
func (e *Endpoint) Resolve(path string) (*router.Interface, error) {
	e.mu.RLock()
	iface, ok := e.reg.FindHandler(path)
	e.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("resolve %q: %w", path, rerr.ErrInterfaceNotFound)
	}

	return iface, nil
}

// TeardownAll unbinds every registered base path and discards the
// registry. Unbind failures are logged and otherwise ignored: teardown
// runs during connection shutdown, where finishing the walk matters more
// than any single unbind. Idempotent.
func (e *Endpoint) TeardownAll() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.reg.Teardown(func(base string) {
		if err := e.binding.Unbind(base); err != nil && e.logger != nil {
			e.logger.Debug("unbind failed during teardown", "base", base, "err", err)
		}
	})
}
