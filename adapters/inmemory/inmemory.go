package inmemory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	rerr "github.com/next-trace/scg-object-router/contract/errors"
	"github.com/next-trace/scg-object-router/contract/router"
)

// BoundPath records one transport-level binding for inspection by tests
// and examples.
type BoundPath struct {
	Base     string
	Fallback bool
	Table    *router.DispatchTable
	Iface    *router.Interface
}

// Binding is a thread-safe in-memory implementation of router.Binding.
// It records binds and unbinds, and its Deliver method routes a message to
// the bound dispatch table the way a real bus transport would: an exact
// binding for the arrived path wins, otherwise the fallback binding with
// the longest covering base.
type Binding struct {
	mu      sync.Mutex
	Bound   []BoundPath
	Unbound []string
}

// Ensure Binding implements the transport contract.
var _ router.Binding = (*Binding)(nil)

// New creates a new in-memory binding instance.
func New() *Binding { return &Binding{} }

func (b *Binding) BindExact(base string, t *router.DispatchTable, iface *router.Interface) error {
	b.mu.Lock()
	b.Bound = append(b.Bound, BoundPath{Base: base, Fallback: false, Table: t, Iface: iface})
	b.mu.Unlock()

	return nil
}

func (b *Binding) BindFallback(base string, t *router.DispatchTable, iface *router.Interface) error {
	b.mu.Lock()
	b.Bound = append(b.Bound, BoundPath{Base: base, Fallback: true, Table: t, Iface: iface})
	b.mu.Unlock()

	return nil
}

func (b *Binding) Unbind(base string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	kept := b.Bound[:0]

	for _, bp := range b.Bound {
		if bp.Base == base {
			b.Unbound = append(b.Unbound, base)
			continue
		}

		kept = append(kept, bp)
	}

	b.Bound = kept

	return nil
}

// Deliver routes the message to the binding covering msg.Path and invokes
// its dispatch table. It returns ErrInterfaceNotFound when no binding
// covers the path.
func (b *Binding) Deliver(ctx context.Context, msg router.Message) error {
	b.mu.Lock()
	target, ok := b.selectBinding(msg.Path)
	b.mu.Unlock()

	if !ok {
		return fmt.Errorf("deliver %q: %w", msg.Path, rerr.ErrInterfaceNotFound)
	}

	return target.Table.OnMessage(ctx, msg, target.Iface)
}

func (b *Binding) selectBinding(path string) (BoundPath, bool) {
	var (
		best  BoundPath
		found bool
	)

	for _, bp := range b.Bound {
		if !bp.Fallback {
			if bp.Base == path {
				return bp, true
			}

			continue
		}

		if coversSubtree(bp.Base, path) && (!found || len(bp.Base) > len(best.Base)) {
			best, found = bp, true
		}
	}

	return best, found
}

// coversSubtree reports whether a fallback bound at base covers path: the
// base itself and everything nested beneath it.
func coversSubtree(base, path string) bool {
	if path == base {
		return true
	}

	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	return strings.HasPrefix(path, base)
}
