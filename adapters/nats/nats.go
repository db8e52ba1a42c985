package nats

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	rerr "github.com/next-trace/scg-object-router/contract/errors"
	"github.com/next-trace/scg-object-router/contract/router"
)

const subjectRoot = "obj"

// MsgHandler receives an inbound broker message for a bound subject.
type MsgHandler func(subject string, data []byte, headers map[string]string)

// Conn is a minimal NATS-like subscriber interface decoupled from any
// concrete library. Users can provide a wrapper around their NATS
// connection to satisfy this. Subscribe returns an unsubscribe func.
type Conn interface {
	Subscribe(subject string, h MsgHandler) (func() error, error)
}

// Binding implements router.Binding over NATS subjects. An object path
// maps to a dotted subject under the "obj" root; a fallback bind adds a
// ">" wildcard subscription so every nested path routes to the same
// handler.
type Binding struct {
	Conn Conn

	mu   sync.Mutex
	subs map[string][]func() error // base path -> unsubscribe funcs
}

var _ router.Binding = (*Binding)(nil)

// New creates a new NATS binding instance with the provided connection.
func New(c Conn) *Binding {
	return &Binding{Conn: c, subs: make(map[string][]func() error)}
}

func (b *Binding) BindExact(base string, t *router.DispatchTable, iface *router.Interface) error {
	if b.Conn == nil {
		return fmt.Errorf("nats bind %q: %w", base, rerr.ErrNotConnected)
	}

	un, err := b.Conn.Subscribe(subjectForPath(base), dispatchHandler(t, iface))
	if err != nil {
		return fmt.Errorf("nats bind %q: %w", base, errors.Join(rerr.ErrBindingFailed, err))
	}

	b.record(base, un)

	return nil
}

func (b *Binding) BindFallback(base string, t *router.DispatchTable, iface *router.Interface) error {
	if b.Conn == nil {
		return fmt.Errorf("nats bind %q: %w", base, rerr.ErrNotConnected)
	}

	h := dispatchHandler(t, iface)

	// the base subject itself plus everything beneath it; ">" requires at
	// least one further token, so two subscriptions are needed
	unBase, err := b.Conn.Subscribe(subjectForPath(base), h)
	if err != nil {
		return fmt.Errorf("nats bind fallback %q: %w", base, errors.Join(rerr.ErrBindingFailed, err))
	}

	unTree, err := b.Conn.Subscribe(subjectForPath(base)+".>", h)
	if err != nil {
		_ = unBase()
		return fmt.Errorf("nats bind fallback %q: %w", base, errors.Join(rerr.ErrBindingFailed, err))
	}

	b.record(base, unBase, unTree)

	return nil
}

// Unbind releases every subscription bound at base, including those of a
// second registration sharing the same base path (a subtree and an exact
// registration may both bind it). Unbinding happens only during bulk
// teardown, where releasing all of a base's subscriptions at once is the
// intended outcome; subsequent calls for the same base are no-ops.
func (b *Binding) Unbind(base string) error {
	b.mu.Lock()
	uns := b.subs[base]
	delete(b.subs, base)
	b.mu.Unlock()

	var errs []error

	for _, un := range uns {
		if err := un(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (b *Binding) record(base string, uns ...func() error) {
	b.mu.Lock()
	b.subs[base] = append(b.subs[base], uns...)
	b.mu.Unlock()
}

func dispatchHandler(t *router.DispatchTable, iface *router.Interface) MsgHandler {
	return func(subject string, data []byte, headers map[string]string) {
		msg := router.Message{
			Path:    pathForSubject(subject),
			Member:  headers["member"],
			Body:    data,
			Headers: headers,
		}

		_ = t.OnMessage(context.Background(), msg, iface)
	}
}

// helpers

func subjectForPath(path string) string {
	if path == "/" {
		return subjectRoot
	}

	return subjectRoot + strings.ReplaceAll(path, "/", ".")
}

func pathForSubject(subject string) string {
	rest := strings.TrimPrefix(subject, subjectRoot)
	if rest == "" {
		return "/"
	}

	return strings.ReplaceAll(rest, ".", "/")
}
