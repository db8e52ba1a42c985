package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	rerr "github.com/next-trace/scg-object-router/contract/errors"
	"github.com/next-trace/scg-object-router/contract/router"
)

const keyRoot = "obj"

// Delivery is one inbound message from the broker.
type Delivery struct {
	RoutingKey string
	Body       []byte
	Headers    map[string]string
}

// Channel is a minimal AMQP-like interface decoupled from any concrete
// library. Consume binds a key on the topic exchange and starts a consumer
// whose deliveries are passed to h; the returned func cancels the consumer
// and releases the binding.
type Channel interface {
	Consume(key string, h func(d Delivery)) (func() error, error)
}

// Binding implements router.Binding over an AMQP topic exchange. Unlike
// NATS, the "#" wildcard matches zero or more words, so a single "key.#"
// binding covers the base path and its whole subtree.
type Binding struct {
	Channel Channel

	mu        sync.Mutex
	consumers map[string][]func() error // base path -> cancels
}

var _ router.Binding = (*Binding)(nil)

// New creates a new RabbitMQ binding instance with the provided channel.
func New(ch Channel) *Binding {
	return &Binding{Channel: ch, consumers: make(map[string][]func() error)}
}

func (b *Binding) BindExact(base string, t *router.DispatchTable, iface *router.Interface) error {
	return b.bind(base, keyForPath(base), t, iface)
}

func (b *Binding) BindFallback(base string, t *router.DispatchTable, iface *router.Interface) error {
	return b.bind(base, keyForPath(base)+".#", t, iface)
}

func (b *Binding) bind(base, key string, t *router.DispatchTable, iface *router.Interface) error {
	if b.Channel == nil {
		return fmt.Errorf("rabbitmq bind %q: %w", base, rerr.ErrNotConnected)
	}

	cancel, err := b.Channel.Consume(key, func(d Delivery) {
		msg := router.Message{
			Path:    pathForKey(d.RoutingKey),
			Member:  d.Headers["member"],
			Body:    d.Body,
			Headers: d.Headers,
		}

		_ = t.OnMessage(context.Background(), msg, iface)
	})
	if err != nil {
		return fmt.Errorf("rabbitmq bind %q: %w", base, errors.Join(rerr.ErrBindingFailed, err))
	}

	// a subtree and an exact registration may share the same base path, so
	// cancels accumulate per base rather than overwriting
	b.mu.Lock()
	b.consumers[base] = append(b.consumers[base], cancel)
	b.mu.Unlock()

	return nil
}

// Unbind cancels every consumer bound at base. Unbinding happens only
// during bulk teardown, where releasing all of a base's consumers at once
// is the intended outcome; subsequent calls for the same base are no-ops.
func (b *Binding) Unbind(base string) error {
	b.mu.Lock()
	cancels := b.consumers[base]
	delete(b.consumers, base)
	b.mu.Unlock()

	var errs []error

	for _, cancel := range cancels {
		if err := cancel(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// helpers

func keyForPath(path string) string {
	if path == "/" {
		return keyRoot
	}

	return keyRoot + strings.ReplaceAll(path, "/", ".")
}

func pathForKey(key string) string {
	rest := strings.TrimPrefix(key, keyRoot)
	if rest == "" {
		return "/"
	}

	return strings.ReplaceAll(rest, ".", "/")
}
