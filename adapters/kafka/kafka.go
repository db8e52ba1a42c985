package kafka

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	rerr "github.com/next-trace/scg-object-router/contract/errors"
	"github.com/next-trace/scg-object-router/contract/router"
)

const topicRoot = "obj"

// Record is one inbound Kafka record.
type Record struct {
	Topic   string
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// Consumer is a minimal Kafka-like consumer interface. Users can adapt
// franz-go or any other client to this. When regex is true, topic is a
// regular expression and the consumer follows every matching topic.
// The returned func stops consumption.
type Consumer interface {
	ConsumeTopic(topic string, regex bool, h func(r Record)) (func(), error)
}

// Binding implements router.Binding over Kafka topics. Kafka has no
// subject wildcards, so a fallback bind consumes by regular expression
// covering the base topic and every dotted descendant.
type Binding struct {
	Consumer Consumer

	mu    sync.Mutex
	stops map[string][]func() // base path -> stops
}

var _ router.Binding = (*Binding)(nil)

// New creates a new Kafka binding instance with the provided consumer.
func New(c Consumer) *Binding {
	return &Binding{Consumer: c, stops: make(map[string][]func())}
}

func (b *Binding) BindExact(base string, t *router.DispatchTable, iface *router.Interface) error {
	return b.bind(base, topicForPath(base), false, t, iface)
}

func (b *Binding) BindFallback(base string, t *router.DispatchTable, iface *router.Interface) error {
	return b.bind(base, subtreeRegexp(base), true, t, iface)
}

func (b *Binding) bind(base, topic string, regex bool, t *router.DispatchTable, iface *router.Interface) error {
	if b.Consumer == nil {
		return fmt.Errorf("kafka bind %q: %w", base, rerr.ErrNotConnected)
	}

	stop, err := b.Consumer.ConsumeTopic(topic, regex, func(r Record) {
		msg := router.Message{
			Path:    pathForTopic(r.Topic),
			Member:  r.Headers["member"],
			Body:    r.Value,
			Headers: r.Headers,
		}

		_ = t.OnMessage(context.Background(), msg, iface)
	})
	if err != nil {
		return fmt.Errorf("kafka bind %q: %w", base, errors.Join(rerr.ErrBindingFailed, err))
	}

	// a subtree and an exact registration may share the same base path, so
	// stops accumulate per base rather than overwriting
	b.mu.Lock()
	b.stops[base] = append(b.stops[base], stop)
	b.mu.Unlock()

	return nil
}

// Unbind stops every consumer bound at base. Unbinding happens only during
// bulk teardown, where releasing all of a base's consumers at once is the
// intended outcome; subsequent calls for the same base are no-ops.
func (b *Binding) Unbind(base string) error {
	b.mu.Lock()
	stops := b.stops[base]
	delete(b.stops, base)
	b.mu.Unlock()

	for _, stop := range stops {
		stop()
	}

	return nil
}

// helpers

func topicForPath(path string) string {
	if path == "/" {
		return topicRoot
	}

	return topicRoot + strings.ReplaceAll(path, "/", ".")
}

func pathForTopic(topic string) string {
	rest := strings.TrimPrefix(topic, topicRoot)
	if rest == "" {
		return "/"
	}

	return strings.ReplaceAll(rest, ".", "/")
}

// subtreeRegexp matches the base topic itself and every descendant topic.
func subtreeRegexp(base string) string {
	return "^" + regexp.QuoteMeta(topicForPath(base)) + `(\..+)?$`
}
