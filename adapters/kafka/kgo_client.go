//go:build franz

package kafka

import (
	"context"
	"crypto/tls"
	"fmt"
	"sync"

	rerr "github.com/next-trace/scg-object-router/contract/errors"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Concrete franz-go based constructor and consumer wrapper.

type Config struct {
	Brokers  []string
	TLS      *tls.Config
	ClientID string
	Group    string
}

type kgoConsumer struct {
	cfg Config

	mu      sync.Mutex
	clients []*kgo.Client
	closed  bool
}

func (c *kgoConsumer) ConsumeTopic(topic string, regex bool, h func(r Record)) (func(), error) {
	opts := []kgo.Opt{kgo.SeedBrokers(c.cfg.Brokers...), kgo.ConsumeTopics(topic)}
	if regex {
		opts = append(opts, kgo.ConsumeRegex())
	}
	if c.cfg.ClientID != "" {
		opts = append(opts, kgo.ClientID(c.cfg.ClientID))
	}
	if c.cfg.TLS != nil {
		opts = append(opts, kgo.DialTLSConfig(c.cfg.TLS))
	}
	if c.cfg.Group != "" {
		opts = append(opts, kgo.ConsumerGroup(c.cfg.Group))
	}

	cl, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		cl.Close()
		return nil, fmt.Errorf("%w: kafka consumer closed", rerr.ErrNotConnected)
	}
	c.clients = append(c.clients, cl)
	c.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		for {
			fetches := cl.PollFetches(ctx)
			if fetches.IsClientClosed() || ctx.Err() != nil {
				return
			}
			fetches.EachRecord(func(rec *kgo.Record) {
				var headers map[string]string
				if len(rec.Headers) > 0 {
					headers = make(map[string]string, len(rec.Headers))
					for _, hd := range rec.Headers {
						headers[hd.Key] = string(hd.Value)
					}
				}
				h(Record{Topic: rec.Topic, Key: rec.Key, Value: rec.Value, Headers: headers})
			})
		}
	}()

	stop := func() {
		cancel()
		cl.Close()
	}
	return stop, nil
}

func (c *kgoConsumer) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	for _, cl := range c.clients {
		cl.Close()
	}
	c.clients = nil
}

// NewWithKgo builds a franz-go backed Binding. The returned cleanup should be called to close all consumers.
func NewWithKgo(cfg Config) (*Binding, func(), error) {
	if len(cfg.Brokers) == 0 {
		return nil, nil, fmt.Errorf("%w: kafka brokers required", rerr.ErrNotConnected)
	}
	kc := &kgoConsumer{cfg: cfg}
	b := New(kc)
	cleanup := func() { kc.close() }
	return b, cleanup, nil
}
