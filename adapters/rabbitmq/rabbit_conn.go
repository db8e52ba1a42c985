package rabbitmq

import (
	"fmt"
	"sync/atomic"
	"time"

	rerr "github.com/next-trace/scg-object-router/contract/errors"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Concrete AMQP connection-backed Channel and constructor.

const (
	objectExchange   = "objects"
	objectExchangeTy = "topic"
)

type Config struct {
	URL         string
	ConnTimeout time.Duration
}

type amqpChannel struct {
	ch     *amqp.Channel
	tagSeq atomic.Uint64
}

func (c *amqpChannel) Consume(key string, h func(d Delivery)) (func() error, error) {
	// one exclusive, auto-delete queue per bound key
	q, err := c.ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return nil, err
	}

	if err := c.ch.QueueBind(q.Name, key, objectExchange, false, nil); err != nil {
		return nil, err
	}

	tag := fmt.Sprintf("objrouter-%d", c.tagSeq.Add(1))

	deliveries, err := c.ch.Consume(q.Name, tag, true, true, false, false, nil)
	if err != nil {
		_ = c.ch.QueueUnbind(q.Name, key, objectExchange, nil)
		return nil, err
	}

	go func() {
		for d := range deliveries {
			var headers map[string]string
			if len(d.Headers) > 0 {
				headers = make(map[string]string, len(d.Headers))
				for k, v := range d.Headers {
					if s, ok := v.(string); ok {
						headers[k] = s
					}
				}
			}

			h(Delivery{RoutingKey: d.RoutingKey, Body: d.Body, Headers: headers})
		}
	}()

	cancel := func() error {
		if err := c.ch.Cancel(tag, false); err != nil {
			return err
		}

		return c.ch.QueueUnbind(q.Name, key, objectExchange, nil)
	}

	return cancel, nil
}

// NewWithAMQP dials RabbitMQ, ensures the object topic exchange, and
// returns a Binding and a cleanup.
func NewWithAMQP(cfg Config) (*Binding, func(), error) {
	if cfg.URL == "" {
		return nil, nil, fmt.Errorf("%w: rabbitmq url required", rerr.ErrNotConnected)
	}

	conn, err := amqp.DialConfig(cfg.URL, amqp.Config{
		Locale:     "en_US",
		Properties: amqp.Table{"product": "scg-object-router"},
		Dial:       amqp.DefaultDial(cfg.ConnTimeout),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%w: rabbitmq connect: %w", rerr.ErrNotConnected, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("%w: rabbitmq channel: %w", rerr.ErrNotConnected, err)
	}

	if err := ch.ExchangeDeclare(objectExchange, objectExchangeTy, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()

		return nil, nil, fmt.Errorf("%w: rabbitmq exchange: %w", rerr.ErrNotConnected, err)
	}

	b := New(&amqpChannel{ch: ch})
	cleanup := func() {
		_ = ch.Close()
		_ = conn.Close()
	}

	return b, cleanup, nil
}
