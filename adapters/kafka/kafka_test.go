package kafka_test

import (
	"errors"
	"regexp"
	"testing"

	"github.com/next-trace/scg-object-router/adapters/kafka"
	rerr "github.com/next-trace/scg-object-router/contract/errors"
	"github.com/next-trace/scg-object-router/contract/router"
)

// Unified Kafka adapter tests (single file).

type consumeCall struct {
	topic   string
	regex   bool
	handler func(r kafka.Record)
	stopped bool
}

type fakeConsumer struct {
	calls []*consumeCall
	err   error
}

func (f *fakeConsumer) ConsumeTopic(topic string, regex bool, h func(r kafka.Record)) (func(), error) {
	if f.err != nil {
		return nil, f.err
	}

	c := &consumeCall{topic: topic, regex: regex, handler: h}
	f.calls = append(f.calls, c)

	return func() { c.stopped = true }, nil
}

func table(paths *[]string) *router.DispatchTable {
	return &router.DispatchTable{
		OnMessage: func(ctx router.Context, msg router.Message, iface *router.Interface) error {
			*paths = append(*paths, msg.Path)
			return nil
		},
	}
}

func Test_BindExact_TopicMapping(t *testing.T) {
	fc := &fakeConsumer{}
	b := kafka.New(fc)

	var seen []string

	if err := b.BindExact("/org/foo", table(&seen), &router.Interface{Path: "/org/foo"}); err != nil {
		t.Fatalf("bind: %v", err)
	}

	if len(fc.calls) != 1 || fc.calls[0].topic != "obj.org.foo" || fc.calls[0].regex {
		t.Fatalf("unexpected consume calls: %+v", fc.calls)
	}

	fc.calls[0].handler(kafka.Record{Topic: "obj.org.foo", Value: []byte("{}")})

	if len(seen) != 1 || seen[0] != "/org/foo" {
		t.Fatalf("dispatched paths: %v", seen)
	}
}

func Test_BindFallback_RegexCoverage(t *testing.T) {
	fc := &fakeConsumer{}
	b := kafka.New(fc)

	if err := b.BindFallback("/org/foo", table(new([]string)), &router.Interface{Path: "/org/foo/*"}); err != nil {
		t.Fatalf("bind: %v", err)
	}

	call := fc.calls[0]
	if !call.regex {
		t.Fatalf("fallback must consume by regex")
	}

	re := regexp.MustCompile(call.topic)

	covered := []string{"obj.org.foo", "obj.org.foo.bar", "obj.org.foo.bar.baz"}
	for _, topic := range covered {
		if !re.MatchString(topic) {
			t.Fatalf("regex %q must cover %q", call.topic, topic)
		}
	}

	// a sibling prefix must not match
	if re.MatchString("obj.org.foobar") {
		t.Fatalf("regex %q must not cover sibling prefix", call.topic)
	}
}

func Test_Unbind(t *testing.T) {
	fc := &fakeConsumer{}
	b := kafka.New(fc)

	_ = b.BindExact("/a", table(new([]string)), &router.Interface{Path: "/a"})

	if err := b.Unbind("/a"); err != nil {
		t.Fatalf("unbind: %v", err)
	}

	if !fc.calls[0].stopped {
		t.Fatalf("consumer not stopped")
	}

	if err := b.Unbind("/never/bound"); err != nil {
		t.Fatalf("unbind unknown: %v", err)
	}
}

func Test_Unbind_SharedBase(t *testing.T) {
	fc := &fakeConsumer{}
	b := kafka.New(fc)

	// a subtree and an exact registration both bind base /x
	_ = b.BindFallback("/x", table(new([]string)), &router.Interface{Path: "/x/*"})
	_ = b.BindExact("/x", table(new([]string)), &router.Interface{Path: "/x"})

	if len(fc.calls) != 2 {
		t.Fatalf("want 2 consume calls, got %d", len(fc.calls))
	}

	// teardown unbinds the base once per registry entry
	if err := b.Unbind("/x"); err != nil {
		t.Fatalf("unbind: %v", err)
	}

	if err := b.Unbind("/x"); err != nil {
		t.Fatalf("second unbind: %v", err)
	}

	for _, c := range fc.calls {
		if !c.stopped {
			t.Fatalf("consumer for topic %q leaked after teardown", c.topic)
		}
	}
}

func Test_BindErrors(t *testing.T) {
	b := kafka.New(nil)

	err := b.BindExact("/a", table(new([]string)), &router.Interface{Path: "/a"})
	if !errors.Is(err, rerr.ErrNotConnected) {
		t.Fatalf("want ErrNotConnected, got %v", err)
	}

	fc := &fakeConsumer{err: errors.New("no brokers")}
	b = kafka.New(fc)

	err = b.BindFallback("/a", table(new([]string)), &router.Interface{Path: "/a/*"})
	if !errors.Is(err, rerr.ErrBindingFailed) {
		t.Fatalf("want ErrBindingFailed, got %v", err)
	}
}
