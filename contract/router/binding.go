package router

import "context"

// DispatchTable is the fixed set of callbacks a transport invokes for a
// bound path. One process-wide instance serves every bind, exact and
// fallback alike; per-registration state travels in the *Interface handed
// to the bind call, not in the table.
type DispatchTable struct {
	// OnMessage delivers an arrived message together with the interface
	// the binding was created for.
	OnMessage func(ctx context.Context, msg Message, iface *Interface) error
}

// Binding abstracts the transport-level path registration of a bus
// connection. Implementations map base paths onto whatever addressing the
// transport uses (NATS subjects, AMQP binding keys, Kafka topics, ...).
//
// BindExact registers a single path; BindFallback registers a path and the
// whole subtree beneath it. Both receive a stable reference to the
// registered interface so that message delivery can recover which
// registration it belongs to. Unbind releases whatever BindExact or
// BindFallback created for basePath.
type Binding interface {
	BindExact(basePath string, table *DispatchTable, iface *Interface) error
	BindFallback(basePath string, table *DispatchTable, iface *Interface) error
	Unbind(basePath string) error
}
