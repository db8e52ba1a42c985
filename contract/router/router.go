package router

import "context"

// HandlerFunc is the message entry point of a registered interface.
// It is invoked by the dispatch/marshalling layer once the routing core
// has resolved the target interface for an arrived message.
type HandlerFunc func(ctx context.Context, msg Message) error

// Meta describes a registrable interface: its bus-visible name and the
// members it exposes. Every vtable must carry a Meta; registration is
// rejected without one.
type Meta struct {
	Name    string
	Methods []string
}

// VTable is the capability set of a registered interface: required
// metadata plus the message-handling entry point.
type VTable struct {
	Meta   *Meta
	Invoke HandlerFunc
}

// Interface is a handler registration bound to one object path, exact or
// subtree. It is owned by the registry once registered; callers must not
// mutate it afterwards.
type Interface struct {
	// Path is the registration path as given, including any trailing
	// subtree marker ("/*").
	Path string

	// VTable is the handler capability set supplied at registration.
	VTable *VTable

	// InstanceData is opaque per-registration context handed through to
	// the handler entry point by the dispatch layer.
	InstanceData any
}

// Message is the minimal shape of an arrived bus message that a transport
// hands to the dispatch table. Body decoding belongs to the marshalling
// layer, not to this module.
type Message struct {
	Path    string
	Member  string
	Body    []byte
	Headers map[string]string
}
