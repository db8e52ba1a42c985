/*
Package objectrouter provides the object-path registry and dispatch routing of a
bus endpoint. It validates registrations, keeps the transport-level bindings in
lockstep with the registry, and resolves arrived paths to a single registered
interface, while remaining decoupled from concrete transports via interfaces.
*/
package objectrouter
