// Package rabbitmq implements the transport binding over an AMQP topic
// exchange. Object paths map to dotted binding keys; a fallback bind uses
// a "#" wildcard key so the base path and every nested path route to one
// consumer.
package rabbitmq
