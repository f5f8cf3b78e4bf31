// Package bus specifies the message-bus client (spec.md §6): the
// transport a translator publishes unified-log lines to and a writer
// consumes them from, given only as an interface plus an in-memory
// implementation for tests. Real
// transports (Kafka, a log-structured queue) are out of scope per
// spec.md §1 and are expected to implement the same Bus interface.
package bus
