// Package events provides an in-process event bus for domain events.
//
// Services emit events such as a completed vocabulary ingestion or a graded
// review without knowing who consumes them. Handlers registered on the emitter
// receive every event; the audit handler writes one structured log line per
// event.
package events
