// Package metrics provides the dispatch record type and a thread-safe
// append-only sink.
//
// Every successfully dispatched request yields exactly one record in the
// sink; records are never mutated, lost, or duplicated under concurrent
// appends. The sink stores records in completion order and exposes them
// via Drain for reporting once dispatch activity has finished.
package metrics
