// Package driver runs the simulation: it generates player requests,
// dispatches them with bounded concurrency, tracks the run's lifecycle
// (idle, running, draining, completed) and flushes collected metrics on
// completion.
package driver
