// Package dispatch coordinates one simulated request lifecycle: server
// selection, simulated processing delay, counter update and metrics record.
package dispatch
