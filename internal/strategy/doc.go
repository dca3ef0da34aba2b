// Package strategy defines the server selection interface and implements
// the available algorithms:
//
//   - Round Robin: strictly cyclic assignment via a shared atomic cursor
//   - Random: uniformly random server selection
//
// Both strategies operate on server indices into a fixed-size pool and are
// safe for concurrent use.
package strategy
