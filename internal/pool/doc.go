// Package pool implements the fixed-size pool of simulated game servers.
// It provides per-server request counting, cumulative and EWMA response
// time tracking, and consistent snapshots for reporting.
package pool
