// Package report turns drained dispatch records and pool snapshots into
// CSV exports and human-readable summary statistics.
package report
