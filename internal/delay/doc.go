// Package delay provides injectable samplers for simulated processing
// latency. The uniform sampler stands in for real network and processing
// time; the fixed sampler makes runs reproducible.
package delay
