// Package config handles loading and parsing of configuration from YAML files
// and environment variables. It defines the simulation configuration structure
// including pool size, player count, concurrency limit, processing time bounds,
// strategy selection and output locations.
package config
