// Package config loads, normalizes, and validates slotter configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob
// the build pipeline and CLI need: source and output directories, keyspace
// floor, encoder settings, and the publishing surface used by routing-rule
// generation.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical modes, and clear validation errors.
package config
