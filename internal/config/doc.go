// Package config loads, normalizes, and validates trackmux configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// AWS_ACCESS_KEY_ID. The Config type centralizes the knobs the CLI and the
// local composer need: where media lands, how jobs are executed, which storage
// backend owns relocated tracks, and how logs are shaped.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
