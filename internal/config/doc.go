// Package config loads, normalizes, and validates bdsample configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the BDSAMPLE_TARGET_DIR
// environment fallback. The Config type centralizes every knob the CLI and the
// extraction engine need: where samples land, how large stream samples are,
// how the catalog scan reacts to damaged files, and how logs are written.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
