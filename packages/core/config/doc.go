// Package config handles configuration loading and management for xhrmock.
//
// It provides functionality for:
//   - Loading configuration from .xhrmock.config.json, xhrmock.config.json or .xhrmockrc
//   - Default configuration values
//   - Merging command line overrides over file values
package config
