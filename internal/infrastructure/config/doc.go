// Package config loads and validates Fleet Core configuration.
//
// Configuration is read from a YAML file, with defaults applied first and
// FLEETCORE_* environment variables applied last. The loaded Config is
// constructed once in cmd/fleetcore and passed to the components that
// need it; nothing in this package holds global state.
package config
