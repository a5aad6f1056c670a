// Package config loads, normalizes, and validates the TOML configuration
// for the glimpse daemon and CLI.
//
// Load resolves the config path (explicit flag, then
// ~/.config/glimpse/config.toml, then ./glimpse.toml), decodes it over the
// repository defaults, expands ~ in paths, and validates the result. A
// missing file is not an error; defaults apply.
package config
