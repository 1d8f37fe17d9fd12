// Package config loads, normalizes, and validates the papercast TOML
// configuration.
//
// Configuration is read from ~/.config/papercast/config.toml by default, with
// a papercast.toml in the working directory as a fallback. Secrets (Gemini
// API key, Supabase service key) may come from environment variables instead
// of the file. All path fields are tilde-expanded and made absolute during
// load, so downstream code never deals with relative paths.
package config
