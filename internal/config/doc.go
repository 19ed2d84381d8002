// Package config loads lingo-api settings from defaults, an optional
// config.yaml, LINGO_* environment variables and explicitly set command-line
// flags, in increasing order of precedence, and validates the result.
package config
