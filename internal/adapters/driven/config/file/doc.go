// Package file provides the TOML configuration file for the pipeline.
// Configuration lives at ~/.docqa/config.toml by default; a missing
// file yields the defaults.
package file
