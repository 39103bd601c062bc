// Package config loads the daemon's YAML configuration. Secrets are
// referenced as ${VAR} and expanded strictly from the environment at
// load time, so key material never sits in the file.
package config
