// Package config provides the configuration for SitePulse: the audit API
// credential and endpoint, the storage backend, the HTTP API server and the
// export sinks.
//
// Values are layered: NewConfig defaults, then the optional .sitepulse YAML
// file, then environment variables, then command-line flags. The API key has
// one more fallback, the settings object persisted in the key-value store.
package config
