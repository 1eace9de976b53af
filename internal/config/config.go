// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8090".
	Addr string `koanf:"addr"`

	// DataFile optionally preloads the store from a JSON snapshot.
	DataFile string `koanf:"data_file"`

	// LocalStorePath is where client sessions persist their fallback
	// snapshot.
	LocalStorePath string `koanf:"local_store_path"`

	// RequestTimeoutMS bounds each gateway round trip on the client side.
	RequestTimeoutMS int `koanf:"request_timeout_ms"`

	// MaxProjectBatch caps the number of projects accepted by one
	// batch-create call.
	MaxProjectBatch int `koanf:"max_project_batch"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		Addr:             ":8090",
		DataFile:         "",
		LocalStorePath:   "jury-local.json",
		RequestTimeoutMS: 10_000,
		MaxProjectBatch:  500,
	}
}
