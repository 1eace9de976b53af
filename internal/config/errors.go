package config

import "errors"

// Sentinel kinds for config errors.
var (
	// ErrInvalidConfig marks a loaded configuration that failed validation.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrLoadConfig marks a failure in one of the configuration layers
	// (file parse, env read, unmarshal).
	ErrLoadConfig = errors.New("load config failed")
)
