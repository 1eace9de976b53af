package gateway

import "errors"

// Sentinel kinds for gateway errors. These allow errors.Is from callers.
var (
	// ErrUnavailable marks transport/connectivity failures; the session
	// controller treats it as the trigger for fallback mode.
	ErrUnavailable = errors.New("store unavailable")

	// ErrNotFound marks update/delete operations referencing an unknown
	// identifier. No state is mutated when it is returned.
	ErrNotFound = errors.New("entity not found")
)
