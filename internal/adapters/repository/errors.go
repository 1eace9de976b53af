package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound       = errors.New("entity not found")
	ErrMissingName    = errors.New("missing name")
	ErrMissingTrack   = errors.New("missing track")
	ErrMissingRef     = errors.New("missing project or judge reference")
	ErrUnknownProject = errors.New("unknown project reference")
	ErrUnknownJudge   = errors.New("unknown judge reference")
)
