package session

import "errors"

// Sentinel kinds for session errors.
var (
	// ErrNotConfirmed rejects destructive operations invoked without an
	// affirmative confirmation token.
	ErrNotConfirmed = errors.New("destructive operation not confirmed")

	// ErrNoJudge rejects judge-scoped operations before a judge login.
	ErrNoJudge = errors.New("no judge bound to session")

	// ErrUnknownJudge rejects login against an identifier missing from the
	// snapshot.
	ErrUnknownJudge = errors.New("unknown judge")

	// ErrNoStore marks a session constructed with neither a remote gateway
	// nor a fallback store.
	ErrNoStore = errors.New("no backing store configured")
)
