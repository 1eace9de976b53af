// Package ids mints entity identifiers. Server-minted and locally-minted ids
// live in disjoint namespaces so offline-created entities can never collide
// with authoritative ones.
package ids

import (
	"strings"

	"github.com/google/uuid"
)

// Namespace prefixes. An id carries the prefix of the store that minted it.
const (
	serverPrefix = "srv-"
	localPrefix  = "loc-"
)

// NewServerID mints an identifier in the authoritative-store namespace.
func NewServerID() string {
	return serverPrefix + uuid.New().String()
}

// NewLocalID mints an identifier in the fallback-store namespace.
func NewLocalID() string {
	return localPrefix + uuid.New().String()
}

// IsLocal reports whether id was minted by a fallback store.
func IsLocal(id string) bool {
	return strings.HasPrefix(id, localPrefix)
}
