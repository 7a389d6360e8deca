// Package cache memoizes explanation responses by document content hash.
// The engine itself is cache-key-agnostic; key derivation lives here with
// the surrounding service glue.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Cache is the collaborator interface the service consumes. Values are
// opaque bytes (marshaled explanations).
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives the cache key for a document: a versioned prefix plus the
// SHA-256 of the trimmed text, so identical documents share an entry
// without the text itself ever appearing in a key or filename.
func Key(docText string) string {
	hash := sha256.Sum256([]byte(strings.TrimSpace(docText)))
	return "simpledoc:v1:" + hex.EncodeToString(hash[:])
}
