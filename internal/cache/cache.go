package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Cache defines the interface for caching serialized API responses.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// SearchKey derives a cache key from the parameters of a fact-check search.
// Searches with identical parameters share an entry.
func SearchKey(query, language, pageToken string, pageSize int) string {
	raw := fmt.Sprintf("%s\x00%s\x00%s\x00%d", query, language, pageToken, pageSize)
	hash := sha256.Sum256([]byte(raw))
	return "truthshield:v1:" + hex.EncodeToString(hash[:])
}
