package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for in-process caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// PairKey generates a cache key for an ordered pair of slide texts
// judged by the named provider
func PairKey(provider, textA, textB string) string {
	h := sha256.New()
	h.Write([]byte(provider))
	h.Write([]byte{0})
	h.Write([]byte(textA))
	h.Write([]byte{0})
	h.Write([]byte(textB))
	return "decklint:v1:" + hex.EncodeToString(h.Sum(nil))
}
