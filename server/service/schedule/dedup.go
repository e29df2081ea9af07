package schedule

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// Fingerprint computes the stable identity of a save request from its
// content and resolved date/time. Identical tuples always produce identical
// fingerprints; the registration instant never participates in the digest.
func Fingerprint(content, date string, timeOfDay *string) string {
	timeStr := ""
	if timeOfDay != nil {
		timeStr = *timeOfDay
	}
	sum := sha256.Sum256([]byte(content + "|" + date + "|" + timeStr))
	return hex.EncodeToString(sum[:])
}

// dedupCache tracks recently seen fingerprints inside a sliding TTL window.
// Expired entries never match; they are purged lazily on access rather than
// by a background sweep.
type dedupCache struct {
	ttl time.Duration

	mu      sync.Mutex
	entries map[string]time.Time
}

func newDedupCache(ttl time.Duration) *dedupCache {
	return &dedupCache{
		ttl:     ttl,
		entries: make(map[string]time.Time),
	}
}

// checkAndRegister reports whether the fingerprint is fresh and, if so,
// registers it — as one atomic step, so two concurrent requests with the
// same fingerprint can never both be accepted.
func (c *dedupCache) checkAndRegister(fingerprint string, now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, recorded := range c.entries {
		if now.Sub(recorded) >= c.ttl {
			delete(c.entries, key)
		}
	}

	if recorded, ok := c.entries[fingerprint]; ok && now.Sub(recorded) < c.ttl {
		return false
	}
	c.entries[fingerprint] = now
	return true
}

// release rolls back a registration made by checkAndRegister when the
// append that followed it failed.
func (c *dedupCache) release(fingerprint string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, fingerprint)
}

// size returns the number of tracked fingerprints, expired or not.
func (c *dedupCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
